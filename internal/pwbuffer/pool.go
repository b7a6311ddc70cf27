// Package pwbuffer maintains a pool of fixed-size scratch buffers used for
// directory-enumeration and metadata-query calls, grounded on the original
// implementation's BufferPool: a LIFO stack that grows by a fixed batch
// whenever exhausted and stops returning buffers to the pool once it holds
// a fixed maximum.
package pwbuffer

import "github.com/jacobsa/syncutil"

const (
	// DefaultBufferSize is the size, in bytes, of each pooled buffer: large
	// enough for a single PartialEnumerateDirectoryContents batch.
	DefaultBufferSize = 64 * 1024

	// allocationGranularity is how many buffers to allocate at once
	// whenever the pool runs dry.
	allocationGranularity = 4

	// maxPoolSize is how many free buffers the pool holds onto; anything
	// returned beyond that is simply dropped for the garbage collector.
	maxPoolSize = 16
)

// Pool hands out fixed-size byte slices and recycles them on Free. The zero
// value is not usable; construct with New.
type Pool struct {
	mu         syncutil.InvariantMutex
	bufferSize int
	available  [][]byte
}

// New creates a Pool whose buffers are bufferSize bytes each.
func New(bufferSize int) *Pool {
	p := &Pool{bufferSize: bufferSize}
	p.mu = syncutil.NewInvariantMutex(p.checkInvariants)
	p.mu.Lock()
	p.allocateMore()
	p.mu.Unlock()
	return p
}

func (p *Pool) checkInvariants() {
	if len(p.available) > maxPoolSize {
		panic("pwbuffer: pool exceeds its maximum size")
	}
}

// allocateMore grows the available list by allocationGranularity buffers,
// capped at maxPoolSize. Callers must hold p.mu.
func (p *Pool) allocateMore() {
	for i := 0; i < allocationGranularity && len(p.available) < maxPoolSize; i++ {
		p.available = append(p.available, make([]byte, p.bufferSize))
	}
}

// Allocate returns a buffer of bufferSize bytes for the caller to use.
func (p *Pool) Allocate() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.available) == 0 {
		p.allocateMore()
	}
	if len(p.available) == 0 {
		return make([]byte, p.bufferSize)
	}
	last := len(p.available) - 1
	buf := p.available[last]
	p.available = p.available[:last]
	return buf
}

// Free returns buf to the pool once the caller is finished with it. Buffers
// beyond maxPoolSize are simply discarded.
func (p *Pool) Free(buf []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.available) >= maxPoolSize {
		return
	}
	p.available = append(p.available, buf)
}
