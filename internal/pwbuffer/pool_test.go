package pwbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_AllocateReturnsRequestedSize(t *testing.T) {
	p := New(1024)
	buf := p.Allocate()
	require.Len(t, buf, 1024)
}

func TestPool_FreeRecyclesBuffer(t *testing.T) {
	p := New(64)
	buf := p.Allocate()
	buf[0] = 0xAB
	p.Free(buf)

	again := p.Allocate()
	assert.Len(t, again, 64)
}

func TestPool_FreeBeyondCapacityIsDiscardedSilently(t *testing.T) {
	p := New(16)
	var bufs [][]byte
	for i := 0; i < maxPoolSize+allocationGranularity+1; i++ {
		bufs = append(bufs, p.Allocate())
	}
	for _, b := range bufs {
		p.Free(b)
	}
	assert.LessOrEqual(t, len(p.available), maxPoolSize)
}
