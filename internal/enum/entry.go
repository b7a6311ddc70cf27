package enum

import (
	"unicode/utf16"

	"github.com/samuelgr/pathwinder/internal/layout"
)

// metadataOffset is the byte offset at which class-specific metadata begins
// in every descriptor: NextEntryOffset (4 bytes) followed by FileIndex (4
// bytes) are common to every class in the menu (spec §4.5).
const metadataOffset = 8

// render serializes e into dest using class's layout, writing at most cap
// bytes and returning the number of bytes written. It rebuilds a standalone
// record each time rather than replaying a captured raw buffer, because a
// merged queue reorders entries relative to whatever batch produced them,
// so a stale next-entry-offset chain from the source batch would be wrong.
func (e Entry) render(dest []byte, cap int, class layout.InfoClass) int {
	d, status := layout.For(class)
	if status.IsError() {
		return 0
	}
	if len(dest) < d.FileNameLengthAt+4 || cap < d.FileNameLengthAt+4 {
		// Not even the fixed-size header fits; nothing to write.
		return 0
	}

	need := d.BaseSize
	if need > cap {
		need = cap
	}
	if need > len(dest) {
		need = len(dest)
	}
	for i := range dest[:need] {
		dest[i] = 0
	}

	metaEnd := d.FileNameLengthAt
	if metaEnd > need {
		metaEnd = need
	}
	if metadataOffset < metaEnd {
		copy(dest[metadataOffset:metaEnd], e.Metadata)
	}

	return d.WriteName(dest, e.Name, cap) + d.FileNameAt
}

// size returns the full footprint render would produce given unlimited
// capacity.
func (e Entry) size(class layout.InfoClass) int {
	d, status := layout.For(class)
	if status.IsError() {
		return 0
	}
	return d.FileNameAt + 2*len(utf16.Encode([]rune(e.Name)))
}
