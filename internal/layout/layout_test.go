package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_UnknownClass(t *testing.T) {
	_, status := For(InfoClass(999))
	assert.True(t, status.IsError())
}

func TestWriteName_RoundTrip(t *testing.T) {
	d, status := For(FileNames)
	require.False(t, status.IsError())

	buf := make([]byte, 256)
	written := d.WriteName(buf, "readme.txt", len(buf))
	assert.Equal(t, len("readme.txt")*2, written)

	size := d.SizeOf(buf)
	assert.Equal(t, d.FileNameAt+written, size)
	assert.Equal(t, "readme.txt", d.ReadName(buf[:size]))
	assert.Equal(t, uint32(size), d.ReadNextEntryOffset(buf))
}

func TestWriteName_TruncatesWhenBufferTooSmall(t *testing.T) {
	d, status := For(FileNames)
	require.False(t, status.IsError())

	name := "averyveryverylongfilename.dat"
	cap := d.FileNameAt + 6 // room for 3 UTF-16 code units only
	buf := make([]byte, cap)

	written := d.WriteName(buf, name, cap)
	assert.Equal(t, 6, written)
	// The length field records how much the name WOULD need, not what fit.
	assert.Equal(t, uint32(len(name)*2), d.ReadNameLength(buf))
}

func TestAllClasses_HaveConsistentOffsets(t *testing.T) {
	classes := []InfoClass{
		FileDirectory, FileFullDirectory, FileBothDirectory, FileNames,
		FileIdBothDirectory, FileIdFullDirectory, FileIdGlobalTxDirectory,
		FileIdExtdDirectory, FileIdExtdBothDirectory,
	}
	for _, c := range classes {
		d, status := For(c)
		require.False(t, status.IsError())
		assert.Equal(t, d.BaseSize, d.FileNameAt, "FileNameAt must equal BaseSize for class %v", c)
		assert.True(t, d.FileNameLengthAt < d.FileNameAt, "class %v", c)
	}
}
