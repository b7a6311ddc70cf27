// Package layout implements the File-Information Layout Engine (spec §4.5):
// a schema-driven reader/writer for the variable-length, trailing-filename
// record formats used by the native directory-information API. A
// Descriptor is an offset table, never a language struct overlaying the
// byte region — spec §9 is explicit that the trailing name field is
// inherently dynamic-length and that modeling it as a fixed struct with a
// "last-element array" is a source of error.
package layout

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

// InfoClass identifies one of the fixed menu of directory-information
// record layouts the core recognizes (spec §6).
type InfoClass int

const (
	FileDirectory InfoClass = iota
	FileFullDirectory
	FileBothDirectory
	FileNames
	FileIdBothDirectory
	FileIdFullDirectory
	FileIdGlobalTxDirectory
	FileIdExtdDirectory
	FileIdExtdBothDirectory
)

// Descriptor captures, for one InfoClass, the base record size and the byte
// offsets of the three fields every class shares: next-entry-offset,
// file-name-length, and the trailing file-name field itself (spec §4.5).
type Descriptor struct {
	// BaseSize is the size of the record excluding the trailing name, i.e.
	// the offset at which the name field begins plus zero name bytes.
	BaseSize int
	// NextEntryOffsetAt is the byte offset of the uint32 next-entry-offset
	// field.
	NextEntryOffsetAt int
	// FileNameLengthAt is the byte offset of the uint32 file-name-length
	// field (length is in bytes of UTF-16 data, not characters).
	FileNameLengthAt int
	// FileNameAt is the byte offset at which the trailing, variable-length
	// UTF-16 file name begins. It always equals BaseSize.
	FileNameAt int
}

// descriptors is the fixed menu from spec §6. Offsets below mirror the
// native FILE_*_INFORMATION structures: every class begins with
// NextEntryOffset (offset 0) and FileIndex (offset 4), and ends with
// FileNameLength followed immediately by FileName[]. The classes differ
// only in how much class-specific metadata sits between FileIndex and
// FileNameLength.
var descriptors = map[InfoClass]Descriptor{
	// FileDirectoryInformation: +Dates(32)+EndOfFile(8)+AllocationSize(8)+FileAttributes(4) = 64 before FileNameLength
	FileDirectory: {BaseSize: 64 + 4, NextEntryOffsetAt: 0, FileNameLengthAt: 60, FileNameAt: 64},
	// FileFullDirInformation: adds EaSize(4) after FileAttributes.
	FileFullDirectory: {BaseSize: 68 + 4, NextEntryOffsetAt: 0, FileNameLengthAt: 64, FileNameAt: 68},
	// FileBothDirInformation: adds EaSize(4) + ShortNameLength(1) + padding(1) + ShortName(24).
	FileBothDirectory: {BaseSize: 94 + 4, NextEntryOffsetAt: 0, FileNameLengthAt: 90, FileNameAt: 94},
	// FileNamesInformation: only NextEntryOffset, FileIndex, FileNameLength.
	FileNames: {BaseSize: 8 + 4, NextEntryOffsetAt: 0, FileNameLengthAt: 8, FileNameAt: 12},
	// FileIdBothDirInformation: FileBothDirInformation plus FileId(8).
	FileIdBothDirectory: {BaseSize: 102 + 8, NextEntryOffsetAt: 0, FileNameLengthAt: 90, FileNameAt: 104},
	// FileIdFullDirInformation: FileFullDirInformation plus FileId(8).
	FileIdFullDirectory: {BaseSize: 76 + 8, NextEntryOffsetAt: 0, FileNameLengthAt: 64, FileNameAt: 80},
	// FileIdGlobalTxDirInformation: FileId variant with transaction metadata.
	FileIdGlobalTxDirectory: {BaseSize: 88 + 16, NextEntryOffsetAt: 0, FileNameLengthAt: 64, FileNameAt: 104},
	// FileIdExtdDirInformation: FileFullDirInformation plus a 16-byte
	// ReparsePointTag/object-id style extension and a 16-byte file ID.
	FileIdExtdDirectory: {BaseSize: 80 + 16 + 16, NextEntryOffsetAt: 0, FileNameLengthAt: 64, FileNameAt: 112},
	// FileIdExtdBothDirInformation: the above plus the short-name fields.
	FileIdExtdBothDirectory: {BaseSize: 112 + 16 + 16, NextEntryOffsetAt: 0, FileNameLengthAt: 90, FileNameAt: 144},
}

// For reports the descriptor for class, and InvalidInfoClass if class is not
// one of the recognized menu entries (spec §6).
func For(class InfoClass) (Descriptor, pwstatus.Code) {
	d, ok := descriptors[class]
	if !ok {
		return Descriptor{}, pwstatus.InvalidInfoClass
	}
	return d, pwstatus.Success
}

// ReadNextEntryOffset reads the next-entry-offset field of rec.
func (d Descriptor) ReadNextEntryOffset(rec []byte) uint32 {
	return binary.LittleEndian.Uint32(rec[d.NextEntryOffsetAt:])
}

// WriteNextEntryOffset writes v into the next-entry-offset field of rec.
func (d Descriptor) WriteNextEntryOffset(rec []byte, v uint32) {
	binary.LittleEndian.PutUint32(rec[d.NextEntryOffsetAt:], v)
}

// ClearNextEntryOffset zeroes the next-entry-offset field, terminating a
// chain of records (spec §4.5).
func (d Descriptor) ClearNextEntryOffset(rec []byte) {
	d.WriteNextEntryOffset(rec, 0)
}

// ReadNameLength reads the byte length (of UTF-16 data) the record claims
// for its trailing name.
func (d Descriptor) ReadNameLength(rec []byte) uint32 {
	return binary.LittleEndian.Uint32(rec[d.FileNameLengthAt:])
}

// ReadName decodes the trailing name field as a zero-copy-from-bytes view:
// it still allocates a Go string (UTF-16 must be transcoded to UTF-8), but
// touches only the bytes described by the record's own claimed length,
// never a fixed-size array.
func (d Descriptor) ReadName(rec []byte) string {
	n := int(d.ReadNameLength(rec))
	end := d.FileNameAt + n
	if end > len(rec) {
		end = len(rec)
	}
	return utf16BytesToString(rec[d.FileNameAt:end])
}

// SizeOf returns the total byte footprint of rec given its claimed name
// length: max(BaseSize, offsetOfName + nameLengthBytes), per spec §4.5.
func (d Descriptor) SizeOf(rec []byte) int {
	n := int(d.ReadNameLength(rec))
	size := d.FileNameAt + n
	if size < d.BaseSize {
		size = d.BaseSize
	}
	return size
}

// WriteName writes as much of name as fits in bufCap-FileNameAt bytes,
// stores the number of bytes name WOULD need (not the number actually
// written) into the name-length field, and recomputes next-entry-offset
// from the resulting (possibly truncated) record size. It returns the
// number of bytes actually written to buf's name field.
//
// This follows the "compute the full size, write what fits, let the
// caller notice truncation via the returned size" idiom rather than
// returning an error for a record that legitimately does not fit (that
// case is buffer bookkeeping, handled by the enumeration queue, not a
// layout failure).
func (d Descriptor) WriteName(buf []byte, name string, bufCap int) (written int) {
	encoded := stringToUTF16Bytes(name)
	needed := len(encoded)

	binary.LittleEndian.PutUint32(buf[d.FileNameLengthAt:], uint32(needed))

	avail := bufCap - d.FileNameAt
	if avail < 0 {
		avail = 0
	}
	toWrite := needed
	if toWrite > avail {
		toWrite = avail
	}
	copy(buf[d.FileNameAt:d.FileNameAt+toWrite], encoded[:toWrite])

	size := d.FileNameAt + toWrite
	if size < d.BaseSize {
		size = d.BaseSize
	}
	d.WriteNextEntryOffset(buf, uint32(size))

	return toWrite
}

func stringToUTF16Bytes(s string) []byte {
	u16 := utf16.Encode([]rune(s))
	out := make([]byte, len(u16)*2)
	for i, v := range u16 {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

func utf16BytesToString(b []byte) string {
	u16 := make([]uint16, len(b)/2)
	for i := range u16 {
		u16[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(u16))
}
