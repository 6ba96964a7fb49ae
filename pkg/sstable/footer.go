package sstable

import "encoding/binary"

// extendedMagic marks the self-checksummed footer introduced in format
// version 6.
var extendedMagic = [4]byte{0x3e, 0x00, 0x7a, 0x00}

// footer carries the block handles (or, for v6+, just the metaindex
// size) needed to bootstrap reading a table, plus the checksum type
// and format version.
type footer struct {
	checksumType    ChecksumType
	metaindexHandle blockHandle
	indexHandle     blockHandle
	formatVersion   uint32
	// baseContextChecksum seeds the position-dependent checksum
	// modifier. Only written for format version 6 and up.
	baseContextChecksum uint32
}

// encode returns the 53-byte footer. footerOffset is the file offset
// at which the footer will be written; v6+ footers fold it into their
// own checksum.
//
// v2-v5 layout:
//
//	checksum type (1) | metaindex handle + index handle (varints,
//	zero padded to 40) | format version (4, LE) | magic (8, LE)
//
// v6+ layout (the index handle moves into the metaindex block, and the
// metaindex block must immediately precede the footer):
//
//	checksum type (1) | extended magic (4) | footer checksum (4) |
//	base context checksum (4) | metaindex size (4) | reserved,
//	checked zero (8) | reserved padding (16) | format version (4) |
//	magic (8)
func (f footer) encode(footerOffset uint64) []byte {
	buf := make([]byte, 0, footerLength)
	buf = append(buf, byte(f.checksumType))

	if f.formatVersion >= 6 {
		buf = append(buf, extendedMagic[:]...)
		buf = append(buf, 0, 0, 0, 0) // footer checksum, patched below
		buf = binary.LittleEndian.AppendUint32(buf, f.baseContextChecksum)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(f.metaindexHandle.size))
		buf = append(buf, make([]byte, 8+16)...)
	} else {
		buf = append(buf, f.metaindexHandle.encode()...)
		buf = append(buf, f.indexHandle.encode()...)
		buf = append(buf, make([]byte, footerLength-12-len(buf))...)
	}

	buf = binary.LittleEndian.AppendUint32(buf, f.formatVersion)
	buf = binary.LittleEndian.AppendUint64(buf, tableMagicNumber)

	if f.formatVersion >= 6 {
		// Checksum the footer with its own checksum field zeroed,
		// offset-modified like every other block in the file.
		sum := checksum(f.checksumType, buf)
		sum += checksumModifierForContext(f.baseContextChecksum, footerOffset)
		binary.LittleEndian.PutUint32(buf[5:9], sum)
	}

	return buf
}
