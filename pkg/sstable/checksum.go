package sstable

import (
	"hash/crc32"

	oneofone "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// crcMaskDelta is added after rotation when masking CRC32C values, so
// that a CRC stored alongside the data it covers does not degenerate
// when the data is itself CRC'd.
const crcMaskDelta = 0xa282ead8

func maskCRC(c uint32) uint32 {
	return ((c >> 15) | (c << 17)) + crcMaskDelta
}

func unmaskCRC(c uint32) uint32 {
	rot := c - crcMaskDelta
	return (rot >> 17) | (rot << 15)
}

// checksum computes the 32-bit checksum of the concatenation of parts.
// 64-bit algorithms are truncated to their low 32 bits; CRC32C values
// are masked. ChecksumNone always yields zero.
func checksum(t ChecksumType, parts ...[]byte) uint32 {
	switch t {
	case ChecksumNone:
		return 0

	case ChecksumCRC32c:
		var c uint32
		for _, p := range parts {
			c = crc32.Update(c, castagnoli, p)
		}
		return maskCRC(c)

	case ChecksumXXHash:
		h := oneofone.New32()
		for _, p := range parts {
			_, _ = h.Write(p)
		}
		return h.Sum32()

	case ChecksumXXHash64:
		h := xxhash.New()
		for _, p := range parts {
			_, _ = h.Write(p)
		}
		return uint32(h.Sum64())

	case ChecksumXXH3:
		h := xxh3.New()
		for _, p := range parts {
			_, _ = h.Write(p)
		}
		return uint32(h.Sum64())

	default:
		return 0
	}
}

// blockChecksum computes the checksum stored in a block trailer: the
// checksum of the on-disk payload followed by the compression tag
// byte.
func blockChecksum(t ChecksumType, payload []byte, tag byte) uint32 {
	return checksum(t, payload, []byte{tag})
}

// checksumModifierForContext makes stored checksums position-dependent
// for format version 6 and up: the base context checksum is combined
// with the covered bytes' file offset and added (mod 2^32) to the
// computed checksum. A zero base disables modification entirely.
func checksumModifierForContext(base uint32, offset uint64) uint32 {
	if base == 0 {
		return 0
	}
	return base + uint32(offset) + uint32(offset>>32)
}
