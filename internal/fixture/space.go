// Package fixture generates the SST conformance fixture matrix: the
// Cartesian product of format version, checksum algorithm and
// compression algorithm, one deterministic table file per combination.
//
// Downstream conformance tests assert on the literal paths and record
// contents produced here, so everything in this package is a pure
// function of the combination: no randomness, no timestamps.
package fixture

import (
	"fmt"

	"github.com/ovr/yaledb/pkg/sstable"
)

// Space is the active parameter space: the three ordered dimension
// sets whose product drives one generation run. Sets are fixed before
// the run starts and never mutated afterward.
type Space struct {
	Versions     []uint32
	Checksums    []sstable.ChecksumType
	Compressions []sstable.CompressionType
}

// DefaultSpace returns the full parameter space: every supported
// combination of the stable format versions, checksum algorithms and
// compression algorithms.
func DefaultSpace() Space {
	return Space{
		Versions: []uint32{5, 6, 7},
		Checksums: []sstable.ChecksumType{
			sstable.ChecksumNone,
			sstable.ChecksumCRC32c,
			sstable.ChecksumXXHash,
			sstable.ChecksumXXHash64,
			sstable.ChecksumXXH3,
		},
		Compressions: []sstable.CompressionType{
			sstable.CompressionNone,
			sstable.CompressionSnappy,
			sstable.CompressionZlib,
			sstable.CompressionLZ4,
			sstable.CompressionLZ4HC,
			sstable.CompressionZSTD,
		},
	}
}

// MinimalSpace returns the reduced preset: all format versions, but
// only the two most common checksums and four compression algorithms.
func MinimalSpace() Space {
	return Space{
		Versions: []uint32{5, 6, 7},
		Checksums: []sstable.ChecksumType{
			sstable.ChecksumCRC32c,
			sstable.ChecksumXXH3,
		},
		Compressions: []sstable.CompressionType{
			sstable.CompressionNone,
			sstable.CompressionSnappy,
			sstable.CompressionLZ4,
			sstable.CompressionZSTD,
		},
	}
}

// Size returns the number of combinations the space enumerates.
func (s Space) Size() int {
	return len(s.Versions) * len(s.Checksums) * len(s.Compressions)
}

// ParseChecksum maps a canonical checksum name to its algorithm. The
// name set is closed; anything else is an error.
func ParseChecksum(name string) (sstable.ChecksumType, error) {
	switch name {
	case "nocsum":
		return sstable.ChecksumNone, nil
	case "crc32c":
		return sstable.ChecksumCRC32c, nil
	case "xxhash":
		return sstable.ChecksumXXHash, nil
	case "xxhash64":
		return sstable.ChecksumXXHash64, nil
	case "xxh3":
		return sstable.ChecksumXXH3, nil
	default:
		return 0, fmt.Errorf("unknown checksum algorithm %q (valid: nocsum, crc32c, xxhash, xxhash64, xxh3)", name)
	}
}

// ParseCompression maps a canonical compression name to its algorithm.
// The name set is closed; anything else is an error.
func ParseCompression(name string) (sstable.CompressionType, error) {
	switch name {
	case "none":
		return sstable.CompressionNone, nil
	case "snappy":
		return sstable.CompressionSnappy, nil
	case "zlib":
		return sstable.CompressionZlib, nil
	case "lz4":
		return sstable.CompressionLZ4, nil
	case "lz4hc":
		return sstable.CompressionLZ4HC, nil
	case "zstd":
		return sstable.CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression algorithm %q (valid: none, snappy, zlib, lz4, lz4hc, zstd)", name)
	}
}
