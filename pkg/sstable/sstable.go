// Package sstable writes block-based sorted-string-table files in the
// YaleDB on-disk format: prefix-compressed data blocks with restart
// points, an optional bloom filter meta block, an index block, a
// metaindex block, and a format-versioned footer.
//
// The writer is deterministic: for a fixed set of options and records,
// repeated writes produce byte-identical files. Nothing in the format
// embeds timestamps or random state.
package sstable

import "fmt"

// CompressionType identifies the per-block compression algorithm.
// Values are wire constants stored in block trailers — changing them
// breaks on-disk compatibility.
type CompressionType uint8

const (
	CompressionNone   CompressionType = 0
	CompressionSnappy CompressionType = 1
	CompressionZlib   CompressionType = 2
	CompressionBZip2  CompressionType = 3
	CompressionLZ4    CompressionType = 4
	CompressionLZ4HC  CompressionType = 5
	CompressionXPRESS CompressionType = 6
	CompressionZSTD   CompressionType = 7
)

// String returns the canonical short name of a compression type.
// The mapping is bijective; file names and fixture content rely on it.
func (t CompressionType) String() string {
	switch t {
	case CompressionNone:
		return "none"
	case CompressionSnappy:
		return "snappy"
	case CompressionZlib:
		return "zlib"
	case CompressionBZip2:
		return "bzip2"
	case CompressionLZ4:
		return "lz4"
	case CompressionLZ4HC:
		return "lz4hc"
	case CompressionXPRESS:
		return "xpress"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ChecksumType identifies the block checksum algorithm. Values are
// wire constants stored in the footer.
type ChecksumType uint8

const (
	ChecksumNone     ChecksumType = 0
	ChecksumCRC32c   ChecksumType = 1
	ChecksumXXHash   ChecksumType = 2
	ChecksumXXHash64 ChecksumType = 3
	ChecksumXXH3     ChecksumType = 4
)

// String returns the canonical short name of a checksum type.
func (t ChecksumType) String() string {
	switch t {
	case ChecksumNone:
		return "nocsum"
	case ChecksumCRC32c:
		return "crc32c"
	case ChecksumXXHash:
		return "xxhash"
	case ChecksumXXHash64:
		return "xxhash64"
	case ChecksumXXH3:
		return "xxh3"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

const (
	// tableMagicNumber terminates every table file (little-endian).
	tableMagicNumber uint64 = 0x88e241b785f4cff7

	// footerLength is the fixed encoded footer size for all supported
	// format versions.
	footerLength = 53

	// blockTrailerLength is the compression tag byte plus the 32-bit
	// block checksum.
	blockTrailerLength = 5

	minFormatVersion = 2
	maxFormatVersion = 7

	defaultBlockSize       = 4096
	defaultRestartInterval = 16
)

// Options configures a Writer.
type Options struct {
	// FormatVersion selects the table layout. Supported: 2 through 7.
	// Versions 6 and up use the self-checksummed footer with a base
	// context checksum that offset-modifies every block checksum.
	FormatVersion uint32

	// Checksum selects the block checksum algorithm.
	Checksum ChecksumType

	// Compression selects the block compression algorithm. Blocks
	// that do not shrink under it are stored uncompressed.
	Compression CompressionType

	// FilterPolicy, when non-nil, adds a full-filter bloom meta block
	// built over every key in the table.
	FilterPolicy *BloomFilterPolicy

	// BlockSize is the uncompressed data block flush threshold in
	// bytes. Zero means 4096.
	BlockSize int

	// RestartInterval is the number of entries between restart points
	// within a block. Zero means 16.
	RestartInterval int
}

func (o Options) withDefaults() Options {
	if o.BlockSize <= 0 {
		o.BlockSize = defaultBlockSize
	}
	if o.RestartInterval <= 0 {
		o.RestartInterval = defaultRestartInterval
	}
	return o
}

func (o Options) validate() error {
	if o.FormatVersion < minFormatVersion || o.FormatVersion > maxFormatVersion {
		return fmt.Errorf("unsupported format version %d (supported: %d-%d)",
			o.FormatVersion, minFormatVersion, maxFormatVersion)
	}
	if o.Checksum > ChecksumXXH3 {
		return fmt.Errorf("unknown checksum type %d", uint8(o.Checksum))
	}
	switch o.Compression {
	case CompressionNone, CompressionSnappy, CompressionZlib,
		CompressionLZ4, CompressionLZ4HC, CompressionZSTD:
	case CompressionBZip2, CompressionXPRESS:
		return fmt.Errorf("compression %s is not supported by this writer", o.Compression)
	default:
		return fmt.Errorf("unknown compression type %d", uint8(o.Compression))
	}
	return nil
}
