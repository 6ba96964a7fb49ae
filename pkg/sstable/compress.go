package sstable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead; both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("sstable: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("sstable: zstd decoder initialization failed: " + err.Error())
	}
}

// compressBlock compresses a raw block payload. It returns the on-disk
// payload and the compression tag actually used: when the compressed
// form is not smaller than the input the payload is stored raw under
// CompressionNone, matching the storage engine's fallback rule.
//
// LZ4 and LZ4HC payloads carry a 4-byte little-endian uncompressed
// size prefix; the block formats of the other algorithms are
// self-describing.
func compressBlock(t CompressionType, data []byte) ([]byte, CompressionType, error) {
	switch t {
	case CompressionNone:
		return data, CompressionNone, nil

	case CompressionSnappy:
		out := snappy.Encode(nil, data)
		if len(out) >= len(data) {
			return data, CompressionNone, nil
		}
		return out, t, nil

	case CompressionZlib:
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, 0, fmt.Errorf("zlib compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, 0, fmt.Errorf("zlib compress: %w", err)
		}
		if buf.Len() >= len(data) {
			return data, CompressionNone, nil
		}
		return buf.Bytes(), t, nil

	case CompressionLZ4, CompressionLZ4HC:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))

		var (
			n   int
			err error
		)
		if t == CompressionLZ4HC {
			n, err = lz4.CompressBlockHC(data, dst, lz4.Level9, nil, nil)
		} else {
			n, err = lz4.CompressBlock(data, dst, nil)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		// n == 0 means incompressible; also fall back when the size
		// prefix pushes the result past the input length.
		if n == 0 || n+4 >= len(data) {
			return data, CompressionNone, nil
		}

		out := make([]byte, 0, n+4)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
		out = append(out, dst[:n]...)
		return out, t, nil

	case CompressionZSTD:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return data, CompressionNone, nil
		}
		return out, t, nil

	default:
		return nil, 0, fmt.Errorf("compression %s is not supported", t)
	}
}

// decompressBlock reverses compressBlock for a given on-disk payload.
func decompressBlock(t CompressionType, data []byte) ([]byte, error) {
	switch t {
	case CompressionNone:
		return data, nil

	case CompressionSnappy:
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("snappy decompress: %w", err)
		}
		return out, nil

	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zlib decompress: %w", err)
		}
		defer zr.Close()

		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("zlib decompress: %w", err)
		}
		return out, nil

	case CompressionLZ4, CompressionLZ4HC:
		if len(data) < 4 {
			return nil, fmt.Errorf("lz4 decompress: payload too short (%d bytes)", len(data))
		}
		size := binary.LittleEndian.Uint32(data)

		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data[4:], out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != int(size) {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, size)
		}
		return out, nil

	case CompressionZSTD:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("compression %s is not supported", t)
	}
}
