package sstable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCRCRoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range []uint32{0, 1, 0xdeadbeef, 0xffffffff, 0xa282ead8} {
		masked := maskCRC(c)
		assert.NotEqual(t, c, masked, "masking must change the value")
		assert.Equal(t, c, unmaskCRC(masked))
	}
}

func TestChecksumDeterministic(t *testing.T) {
	t.Parallel()

	payload := []byte("block payload bytes")

	for _, ct := range []ChecksumType{
		ChecksumCRC32c, ChecksumXXHash, ChecksumXXHash64, ChecksumXXH3,
	} {
		first := blockChecksum(ct, payload, byte(CompressionNone))
		second := blockChecksum(ct, payload, byte(CompressionNone))
		assert.Equal(t, first, second, "checksum type %s", ct)
		assert.NotZero(t, first, "checksum type %s produced zero for non-empty input", ct)
	}
}

func TestChecksumCoversCompressionTag(t *testing.T) {
	t.Parallel()

	payload := []byte("block payload bytes")

	for _, ct := range []ChecksumType{
		ChecksumCRC32c, ChecksumXXHash, ChecksumXXHash64, ChecksumXXH3,
	} {
		plain := blockChecksum(ct, payload, byte(CompressionNone))
		tagged := blockChecksum(ct, payload, byte(CompressionSnappy))
		assert.NotEqual(t, plain, tagged,
			"checksum type %s ignores the compression tag byte", ct)
	}
}

func TestChecksumNoneIsZero(t *testing.T) {
	t.Parallel()

	assert.Zero(t, blockChecksum(ChecksumNone, []byte("anything"), 0))
}

func TestVariadicChecksumMatchesConcatenation(t *testing.T) {
	t.Parallel()

	a, b := []byte("first "), []byte("second")
	whole := append(append([]byte{}, a...), b...)

	for _, ct := range []ChecksumType{
		ChecksumCRC32c, ChecksumXXHash, ChecksumXXHash64, ChecksumXXH3,
	} {
		assert.Equal(t, checksum(ct, whole), checksum(ct, a, b), "checksum type %s", ct)
	}
}

func TestChecksumModifierForContext(t *testing.T) {
	t.Parallel()

	assert.Zero(t, checksumModifierForContext(0, 12345), "zero base disables modification")

	m1 := checksumModifierForContext(7, 100)
	m2 := checksumModifierForContext(7, 200)
	assert.NotEqual(t, m1, m2, "modifier must depend on offset")

	m3 := checksumModifierForContext(8, 100)
	assert.NotEqual(t, m1, m3, "modifier must depend on base")

	// High offset bits participate too.
	m4 := checksumModifierForContext(7, 100+(1<<32))
	assert.NotEqual(t, m1, m4)
}
