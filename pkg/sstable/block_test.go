package sstable

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeBlock parses a finished block payload back into entries, for
// test verification only.
func decodeBlock(t *testing.T, payload []byte) [][2][]byte {
	t.Helper()

	require.GreaterOrEqual(t, len(payload), 4)

	numRestarts := binary.LittleEndian.Uint32(payload[len(payload)-4:])
	dataEnd := len(payload) - 4 - int(numRestarts)*4
	require.GreaterOrEqual(t, dataEnd, 0)

	var (
		entries [][2][]byte
		lastKey []byte
		pos     int
	)

	for pos < dataEnd {
		shared, n := binary.Uvarint(payload[pos:])
		require.Greater(t, n, 0)
		pos += n

		nonShared, n := binary.Uvarint(payload[pos:])
		require.Greater(t, n, 0)
		pos += n

		valueLen, n := binary.Uvarint(payload[pos:])
		require.Greater(t, n, 0)
		pos += n

		key := append([]byte{}, lastKey[:shared]...)
		key = append(key, payload[pos:pos+int(nonShared)]...)
		pos += int(nonShared)

		value := bytes.Clone(payload[pos : pos+int(valueLen)])
		pos += int(valueLen)

		entries = append(entries, [2][]byte{key, value})
		lastKey = key
	}

	return entries
}

func TestBlockBuilderRoundTrip(t *testing.T) {
	t.Parallel()

	b := newBlockBuilder(4)

	want := [][2][]byte{
		{[]byte("apple"), []byte("1")},
		{[]byte("application"), []byte("2")},
		{[]byte("apply"), []byte("3")},
		{[]byte("banana"), []byte("4")},
		{[]byte("band"), []byte("5")},
		{[]byte("bandana"), []byte("6")},
	}

	for _, e := range want {
		b.add(e[0], e[1])
	}

	got := decodeBlock(t, b.finish())
	assert.Equal(t, want, got)
}

func TestBlockBuilderPrefixCompression(t *testing.T) {
	t.Parallel()

	withPrefixes := newBlockBuilder(16)
	for _, k := range []string{"key000", "key001", "key002", "key003"} {
		withPrefixes.add([]byte(k), []byte("v"))
	}

	distinct := newBlockBuilder(16)
	for _, k := range []string{"aaa000", "bbb001", "ccc002", "ddd003"} {
		distinct.add([]byte(k), []byte("v"))
	}

	// Shared prefixes must shrink the encoded block.
	assert.Less(t, len(withPrefixes.finish()), len(distinct.finish()))
}

func TestBlockBuilderRestartPoints(t *testing.T) {
	t.Parallel()

	b := newBlockBuilder(2)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		b.add([]byte(k), []byte("v"))
	}

	// 5 entries with interval 2: restarts at entries 0, 2 and 4.
	assert.Len(t, b.restarts, 3)

	payload := b.finish()
	numRestarts := binary.LittleEndian.Uint32(payload[len(payload)-4:])
	assert.Equal(t, uint32(3), numRestarts)
}

func TestBlockBuilderReset(t *testing.T) {
	t.Parallel()

	b := newBlockBuilder(16)
	b.add([]byte("key"), []byte("value"))
	require.False(t, b.empty())

	b.reset()
	assert.True(t, b.empty())

	b.add([]byte("other"), []byte("value"))
	entries := decodeBlock(t, b.finish())
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("other"), entries[0][0])
}

func TestBlockHandleEncode(t *testing.T) {
	t.Parallel()

	h := blockHandle{offset: 1000, size: 500}
	buf := h.encode()

	offset, n := binary.Uvarint(buf)
	require.Greater(t, n, 0)

	size, m := binary.Uvarint(buf[n:])
	require.Greater(t, m, 0)

	assert.Equal(t, uint64(1000), offset)
	assert.Equal(t, uint64(500), size)
	assert.Equal(t, n+m, len(buf))
}

func TestSizeEstimateTracksFinish(t *testing.T) {
	t.Parallel()

	b := newBlockBuilder(16)
	b.add([]byte("key000"), []byte("value000"))
	b.add([]byte("key001"), []byte("value001"))

	estimate := b.sizeEstimate()
	finished := len(b.finish()) + blockTrailerLength

	assert.Equal(t, finished, estimate)
}
