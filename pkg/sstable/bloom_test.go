package sstable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloomNoFalseNegatives(t *testing.T) {
	t.Parallel()

	policy := NewBloomFilterPolicy(10)

	keys := make([][]byte, 0, 50)
	for i := 0; i < 50; i++ {
		keys = append(keys, []byte(fmt.Sprintf("key%03d", i)))
	}

	filter := policy.createFilter(keys)

	for _, key := range keys {
		assert.True(t, policy.mayContain(filter, key), "false negative for %q", key)
	}
}

func TestBloomFiltersOutMostAbsentKeys(t *testing.T) {
	t.Parallel()

	policy := NewBloomFilterPolicy(10)

	keys := make([][]byte, 0, 100)
	for i := 0; i < 100; i++ {
		keys = append(keys, []byte(fmt.Sprintf("present%04d", i)))
	}

	filter := policy.createFilter(keys)

	misses := 0
	for i := 0; i < 1000; i++ {
		if !policy.mayContain(filter, []byte(fmt.Sprintf("absent%04d", i))) {
			misses++
		}
	}

	// 10 bits per key targets roughly a 1% false positive rate; being
	// generous, at least 90% of absent keys must be rejected.
	assert.Greater(t, misses, 900, "filter rejects too few absent keys")
}

func TestBloomDeterministic(t *testing.T) {
	t.Parallel()

	policy := NewBloomFilterPolicy(10)
	keys := [][]byte{[]byte("a"), []byte("b"), []byte("c")}

	assert.Equal(t, policy.createFilter(keys), policy.createFilter(keys))
}

func TestBloomEmptyKeySet(t *testing.T) {
	t.Parallel()

	policy := NewBloomFilterPolicy(10)
	filter := policy.createFilter(nil)

	// Minimum sizing still applies: 64 bits plus the probe count byte.
	require.Len(t, filter, 9)

	assert.False(t, policy.mayContain(filter, []byte("anything")))
}

func TestBloomProbeCountClamped(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NewBloomFilterPolicy(1).numProbes())
	assert.Equal(t, 6, NewBloomFilterPolicy(10).numProbes())
	assert.Equal(t, 30, NewBloomFilterPolicy(100).numProbes())
}

func TestBloomNameStable(t *testing.T) {
	t.Parallel()

	// The metaindex key is derived from this name; changing it breaks
	// existing readers.
	assert.Equal(t, "rocksdb.BuiltinBloomFilter", NewBloomFilterPolicy(10).Name())
}
