package sstable

import "github.com/cespare/xxhash/v2"

// BloomFilterPolicy builds full-filter bloom blocks: one filter over
// every key in the table, probed with double hashing over a 64-bit
// xxHash of the key.
type BloomFilterPolicy struct {
	bitsPerKey int
}

// NewBloomFilterPolicy returns a policy targeting bitsPerKey filter
// bits per key. 10 bits per key yields roughly a 1% false positive
// rate.
func NewBloomFilterPolicy(bitsPerKey int) *BloomFilterPolicy {
	if bitsPerKey < 1 {
		bitsPerKey = 1
	}
	return &BloomFilterPolicy{bitsPerKey: bitsPerKey}
}

// Name identifies the filter in the metaindex block. Readers look the
// filter up under "fullfilter." + Name().
func (p *BloomFilterPolicy) Name() string {
	return "rocksdb.BuiltinBloomFilter"
}

// numProbes derives the probe count from bits per key, clamped to a
// sane range. The factor approximates ln 2.
func (p *BloomFilterPolicy) numProbes() int {
	k := p.bitsPerKey * 69 / 100
	if k < 1 {
		k = 1
	}
	if k > 30 {
		k = 30
	}
	return k
}

// createFilter builds the filter block contents for the given keys:
// the bit array followed by a single trailing byte holding the probe
// count.
func (p *BloomFilterPolicy) createFilter(keys [][]byte) []byte {
	bits := len(keys) * p.bitsPerKey
	if bits < 64 {
		bits = 64
	}

	nbytes := (bits + 7) / 8
	bits = nbytes * 8

	filter := make([]byte, nbytes+1)
	k := p.numProbes()
	filter[nbytes] = byte(k)

	for _, key := range keys {
		h := xxhash.Sum64(key)
		delta := h>>33 | h<<31

		for j := 0; j < k; j++ {
			pos := h % uint64(bits)
			filter[pos/8] |= 1 << (pos % 8)
			h += delta
		}
	}

	return filter
}

// mayContain reports whether a key could have been added to a filter
// produced by createFilter. False negatives never occur.
func (p *BloomFilterPolicy) mayContain(filter, key []byte) bool {
	if len(filter) < 2 {
		return true
	}

	nbytes := len(filter) - 1
	bits := uint64(nbytes * 8)

	k := int(filter[nbytes])
	if k > 30 {
		// Reserved for future encodings; treat as a match.
		return true
	}

	h := xxhash.Sum64(key)
	delta := h>>33 | h<<31

	for j := 0; j < k; j++ {
		pos := h % bits
		if filter[pos/8]&(1<<(pos%8)) == 0 {
			return false
		}
		h += delta
	}

	return true
}
