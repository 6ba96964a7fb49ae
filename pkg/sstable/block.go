package sstable

import "encoding/binary"

// blockHandle locates a block within the file. Both fields encode as
// unsigned varints; the handle never exceeds 20 encoded bytes.
type blockHandle struct {
	offset uint64
	size   uint64
}

func (h blockHandle) encode() []byte {
	buf := make([]byte, 0, 2*binary.MaxVarintLen64)
	buf = binary.AppendUvarint(buf, h.offset)
	buf = binary.AppendUvarint(buf, h.size)
	return buf
}

// blockBuilder accumulates key/value entries into a single block with
// prefix compression and restart points.
//
// Entry encoding: shared-key-length, non-shared-key-length and value
// length as unsigned varints, followed by the non-shared key suffix
// and the value. Every restartInterval entries the shared prefix is
// reset to zero and the entry offset is recorded in the restart array,
// which finish appends (as little-endian u32s, then their count).
type blockBuilder struct {
	buf             []byte
	restarts        []uint32
	counter         int
	restartInterval int
	lastKey         []byte
}

func newBlockBuilder(restartInterval int) *blockBuilder {
	return &blockBuilder{
		restartInterval: restartInterval,
		restarts:        []uint32{0},
	}
}

// add appends an entry. Keys must arrive in ascending order; the
// builder does not re-check this (the Writer does).
func (b *blockBuilder) add(key, value []byte) {
	shared := 0
	if b.counter < b.restartInterval {
		n := min(len(b.lastKey), len(key))
		for shared < n && b.lastKey[shared] == key[shared] {
			shared++
		}
	} else {
		b.restarts = append(b.restarts, uint32(len(b.buf)))
		b.counter = 0
	}

	b.buf = binary.AppendUvarint(b.buf, uint64(shared))
	b.buf = binary.AppendUvarint(b.buf, uint64(len(key)-shared))
	b.buf = binary.AppendUvarint(b.buf, uint64(len(value)))
	b.buf = append(b.buf, key[shared:]...)
	b.buf = append(b.buf, value...)

	b.lastKey = append(b.lastKey[:0], key...)
	b.counter++
}

// finish appends the restart array and count and returns the raw
// (uncompressed, trailer-less) block payload. The builder must be
// reset before reuse.
func (b *blockBuilder) finish() []byte {
	for _, r := range b.restarts {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, r)
	}
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(len(b.restarts)))
	return b.buf
}

func (b *blockBuilder) reset() {
	b.buf = b.buf[:0]
	b.restarts = b.restarts[:1]
	b.restarts[0] = 0
	b.counter = 0
	b.lastKey = b.lastKey[:0]
}

func (b *blockBuilder) empty() bool {
	return len(b.buf) == 0
}

// sizeEstimate is the finished payload size if finish were called now,
// plus the block trailer.
func (b *blockBuilder) sizeEstimate() int {
	return len(b.buf) + 4*len(b.restarts) + 4 + blockTrailerLength
}
