package sstable

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// metaindex keys. The filter entry is "fullfilter." + policy name; the
// index entry exists only for format version 6 and up, whose footer no
// longer carries the index handle.
const (
	fullFilterPrefix = "fullfilter."
	indexMetaKey     = "index"
)

// Writer builds one table file. Usage: NewWriter, Open, Put in
// strictly increasing key order, Finish. A Writer is single-use and
// not safe for concurrent use.
//
// On failure the file on disk may be absent or partially written; the
// Writer performs no cleanup.
type Writer struct {
	opts Options

	file *os.File
	buf  *bufio.Writer

	data  *blockBuilder
	index *blockBuilder

	offset     uint64
	numEntries uint64
	lastKey    []byte

	// keys retained for filter construction; nil when no filter
	// policy is configured.
	keys [][]byte

	// pendingIndex holds the last flushed data block until the next
	// block (or Finish) turns it into an index entry.
	pendingIndex *pendingIndexEntry

	// baseContextChecksum is derived deterministically from the
	// options at Open for format version 6 and up, zero otherwise.
	baseContextChecksum uint32

	finished bool
}

type pendingIndexEntry struct {
	key    []byte
	handle blockHandle
}

// NewWriter creates a Writer. Options are validated at Open.
func NewWriter(opts Options) *Writer {
	opts = opts.withDefaults()
	return &Writer{
		opts:  opts,
		data:  newBlockBuilder(opts.RestartInterval),
		index: newBlockBuilder(opts.RestartInterval),
	}
}

// Open validates the options and creates the target file, truncating
// any existing file at path.
func (w *Writer) Open(path string) error {
	if w.file != nil {
		return errors.New("file already open")
	}
	if err := w.opts.validate(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	w.file = f
	w.buf = bufio.NewWriter(f)

	if w.opts.FormatVersion >= 6 {
		// Deterministic seed: regenerating a table with identical
		// options must produce identical bytes.
		seed := []byte{
			byte(w.opts.FormatVersion), byte(w.opts.FormatVersion >> 8),
			byte(w.opts.FormatVersion >> 16), byte(w.opts.FormatVersion >> 24),
			byte(w.opts.Checksum), byte(w.opts.Compression),
		}
		w.baseContextChecksum = checksum(ChecksumCRC32c, seed)
	}

	return nil
}

// Put appends a key/value entry. Keys must be strictly increasing in
// byte order.
func (w *Writer) Put(key, value []byte) error {
	if w.file == nil {
		return errors.New("no file open")
	}
	if w.finished {
		return errors.New("writer already finished")
	}
	if len(w.lastKey) > 0 && bytes.Compare(key, w.lastKey) <= 0 {
		return fmt.Errorf("keys must be added in strictly increasing order: %q after %q",
			key, w.lastKey)
	}

	if !w.data.empty() && w.data.sizeEstimate() >= w.opts.BlockSize {
		if err := w.flushDataBlock(); err != nil {
			return err
		}
	}

	w.data.add(key, value)
	w.lastKey = append(w.lastKey[:0], key...)
	w.numEntries++

	if w.opts.FilterPolicy != nil {
		w.keys = append(w.keys, bytes.Clone(key))
	}

	return nil
}

// NumEntries returns the number of entries added so far.
func (w *Writer) NumEntries() uint64 {
	return w.numEntries
}

// FileSize returns the number of bytes written so far. After Finish it
// is the final file size.
func (w *Writer) FileSize() uint64 {
	return w.offset
}

// Finish flushes the remaining data block, writes the filter, index
// and metaindex blocks and the footer, and closes the file.
func (w *Writer) Finish() error {
	if w.file == nil {
		return errors.New("no file open")
	}
	if w.finished {
		return errors.New("writer already finished")
	}

	err := w.writeTail()
	if err != nil {
		_ = w.file.Close()
		w.file = nil
		return err
	}

	w.finished = true

	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		w.file = nil
		return err
	}

	closeErr := w.file.Close()
	w.file = nil
	return closeErr
}

func (w *Writer) writeTail() error {
	if !w.data.empty() {
		if err := w.flushDataBlock(); err != nil {
			return err
		}
	}

	var (
		filterHandle blockHandle
		haveFilter   bool
	)
	if w.opts.FilterPolicy != nil {
		var err error
		filterHandle, err = w.writeBlock(w.opts.FilterPolicy.createFilter(w.keys), CompressionNone)
		if err != nil {
			return err
		}
		haveFilter = true
	}

	if w.pendingIndex != nil {
		w.index.add(w.pendingIndex.key, w.pendingIndex.handle.encode())
		w.pendingIndex = nil
	}
	indexHandle, err := w.writeBlock(w.index.finish(), CompressionNone)
	if err != nil {
		return err
	}

	// Metaindex entries must be in ascending key order; "fullfilter."
	// sorts before "index". The metaindex block is written last so
	// that v6+ footers can locate it from its size alone.
	meta := newBlockBuilder(1)
	if haveFilter {
		meta.add([]byte(fullFilterPrefix+w.opts.FilterPolicy.Name()), filterHandle.encode())
	}
	if w.opts.FormatVersion >= 6 {
		meta.add([]byte(indexMetaKey), indexHandle.encode())
	}
	metaHandle, err := w.writeBlock(meta.finish(), CompressionNone)
	if err != nil {
		return err
	}

	f := footer{
		checksumType:        w.opts.Checksum,
		metaindexHandle:     metaHandle,
		indexHandle:         indexHandle,
		formatVersion:       w.opts.FormatVersion,
		baseContextChecksum: w.baseContextChecksum,
	}
	encoded := f.encode(w.offset)

	if _, err := w.buf.Write(encoded); err != nil {
		return err
	}
	w.offset += uint64(len(encoded))

	return nil
}

// Close abandons the writer without writing a footer. Safe to call
// after Finish or a failed stage; any partial file remains on disk.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}

func (w *Writer) flushDataBlock() error {
	handle, err := w.writeBlock(w.data.finish(), w.opts.Compression)
	if err != nil {
		return err
	}

	if w.pendingIndex != nil {
		w.index.add(w.pendingIndex.key, w.pendingIndex.handle.encode())
	}
	w.pendingIndex = &pendingIndexEntry{
		key:    bytes.Clone(w.lastKey),
		handle: handle,
	}

	w.data.reset()
	return nil
}

// writeBlock compresses and writes one block followed by its 5-byte
// trailer (compression tag + checksum) and returns the handle covering
// the payload only.
func (w *Writer) writeBlock(payload []byte, compression CompressionType) (blockHandle, error) {
	out, used, err := compressBlock(compression, payload)
	if err != nil {
		return blockHandle{}, err
	}

	tag := byte(used)
	sum := blockChecksum(w.opts.Checksum, out, tag)
	if w.opts.FormatVersion >= 6 {
		sum += checksumModifierForContext(w.baseContextChecksum, w.offset)
	}

	handle := blockHandle{offset: w.offset, size: uint64(len(out))}

	if _, err := w.buf.Write(out); err != nil {
		return blockHandle{}, err
	}

	var trailer [blockTrailerLength]byte
	trailer[0] = tag
	binary.LittleEndian.PutUint32(trailer[1:], sum)
	if _, err := w.buf.Write(trailer[:]); err != nil {
		return blockHandle{}, err
	}

	w.offset += uint64(len(out)) + blockTrailerLength
	return handle, nil
}
