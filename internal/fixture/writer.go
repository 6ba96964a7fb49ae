package fixture

import (
	"fmt"

	"github.com/ovr/yaledb/pkg/sstable"
)

// bloomBitsPerKey is the filter policy parameter, constant across all
// combinations.
const bloomBitsPerKey = 10

// StageError reports a table writer failure for one fixture: which
// stage failed (open, put or finish), the target path, and the
// writer's own diagnostic. It carries enough context to reproduce the
// failing combination in isolation.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// TableWriter generates fixture files through the sstable writer. It
// is stateless; each Generate call builds a fresh writer from the
// combination.
type TableWriter struct{}

// NewTableWriter returns the production Generator.
func NewTableWriter() *TableWriter {
	return &TableWriter{}
}

// Generate writes the fixture for one combination at path: the table
// writer is configured from the combination, then all records are put
// in ascending key order and the file is finalized. The first failing
// stage short-circuits the rest and is reported as a *StageError; a
// partial file may remain on disk.
func (tw *TableWriter) Generate(c Combination, path string) error {
	w := sstable.NewWriter(sstable.Options{
		FormatVersion: c.Version,
		Checksum:      c.Checksum,
		Compression:   c.Compression,
		FilterPolicy:  sstable.NewBloomFilterPolicy(bloomBitsPerKey),
	})
	defer w.Close()

	if err := w.Open(path); err != nil {
		return &StageError{Stage: "open", Path: path, Err: err}
	}

	for i := 0; i < RecordsPerFixture; i++ {
		key := []byte(Key(i))
		value := []byte(Value(c.Version, c.Checksum, c.Compression, i))

		if err := w.Put(key, value); err != nil {
			return &StageError{Stage: "put", Path: path, Err: err}
		}
	}

	if err := w.Finish(); err != nil {
		return &StageError{Stage: "finish", Path: path, Err: err}
	}

	return nil
}
