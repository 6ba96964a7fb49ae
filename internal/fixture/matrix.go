package fixture

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ovr/yaledb/pkg/sstable"
)

// Combination is one (format version, checksum, compression) triple,
// driving exactly one fixture file.
type Combination struct {
	Version     uint32
	Checksum    sstable.ChecksumType
	Compression sstable.CompressionType
}

// String returns a compact diagnostic form, e.g. "v5/crc32c/snappy".
func (c Combination) String() string {
	return fmt.Sprintf("v%d/%s/%s", c.Version, c.Checksum, c.Compression)
}

// Path returns the combination's canonical fixture path relative to
// the output root.
func (c Combination) Path() string {
	return Path(c.Version, c.Checksum, c.Compression)
}

// Combinations enumerates the full Cartesian product of the space's
// dimension sets in their configured order: version outermost, then
// checksum, then compression. Downstream consumers rely on this order
// being stable.
func (s Space) Combinations() []Combination {
	combos := make([]Combination, 0, s.Size())
	for _, v := range s.Versions {
		for _, ck := range s.Checksums {
			for _, cmp := range s.Compressions {
				combos = append(combos, Combination{
					Version:     v,
					Checksum:    ck,
					Compression: cmp,
				})
			}
		}
	}
	return combos
}

// Generator produces one fixture file for one combination. The real
// implementation is TableWriter; tests substitute failures.
type Generator interface {
	Generate(c Combination, path string) error
}

// Report aggregates one run's outcome. Counters only grow during a
// run and are never mutated after it completes.
type Report struct {
	Attempted int
	Succeeded int
	Failed    int
}

// OK reports whether every attempted combination succeeded.
func (r Report) OK() bool {
	return r.Failed == 0
}

// Driver enumerates a parameter space and drives the Generator once
// per combination, strictly sequentially. A single combination's
// failure is reported and counted but never aborts the run.
type Driver struct {
	root   string
	gen    Generator
	out    io.Writer
	errOut io.Writer

	generated []Combination
}

// NewDriver creates a Driver writing fixtures under root. Progress
// goes to out, per-combination failures to errOut.
func NewDriver(root string, gen Generator, out, errOut io.Writer) *Driver {
	return &Driver{root: root, gen: gen, out: out, errOut: errOut}
}

// Run attempts every combination in the space exactly once and
// returns the aggregate report. The returned error is non-nil only
// for setup failures (directory creation) that prevent the run from
// starting.
func (d *Driver) Run(space Space) (Report, error) {
	if err := d.ensureDirs(space); err != nil {
		return Report{}, err
	}

	combos := space.Combinations()
	total := len(combos)

	var report Report
	for _, c := range combos {
		report.Attempted++

		rel := c.Path()
		if err := d.gen.Generate(c, filepath.Join(d.root, rel)); err != nil {
			report.Failed++
			fmt.Fprintf(d.errOut, "error: %v\n", err)
			continue
		}

		report.Succeeded++
		d.generated = append(d.generated, c)
		fmt.Fprintf(d.out, "[%d/%d] wrote %s\n", report.Attempted, total, rel)
	}

	return report, nil
}

// Generated returns the combinations written successfully, in
// generation order.
func (d *Driver) Generated() []Combination {
	return d.generated
}

// ensureDirs creates sst_files/v<V>/ for every active version.
// Creation is idempotent; existing directories and their contents are
// left untouched.
func (d *Driver) ensureDirs(space Space) error {
	for _, v := range space.Versions {
		dir := filepath.Join(d.root, FixtureDir, fmt.Sprintf("v%d", v))
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
