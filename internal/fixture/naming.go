package fixture

import (
	"fmt"
	"path/filepath"

	"github.com/ovr/yaledb/pkg/sstable"
)

// FixtureDir is the directory, relative to the output root, under
// which all fixture files are written.
const FixtureDir = "sst_files"

// RecordsPerFixture is the exact number of key/value records in every
// fixture file.
const RecordsPerFixture = 50

// Key returns the key for record index i: "key" plus the zero-padded
// three-digit index. The padding makes lexicographic key order equal
// numeric index order, which the table writer's ordering check depends
// on; it holds for record counts up to 1000.
func Key(i int) string {
	return fmt.Sprintf("key%03d", i)
}

// Value returns the value for record index i of a combination. It
// embeds every combination parameter and the padded index, so a
// fixture's content alone identifies how it was generated.
func Value(version uint32, checksum sstable.ChecksumType, compression sstable.CompressionType, i int) string {
	return fmt.Sprintf("value_v%d_%s_%s_%03d", version, checksum, compression, i)
}

// Path returns the canonical fixture path for a combination, relative
// to the output root: sst_files/v<V>/v<V>_<checksum>_<compression>.sst.
// Including all three canonical names makes the mapping injective over
// any parameter space.
func Path(version uint32, checksum sstable.ChecksumType, compression sstable.CompressionType) string {
	return filepath.Join(
		FixtureDir,
		fmt.Sprintf("v%d", version),
		fmt.Sprintf("v%d_%s_%s.sst", version, checksum, compression),
	)
}
