package fixture_test

import (
	"testing"

	"github.com/ovr/yaledb/internal/fixture"
	"github.com/ovr/yaledb/pkg/sstable"
)

func TestKeyZeroPaddingAndOrder(t *testing.T) {
	t.Parallel()

	prev := ""
	for i := 0; i < fixture.RecordsPerFixture; i++ {
		key := fixture.Key(i)

		if len(key) != 6 {
			t.Fatalf("Key(%d) = %q, want 6 characters", i, key)
		}

		if key <= prev {
			t.Fatalf("Key(%d) = %q is not lexicographically after %q", i, key, prev)
		}

		prev = key
	}

	if got := fixture.Key(0); got != "key000" {
		t.Errorf("Key(0) = %q, want %q", got, "key000")
	}

	if got := fixture.Key(49); got != "key049" {
		t.Errorf("Key(49) = %q, want %q", got, "key049")
	}
}

func TestValueEmbedsAllParameters(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		version     uint32
		checksum    sstable.ChecksumType
		compression sstable.CompressionType
		index       int
		want        string
	}{
		{5, sstable.ChecksumCRC32c, sstable.CompressionSnappy, 0, "value_v5_crc32c_snappy_000"},
		{5, sstable.ChecksumCRC32c, sstable.CompressionSnappy, 49, "value_v5_crc32c_snappy_049"},
		{6, sstable.ChecksumNone, sstable.CompressionNone, 7, "value_v6_nocsum_none_007"},
		{7, sstable.ChecksumXXH3, sstable.CompressionZSTD, 12, "value_v7_xxh3_zstd_012"},
		{6, sstable.ChecksumXXHash64, sstable.CompressionLZ4HC, 3, "value_v6_xxhash64_lz4hc_003"},
	} {
		got := fixture.Value(tt.version, tt.checksum, tt.compression, tt.index)
		if got != tt.want {
			t.Errorf("Value(%d, %s, %s, %d) = %q, want %q",
				tt.version, tt.checksum, tt.compression, tt.index, got, tt.want)
		}
	}
}

func TestPathCanonicalForm(t *testing.T) {
	t.Parallel()

	got := fixture.Path(5, sstable.ChecksumCRC32c, sstable.CompressionSnappy)
	want := "sst_files/v5/v5_crc32c_snappy.sst"

	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestPathInjectiveOverDefaultSpace(t *testing.T) {
	t.Parallel()

	seen := make(map[string]fixture.Combination)

	for _, c := range fixture.DefaultSpace().Combinations() {
		path := c.Path()

		if dup, ok := seen[path]; ok {
			t.Fatalf("combinations %v and %v map to the same path %q", dup, c, path)
		}

		seen[path] = c
	}
}

func TestValueDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < fixture.RecordsPerFixture; i++ {
		first := fixture.Value(6, sstable.ChecksumXXHash, sstable.CompressionZlib, i)
		second := fixture.Value(6, sstable.ChecksumXXHash, sstable.CompressionZlib, i)

		if first != second {
			t.Fatalf("Value not deterministic at index %d: %q vs %q", i, first, second)
		}
	}
}
