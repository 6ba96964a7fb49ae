package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// ManifestName is the manifest file written under FixtureDir.
const ManifestName = "MANIFEST.json"

// ManifestEntry describes one generated fixture for downstream
// consumers that enumerate the pack without walking the directory
// tree.
type ManifestEntry struct {
	Path          string `json:"path"`
	FormatVersion uint32 `json:"format_version"`
	Checksum      string `json:"checksum"`
	Compression   string `json:"compression"`
	Records       int    `json:"records"`
}

// WriteManifest writes sst_files/MANIFEST.json under root, listing the
// given combinations in order. The write is atomic (temp file +
// rename), so a crashed run never leaves a truncated manifest.
func WriteManifest(root string, generated []Combination) error {
	entries := make([]ManifestEntry, 0, len(generated))
	for _, c := range generated {
		entries = append(entries, ManifestEntry{
			Path:          c.Path(),
			FormatVersion: c.Version,
			Checksum:      c.Checksum.String(),
			Compression:   c.Compression.String(),
			Records:       RecordsPerFixture,
		})
	}

	buf, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	buf = append(buf, '\n')

	path := filepath.Join(root, FixtureDir, ManifestName)
	if err := atomic.WriteFile(path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	return nil
}
