package fixture

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/ovr/yaledb/pkg/sstable"
)

// Config is the optional HuJSON config file. Each field, when set,
// replaces one whole dimension (or selects a preset); narrowing never
// partially filters a set. CLI flags override file values.
type Config struct {
	Preset      string  `json:"preset,omitempty"`      // "all" or "minimal"
	Version     *uint32 `json:"version,omitempty"`     // single format version; nil = unset
	Checksum    string  `json:"checksum,omitempty"`    // single checksum name
	Compression string  `json:"compression,omitempty"` // single compression name
	OutDir      string  `json:"out_dir,omitempty"`
}

// LoadConfig reads and parses a HuJSON config file. Comments and
// trailing commas are permitted.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Narrowing is the merged result of config file and flags: the preset
// choosing the base space, plus at most one wholesale substitution per
// dimension. Zero values mean "leave the dimension alone".
type Narrowing struct {
	Preset      string  // "", "all" or "minimal"
	Version     *uint32 // nil = unset; otherwise replaces the version set
	Checksum    string  // "" = unset; otherwise replaces the checksum set
	Compression string  // "" = unset; otherwise replaces the compression set
}

// Apply resolves the narrowing into the active parameter space.
// Unknown checksum or compression names fail here, before any
// generation; version values are passed through unvalidated and
// surface from the table writer instead.
func (n Narrowing) Apply() (Space, error) {
	var space Space

	switch n.Preset {
	case "", "all":
		space = DefaultSpace()
	case "minimal":
		space = MinimalSpace()
	default:
		return Space{}, fmt.Errorf("unknown preset %q (valid: all, minimal)", n.Preset)
	}

	if n.Version != nil {
		space.Versions = []uint32{*n.Version}
	}

	if n.Checksum != "" {
		ck, err := ParseChecksum(n.Checksum)
		if err != nil {
			return Space{}, err
		}
		space.Checksums = []sstable.ChecksumType{ck}
	}

	if n.Compression != "" {
		cmp, err := ParseCompression(n.Compression)
		if err != nil {
			return Space{}, err
		}
		space.Compressions = []sstable.CompressionType{cmp}
	}

	return space, nil
}
