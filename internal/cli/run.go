// Package cli implements the yaledb-fixtures command line: flag
// parsing, parameter space narrowing, and the generation run.
package cli

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/ovr/yaledb/internal/fixture"
)

// Run is the main entry point. Returns exit code: 0 only if argument
// handling succeeded and every attempted combination was generated.
func Run(out, errOut io.Writer, args []string) int {
	flags := flag.NewFlagSet("yaledb-fixtures", flag.ContinueOnError)
	flags.SetOutput(io.Discard) // usage is hand-written below

	var (
		all             bool
		minimal         bool
		version         uint32
		checksumName    string
		compressionName string
		outDir          string
		configPath      string
		manifest        bool
	)

	flags.BoolVar(&all, "all", false, "generate the full default parameter space (default)")
	flags.BoolVar(&minimal, "minimal", false, "generate the minimal preset instead of the full space")
	flags.Uint32Var(&version, "version", 0, "narrow to a single table format version")
	flags.StringVar(&checksumName, "checksum", "", "narrow to a single checksum algorithm")
	flags.StringVar(&compressionName, "compression", "", "narrow to a single compression algorithm")
	flags.StringVar(&outDir, "out-dir", ".", "directory under which sst_files/ is created")
	flags.StringVar(&configPath, "config", "", "optional HuJSON config file")
	flags.BoolVar(&manifest, "manifest", false, "write sst_files/MANIFEST.json listing generated fixtures")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out)
			return 0
		}

		fmt.Fprintln(errOut, "error:", err)
		printUsage(errOut)
		return 1
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument %q\n", flags.Arg(0))
		printUsage(errOut)
		return 1
	}

	if all && minimal {
		fmt.Fprintln(errOut, "error: --all and --minimal are mutually exclusive")
		return 1
	}

	narrowing := fixture.Narrowing{
		Checksum:    checksumName,
		Compression: compressionName,
	}
	if flags.Changed("version") {
		// Every explicit value narrows, zero included; out-of-range
		// versions surface from the table writer later.
		narrowing.Version = &version
	}
	if minimal {
		narrowing.Preset = "minimal"
	}

	if configPath != "" {
		cfg, err := fixture.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}

		// Flags take precedence over the config file.
		if narrowing.Preset == "" && !all {
			narrowing.Preset = cfg.Preset
		}
		if narrowing.Version == nil && cfg.Version != nil {
			narrowing.Version = cfg.Version
		}
		if !flags.Changed("checksum") && cfg.Checksum != "" {
			narrowing.Checksum = cfg.Checksum
		}
		if !flags.Changed("compression") && cfg.Compression != "" {
			narrowing.Compression = cfg.Compression
		}
		if !flags.Changed("out-dir") && cfg.OutDir != "" {
			outDir = cfg.OutDir
		}
	}

	space, err := narrowing.Apply()
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	fmt.Fprintf(out, "generating %d fixture combinations under %s/\n", space.Size(), fixture.FixtureDir)

	driver := fixture.NewDriver(outDir, fixture.NewTableWriter(), out, errOut)

	report, err := driver.Run(space)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	if manifest {
		if err := fixture.WriteManifest(outDir, driver.Generated()); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
	}

	fmt.Fprintf(out, "done: %d attempted, %d succeeded, %d failed\n",
		report.Attempted, report.Succeeded, report.Failed)

	if !report.OK() {
		return 1
	}

	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: yaledb-fixtures [flags]

Generates deterministic SST fixture files for format conformance
testing, one file per (format version, checksum, compression)
combination, under sst_files/.

Flags:
  --all                generate the full default parameter space (default)
  --minimal            generate the minimal preset (3 versions x 2 checksums x 4 compressions)
  --version V          narrow to a single table format version
  --checksum C         narrow to one of: nocsum, crc32c, xxhash, xxhash64, xxh3
  --compression C      narrow to one of: none, snappy, zlib, lz4, lz4hc, zstd
  --out-dir DIR        directory under which sst_files/ is created (default ".")
  --config FILE        HuJSON config file; flags override its values
  --manifest           write sst_files/MANIFEST.json listing generated fixtures
  --help               show this help

Exit status is 0 only if every attempted combination was generated.
`)
}
