// Package main provides yaledb-fixtures, a generator for the SST
// format conformance fixture pack.
package main

import (
	"os"

	"github.com/ovr/yaledb/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args[1:]))
}
