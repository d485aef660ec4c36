// Package main provides the entry point for the yokatlas-bridge CLI.
package main

import (
	"os"

	"github.com/emirks/yokatlas-bridge/cmd/yokatlas-bridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
