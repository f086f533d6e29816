// Package main is the entry point for the dfac CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/dfac/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
