// Package main provides the pipemenu CLI.
package main

import (
	"os"

	"github.com/stagecraft-labs/pipemenu/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
