// Package main provides the entry point for the buildinfo command.
package main

import (
	"os"

	"github.com/maauso/buildinfo/internal/commands"
)

// version is set via ldflags: -X main.version=v1.0.0
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
