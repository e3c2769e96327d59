// Package main implements the retrofit CLI.
// It renames vendored UI components, their prop types, and their cross-file
// imports behind a fixed marker prefix so vendor and consumer code can
// coexist after installation.
package main

import (
	"os"

	"github.com/trailhead-diy/retrofit/cmd/retrofit/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`retrofit version {{.Version}}
`)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
