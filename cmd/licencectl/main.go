// Package main provides the licencectl entry point.
package main

import (
	"os"
	"runtime/debug"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/cli"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	fillVersionFromBuildInfo()
	if err := cli.Execute(cli.VersionInfo{Version: version, Commit: commit, Date: date}); err != nil {
		os.Exit(1)
	}
}

func fillVersionFromBuildInfo() {
	if version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return
	}
	version = info.Main.Version
}
