package main

import (
	"os"

	"github.com/go-delve/runmod/cmd/runmod/cmds"
	"github.com/go-delve/runmod/pkg/version"
)

// Build is the git sha of this binaries build.
var Build string

func main() {
	if Build != "" {
		version.RunmodVersion.Build = Build
	}
	if err := cmds.New(false).Execute(); err != nil {
		os.Exit(cmds.ExitUsage)
	}
}
