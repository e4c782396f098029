// Package gobuild builds Go packages as plugins runmod can load.
package gobuild

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-delve/runmod/pkg/logflags"
)

// Remove the file at path and issue a warning to stderr if this fails.
func Remove(path string) {
	var err error
	for i := 0; i < 20; i++ {
		err = os.Remove(path)
		// Open files can be removed on Unix, but not on Windows, where there also appears
		// to be a delay in releasing the file.
		if err == nil || runtime.GOOS != "windows" {
			break
		}
		time.Sleep(1 * time.Millisecond)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not remove %v: %v\n", path, err)
	}
}

// DefaultPluginPath returns an unused file path in the current directory
// named 'name' followed by a random string and the .so extension.
func DefaultPluginPath(name string) string {
	f, err := os.CreateTemp(".", name+".*.so")
	if err != nil {
		logflags.LoaderLogger().Errorf("could not create temporary file for build output: %v", err)
		return name + ".so"
	}
	r := f.Name()
	f.Close()
	return r
}

// BuildPlugin builds 'pkgs' as a plugin, with the specified 'buildflags',
// and writes it at 'out'. Packages, or files, are relative to 'dir'.
// The build output is returned along with the full command line.
func BuildPlugin(dir, out string, pkgs []string, buildflags []string) (string, []byte, error) {
	return goBuildCombinedOutput(dir, goBuildArgs(out, pkgs, buildflags, true))
}

// GoBuildCombinedOutput builds 'pkgs' as an executable, with the specified
// 'buildflags', and writes it at 'out'. The executable keeps its debug
// info, so it can be read as the structure of host-linked code.
func GoBuildCombinedOutput(dir, out string, pkgs []string, buildflags []string) (string, []byte, error) {
	return goBuildCombinedOutput(dir, goBuildArgs(out, pkgs, buildflags, false))
}

func goBuildCombinedOutput(dir string, args []string) (string, []byte, error) {
	cmdline, goBuild := gocommandExecCmd("build", args...)
	goBuild.Dir = dir
	goBuild.Env = append(os.Environ(), "CGO_ENABLED=1")
	logflags.LoaderLogger().Debugf("building: %s", cmdline)
	output, err := goBuild.CombinedOutput()
	return cmdline, output, err
}

// goBuildArgs returns the arguments of 'go build'. Compiler flags are
// never forced on all packages: a plugin must share the compiled form of
// every package it has in common with the host.
func goBuildArgs(out string, pkgs []string, buildflags []string, plugin bool) []string {
	var args []string
	if len(buildflags) >= 2 && buildflags[0] == "-C" {
		args = append(args, buildflags[:2]...)
		buildflags = buildflags[2:]
	} else if len(buildflags) >= 1 && strings.HasPrefix(buildflags[0], "-C=") {
		args = append(args, buildflags[0])
		buildflags = buildflags[1:]
	}
	if plugin {
		args = append(args, "-buildmode=plugin")
	}
	args = append(args, "-o", out)
	args = append(args, buildflags...)
	return append(args, pkgs...)
}

func gocommandExecCmd(command string, args ...string) (string, *exec.Cmd) {
	allargs := []string{command}
	allargs = append(allargs, args...)
	goBuild := exec.Command("go", allargs...)
	return strings.Join(append([]string{"go"}, allargs...), " "), goBuild
}
