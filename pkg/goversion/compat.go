package goversion

import (
	"fmt"
	"runtime"
)

// Compatible checks that a module compiled with Go version moduleVer can
// be linked into a host process running hostVer. The plugin loader
// requires the exact same release, so versions must match up to the
// revision; development toolchains are only checked against each other.
func Compatible(moduleVer, hostVer string) error {
	mv, ok := Parse(moduleVer)
	if !ok {
		return fmt.Errorf("could not parse module Go version %q", moduleVer)
	}
	hv, ok := Parse(hostVer)
	if !ok {
		return fmt.Errorf("could not parse host Go version %q", hostVer)
	}
	if mv.IsDevel() || hv.IsDevel() {
		if mv.IsDevel() != hv.IsDevel() {
			return fmt.Errorf("module built with %s, host built with %s", mv.String(), hv.String())
		}
		return nil
	}
	if mv.Major != hv.Major || mv.Minor != hv.Minor || mv.Rev != hv.Rev {
		return fmt.Errorf("module built with %s, host built with %s", mv.String(), hv.String())
	}
	return nil
}

// CompatibleWithHost is Compatible against the Go version of the running process.
func CompatibleWithHost(moduleVer string) error {
	return Compatible(moduleVer, runtime.Version())
}
