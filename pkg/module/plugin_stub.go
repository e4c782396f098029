//go:build !((linux && cgo) || (darwin && cgo) || (freebsd && cgo))

package module

import "runtime"

// OpenImage always fails, Go plugins are not supported on this platform
// or cgo is disabled.
func OpenImage(path string) (Image, error) {
	return nil, &FormatError{Path: path, Reason: "plugins are not supported on " + runtime.GOOS + "/" + runtime.GOARCH + " or cgo is disabled"}
}
