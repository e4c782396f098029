//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

// SaveState does nothing, terminal attributes are not saved on this
// platform.
func SaveState() (restore func()) {
	return func() {}
}
