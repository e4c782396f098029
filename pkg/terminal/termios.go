//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

// SaveState records the terminal attributes of standard input. The
// returned function restores them, for entry points that leave the
// terminal in raw mode or with echo disabled. It does nothing when
// standard input is not a terminal.
func SaveState() (restore func()) {
	return saveState(int(os.Stdin.Fd()))
}

func saveState(fd int) func() {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return func() {}
	}
	return func() {
		unix.IoctlSetTermios(fd, ioctlWriteTermios, termios)
	}
}
