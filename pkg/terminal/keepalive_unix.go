//go:build unix

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

var exitSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}
