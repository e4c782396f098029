//go:build !unix

package terminal

import "os"

var exitSignals = []os.Signal{os.Interrupt}
