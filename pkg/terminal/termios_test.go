//go:build linux || darwin || freebsd

package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

func TestSaveStateRestoresEcho(t *testing.T) {
	p, tty, err := pty.Open()
	if err != nil {
		t.Skipf("could not open a pty: %v", err)
	}
	defer p.Close()
	defer tty.Close()
	fd := int(tty.Fd())

	before, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		t.Fatal(err)
	}
	if before.Lflag&unix.ECHO == 0 {
		t.Fatal("a new pty should echo")
	}
	restore := saveState(fd)

	raw := *before
	raw.Lflag &^= unix.ECHO | unix.ICANON
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		t.Fatal(err)
	}
	restore()

	after, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		t.Fatal(err)
	}
	if after.Lflag&unix.ECHO == 0 || after.Lflag&unix.ICANON == 0 {
		t.Fatalf("terminal attributes not restored: lflag %#x", after.Lflag)
	}
}

func TestSaveStateNotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	restore := saveState(int(f.Fd()))
	if restore == nil {
		t.Fatal("nil restore function")
	}
	restore()
}
