package terminal

import (
	"bufio"
	"io"
	"os"
	"os/signal"

	"github.com/go-delve/liner"
	"github.com/mattn/go-isatty"
)

const exitPrompt = "[+] Press Enter to Exit"

// WaitForExit blocks until a line is read from standard input or the
// process is interrupted.
func WaitForExit() error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, exitSignals...)
	defer signal.Stop(sig)

	if isatty.IsTerminal(os.Stdin.Fd()) {
		return promptLine(sig)
	}
	os.Stdout.WriteString(exitPrompt + "\n")
	return waitForLine(os.Stdin, sig)
}

func promptLine(sig <-chan os.Signal) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	done := make(chan error, 1)
	go func() {
		_, err := line.Prompt(exitPrompt + " ")
		done <- err
	}()
	select {
	case err := <-done:
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		return err
	case <-sig:
		return nil
	}
}

// waitForLine returns when a line, or EOF, is read from r or a signal is
// received from sig.
func waitForLine(r io.Reader, sig <-chan os.Signal) error {
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r).ReadString('\n')
		done <- err
	}()
	select {
	case err := <-done:
		if err == io.EOF {
			return nil
		}
		return err
	case <-sig:
		return nil
	}
}
