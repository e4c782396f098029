// Package terminal prints member and type reports and implements the
// wait that keeps a process alive after its entry point returned.
package terminal

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/go-delve/runmod/pkg/catalog"
	"github.com/go-delve/runmod/pkg/config"
	"github.com/go-delve/runmod/pkg/invoke"
)

const (
	ansiRed     = 31
	ansiGreen   = 32
	ansiYellow  = 33
	ansiBlue    = 34
	ansiCyan    = 36
	ansiBrBlack = 90
)

// Report writes reports, optionally colored with ANSI escapes.
type Report struct {
	w     io.Writer
	color bool
	// ShowNonInvocable includes members that could not be bound.
	ShowNonInvocable bool
}

// NewReport returns a report writing to w.
func NewReport(w io.Writer, color bool) *Report {
	return &Report{w: w, color: color}
}

// Stdout returns a report writing to standard output. Colors are used
// if the configuration asks for them and standard output is a terminal.
func Stdout(conf *config.Config) *Report {
	color := conf != nil && conf.Color && isatty.IsTerminal(os.Stdout.Fd())
	r := NewReport(colorable.NewColorableStdout(), color)
	r.ShowNonInvocable = conf != nil && conf.ShowNonInvocable
	return r
}

func (r *Report) paint(color int, s string) string {
	if !r.color {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[0m", color, s)
}

// PrintMembers prints the token, in decimal and hexadecimal, and the name
// of each member.
func (r *Report) PrintMembers(members []*catalog.Member) {
	fmt.Fprintln(r.w, r.paint(ansiGreen, "[+] Methods"))
	for _, m := range members {
		if !m.Invocable && !r.ShowNonInvocable {
			continue
		}
		line := fmt.Sprintf("\t%d (0x%X) - %s", m.Token, m.Token, r.paint(ansiCyan, m.Name))
		if !m.Invocable {
			line += r.paint(ansiBrBlack, " (not invocable)")
		}
		fmt.Fprintln(r.w, line)
	}
}

// PrintTypes prints the token, kind and name of each type, window types
// are marked with their display method.
func (r *Report) PrintTypes(types []*catalog.Type) {
	fmt.Fprintln(r.w, r.paint(ansiGreen, "[+] Types"))
	for _, t := range types {
		line := fmt.Sprintf("\t%d (0x%X) - %s %s", t.Token, t.Token, r.paint(ansiCyan, t.Name), t.Kind)
		switch {
		case t.Window:
			line += r.paint(ansiYellow, " [window: "+t.Display+"]")
		case t.Array:
			line += " of " + t.Elem
		}
		fmt.Fprintln(r.w, line)
	}
}

// PrintResult prints the values returned by an invocation.
func (r *Report) PrintResult(res *invoke.Result) {
	for i, v := range res.Values {
		fmt.Fprintf(r.w, "%s %d: %s\n", r.paint(ansiBlue, "[+] Result"), i, formatValue(v))
	}
}

// PrintError prints err as a failure line.
func (r *Report) PrintError(err error) {
	fmt.Fprintln(r.w, r.paint(ansiRed, "[-] "+err.Error()))
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return "<invalid>"
	}
	if !v.CanInterface() {
		return v.Type().String()
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return "nil"
		}
	}
	return fmt.Sprintf("%v", v.Interface())
}
