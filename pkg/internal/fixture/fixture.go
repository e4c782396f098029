// Package fixture is host-linked code used by tests as the image of a
// module. Exports returns its symbol table in the shape plugin.Lookup
// would produce.
package fixture

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PkgPath is the package path of this package as recorded in debug info.
const PkgPath = "github.com/go-delve/runmod/pkg/internal/fixture"

// Out is where fixture members print.
var Out io.Writer = os.Stdout

// Exports returns the exported package level symbols of this package.
func Exports() map[string]any {
	return map[string]any{
		"DefaultHello":  &DefaultHello,
		"Add":           Add,
		"NewMainWindow": NewMainWindow,
		"NewDialog":     NewDialog,
		"DIALOG":        DIALOG,
		"Explode":       Explode,
		"NewBroken":     NewBroken,
		"NewConfig":     NewConfig,
		"Describe":      Describe,
		"Greet":         Greet,
		"Fail":          Fail,
		"Shown":         &Shown,
	}
}

// Hello has no constructor: it is only reachable through DefaultHello.
type Hello struct {
	greeting string
}

var DefaultHello Hello

func (h *Hello) SayHello(args []string) {
	if len(args) > 0 {
		fmt.Fprintln(Out, "Hello "+args[0])
	} else {
		fmt.Fprintln(Out, "Hello world!")
	}
}

func (h Hello) Greeting() string {
	if h.greeting == "" {
		return "hello"
	}
	return h.greeting
}

func Add(a, b int) int {
	return a + b
}

// Shown records the titles of the windows shown.
var Shown []string

type MainWindow struct {
	Title string
}

func NewMainWindow() *MainWindow {
	return &MainWindow{Title: "main"}
}

func (w *MainWindow) Show() {
	Shown = append(Shown, w.Title)
}

func (w *MainWindow) Close() {}

// Dialog is a window type whose name collides, ignoring case, with the
// DIALOG function.
type Dialog struct {
	Title string
}

func NewDialog() *Dialog {
	return &Dialog{Title: "dialog"}
}

func (d *Dialog) Show() {
	Shown = append(Shown, d.Title)
}

func DIALOG() string {
	return "not a window"
}

func Explode() {
	panic("boom")
}

func Fail() error {
	return fmt.Errorf("failed on purpose")
}

type Broken struct {
	ready bool
}

func NewBroken() *Broken {
	panic("constructor failed")
}

func (b *Broken) Run() bool {
	return b.ready
}

type Config struct {
	Name string
}

func NewConfig() *Config {
	return &Config{Name: "default"}
}

type Shape interface {
	Area() float64
}

// Describe reports how each of its arguments was synthesized.
func Describe(c *Config, b *Broken, s Shape, xs []int, m map[string]int, cb func(), arr [2]byte) string {
	return fmt.Sprintf("config=%s broken=%v shape=%v xs=%d map=%v cb=%v arr=%v",
		c.Name, b != nil && !b.ready, s == nil, len(xs), m != nil, cb == nil, arr)
}

func Greet(greeting string, names ...string) string {
	return greeting + " " + strings.Join(names, ",")
}
