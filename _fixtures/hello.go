package main

import (
	"fmt"
	"io"
	"os"
)

// Out is where Hello prints, tests redirect it.
var Out io.Writer = os.Stdout

type Hello struct{}

// Default keeps Hello reachable from the symbol table.
var Default Hello

func (h *Hello) SayHello(args []string) {
	if len(args) > 0 {
		fmt.Fprintln(Out, "Hello "+args[0])
	} else {
		fmt.Fprintln(Out, "Hello world!")
	}
}

func Sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func main() {}
