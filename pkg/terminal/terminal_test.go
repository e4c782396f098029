package terminal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-delve/runmod/pkg/catalog"
	"github.com/go-delve/runmod/pkg/invoke"
)

func TestPrintMembers(t *testing.T) {
	members := []*catalog.Member{
		{Token: 0x06000002, Name: "HelloWorldDll.Hello.SayHello", Invocable: true},
		{Token: 31, Name: "HelloWorldDll.hidden"},
	}
	var buf bytes.Buffer
	NewReport(&buf, false).PrintMembers(members)
	const expected = "[+] Methods\n\t100663298 (0x6000002) - HelloWorldDll.Hello.SayHello\n"
	if buf.String() != expected {
		t.Fatalf("got %q\nexpected %q", buf.String(), expected)
	}

	buf.Reset()
	r := NewReport(&buf, false)
	r.ShowNonInvocable = true
	r.PrintMembers(members)
	if !strings.Contains(buf.String(), "\t31 (0x1F) - HelloWorldDll.hidden (not invocable)\n") {
		t.Fatalf("non invocable member missing: %q", buf.String())
	}

	buf.Reset()
	NewReport(&buf, true).PrintMembers(members[:1])
	if !strings.Contains(buf.String(), "\033[36mHelloWorldDll.Hello.SayHello\033[0m") {
		t.Fatalf("no colors: %q", buf.String())
	}
}

func TestPrintTypes(t *testing.T) {
	types := []*catalog.Type{
		{Token: 1, Name: "MyForms.MainWindow", Kind: reflect.Struct, Window: true, Display: "Show"},
		{Token: 2, Name: "MyForms.Names", Kind: reflect.Slice, Array: true, Elem: "string"},
	}
	var buf bytes.Buffer
	NewReport(&buf, false).PrintTypes(types)
	const expected = "[+] Types\n\t1 (0x1) - MyForms.MainWindow struct [window: Show]\n\t2 (0x2) - MyForms.Names slice of string\n"
	if buf.String() != expected {
		t.Fatalf("got %q\nexpected %q", buf.String(), expected)
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	var nilErr error
	res := &invoke.Result{Values: []reflect.Value{
		reflect.ValueOf(42),
		reflect.ValueOf(&nilErr).Elem(),
		reflect.ValueOf("ok"),
	}}
	NewReport(&buf, false).PrintResult(res)
	const expected = "[+] Result 0: 42\n[+] Result 1: nil\n[+] Result 2: ok\n"
	if buf.String() != expected {
		t.Fatalf("got %q\nexpected %q", buf.String(), expected)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestWaitForLine(t *testing.T) {
	if err := waitForLine(strings.NewReader("\n"), nil); err != nil {
		t.Fatalf("newline: %v", err)
	}
	if err := waitForLine(strings.NewReader(""), nil); err != nil {
		t.Fatalf("EOF: %v", err)
	}
	if err := waitForLine(errReader{}, nil); err == nil {
		t.Fatal("read error not reported")
	}

	pr, pw := io.Pipe()
	defer pw.Close()
	sig := make(chan os.Signal, 1)
	done := make(chan error)
	go func() {
		done <- waitForLine(pr, sig)
	}()
	select {
	case <-done:
		t.Fatal("returned without input")
	case <-time.After(50 * time.Millisecond):
	}
	sig <- os.Interrupt
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("signal ignored")
	}
}
