package invoke_test

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/go-delve/runmod/pkg/catalog"
	"github.com/go-delve/runmod/pkg/internal/fixture"
	"github.com/go-delve/runmod/pkg/internal/protest"
	"github.com/go-delve/runmod/pkg/invoke"
	"github.com/go-delve/runmod/pkg/resolve"
)

const pkg = fixture.PkgPath

func buildCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.Build(protest.LoadHost(t), nil)
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	old := fixture.Out
	fixture.Out = buf
	t.Cleanup(func() { fixture.Out = old })
	return buf
}

func run(t *testing.T, cat *catalog.Catalog, identifier string, args ...string) *invoke.Result {
	t.Helper()
	inv := invoke.New(cat, args)
	res, err := inv.Run(identifier)
	if err != nil {
		t.Fatalf("%s: %v", identifier, err)
	}
	if inv.State() != invoke.Done {
		t.Fatalf("%s: state %v after run", identifier, inv.State())
	}
	return res
}

func TestSayHello(t *testing.T) {
	cat := buildCatalog(t)
	out := captureOutput(t)

	run(t, cat, pkg+".Hello.SayHello")
	if out.String() != "Hello world!\n" {
		t.Fatalf("output %q", out.String())
	}

	out.Reset()
	run(t, cat, pkg+".Hello.SayHello", "gopher")
	if out.String() != "Hello gopher\n" {
		t.Fatalf("output with arguments %q", out.String())
	}
}

func TestSayHelloByToken(t *testing.T) {
	cat := buildCatalog(t)
	out := captureOutput(t)

	tgt, err := resolve.Resolve(pkg+".Hello.SayHello", cat)
	if err != nil {
		t.Fatal(err)
	}
	run(t, cat, resolve.FormatToken(tgt.Method.Token))
	if out.String() != "Hello world!\n" {
		t.Fatalf("output %q", out.String())
	}
}

func TestShowWindow(t *testing.T) {
	cat := buildCatalog(t)
	old := fixture.Shown
	defer func() { fixture.Shown = old }()

	fixture.Shown = nil
	res := run(t, cat, pkg+".MainWindow")
	if len(res.Values) != 0 {
		t.Fatalf("window returned %v", res.Values)
	}
	if !reflect.DeepEqual(fixture.Shown, []string{"main"}) {
		t.Fatalf("shown %v", fixture.Shown)
	}

	fixture.Shown = nil
	run(t, cat, strings.ToLower(pkg+".Dialog"))
	if !reflect.DeepEqual(fixture.Shown, []string{"dialog"}) {
		t.Fatalf("shown %v", fixture.Shown)
	}
}

func TestResults(t *testing.T) {
	cat := buildCatalog(t)
	testCases := []struct {
		identifier string
		args       []string
		check      func(v []reflect.Value) bool
	}{
		{pkg + ".Add", nil, func(v []reflect.Value) bool { return v[0].Int() == 0 }},
		{pkg + ".Greet", []string{"hi", "a", "b"}, func(v []reflect.Value) bool { return v[0].String() == "hi a,b" }},
		{pkg + ".Greet", nil, func(v []reflect.Value) bool { return v[0].String() == " " }},
		{pkg + ".Hello.Greeting", nil, func(v []reflect.Value) bool { return v[0].String() == "hello" }},
		{pkg + ".Fail", nil, func(v []reflect.Value) bool { return !v[0].IsNil() }},
		{pkg + ".Describe", nil, func(v []reflect.Value) bool {
			return v[0].String() == "config=default broken=true shape=true xs=0 map=true cb=true arr=[0 0]"
		}},
	}
	for _, tc := range testCases {
		res := run(t, cat, tc.identifier, tc.args...)
		if !tc.check(res.Values) {
			t.Errorf("%s%v: unexpected result %v", tc.identifier, tc.args, res.Values)
		}
	}
}

func TestFaults(t *testing.T) {
	cat := buildCatalog(t)
	testCases := []struct {
		identifier string
		target     string
		value      string
	}{
		{pkg + ".Explode", pkg + ".Explode", "boom"},
		{pkg + ".Broken.Run", pkg + ".NewBroken", "constructor failed"},
	}
	for _, tc := range testCases {
		inv := invoke.New(cat, nil)
		_, err := inv.Run(tc.identifier)
		var fault *invoke.Fault
		if !errors.As(err, &fault) {
			t.Errorf("%s: expected a fault, got %v", tc.identifier, err)
			continue
		}
		if fault.Target != tc.target || fault.Value != tc.value {
			t.Errorf("%s: fault %q on %s", tc.identifier, fault.Value, fault.Target)
		}
		if len(fault.Stack) == 0 {
			t.Errorf("%s: no stack", tc.identifier)
		}
		if inv.State() != invoke.Done {
			t.Errorf("%s: state %v", tc.identifier, inv.State())
		}
	}
}

func TestNotFound(t *testing.T) {
	cat := buildCatalog(t)
	inv := invoke.New(cat, nil)
	if inv.State() != invoke.Idle {
		t.Fatalf("initial state %v", inv.State())
	}
	_, err := inv.Run("NoSuchType.NoSuchMethod")
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	var fault *invoke.Fault
	if errors.As(err, &fault) {
		t.Fatal("not found reported as a fault")
	}
	if inv.State() != invoke.Failed {
		t.Fatalf("state %v", inv.State())
	}
}

func TestFaultUnwrap(t *testing.T) {
	f := &invoke.Fault{Target: "x", Value: io.EOF}
	if !errors.Is(f, io.EOF) {
		t.Fatal("fault does not unwrap to its panic value")
	}
	if (&invoke.Fault{Value: "text"}).Unwrap() != nil {
		t.Fatal("non error panic value unwrapped")
	}
}
