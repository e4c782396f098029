package invoke_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/go-delve/runmod/pkg/catalog"
	"github.com/go-delve/runmod/pkg/internal/protest"
	"github.com/go-delve/runmod/pkg/invoke"
	"github.com/go-delve/runmod/pkg/module"
	"github.com/go-delve/runmod/pkg/resolve"
)

func TestMain(m *testing.M) {
	os.Exit(protest.RunTestsWithFixtures(m))
}

func loadPlugin(t *testing.T, name string) *module.Module {
	t.Helper()
	p := protest.BuildPlugin(t, name)
	mod, err := module.Load(p.Path)
	if err != nil {
		var fe *module.FormatError
		if errors.As(err, &fe) {
			t.Skipf("could not open plugin %s: %v", name, err)
		}
		t.Fatal(err)
	}
	return mod
}

// pluginVar returns a pointer to the package variable of mod with the
// given base name.
func pluginVar(t *testing.T, mod *module.Module, name string) interface{} {
	t.Helper()
	for _, v := range mod.Metadata.Vars {
		if v.Package == mod.Name && strings.HasSuffix(v.Name, "."+name) {
			if rv, ok := mod.Live.Var(v.Token); ok {
				return rv.Interface()
			}
		}
	}
	t.Fatalf("variable %s not found in %s", name, mod.Name)
	return nil
}

func TestPluginHello(t *testing.T) {
	mod := loadPlugin(t, "hello")
	cat := catalog.Build(mod, nil)
	buf := new(bytes.Buffer)
	out := pluginVar(t, mod, "Out").(*io.Writer)
	*out = buf
	defer func() { *out = os.Stdout }()

	// list: only the plugin's own members
	for _, m := range cat.AllMembers(true) {
		if m.Module != mod.Name {
			t.Fatalf("member %s of %s in filtered listing", m.Name, m.Module)
		}
	}

	sayHello := mod.Name + ".Hello.SayHello"
	res, err := invoke.New(cat, nil).Run(sayHello)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Hello world!\n" {
		t.Fatalf("output %q", buf.String())
	}

	buf.Reset()
	tgt, err := resolve.Resolve(sayHello, cat)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := invoke.New(cat, nil).Run(resolve.FormatToken(tgt.Method.Token)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Hello world!\n" {
		t.Fatalf("output by token %q", buf.String())
	}

	res, err = invoke.New(cat, nil).Run(mod.Name + ".sum")
	if err != nil {
		t.Fatal(err)
	}
	if res.Values[0].Int() != 0 {
		t.Fatalf("Sum of nothing: %v", res.Values[0])
	}

	_, err = invoke.New(cat, nil).Run("NoSuchType.NoSuchMethod")
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestPluginWindow(t *testing.T) {
	mod := loadPlugin(t, "forms")
	cat := catalog.Build(mod, nil)
	shown := pluginVar(t, mod, "Shown").(*int)
	before := *shown

	inv := invoke.New(cat, nil)
	res, err := inv.Run(mod.Name + ".MainWindow")
	if err != nil {
		t.Fatal(err)
	}
	if res.Target != mod.Name+".MainWindow" {
		t.Fatalf("invoked %s", res.Target)
	}
	if *shown != before+1 {
		t.Fatalf("Show called %d times", *shown-before)
	}

	res, err = invoke.New(cat, nil).Run(fmt.Sprintf("%s.MainWindowTitle", mod.Name))
	if err != nil {
		t.Fatal(err)
	}
	if res.Values[0].String() != "MyForms" {
		t.Fatalf("title %v", res.Values[0])
	}
}
