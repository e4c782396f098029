package gobuild

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestGoBuildArgsDashC(t *testing.T) {
	testCases := []struct {
		in     string
		plugin bool
		tgt    string
	}{
		{"", true, "-buildmode=plugin -o mod.so pkg"},
		{"-C somedir", true, "-C somedir -buildmode=plugin -o mod.so pkg"},
		{"-C", true, "-buildmode=plugin -o mod.so -C pkg"},
		{"-C=somedir", true, "-C=somedir -buildmode=plugin -o mod.so pkg"},
		{"-C somedir -trimpath -v", true, "-C somedir -buildmode=plugin -o mod.so -trimpath -v pkg"},
		{"-C=somedir -trimpath -v", true, "-C=somedir -buildmode=plugin -o mod.so -trimpath -v pkg"},
		{"", false, "-o mod.so pkg"},
		{"-C somedir -v", false, "-C somedir -o mod.so -v pkg"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			out := goBuildArgs("mod.so", []string{"pkg"}, strings.Fields(tc.in), tc.plugin)
			tgt := strings.Fields(tc.tgt)
			t.Logf("%q -> %q", tc.in, out)
			if !reflect.DeepEqual(out, tgt) {
				t.Errorf("output mismatch input %q\noutput %q\ntarget %q", tc.in, out, tgt)
			}
		})
	}
}

func TestDefaultPluginPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	p1, p2 := DefaultPluginPath("hello"), DefaultPluginPath("hello")
	if p1 == p2 {
		t.Fatalf("same path returned twice: %s", p1)
	}
	for _, p := range []string{p1, p2} {
		if !strings.HasPrefix(filepath.Base(p), "hello.") || filepath.Ext(p) != ".so" {
			t.Errorf("bad path %s", p)
		}
		Remove(p)
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s not removed", p)
		}
	}
}
