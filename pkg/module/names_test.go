package module

import "testing"

func TestSplitSymbol(t *testing.T) {
	testCases := []struct {
		name, cu string
		tgt      symbolName
	}{
		{"main.main", "main", symbolName{pkg: "main", base: "main"}},
		{"HelloWorldDll.(*Hello).SayHello", "HelloWorldDll", symbolName{pkg: "HelloWorldDll", receiver: "Hello", ptrReceiver: true, base: "SayHello"}},
		{"HelloWorldDll.Hello.SayHello", "HelloWorldDll", symbolName{pkg: "HelloWorldDll", receiver: "Hello", base: "SayHello"}},
		{"gopkg.in/yaml.v2.Marshal", "gopkg.in/yaml.v2", symbolName{pkg: "gopkg.in/yaml.v2", base: "Marshal"}},
		{"example.com/a/b.T.M", "", symbolName{pkg: "example.com/a/b", receiver: "T", base: "M"}},
		{"example.com/a/b.F.func1", "example.com/a/b", symbolName{pkg: "example.com/a/b", base: "F.func1", synthetic: true}},
		{"example.com/a/b.(*T).M.func2", "example.com/a/b", symbolName{pkg: "example.com/a/b", receiver: "T", ptrReceiver: true, base: "M.func2", synthetic: true}},
		{"example.com/a/b.F.gowrap1", "example.com/a/b", symbolName{pkg: "example.com/a/b", base: "F.gowrap1", synthetic: true}},
		{"example.com/a/b.F.deferwrap2", "example.com/a/b", symbolName{pkg: "example.com/a/b", base: "F.deferwrap2", synthetic: true}},
		{"example.com/a/b.Funcs.Gowrap", "example.com/a/b", symbolName{pkg: "example.com/a/b", receiver: "Funcs", base: "Gowrap"}},
		{"example.com/a/b.(*T).M.gowrap1", "example.com/a/b", symbolName{pkg: "example.com/a/b", receiver: "T", ptrReceiver: true, base: "M.gowrap1", synthetic: true}},
		{"example.com/a/b.init.0", "example.com/a/b", symbolName{pkg: "example.com/a/b", base: "init.0", synthetic: true}},
		{"example.com/a/b.Map[go.shape.int]", "example.com/a/b", symbolName{pkg: "example.com/a/b", base: "Map[go.shape.int]", synthetic: true}},
		{"example.com/a/b.glob..func1", "example.com/a/b", symbolName{pkg: "example.com/a/b", base: "glob..func1", synthetic: true}},
		{"noPackage", "", symbolName{base: "noPackage", synthetic: true}},
	}
	for _, tc := range testCases {
		out := splitSymbol(tc.name, tc.cu)
		if out != tc.tgt {
			t.Errorf("splitSymbol(%q, %q) = %#v, expected %#v", tc.name, tc.cu, out, tc.tgt)
		}
	}
}

func TestQualifiedName(t *testing.T) {
	sn := splitSymbol("HelloWorldDll.(*Hello).SayHello", "HelloWorldDll")
	if got := sn.qualifiedName(); got != "HelloWorldDll.Hello.SayHello" {
		t.Fatalf("got %q", got)
	}
	sn = splitSymbol("example.com/m.Run", "example.com/m")
	if got := sn.qualifiedName(); got != "example.com/m.Run" {
		t.Fatalf("got %q", got)
	}
}

func TestIsNamedType(t *testing.T) {
	for name, tgt := range map[string]bool{
		"main.Hello":             true,
		"gopkg.in/yaml.v2.Node":  true,
		"MyForms.MainWindow":     true,
		"*main.Hello":            false,
		"[]string":               false,
		"map[string]int":         false,
		"chan int":               false,
		"func(int) string":       false,
		"struct { a int }":       false,
		"string":                 false,
		"main.List[int]":         false,
		"go:itab.*main.T,main.I": false,
	} {
		if got := isNamedType(name); got != tgt {
			t.Errorf("isNamedType(%q) = %v, expected %v", name, got, tgt)
		}
	}
}
