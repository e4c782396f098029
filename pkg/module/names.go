package module

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// symbolName is a Go function symbol split into its parts.
type symbolName struct {
	pkg         string
	receiver    string
	ptrReceiver bool
	base        string
	// synthetic is set for compiler generated symbols (closures, init
	// functions, wrappers, instantiated generics) which can never be
	// looked up in a live image.
	synthetic bool
}

// splitSymbol splits a function name such as "example.com/m.(*T).M" into
// package path, receiver and base name. cu is the name of the compile
// unit the function was found in, which is the package path for Go code.
func splitSymbol(name, cu string) symbolName {
	var sn symbolName
	rest := ""
	if cu != "" && strings.HasPrefix(name, cu+".") {
		sn.pkg = cu
		rest = name[len(cu)+1:]
	} else {
		sn.pkg = packageName(name)
		if sn.pkg == "" {
			return symbolName{base: name, synthetic: true}
		}
		rest = name[len(sn.pkg)+1:]
	}

	if strings.ContainsAny(rest, "[]") || strings.Contains(rest, "..") || strings.HasPrefix(rest, "init") && (rest == "init" || strings.HasPrefix(rest, "init.")) {
		sn.base = rest
		sn.synthetic = true
		return sn
	}

	if strings.HasPrefix(rest, "(*") {
		end := strings.Index(rest, ").")
		if end < 0 {
			sn.base = rest
			sn.synthetic = true
			return sn
		}
		sn.receiver = rest[2:end]
		sn.ptrReceiver = true
		rest = rest[end+2:]
		if strings.Contains(rest, ".") {
			sn.base = rest
			sn.synthetic = true
			return sn
		}
		sn.base = rest
		return sn
	}

	v := strings.Split(rest, ".")
	switch len(v) {
	case 1:
		sn.base = v[0]
	case 2:
		sn.receiver, sn.base = v[0], v[1]
	default:
		sn.base = rest
		sn.synthetic = true
	}
	if strings.HasSuffix(sn.base, "-fm") || isClosureName(sn.base) {
		sn.receiver = ""
		sn.base = rest
		sn.synthetic = true
	}
	return sn
}

// qualifiedName returns pkg.Recv.Base without the pointer receiver
// decoration.
func (sn symbolName) qualifiedName() string {
	if sn.receiver == "" {
		return sn.pkg + "." + sn.base
	}
	return sn.pkg + "." + sn.receiver + "." + sn.base
}

// packageName returns the package part of the symbol name,
// or the empty string if there is none.
// Borrowed from $GOROOT/debug/gosym/symtab.go
func packageName(name string) string {
	pathend := strings.LastIndex(name, "/")
	if pathend < 0 {
		pathend = 0
	}

	if i := strings.Index(name[pathend:], "."); i != -1 {
		return name[:pathend+i]
	}
	return ""
}

// splitTypeName splits a named type such as "gopkg.in/yaml.v2.Node" into
// package path and type name.
func splitTypeName(name string) (pkg, base string) {
	pathend := strings.LastIndex(name, "/")
	if pathend < 0 {
		pathend = 0
	}
	i := strings.LastIndex(name[pathend:], ".")
	if i < 0 {
		return "", name
	}
	return name[:pathend+i], name[pathend+i+1:]
}

// isNamedType reports whether a DWARF type name is a package level named
// type rather than a type literal (pointer, slice, map, func...).
func isNamedType(name string) bool {
	if name == "" || strings.ContainsAny(name, "*[]() {}") || strings.HasPrefix(name, "chan ") || strings.HasPrefix(name, "map[") {
		return false
	}
	pkg, base := splitTypeName(name)
	return pkg != "" && base != "" && !strings.ContainsAny(pkg, ":")
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// closurePrefixes are the names the compiler gives closures and the
// wrappers of go and defer statements, followed by a counter.
var closurePrefixes = []string{"func", "gowrap", "deferwrap"}

func isClosureName(name string) bool {
	for _, prefix := range closurePrefixes {
		if strings.HasPrefix(name, prefix) && isDigits(name[len(prefix):]) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
