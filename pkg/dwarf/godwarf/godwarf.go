// Package godwarf holds the Go specific extensions to DWARF emitted by the
// Go linker.
package godwarf

import (
	"debug/dwarf"
	"reflect"
)

// LangGo is the DW_AT_language value of Go compile units (DW_LANG_Go, from
// DWARF v5, section 7.12, page 231).
const LangGo = 22

const (
	AttrGoKind dwarf.Attr = 0x2900
	AttrGoElem dwarf.Attr = 0x2902
)

// IsGoUnit reports whether cu is the entry of a compile unit written in Go.
func IsGoUnit(cu *dwarf.Entry) bool {
	lang, _ := cu.Val(dwarf.AttrLanguage).(int64)
	return cu.Tag == dwarf.TagCompileUnit && lang == LangGo
}

// Kind returns the reflect kind the linker recorded for a type entry.
// Entries that do not describe a Go type have none.
func Kind(e *dwarf.Entry) (reflect.Kind, bool) {
	kind, ok := e.Val(AttrGoKind).(int64)
	if !ok {
		return reflect.Invalid, false
	}
	return reflect.Kind(kind), true
}

// ElemOffset returns the offset of the element type of a slice entry.
func ElemOffset(e *dwarf.Entry) (dwarf.Offset, bool) {
	off, ok := e.Val(AttrGoElem).(dwarf.Offset)
	return off, ok
}
