package godwarf

import (
	"debug/dwarf"
	"reflect"
	"testing"
)

func TestKind(t *testing.T) {
	testCases := []struct {
		entry *dwarf.Entry
		kind  reflect.Kind
		ok    bool
	}{
		{&dwarf.Entry{Tag: dwarf.TagStructType, Field: []dwarf.Field{{Attr: AttrGoKind, Val: int64(reflect.Struct)}}}, reflect.Struct, true},
		{&dwarf.Entry{Tag: dwarf.TagTypedef, Field: []dwarf.Field{{Attr: AttrGoKind, Val: int64(reflect.Interface)}}}, reflect.Interface, true},
		{&dwarf.Entry{Tag: dwarf.TagBaseType, Field: []dwarf.Field{{Attr: dwarf.AttrName, Val: "int"}}}, reflect.Invalid, false},
	}
	for _, tc := range testCases {
		kind, ok := Kind(tc.entry)
		if kind != tc.kind || ok != tc.ok {
			t.Errorf("Kind(%v) = %v, %v; expected %v, %v", tc.entry, kind, ok, tc.kind, tc.ok)
		}
	}
}

func TestIsGoUnit(t *testing.T) {
	goUnit := &dwarf.Entry{Tag: dwarf.TagCompileUnit, Field: []dwarf.Field{{Attr: dwarf.AttrLanguage, Val: int64(LangGo)}}}
	cUnit := &dwarf.Entry{Tag: dwarf.TagCompileUnit, Field: []dwarf.Field{{Attr: dwarf.AttrLanguage, Val: int64(0x0c)}}}
	notUnit := &dwarf.Entry{Tag: dwarf.TagSubprogram, Field: []dwarf.Field{{Attr: dwarf.AttrLanguage, Val: int64(LangGo)}}}
	if !IsGoUnit(goUnit) || IsGoUnit(cUnit) || IsGoUnit(notUnit) {
		t.Fatal("IsGoUnit misclassified a compile unit")
	}
}

func TestElemOffset(t *testing.T) {
	e := &dwarf.Entry{Tag: dwarf.TagStructType, Field: []dwarf.Field{{Attr: AttrGoElem, Val: dwarf.Offset(0x42)}}}
	if off, ok := ElemOffset(e); !ok || off != 0x42 {
		t.Fatalf("ElemOffset() = %#x, %v", off, ok)
	}
	if _, ok := ElemOffset(&dwarf.Entry{}); ok {
		t.Fatal("entry without element type")
	}
}
