package module

import (
	"debug/buildinfo"
	"debug/dwarf"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru"

	"github.com/go-delve/runmod/pkg/dwarf/godwarf"
	"github.com/go-delve/runmod/pkg/dwarf/reader"
	"github.com/go-delve/runmod/pkg/logflags"
)

const typeNameCacheSize = 4096

// Metadata is the structural view of a module, read from the DWARF
// sections without loading or executing any of its code.
type Metadata struct {
	Path   string
	Format ExecutableFormat
	// Arch is the GOARCH the module was compiled for, empty if unknown.
	Arch string
	// GoVersion and MainPath come from the module's build info, they are
	// empty for binaries built without module support.
	GoVersion string
	MainPath  string

	// Funcs lists every named function in debug_info order.
	Funcs []*Func
	// Types lists every named Go type in debug_info order.
	Types []*Type
	// Vars lists every package level variable in debug_info order.
	Vars []*Var
}

// Func describes a DW_TAG_subprogram entry.
type Func struct {
	// Token is the offset of the entry in debug_info. It is unique within
	// the module and stable for a given compiled file.
	Token       uint64
	Name        string // symbol name, "pkg.(*T).M" for pointer receivers
	Package     string
	Receiver    string // receiver type name, empty for package functions
	PtrReceiver bool
	BaseName    string
	Synthetic   bool
	Params      []Param // receiver excluded
	Results     []Param
}

// QualifiedName returns the package, receiver and base name joined by
// dots, with the pointer receiver decoration removed.
func (fn *Func) QualifiedName() string {
	return symbolName{pkg: fn.Package, receiver: fn.Receiver, base: fn.BaseName}.qualifiedName()
}

// Param is a formal parameter of a Func.
type Param struct {
	Name string
	Type string
}

// Type describes a named Go type.
type Type struct {
	Token   uint64
	Name    string // fully qualified, "pkg.T"
	Package string
	Kind    reflect.Kind
	// Elem is the element type name of arrays and slices.
	Elem string
}

// Var describes a package level variable.
type Var struct {
	Token   uint64
	Name    string
	Package string
	Type    string
}

// ReadMetadata opens the module at path and reads its types, functions
// and variables from the embedded debug info.
func ReadMetadata(path string) (*Metadata, error) {
	bi, err := openBinary(path)
	if err != nil {
		return nil, err
	}
	defer bi.Close()

	meta := &Metadata{Path: path, Format: bi.format, Arch: bi.arch}
	if info, err := buildinfo.ReadFile(path); err == nil {
		meta.GoVersion = info.GoVersion
		meta.MainPath = info.Path
	}

	ctxt, err := newMetadataReader(bi.dwarf)
	if err != nil {
		return nil, err
	}
	if err := ctxt.read(meta); err != nil {
		return nil, &FormatError{Path: path, Reason: "malformed debug_info", Err: err}
	}
	if len(meta.Funcs) == 0 {
		return nil, &FormatError{Path: path, Reason: "no Go functions found in debug info"}
	}
	logflags.LoaderLogger().Debugf("metadata of %s: %d functions, %d types, %d variables", path, len(meta.Funcs), len(meta.Types), len(meta.Vars))
	return meta, nil
}

type metadataReader struct {
	dwarf      *dwarf.Data
	typeReader *reader.Reader
	typeNames  *lru.Cache
	seenTypes  map[string]bool
}

func newMetadataReader(d *dwarf.Data) (*metadataReader, error) {
	cache, err := lru.New(typeNameCacheSize)
	if err != nil {
		return nil, err
	}
	return &metadataReader{
		dwarf:      d,
		typeReader: reader.New(d),
		typeNames:  cache,
		seenTypes:  make(map[string]bool),
	}, nil
}

// read walks the members of every Go compile unit for functions and
// types, then the whole of debug_info for package variables.
func (ctxt *metadataReader) read(meta *Metadata) error {
	rdr := reader.New(ctxt.dwarf)
	for {
		cu, err := rdr.NextCompileUnit()
		if err != nil {
			return err
		}
		if cu == nil {
			break
		}
		if !godwarf.IsGoUnit(cu) || !cu.Children {
			rdr.SkipChildren()
			continue
		}
		unit, _ := cu.Val(dwarf.AttrName).(string)
		if err := ctxt.readUnit(rdr, unit, meta); err != nil {
			return err
		}
	}

	rdr.Seek(0)
	for {
		entry, err := rdr.NextPackageVariable()
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		name, _ := entry.Val(dwarf.AttrName).(string)
		if pkg := packageName(name); pkg != "" && isNamedType(name) {
			meta.Vars = append(meta.Vars, &Var{Token: uint64(entry.Offset), Name: name, Package: pkg, Type: ctxt.typeName(entry)})
		}
	}
}

func (ctxt *metadataReader) readUnit(rdr *reader.Reader, unit string, meta *Metadata) error {
	for {
		entry, err := rdr.NextUnitEntry()
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		switch entry.Tag {
		case dwarf.TagSubprogram:
			name, _ := entry.Val(dwarf.AttrName).(string)
			if name == "" {
				continue
			}
			in, out, err := ctxt.readParams(rdr)
			if err != nil {
				return err
			}
			meta.Funcs = append(meta.Funcs, ctxt.newFunc(entry, name, unit, in, out))

		case dwarf.TagBaseType, dwarf.TagStructType, dwarf.TagTypedef, dwarf.TagPointerType,
			dwarf.TagArrayType, dwarf.TagSubroutineType, dwarf.TagUnspecifiedType:
			if typ := ctxt.newType(entry); typ != nil {
				meta.Types = append(meta.Types, typ)
			}
		}
	}
}

// readParams reads the formal parameters of the subprogram entry last
// returned by rdr, split in inputs and results.
func (ctxt *metadataReader) readParams(rdr *reader.Reader) (in, out []Param, err error) {
	for {
		entry, err := rdr.NextFormalParameter()
		if err != nil {
			return nil, nil, err
		}
		if entry == nil {
			return in, out, nil
		}
		name, _ := entry.Val(dwarf.AttrName).(string)
		p := Param{Name: name, Type: ctxt.typeName(entry)}
		if isret, _ := entry.Val(dwarf.AttrVarParam).(bool); isret {
			out = append(out, p)
		} else {
			in = append(in, p)
		}
	}
}

func (ctxt *metadataReader) newFunc(entry *dwarf.Entry, name, cu string, in, out []Param) *Func {
	sn := splitSymbol(name, cu)
	fn := &Func{
		Token:       uint64(entry.Offset),
		Name:        name,
		Package:     sn.pkg,
		Receiver:    sn.receiver,
		PtrReceiver: sn.ptrReceiver,
		BaseName:    sn.base,
		Synthetic:   sn.synthetic,
		Params:      in,
		Results:     out,
	}
	if fn.Receiver != "" && len(fn.Params) > 0 {
		fn.Params = fn.Params[1:]
	}
	return fn
}

func (ctxt *metadataReader) newType(entry *dwarf.Entry) *Type {
	name, _ := entry.Val(dwarf.AttrName).(string)
	kind, ok := godwarf.Kind(entry)
	if !ok || !isNamedType(name) || ctxt.seenTypes[name] {
		return nil
	}
	ctxt.seenTypes[name] = true
	pkg, _ := splitTypeName(name)
	typ := &Type{Token: uint64(entry.Offset), Name: name, Package: pkg, Kind: kind}
	switch typ.Kind {
	case reflect.Slice:
		if off, ok := godwarf.ElemOffset(entry); ok {
			typ.Elem = ctxt.typeNameAt(off)
		}
	case reflect.Array:
		typ.Elem = ctxt.typeName(entry)
	}
	return typ
}

// typeName returns the name of the type referenced by the DW_AT_type
// attribute of entry.
func (ctxt *metadataReader) typeName(entry *dwarf.Entry) string {
	off, ok := entry.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return ""
	}
	if name, ok := ctxt.typeNames.Get(off); ok {
		return name.(string)
	}
	typ, err := ctxt.typeReader.SeekToType(entry)
	return ctxt.cacheTypeName(off, typ, err)
}

func (ctxt *metadataReader) typeNameAt(off dwarf.Offset) string {
	if name, ok := ctxt.typeNames.Get(off); ok {
		return name.(string)
	}
	typ, err := ctxt.typeReader.EntryAt(off)
	return ctxt.cacheTypeName(off, typ, err)
}

func (ctxt *metadataReader) cacheTypeName(off dwarf.Offset, typ *dwarf.Entry, err error) string {
	if err != nil {
		return fmt.Sprintf("<type at %#x>", off)
	}
	name, _ := typ.Val(dwarf.AttrName).(string)
	ctxt.typeNames.Add(off, name)
	return name
}
