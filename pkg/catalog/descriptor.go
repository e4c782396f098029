package catalog

import (
	"reflect"
	"strings"
)

// Type describes a named type of a module.
type Type struct {
	Token uint64
	// Name is the fully qualified name, "pkg.T".
	Name string
	// Module is the package path of the package declaring the type.
	Module string
	Kind   reflect.Kind
	// Abstract is set for interface types.
	Abstract bool
	// Array is set for arrays and slices, Elem is then the element type name.
	Array bool
	Elem  string
	// Window is set for types whose pointer method set has a display
	// method, Display names it.
	Window  bool
	Display string
	// RType is the live type, nil when the type is not reachable from any
	// bound symbol.
	RType reflect.Type
}

// BaseName returns the name of the type without its package path.
func (t *Type) BaseName() string {
	return t.Name[strings.LastIndex(t.Name, ".")+1:]
}

// Param is a formal parameter or a result of a Member.
type Param struct {
	Name     string
	TypeName string
	// Type is the live type, nil for members that are not invocable.
	Type reflect.Type
}

// Member describes a function or method of a module.
type Member struct {
	Token uint64
	// Name is the fully qualified name, "pkg.T.M" for methods, regardless
	// of the receiver being a pointer.
	Name string
	// Symbol is the raw symbol name, "pkg.(*T).M".
	Symbol string
	Module string
	// DeclaringType is nil for package functions.
	DeclaringType *Type
	// Static is set for members without a receiver.
	Static   bool
	Params   []Param
	Results  []Param
	Variadic bool

	// Func is the live callable, valid when Invocable is set. Methods take
	// a pointer to the declaring type as first argument.
	Func      reflect.Value
	Invocable bool

	baseName string
}

// ParamTypes returns the live types of the parameters.
func (m *Member) ParamTypes() []reflect.Type {
	r := make([]reflect.Type, len(m.Params))
	for i := range m.Params {
		r[i] = m.Params[i].Type
	}
	return r
}

// Signature returns the parameter list of m in Go syntax.
func (m *Member) Signature() string {
	var buf strings.Builder
	buf.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			buf.WriteString(", ")
		}
		if p.Name != "" {
			buf.WriteString(p.Name)
			buf.WriteString(" ")
		}
		tn := p.TypeName
		if m.Variadic && i == len(m.Params)-1 && strings.HasPrefix(tn, "[]") {
			tn = "..." + tn[2:]
		}
		buf.WriteString(tn)
	}
	buf.WriteString(")")
	return buf.String()
}
