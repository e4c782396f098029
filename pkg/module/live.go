package module

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/go-delve/runmod/pkg/logflags"
)

// Handle is an invocable member of a live image.
type Handle struct {
	// Func is the callable. For methods the receiver, a pointer to
	// Receiver, is its first argument.
	Func reflect.Value
	// Receiver is the declaring type of a method, nil for package
	// functions.
	Receiver reflect.Type
}

// Live is the binding of a module's metadata to a live image.
type Live struct {
	// Package is the package path of the primary module, the package
	// whose symbols the image exports.
	Package string

	handles map[uint64]Handle
	types   map[string]reflect.Type
	byBase  map[string][]reflect.Type
	vars    map[uint64]reflect.Value
	// aliases are the other package paths the primary package may be
	// recorded under by reflect (plugins compiled from files report "main").
	aliases map[string]bool
}

// Resolve returns the invocable handle of the function with the given token.
func (l *Live) Resolve(token uint64) (Handle, bool) {
	h, ok := l.handles[token]
	return h, ok
}

// Var returns a pointer to the package variable with the given token.
func (l *Live) Var(token uint64) (reflect.Value, bool) {
	v, ok := l.vars[token]
	return v, ok
}

// LookupType returns the live type named pkg.name.
func (l *Live) LookupType(pkg, name string) (reflect.Type, bool) {
	if t, ok := l.types[pkg+"."+name]; ok {
		return t, true
	}
	if pkg != l.Package {
		return nil, false
	}
	var found reflect.Type
	for _, t := range l.byBase[name] {
		if !l.aliases[t.PkgPath()] {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = t
	}
	return found, found != nil
}

// NumHandles returns the number of invocable functions and methods.
func (l *Live) NumHandles() int {
	return len(l.handles)
}

// BindOption configures Bind.
type BindOption func(*bindConfig)

type bindConfig struct {
	pkg string
}

// BindPackage forces the primary package path instead of inferring it
// from the bound functions.
func BindPackage(pkg string) BindOption {
	return func(c *bindConfig) {
		c.pkg = pkg
	}
}

// Bind is the live pass of the loader. Each exported package function
// found in meta is looked up in img by name and kept only if the runtime
// agrees that the returned value is that very function. Every type
// reachable from the bound symbols is then indexed, which is how methods
// are bound: through the method set of their declaring type.
func Bind(meta *Metadata, img Image, opts ...BindOption) (*Live, error) {
	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := logflags.LoaderLogger()

	l := &Live{
		handles: make(map[uint64]Handle),
		types:   make(map[string]reflect.Type),
		byBase:  make(map[string][]reflect.Type),
		vars:    make(map[uint64]reflect.Value),
		aliases: make(map[string]bool),
	}
	w := &typeWalker{l: l, visited: make(map[reflect.Type]bool)}

	count := make(map[string]int)
	var order []string
	for _, fn := range meta.Funcs {
		if fn.Synthetic || fn.Receiver != "" || !isExported(fn.BaseName) {
			continue
		}
		if cfg.pkg != "" && fn.Package != cfg.pkg {
			continue
		}
		sym, err := img.Lookup(fn.BaseName)
		if err != nil {
			continue
		}
		v := reflect.ValueOf(sym)
		if v.Kind() != reflect.Func || v.IsNil() {
			continue
		}
		rtfn := runtime.FuncForPC(v.Pointer())
		if rtfn == nil || rtfn.Name() != fn.Name {
			if rtfn != nil {
				logger.Debugf("symbol %s is %s, not %s", fn.BaseName, rtfn.Name(), fn.Name)
			}
			continue
		}
		l.handles[fn.Token] = Handle{Func: v}
		if count[fn.Package] == 0 {
			order = append(order, fn.Package)
		}
		count[fn.Package]++
		w.walk(v.Type())
	}

	switch {
	case cfg.pkg != "":
		l.Package = cfg.pkg
	case len(order) > 0:
		l.Package = order[0]
		for _, pkg := range order[1:] {
			if count[pkg] > count[l.Package] {
				l.Package = pkg
			}
		}
	case meta.MainPath != "":
		l.Package = meta.MainPath
	default:
		return nil, &FormatError{Path: meta.Path, Reason: "no exported function of the module could be found in the live image"}
	}
	l.aliases[l.Package] = true
	l.aliases["main"] = true
	if meta.MainPath != "" {
		l.aliases[meta.MainPath] = true
	}

	for _, v := range meta.Vars {
		_, base := splitTypeName(v.Name)
		if v.Package != l.Package || !isExported(base) {
			continue
		}
		sym, err := img.Lookup(base)
		if err != nil {
			continue
		}
		rv := reflect.ValueOf(sym)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			continue
		}
		l.vars[v.Token] = rv
		w.walk(rv.Type())
	}

	for _, fn := range meta.Funcs {
		if fn.Synthetic || fn.Receiver == "" || !isExported(fn.BaseName) {
			continue
		}
		t, ok := l.LookupType(fn.Package, fn.Receiver)
		if !ok || t.Kind() == reflect.Interface {
			continue
		}
		m, ok := reflect.PointerTo(t).MethodByName(fn.BaseName)
		if !ok {
			continue
		}
		l.handles[fn.Token] = Handle{Func: m.Func, Receiver: t}
	}

	logger.Debugf("bound %d of %d functions, %d types, primary package %s", len(l.handles), len(meta.Funcs), len(l.types), l.Package)
	if len(l.handles) == 0 {
		return nil, &FormatError{Path: meta.Path, Reason: fmt.Sprintf("no member of package %s could be bound to the live image", l.Package)}
	}
	return l, nil
}

// typeWalker indexes every named type reachable from a root type.
type typeWalker struct {
	l       *Live
	visited map[reflect.Type]bool
}

func (w *typeWalker) walk(t reflect.Type) {
	if t == nil || w.visited[t] {
		return
	}
	w.visited[t] = true
	if t.Name() != "" && t.PkgPath() != "" {
		w.l.types[t.PkgPath()+"."+t.Name()] = t
		w.l.byBase[t.Name()] = append(w.l.byBase[t.Name()], t)
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
		w.walk(t.Elem())
	case reflect.Map:
		w.walk(t.Key())
		w.walk(t.Elem())
	case reflect.Func:
		for i := 0; i < t.NumIn(); i++ {
			w.walk(t.In(i))
		}
		for i := 0; i < t.NumOut(); i++ {
			w.walk(t.Out(i))
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			w.walk(t.Field(i).Type)
		}
	case reflect.Interface:
		for i := 0; i < t.NumMethod(); i++ {
			w.walk(t.Method(i).Type)
		}
	}

	if t.Kind() != reflect.Interface && t.Kind() != reflect.Ptr {
		pt := reflect.PointerTo(t)
		for i := 0; i < pt.NumMethod(); i++ {
			w.walk(pt.Method(i).Type)
		}
	}
}
