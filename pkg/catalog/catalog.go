// Package catalog flattens a loaded module into type and member
// descriptors, the view every other layer works with.
package catalog

import (
	"reflect"
	"strings"

	"github.com/derekparker/trie"

	"github.com/go-delve/runmod/pkg/config"
	"github.com/go-delve/runmod/pkg/logflags"
	"github.com/go-delve/runmod/pkg/module"
)

// Catalog is the descriptor view of a module. Types and members are kept
// in debug info order, which is the order lookups scan them in.
type Catalog struct {
	// Primary is the package path of the primary module.
	Primary string

	types   []*Type
	byName  map[string]*Type
	members []*Member
	byToken map[uint64]*Member
	ctors   map[reflect.Type]*Member
	// names holds the lower case names of invocable members and window
	// types, spellings the names each of its keys stands for.
	names     *trie.Trie
	spellings map[string][]string
}

// Build creates the catalog of mod. A nil conf uses the defaults.
func Build(mod *module.Module, conf *config.Config) *Catalog {
	logger := logflags.CatalogLogger()
	c := &Catalog{
		Primary: mod.Name,
		byName:  make(map[string]*Type),
		byToken: make(map[uint64]*Member),
		ctors:   make(map[reflect.Type]*Member),

		names:     trie.New(),
		spellings: make(map[string][]string),
	}
	displays := conf.GetDisplayMethods()

	for _, mt := range mod.Metadata.Types {
		t := &Type{
			Token:    mt.Token,
			Name:     mt.Name,
			Module:   mt.Package,
			Kind:     mt.Kind,
			Abstract: mt.Kind == reflect.Interface,
			Array:    mt.Kind == reflect.Slice || mt.Kind == reflect.Array,
			Elem:     mt.Elem,
		}
		if rt, ok := mod.Live.LookupType(mt.Package, t.BaseName()); ok {
			t.RType = rt
			t.Display, t.Window = displayMethod(rt, displays)
		}
		c.types = append(c.types, t)
		c.byName[t.Name] = t
	}

	seen := make(map[string]*Member)
	for _, fn := range mod.Metadata.Funcs {
		if fn.Synthetic {
			continue
		}
		m := c.newMember(mod, fn)
		if prev := seen[m.Name]; prev != nil {
			// value receiver methods also appear as their pointer wrapper
			if prev.Invocable || !m.Invocable {
				continue
			}
			token := prev.Token
			*prev = *m
			c.byToken[token] = prev
			c.byToken[m.Token] = prev
			continue
		}
		seen[m.Name] = m
		c.members = append(c.members, m)
		c.byToken[m.Token] = m
	}

	prefixes := conf.GetConstructorPrefixes()
	for _, m := range c.members {
		if !m.Invocable {
			continue
		}
		c.addName(m.Name)
		if t := constructedType(m, prefixes); t != nil {
			if _, dup := c.ctors[t]; !dup {
				c.ctors[t] = m
			}
		}
	}
	for _, t := range c.types {
		if t.Window {
			c.addName(t.Name)
		}
	}

	logger.Debugf("catalog of %s: %d types, %d members, %d constructors", c.Primary, len(c.types), len(c.members), len(c.ctors))
	return c
}

// addName indexes name for suggestions. Names differing only by case
// share a key.
func (c *Catalog) addName(name string) {
	key := strings.ToLower(name)
	spellings, ok := c.spellings[key]
	if !ok {
		c.names.Add(key, nil)
	}
	for _, s := range spellings {
		if s == name {
			return
		}
	}
	c.spellings[key] = append(spellings, name)
}

func (c *Catalog) newMember(mod *module.Module, fn *module.Func) *Member {
	m := &Member{
		Token:    fn.Token,
		Name:     fn.QualifiedName(),
		Symbol:   fn.Name,
		Module:   fn.Package,
		Static:   fn.Receiver == "",
		baseName: fn.BaseName,
	}
	if !m.Static {
		m.DeclaringType = c.byName[fn.Package+"."+fn.Receiver]
	}

	h, ok := mod.Live.Resolve(fn.Token)
	if !ok {
		for _, p := range fn.Params {
			m.Params = append(m.Params, Param{Name: p.Name, TypeName: p.Type})
		}
		for _, p := range fn.Results {
			m.Results = append(m.Results, Param{Name: p.Name, TypeName: p.Type})
		}
		return m
	}

	m.Func = h.Func
	m.Invocable = true
	if h.Receiver != nil && m.DeclaringType == nil {
		m.DeclaringType = &Type{Name: fn.Package + "." + fn.Receiver, Module: fn.Package, Kind: h.Receiver.Kind(), RType: h.Receiver}
	}
	ft := h.Func.Type()
	m.Variadic = ft.IsVariadic()
	first := 0
	if h.Receiver != nil {
		first = 1
	}
	for i := first; i < ft.NumIn(); i++ {
		p := Param{TypeName: ft.In(i).String(), Type: ft.In(i)}
		if j := i - first; j < len(fn.Params) {
			p.Name = fn.Params[j].Name
			p.TypeName = fn.Params[j].Type
		}
		m.Params = append(m.Params, p)
	}
	for i := 0; i < ft.NumOut(); i++ {
		p := Param{TypeName: ft.Out(i).String(), Type: ft.Out(i)}
		if i < len(fn.Results) {
			p.Name = fn.Results[i].Name
		}
		m.Results = append(m.Results, p)
	}
	return m
}

// displayMethod returns the first display method found in the pointer
// method set of rt taking no arguments besides the receiver.
func displayMethod(rt reflect.Type, displays []string) (string, bool) {
	if rt.Kind() == reflect.Interface || rt.Kind() == reflect.Ptr {
		return "", false
	}
	pt := reflect.PointerTo(rt)
	for _, name := range displays {
		if m, ok := pt.MethodByName(name); ok && m.Type.NumIn() == 1 {
			return name, true
		}
	}
	return "", false
}

// constructedType returns the type m constructs if m is a zero-argument
// package function named after its result type with one of the prefixes.
func constructedType(m *Member, prefixes []string) reflect.Type {
	if !m.Static || len(m.Params) != 0 || len(m.Results) == 0 || m.Results[0].Type == nil {
		return nil
	}
	t := m.Results[0].Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return nil
	}
	for _, prefix := range prefixes {
		if m.baseName == prefix+t.Name() {
			return t
		}
	}
	return nil
}

// AllMembers returns the invocable members. With filterToPrimaryModule set
// only members declared by the primary module are returned.
func (c *Catalog) AllMembers(filterToPrimaryModule bool) []*Member {
	var r []*Member
	for _, m := range c.members {
		if m.Invocable && (!filterToPrimaryModule || m.Module == c.Primary) {
			r = append(r, m)
		}
	}
	return r
}

// Listing returns the members to report, including the ones found in
// debug info that could not be bound.
func (c *Catalog) Listing(filterToPrimaryModule bool) []*Member {
	var r []*Member
	for _, m := range c.members {
		if !filterToPrimaryModule || m.Module == c.Primary {
			r = append(r, m)
		}
	}
	return r
}

// Types returns every type of the module.
func (c *Catalog) Types() []*Type {
	return c.types
}

// LookupType returns the first type whose fully qualified name matches
// name, ignoring case.
func (c *Catalog) LookupType(name string) *Type {
	if t := c.byName[name]; t != nil {
		return t
	}
	for _, t := range c.types {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// Member returns the member with the given token.
func (c *Catalog) Member(token uint64) *Member {
	return c.byToken[token]
}

// Constructor returns the zero-argument constructor of t, which may be
// either the type or a pointer to it. The constructor returns T or *T.
func (c *Catalog) Constructor(t reflect.Type) (*Member, bool) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	m, ok := c.ctors[t]
	return m, ok
}

// ConstructorFunc returns the callable of the constructor of t.
func (c *Catalog) ConstructorFunc(t reflect.Type) (reflect.Value, bool) {
	m, ok := c.Constructor(t)
	if !ok {
		return reflect.Value{}, false
	}
	return m.Func, true
}
