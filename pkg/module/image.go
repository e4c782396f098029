package module

import "fmt"

// Image is a live, executable view of a module: it maps exported package
// level symbols to values. Functions are returned as func values and
// variables as pointers to the variable, the same convention used by
// plugin.Plugin.Lookup.
type Image interface {
	Lookup(name string) (any, error)
}

// Symbols is an Image backed by a map, used to expose code that is linked
// into the host binary.
type Symbols map[string]any

func (s Symbols) Lookup(name string) (any, error) {
	v, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found in image", name)
	}
	return v, nil
}
