//go:build (linux && cgo) || (darwin && cgo) || (freebsd && cgo)

package module

import "plugin"

type pluginImage struct {
	p *plugin.Plugin
}

func (img *pluginImage) Lookup(name string) (any, error) {
	return img.p.Lookup(name)
}

// OpenImage loads the plugin at path into the process and returns its
// symbol table. The plugin's init functions run as part of this call.
func OpenImage(path string) (Image, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "could not open plugin", Err: err}
	}
	return &pluginImage{p}, nil
}
