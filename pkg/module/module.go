package module

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-delve/runmod/pkg/goversion"
	"github.com/go-delve/runmod/pkg/logflags"
)

// Module is a loaded module: the structural metadata read from its debug
// info together with its binding to a live image.
type Module struct {
	Path string
	// Name is the primary package path of the module. Members declared in
	// other packages were linked in from referenced modules.
	Name     string
	Metadata *Metadata
	Live     *Live
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	image Image
	pkg   string
}

// WithImage makes Load bind the metadata to img instead of opening path
// as a plugin. The architecture and Go version checks are skipped, img is
// assumed to be linked into the host already.
func WithImage(img Image) Option {
	return func(c *loadConfig) {
		c.image = img
	}
}

// WithPackage forces the primary package path of the module.
func WithPackage(pkg string) Option {
	return func(c *loadConfig) {
		c.pkg = pkg
	}
}

// Load reads the metadata of the module at path and binds it to a live
// image. Without WithImage the module is opened as a Go plugin, which
// runs its initialization code.
func Load(path string, opts ...Option) (*Module, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := logflags.LoaderLogger()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, &NotFoundError{Path: abs, Err: err}
	}
	if fi.IsDir() {
		return nil, &NotFoundError{Path: abs, Err: fmt.Errorf("is a directory")}
	}

	meta, err := ReadMetadata(abs)
	if err != nil {
		return nil, err
	}

	img := cfg.image
	if img == nil {
		if err := checkHost(meta); err != nil {
			return nil, err
		}
		logger.Debugf("opening %s as a plugin", abs)
		img, err = OpenImage(abs)
		if err != nil {
			return nil, err
		}
	}

	var bopts []BindOption
	if cfg.pkg != "" {
		bopts = append(bopts, BindPackage(cfg.pkg))
	}
	live, err := Bind(meta, img, bopts...)
	if err != nil {
		return nil, err
	}
	return &Module{Path: abs, Name: live.Package, Metadata: meta, Live: live}, nil
}

// checkHost rejects modules the host process can not link: compiled for
// another architecture or by another Go release.
func checkHost(meta *Metadata) error {
	if meta.Arch != "" && meta.Arch != runtime.GOARCH {
		return &FormatError{Path: meta.Path, Reason: fmt.Sprintf("module compiled for %s, host is %s", meta.Arch, runtime.GOARCH)}
	}
	if meta.GoVersion == "" {
		// the dynamic loader still refuses mismatched runtimes
		logflags.LoaderLogger().Warnf("%s has no Go build info, skipping version check", meta.Path)
		return nil
	}
	if err := goversion.CompatibleWithHost(meta.GoVersion); err != nil {
		return &FormatError{Path: meta.Path, Reason: "incompatible Go version", Err: err}
	}
	return nil
}
