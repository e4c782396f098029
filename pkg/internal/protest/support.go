// Package protest contains the helpers tests use to obtain modules: the
// fixture package, described by a host executable built with its debug
// info and bound to the fixture code linked into the test binary, and
// fixture plugins compiled from _fixtures.
package protest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/go-delve/runmod/pkg/gobuild"
	"github.com/go-delve/runmod/pkg/internal/fixture"
	"github.com/go-delve/runmod/pkg/module"
)

// Plugin is a fixture compiled as a Go plugin.
type Plugin struct {
	// Name is the short name of the fixture.
	Name string
	// Path is the absolute path to the plugin.
	Path string
	// Source is the absolute path of the plugin source.
	Source string
}

var (
	pluginsMu sync.Mutex
	plugins   = make(map[string]Plugin)
	failed    = make(map[string]error)

	hostOnce sync.Once
	hostPath string
	hostErr  error

	hostModOnce sync.Once
	hostMod     *module.Module
	hostModErr  error
)

// FindFixturesDir returns the path of the _fixtures directory, searching
// the parents of the working directory.
func FindFixturesDir() string {
	parent := ".."
	fixturesDir := "_fixtures"
	for depth := 0; depth < 10; depth++ {
		if _, err := os.Stat(fixturesDir); err == nil {
			break
		}
		fixturesDir = filepath.Join(parent, fixturesDir)
	}
	return fixturesDir
}

// BuildPlugin compiles _fixtures/<name>.go as a plugin. The test is
// skipped when plugins can not be built on this host.
func BuildPlugin(t testing.TB, name string) Plugin {
	t.Helper()
	pluginsMu.Lock()
	defer pluginsMu.Unlock()
	if p, ok := plugins[name]; ok {
		return p
	}
	if err := failed[name]; err != nil {
		t.Skipf("fixture %s unavailable: %v", name, err)
	}

	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
	default:
		t.Skipf("plugins not supported on %s", runtime.GOOS)
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not found")
	}

	fixturesDir := FindFixturesDir()
	source, _ := filepath.Abs(filepath.Join(fixturesDir, name+".go"))

	// Make a (good enough) random temporary file name
	r := make([]byte, 4)
	rand.Read(r)
	tmpfile := filepath.Join(os.TempDir(), fmt.Sprintf("%s.%s.so", name, hex.EncodeToString(r)))

	cmdline, out, err := gobuild.BuildPlugin(fixturesDir, tmpfile, []string{name + ".go"}, nil)
	if err != nil {
		failed[name] = fmt.Errorf("%s: %v", cmdline, err)
		t.Skipf("could not compile fixture %s: %v\n%s", name, err, out)
	}

	plugins[name] = Plugin{Name: name, Path: tmpfile, Source: filepath.ToSlash(source)}
	return plugins[name]
}

// BuildHost compiles pkg/internal/fixture/host, an executable linking the
// fixture package, and returns its path. The test binary can not be used
// instead: 'go test' links it without debug info.
func BuildHost(t testing.TB) string {
	t.Helper()
	hostOnce.Do(func() {
		if _, err := exec.LookPath("go"); err != nil {
			hostErr = err
			return
		}
		r := make([]byte, 4)
		rand.Read(r)
		path := filepath.Join(os.TempDir(), "runmod-host."+hex.EncodeToString(r))
		if runtime.GOOS == "windows" {
			path += ".exe"
		}
		cmdline, out, err := gobuild.GoBuildCombinedOutput("", path, []string{fixture.PkgPath + "/host"}, nil)
		if err != nil {
			hostErr = fmt.Errorf("%s: %v\n%s", cmdline, err, out)
			return
		}
		hostPath = path
	})
	if hostErr != nil {
		t.Fatalf("could not build the fixture host: %v", hostErr)
	}
	return hostPath
}

// LoadHost loads the fixture host as a module bound to the fixture code
// of the test binary.
func LoadHost(t testing.TB) *module.Module {
	t.Helper()
	path := BuildHost(t)
	hostModOnce.Do(func() {
		hostMod, hostModErr = module.Load(path, module.WithImage(module.Symbols(fixture.Exports())), module.WithPackage(fixture.PkgPath))
	})
	if hostModErr != nil {
		t.Fatalf("could not load the fixture host: %v", hostModErr)
	}
	return hostMod
}

// RunTestsWithFixtures runs the tests and deletes the compiled plugins
// and fixture host before exiting.
func RunTestsWithFixtures(m *testing.M) int {
	status := m.Run()

	pluginsMu.Lock()
	for _, p := range plugins {
		gobuild.Remove(p.Path)
	}
	pluginsMu.Unlock()
	if hostPath != "" {
		gobuild.Remove(hostPath)
	}
	return status
}
