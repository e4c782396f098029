package goversion

import (
	"runtime"
	"testing"
)

func parseVer(t *testing.T, verStr string) GoVersion {
	t.Helper()
	pver, ok := Parse(verStr)
	if !ok {
		t.Fatalf("Could not parse version string <%s>", verStr)
	}
	return pver
}

func versionEqual(t *testing.T, verStr string, ver GoVersion) {
	t.Helper()
	pver := parseVer(t, verStr)
	if pver != ver {
		t.Fatalf("Version <%s> parsed as %v not equal to %v", verStr, pver, ver)
	}
	t.Logf("version string <%s> → %v", verStr, ver)
}

func TestParseVersionString(t *testing.T) {
	versionEqual(t, "go1.22", GoVersion{1, 22, 0, ""})
	versionEqual(t, "go1.22.3", GoVersion{1, 22, 3, ""})
	versionEqual(t, "go1.23rc2", GoVersion{1, 23, rcStart + 2, ""})
	versionEqual(t, "go1.21.4-bigcorp", GoVersion{1, 21, 4, "bigcorp"})
	versionEqual(t, "go1.22.1 X:loopvar", GoVersion{1, 22, 1, ""})
	versionEqual(t, "devel +abcdef", GoVerDevel)

	for _, bad := range []string{"", "1.22", "go1", "goX.Y", "go1.22.x"} {
		if _, ok := Parse(bad); ok {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}

	ver := parseVer(t, runtime.Version())
	if !ver.IsDevel() && !ver.AfterOrEqual(GoVersion{1, 22, 0, ""}) {
		t.Fatalf("host version %v older than go1.22", ver)
	}
}

func TestAfterOrEqual(t *testing.T) {
	a := parseVer(t, "go1.22.3")
	for _, b := range []string{"go1.22.3", "go1.22.1", "go1.22rc1", "go1.21.9"} {
		if !a.AfterOrEqual(parseVer(t, b)) {
			t.Errorf("%v should be after or equal to %s", a, b)
		}
	}
	if a.AfterOrEqual(parseVer(t, "go1.23.0")) {
		t.Errorf("%v should be before go1.23.0", a)
	}
}

func TestCompatible(t *testing.T) {
	testCases := []struct {
		module, host string
		ok           bool
	}{
		{"go1.22.3", "go1.22.3", true},
		{"go1.22.3", "go1.22.3 X:boringcrypto", true},
		{"go1.22.3", "go1.22.4", false},
		{"go1.21.0", "go1.22.0", false},
		{"devel +1234", "devel +5678", true},
		{"devel +1234", "go1.22.0", false},
		{"nonsense", "go1.22.0", false},
	}
	for _, tc := range testCases {
		err := Compatible(tc.module, tc.host)
		if (err == nil) != tc.ok {
			t.Errorf("Compatible(%q, %q) = %v, expected ok=%v", tc.module, tc.host, err, tc.ok)
		}
	}
	if err := CompatibleWithHost(runtime.Version()); err != nil {
		t.Fatal(err)
	}
}
