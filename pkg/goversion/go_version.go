package goversion

import (
	"fmt"
	"strconv"
	"strings"
)

// GoVersion represents the version of the Go toolchain that compiled a
// module, or of the host process.
type GoVersion struct {
	Major     int
	Minor     int
	Rev       int // revision number or negative number for rc releases
	Toolchain string
}

const rcStart = -1000

var (
	// GoVerDevel is the version reported by development toolchains.
	GoVerDevel = GoVersion{Major: -1}
)

// Parse parses a go version string as found in runtime.Version and in
// the build info of a compiled module. Both goX.Y and goX.Y.Z are
// accepted, as are goX.YrcZ and an optional "-toolchain" or " extra"
// suffix.
func Parse(ver string) (GoVersion, bool) {
	if strings.HasPrefix(ver, "devel") {
		return GoVerDevel, true
	}
	if !strings.HasPrefix(ver, "go") {
		return GoVersion{}, false
	}
	ver = strings.Split(ver[2:], " ")[0]

	var r GoVersion
	if i := strings.Index(ver, "-"); i >= 0 {
		r.Toolchain = ver[i+1:]
		ver = ver[:i]
	}

	v := strings.SplitN(ver, ".", 3)
	if len(v) < 2 {
		return GoVersion{}, false
	}
	var err error
	if r.Major, err = strconv.Atoi(v[0]); err != nil {
		return GoVersion{}, false
	}

	if vr := strings.SplitN(v[1], "rc", 2); len(vr) == 2 {
		if len(v) != 2 {
			return GoVersion{}, false
		}
		rc, err1 := strconv.Atoi(vr[1])
		minor, err2 := strconv.Atoi(vr[0])
		if err1 != nil || err2 != nil {
			return GoVersion{}, false
		}
		r.Minor = minor
		r.Rev = rcStart + rc
		return r, true
	}

	if r.Minor, err = strconv.Atoi(v[1]); err != nil {
		return GoVersion{}, false
	}
	if len(v) == 3 {
		if r.Rev, err = strconv.Atoi(v[2]); err != nil {
			return GoVersion{}, false
		}
	}
	return r, true
}

// AfterOrEqual returns whether one GoVersion is after or
// equal to the other.
func (v *GoVersion) AfterOrEqual(b GoVersion) bool {
	if v.Major != b.Major {
		return v.Major > b.Major
	}
	if v.Minor != b.Minor {
		return v.Minor > b.Minor
	}
	return v.Rev >= b.Rev
}

// IsDevel returns whether the GoVersion
// is a development version.
func (v *GoVersion) IsDevel() bool {
	return v.Major < 0
}

func (v *GoVersion) String() string {
	switch {
	case v.IsDevel():
		return "devel"
	case v.Rev < 0:
		return fmt.Sprintf("go%d.%drc%d", v.Major, v.Minor, v.Rev-rcStart)
	case v.Toolchain != "":
		return fmt.Sprintf("go%d.%d.%d-%s", v.Major, v.Minor, v.Rev, v.Toolchain)
	default:
		return fmt.Sprintf("go%d.%d.%d", v.Major, v.Minor, v.Rev)
	}
}
