// SPDX-License-Identifier: EPL-2.0

package dynaudnorm

import (
	"fmt"
	"runtime"

	"github.com/lordmulder/dynaudnorm-go/engine"
)

// Version returns the library's major, minor, and patch version numbers.
func Version() (major, minor, patch int) {
	return engine.VersionMajor, engine.VersionMinor, engine.VersionPatch
}

// VersionString formats Version as "major.minor-patch".
func VersionString() string {
	major, minor, patch := Version()
	return fmt.Sprintf("%d.%02d-%d", major, minor, patch)
}

// BuildInfo describes the toolchain and platform this binary was built
// with, the Go analogue of the reference library's compiler/arch probe.
type BuildInfo struct {
	Compiler string
	Arch     string
	OS       string
}

// GetBuildInfo reports the running binary's Go toolchain version and
// target platform.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Compiler: runtime.Version(),
		Arch:     runtime.GOARCH,
		OS:       runtime.GOOS,
	}
}
