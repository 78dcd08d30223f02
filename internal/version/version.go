// Package version reports the build of the running binary
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time with -ldflags "-X github.com/PizzaHomicide/koma/internal/version.Version=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// GetVersion returns the application version.  Development builds installed with go install report the module
// version instead of "dev".
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// GetBuildTime returns the build time of the binary
func GetBuildTime() string {
	return BuildTime
}

// GetVersionInfo returns the line printed by --version
func GetVersionInfo() string {
	return fmt.Sprintf("koma %s (built %s, %s %s/%s)", GetVersion(), BuildTime, runtime.Version(), runtime.GOOS,
		runtime.GOARCH)
}
