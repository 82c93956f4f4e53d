package zipline

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// LibraryName is the name reported in the User-Agent header.
	LibraryName = "gozipline"
	// Version is the library version.
	Version = "0.3.1"
)

// UserAgent returns "<lib> v<version> - Go-<go version> net/http-<go version>".
// net/http ships with the toolchain, so both runtime and transport report the Go version.
func UserAgent() string {
	goVersion := strings.TrimPrefix(runtime.Version(), "go")
	return fmt.Sprintf("%s v%s - Go-%s net/http-%s", LibraryName, Version, goVersion, goVersion)
}
