// Package version carries build metadata injected via -ldflags; the
// defaults cover plain `go build` during development.
package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)
