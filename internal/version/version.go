package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: 9f2c1ab
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-03-02T09:14:00Z
	GoVersion = runtime.Version()               // go version
)
