package deps

import (
	"time"

	"github.com/MrSnakeDoc/startpage/internal/dashboard"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// SyncTrigger queues a background merge. It returns false when one is
// already queued.
type SyncTrigger interface {
	Trigger() bool
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access healthz/readyz/infra and the API
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string         // browser origins allowed to call the API

	Dashboard *dashboard.Service
	Sync      SyncTrigger
	StoreType string // local store backend, reported by /infra

	WallpaperDir        string // empty = wallpapers disabled
	WallpaperPrefix     string
	PackWallpapers      bool
	MaxPackedWallpapers int
	MaxWallpaperBytes   int64
	MaxUploadBytes      int64

	SearchFallbackURL string // printf pattern for /go misses

	WriteBurst        int // per-IP rate limit on save/upload/test
	WriteRefillPerMin int
}

// Now returns the configured clock.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
