package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Local store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, remote saves included

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Local store
	StoreType  string // memory | redis | sqlite
	SQLitePath string // sqlite database file

	// Redis (only read when StoreType == redis)
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool
	RedisDB               int
	RedisKeyPrefix        string        // namespaces keys when the database is shared
	RedisIOTimeout        time.Duration // dial/read/write timeout
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // total time to wait for redis at start-up
	RedisRetryInterval    time.Duration // first retry delay, doubled up to RedisMaxWait
	RedisMaxWait          time.Duration
	RedisWarnThreshold    int

	// Secrets
	Passphrase       string // seals the remote storage config at rest, empty = plaintext
	ScryptWorkFactor int    // age scrypt log2(N), 0 = library default

	// Document bootstrap and sync
	SeedFile       string        // static data.json used on a fresh install
	SeedURL        string        // same, fetched over HTTP
	SyncInterval   time.Duration // 0 = merge once per process start
	SyncStartDelay time.Duration
	RemoteTimeout  time.Duration // HTTP client timeout for remote backends

	// Wallpapers
	WallpaperDir        string // served under /wallpapers, empty = disabled
	WallpaperPrefix     string
	PackWallpapers      bool // inline as data URIs instead of listing paths
	MaxPackedWallpapers int
	MaxWallpaperBytes   int64
	MaxUploadBytes      int64

	// Search
	SearchFallbackURL string // printf pattern, %s is the escaped query

	// Access restrictions
	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict access to specific IPs/CIDRs
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins    []string // empty = same-origin only
	WriteBurst     int      // rate limit on save/upload/test, per IP
	WriteRefillMin int
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STARTPAGE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("STARTPAGE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("STARTPAGE_REQUEST_TIMEOUT", 60*time.Second),

		// Logging
		LogLevel:  getenv("STARTPAGE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STARTPAGE_PRETTY_LOG", true),

		// Local store
		StoreType:  strings.ToLower(getenv("STARTPAGE_STORE", StoreSQLite)),
		SQLitePath: getenv("STARTPAGE_SQLITE_PATH", "/data/startpage.db"),

		// Secrets
		Passphrase:       getenv("STARTPAGE_PASSPHRASE", ""),
		ScryptWorkFactor: getenvInt("STARTPAGE_SCRYPT_WORK_FACTOR", 0),

		// Document
		SeedFile:       getenv("STARTPAGE_SEED_FILE", ""),
		SeedURL:        getenv("STARTPAGE_SEED_URL", ""),
		SyncInterval:   mustDuration("STARTPAGE_SYNC_INTERVAL", 0),
		SyncStartDelay: mustDuration("STARTPAGE_SYNC_START_DELAY", 2*time.Second),
		RemoteTimeout:  mustDuration("STARTPAGE_REMOTE_TIMEOUT", 30*time.Second),

		// Wallpapers
		WallpaperDir:        getenv("STARTPAGE_WALLPAPER_DIR", ""),
		WallpaperPrefix:     getenv("STARTPAGE_WALLPAPER_PREFIX", "wallpapers"),
		PackWallpapers:      mustBool("STARTPAGE_PACK_WALLPAPERS", false),
		MaxPackedWallpapers: getenvInt("STARTPAGE_MAX_PACKED_WALLPAPERS", 10),
		MaxWallpaperBytes:   int64(getenvInt("STARTPAGE_MAX_WALLPAPER_BYTES", 2<<20)),
		MaxUploadBytes:      int64(getenvInt("STARTPAGE_MAX_UPLOAD_BYTES", 20<<20)),

		SearchFallbackURL: getenv("STARTPAGE_SEARCH_FALLBACK_URL", "https://duckduckgo.com/?q=%s"),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("STARTPAGE_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("STARTPAGE_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("STARTPAGE_TRUST_PROXY", false),
		CORSOrigins:    splitAndTrim(getenv("STARTPAGE_CORS_ORIGINS", "")),
		WriteBurst:     getenvInt("STARTPAGE_WRITE_BURST", 10),
		WriteRefillMin: getenvInt("STARTPAGE_WRITE_REFILL_PER_MIN", 30),
	}

	switch cfg.StoreType {
	case StoreMemory, StoreSQLite:
	case StoreRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: STARTPAGE_STORE must be one of memory, redis, sqlite, got %q", cfg.StoreType))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("STARTPAGE_REDIS_ADDR")
	cfg.RedisUser = getenv("STARTPAGE_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("STARTPAGE_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("STARTPAGE_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("STARTPAGE_REDIS_DB")
	cfg.RedisKeyPrefix = getenv("STARTPAGE_REDIS_KEY_PREFIX", "")
	cfg.RedisIOTimeout = mustDuration("REDIS_IO_TIMEOUT", 3*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: STARTPAGE_REDIS_PASSWORD is required when STARTPAGE_REDIS_PASSWORD_REQUIRED=true")
	}
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	const mask = "***REDACTED***"
	if c.RedisPassword != "" {
		c.RedisPassword = mask
	}
	if c.RedisUser != "" {
		c.RedisUser = mask
	}
	if c.Passphrase != "" {
		c.Passphrase = mask
	}
	return c
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := requireEnv(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
