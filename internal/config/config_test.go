package config

import (
	"strings"
	"testing"
	"time"
)

func expectPanic(t *testing.T, name string) {
	t.Helper()
	if r := recover(); r == nil {
		t.Errorf("%s should have panicked", name)
	}
}

func TestRequireEnv(t *testing.T) {
	t.Setenv("STARTPAGE_TEST_VAR", "value")
	if got := requireEnv("STARTPAGE_TEST_VAR"); got != "value" {
		t.Errorf("requireEnv() = %v, want value", got)
	}

	t.Run("missing", func(t *testing.T) {
		defer expectPanic(t, "requireEnv()")
		requireEnv("STARTPAGE_TEST_VAR_MISSING")
	})
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		wantPanic bool
	}{
		{"valid integer", "42", 42, false},
		{"invalid integer", "forty-two", 0, true},
		{"missing variable", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STARTPAGE_TEST_INT", tt.value)
			if tt.wantPanic {
				defer expectPanic(t, "requireEnvInt()")
			}
			if got := requireEnvInt("STARTPAGE_TEST_INT"); got != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEnvDefaults(t *testing.T) {
	tests := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{"duration parsed", "90s", func(t *testing.T) {
			if got := mustDuration("STARTPAGE_TEST_ENV", time.Second); got != 90*time.Second {
				t.Errorf("mustDuration() = %v, want 90s", got)
			}
		}},
		{"bad duration falls back", "soon", func(t *testing.T) {
			if got := mustDuration("STARTPAGE_TEST_ENV", time.Second); got != time.Second {
				t.Errorf("mustDuration() = %v, want 1s", got)
			}
		}},
		{"bool parsed", "false", func(t *testing.T) {
			if got := mustBool("STARTPAGE_TEST_ENV", true); got {
				t.Error("mustBool() = true, want false")
			}
		}},
		{"bad bool falls back", "maybe", func(t *testing.T) {
			if got := mustBool("STARTPAGE_TEST_ENV", true); !got {
				t.Error("mustBool() = false, want default true")
			}
		}},
		{"bad int falls back", "x", func(t *testing.T) {
			if got := getenvInt("STARTPAGE_TEST_ENV", 7); got != 7 {
				t.Errorf("getenvInt() = %v, want 7", got)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STARTPAGE_TEST_ENV", tt.value)
			tt.check(t)
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` a.example.com, "b.example.com" ,, 'c' `)
	if strings.Join(got, "|") != "a.example.com|b.example.com|c" {
		t.Errorf("splitAndTrim() = %v", got)
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STARTPAGE_STORE", "")
	t.Setenv("STARTPAGE_ALLOWED_CIDRS", "10.0.0.0/8, 192.168.1.4")

	cfg := Load()
	if cfg.StoreType != StoreSQLite {
		t.Errorf("Expected sqlite store by default, got %q", cfg.StoreType)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("Expected periodic sync disabled by default, got %v", cfg.SyncInterval)
	}
	if len(cfg.AllowedCIDRS) != 2 {
		t.Errorf("Expected 2 CIDRs, got %v", cfg.AllowedCIDRS)
	}
	if cfg.RedisAddr != "" {
		t.Error("Expected redis settings untouched for the sqlite store")
	}
}

func TestLoadRedis(t *testing.T) {
	t.Run("requires address", func(t *testing.T) {
		t.Setenv("STARTPAGE_STORE", "redis")
		t.Setenv("STARTPAGE_REDIS_ADDR", "")
		defer expectPanic(t, "Load()")
		Load()
	})

	t.Run("requires password by default", func(t *testing.T) {
		t.Setenv("STARTPAGE_STORE", "redis")
		t.Setenv("STARTPAGE_REDIS_ADDR", "localhost:6379")
		t.Setenv("STARTPAGE_REDIS_DB", "0")
		t.Setenv("STARTPAGE_REDIS_PASSWORD", "")
		defer expectPanic(t, "Load()")
		Load()
	})

	t.Run("complete", func(t *testing.T) {
		t.Setenv("STARTPAGE_STORE", "Redis")
		t.Setenv("STARTPAGE_REDIS_ADDR", "localhost:6379")
		t.Setenv("STARTPAGE_REDIS_DB", "2")
		t.Setenv("STARTPAGE_REDIS_PASSWORD_REQUIRED", "false")

		cfg := Load()
		if cfg.StoreType != StoreRedis || cfg.RedisDB != 2 {
			t.Errorf("Unexpected redis config: %+v", cfg.Redacted())
		}
	})
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("STARTPAGE_STORE", "etcd")
	defer expectPanic(t, "Load()")
	Load()
}

func TestRedacted(t *testing.T) {
	cfg := Config{RedisPassword: "pw", Passphrase: "secret", RedisUser: "u"}
	red := cfg.Redacted()
	if red.RedisPassword == "pw" || red.Passphrase == "secret" || red.RedisUser == "u" {
		t.Errorf("Expected secrets masked, got %+v", red)
	}
	if cfg.Passphrase != "secret" {
		t.Error("Expected original untouched")
	}
}
