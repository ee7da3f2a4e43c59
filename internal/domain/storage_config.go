package domain

import (
	"fmt"
	"strings"
)

// StorageType is the discriminator of StorageConfig.
type StorageType string

const (
	StorageGitHub StorageType = "github"
	StorageGist   StorageType = "gist"
	StorageS3     StorageType = "s3"
	StorageWebDAV StorageType = "webdav"
)

// StorageConfig selects and configures the remote store.
// This uses a tagged union pattern - the Type field determines which
// sub-struct is relevant. It lives only in local configuration storage and is
// never part of the synchronized document.
type StorageConfig struct {
	Type StorageType `json:"type" toml:"type"`

	GitHub *GitHubConfig `json:"github,omitempty" toml:"github,omitempty"`
	Gist   *GistConfig   `json:"gist,omitempty" toml:"gist,omitempty"`
	S3     *S3Config     `json:"s3,omitempty" toml:"s3,omitempty"`
	WebDAV *WebDAVConfig `json:"webdav,omitempty" toml:"webdav,omitempty"`
}

// GitHubConfig points at a single file inside a repository.
type GitHubConfig struct {
	Token      string `json:"token" toml:"token"`
	Owner      string `json:"owner" toml:"owner"`
	Repo       string `json:"repo" toml:"repo"`
	Branch     string `json:"branch,omitempty" toml:"branch,omitempty"`         // default "main"
	Path       string `json:"path,omitempty" toml:"path,omitempty"`             // default "public/data.json"
	APIBaseURL string `json:"apiBaseUrl,omitempty" toml:"api_base_url,omitempty"` // GitHub Enterprise
}

// GistConfig points at a named file inside a gist.
type GistConfig struct {
	Token      string `json:"token" toml:"token"`
	GistID     string `json:"gistId" toml:"gist_id"`
	Filename   string `json:"filename,omitempty" toml:"filename,omitempty"` // default "data.json"
	APIBaseURL string `json:"apiBaseUrl,omitempty" toml:"api_base_url,omitempty"`
}

// S3Config points at an object in an S3-compatible bucket (path-style).
type S3Config struct {
	Endpoint        string `json:"endpoint" toml:"endpoint"`
	Region          string `json:"region,omitempty" toml:"region,omitempty"` // default "us-east-1"
	Bucket          string `json:"bucket" toml:"bucket"`
	AccessKeyID     string `json:"accessKeyId" toml:"access_key_id"`
	SecretAccessKey string `json:"secretAccessKey" toml:"secret_access_key"`
	Key             string `json:"key,omitempty" toml:"key,omitempty"`             // default "data.json"
	PublicURL       string `json:"publicUrl,omitempty" toml:"public_url,omitempty"` // base for uploaded asset URLs
}

// WebDAVConfig points at a file on a WebDAV server.
type WebDAVConfig struct {
	URL      string `json:"url" toml:"url"`
	Username string `json:"username,omitempty" toml:"username,omitempty"`
	Password string `json:"password,omitempty" toml:"password,omitempty"`
	Path     string `json:"path,omitempty" toml:"path,omitempty"` // default "/startpage/data.json"
}

const (
	DefaultGitHubBranch = "main"
	DefaultGitHubPath   = "public/data.json"
	DefaultGistFilename = "data.json"
	DefaultS3Region     = "us-east-1"
	DefaultS3Key        = "data.json"
	DefaultWebDAVPath   = "/startpage/data.json"
)

// WithDefaults returns a copy with optional fields filled in.
func (c StorageConfig) WithDefaults() StorageConfig {
	switch c.Type {
	case StorageGitHub:
		if c.GitHub != nil {
			g := *c.GitHub
			g.Branch = orDefault(g.Branch, DefaultGitHubBranch)
			g.Path = strings.TrimPrefix(orDefault(g.Path, DefaultGitHubPath), "/")
			c.GitHub = &g
		}
	case StorageGist:
		if c.Gist != nil {
			g := *c.Gist
			g.Filename = orDefault(g.Filename, DefaultGistFilename)
			c.Gist = &g
		}
	case StorageS3:
		if c.S3 != nil {
			s := *c.S3
			s.Region = orDefault(s.Region, DefaultS3Region)
			s.Key = strings.TrimPrefix(orDefault(s.Key, DefaultS3Key), "/")
			s.Endpoint = strings.TrimRight(s.Endpoint, "/")
			s.PublicURL = strings.TrimRight(s.PublicURL, "/")
			c.S3 = &s
		}
	case StorageWebDAV:
		if c.WebDAV != nil {
			w := *c.WebDAV
			w.Path = orDefault(w.Path, DefaultWebDAVPath)
			if !strings.HasPrefix(w.Path, "/") {
				w.Path = "/" + w.Path
			}
			c.WebDAV = &w
		}
	}
	return c
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Validate checks that the selected backend carries every required field.
func (c StorageConfig) Validate() error {
	var missing []string
	need := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}

	switch c.Type {
	case StorageGitHub:
		if c.GitHub == nil {
			return &ConfigError{Backend: string(c.Type), Reason: "missing github section"}
		}
		need("token", c.GitHub.Token)
		need("owner", c.GitHub.Owner)
		need("repo", c.GitHub.Repo)
	case StorageGist:
		if c.Gist == nil {
			return &ConfigError{Backend: string(c.Type), Reason: "missing gist section"}
		}
		need("token", c.Gist.Token)
		need("gistId", c.Gist.GistID)
	case StorageS3:
		if c.S3 == nil {
			return &ConfigError{Backend: string(c.Type), Reason: "missing s3 section"}
		}
		need("endpoint", c.S3.Endpoint)
		need("bucket", c.S3.Bucket)
		need("accessKeyId", c.S3.AccessKeyID)
		need("secretAccessKey", c.S3.SecretAccessKey)
	case StorageWebDAV:
		if c.WebDAV == nil {
			return &ConfigError{Backend: string(c.Type), Reason: "missing webdav section"}
		}
		need("url", c.WebDAV.URL)
	case "":
		return &ConfigError{Reason: "no storage type selected"}
	default:
		return &ConfigError{Reason: fmt.Sprintf("unknown storage type %q", c.Type)}
	}

	if len(missing) > 0 {
		return &ConfigError{Backend: string(c.Type), Missing: missing}
	}
	return nil
}

// Redacted returns a copy with every secret replaced, for display.
func (c StorageConfig) Redacted() StorageConfig {
	const mask = "***REDACTED***"
	redact := func(s string) string {
		if s == "" {
			return ""
		}
		return mask
	}
	if c.GitHub != nil {
		g := *c.GitHub
		g.Token = redact(g.Token)
		c.GitHub = &g
	}
	if c.Gist != nil {
		g := *c.Gist
		g.Token = redact(g.Token)
		c.Gist = &g
	}
	if c.S3 != nil {
		s := *c.S3
		s.SecretAccessKey = redact(s.SecretAccessKey)
		c.S3 = &s
	}
	if c.WebDAV != nil {
		w := *c.WebDAV
		w.Password = redact(w.Password)
		c.WebDAV = &w
	}
	return c
}

// LegacyGitHubConfig is the single-backend shape written by early versions,
// before other remotes existed.
type LegacyGitHubConfig struct {
	Token  string `json:"token"`
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
	Path   string `json:"path"`
}

// Migrate converts the legacy shape into the multi-backend one.
func (l LegacyGitHubConfig) Migrate() StorageConfig {
	return StorageConfig{
		Type: StorageGitHub,
		GitHub: &GitHubConfig{
			Token:  l.Token,
			Owner:  l.Owner,
			Repo:   l.Repo,
			Branch: l.Branch,
			Path:   l.Path,
		},
	}.WithDefaults()
}
