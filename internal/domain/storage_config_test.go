package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestStorageConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         StorageConfig
		wantMissing []string
		wantErr     bool
	}{
		{
			name: "complete github",
			cfg:  StorageConfig{Type: StorageGitHub, GitHub: &GitHubConfig{Token: "t", Owner: "o", Repo: "r"}},
		},
		{
			name:        "github without token",
			cfg:         StorageConfig{Type: StorageGitHub, GitHub: &GitHubConfig{Owner: "o", Repo: "r"}},
			wantMissing: []string{"token"},
			wantErr:     true,
		},
		{
			name:        "s3 missing credentials",
			cfg:         StorageConfig{Type: StorageS3, S3: &S3Config{Endpoint: "http://minio", Bucket: "b"}},
			wantMissing: []string{"accessKeyId", "secretAccessKey"},
			wantErr:     true,
		},
		{
			name:    "webdav section absent",
			cfg:     StorageConfig{Type: StorageWebDAV},
			wantErr: true,
		},
		{
			name:        "gist without id",
			cfg:         StorageConfig{Type: StorageGist, Gist: &GistConfig{Token: "t"}},
			wantMissing: []string{"gistId"},
			wantErr:     true,
		},
		{
			name:    "unknown type",
			cfg:     StorageConfig{Type: "ftp"},
			wantErr: true,
		},
		{
			name:    "no type",
			cfg:     StorageConfig{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected *ConfigError, got %v", err)
			}
			if strings.Join(cfgErr.Missing, ",") != strings.Join(tt.wantMissing, ",") {
				t.Errorf("Expected missing %v, got %v", tt.wantMissing, cfgErr.Missing)
			}
		})
	}
}

func TestStorageConfigWithDefaults(t *testing.T) {
	gh := StorageConfig{Type: StorageGitHub, GitHub: &GitHubConfig{Token: "t", Owner: "o", Repo: "r"}}.WithDefaults()
	if gh.GitHub.Branch != "main" || gh.GitHub.Path != "public/data.json" {
		t.Errorf("Expected github defaults, got %+v", gh.GitHub)
	}

	dav := StorageConfig{Type: StorageWebDAV, WebDAV: &WebDAVConfig{URL: "https://dav", Path: "start/data.json"}}.WithDefaults()
	if dav.WebDAV.Path != "/start/data.json" {
		t.Errorf("Expected rooted webdav path, got %q", dav.WebDAV.Path)
	}

	s3 := StorageConfig{Type: StorageS3, S3: &S3Config{Endpoint: "http://minio:9000/"}}.WithDefaults()
	if s3.S3.Region != "us-east-1" || s3.S3.Key != "data.json" || s3.S3.Endpoint != "http://minio:9000" {
		t.Errorf("Expected s3 defaults, got %+v", s3.S3)
	}
}

func TestStorageConfigRedacted(t *testing.T) {
	cfg := StorageConfig{Type: StorageS3, S3: &S3Config{AccessKeyID: "AK", SecretAccessKey: "SK"}}
	red := cfg.Redacted()
	if red.S3.SecretAccessKey == "SK" {
		t.Error("Expected secret to be redacted")
	}
	if red.S3.AccessKeyID != "AK" {
		t.Error("Expected access key id to stay visible")
	}
	if cfg.S3.SecretAccessKey != "SK" {
		t.Error("Expected original config untouched")
	}
}

func TestLegacyGitHubConfigMigrate(t *testing.T) {
	got := LegacyGitHubConfig{Token: "t", Owner: "o", Repo: "r"}.Migrate()
	if got.Type != StorageGitHub || got.GitHub == nil {
		t.Fatalf("Expected github config, got %+v", got)
	}
	if got.GitHub.Branch != DefaultGitHubBranch || got.GitHub.Path != DefaultGitHubPath {
		t.Errorf("Expected defaults filled in, got %+v", got.GitHub)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Expected migrated config to validate, got %v", err)
	}
}
