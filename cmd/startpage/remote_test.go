package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

func TestDecodeRemote(t *testing.T) {
	cfg, err := decodeRemote(strings.NewReader(`
type = "S3"
[s3]
endpoint = "https://minio.example.com"
bucket = "startpage"
access_key_id = "AK"
`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Type != domain.StorageS3 {
		t.Errorf("Expected type s3, got %q", cfg.Type)
	}
	if cfg.S3 == nil || cfg.S3.Bucket != "startpage" || cfg.S3.AccessKeyID != "AK" {
		t.Errorf("Expected s3 section decoded, got %+v", cfg.S3)
	}
}

func TestDecodeRemoteRejectsUnknownKeys(t *testing.T) {
	_, err := decodeRemote(strings.NewReader(`
type = "github"
[github]
owner = "o"
repository = "r"
`))
	if err == nil || !strings.Contains(err.Error(), "github.repository") {
		t.Errorf("Expected unknown key error, got %v", err)
	}
}

func TestFillSecret(t *testing.T) {
	prompted := func(v string) promptFunc {
		return func(string) (string, error) { return v, nil }
	}
	mustNotPrompt := func(string) (string, error) {
		return "", errors.New("unexpected prompt")
	}

	tests := []struct {
		name   string
		cfg    domain.StorageConfig
		prompt promptFunc
		check  func(domain.StorageConfig) string
	}{
		{
			name:   "github token prompted",
			cfg:    domain.StorageConfig{Type: domain.StorageGitHub, GitHub: &domain.GitHubConfig{Owner: "o", Repo: "r"}},
			prompt: prompted("ghp_x\n"),
			check:  func(c domain.StorageConfig) string { return c.GitHub.Token },
		},
		{
			name:   "s3 secret kept",
			cfg:    domain.StorageConfig{Type: domain.StorageS3, S3: &domain.S3Config{SecretAccessKey: "SK"}},
			prompt: mustNotPrompt,
			check:  func(c domain.StorageConfig) string { return c.S3.SecretAccessKey },
		},
		{
			name:   "anonymous webdav",
			cfg:    domain.StorageConfig{Type: domain.StorageWebDAV, WebDAV: &domain.WebDAVConfig{URL: "https://dav"}},
			prompt: mustNotPrompt,
			check:  func(c domain.StorageConfig) string { return c.WebDAV.Password },
		},
	}

	want := map[string]string{
		"github token prompted": "ghp_x",
		"s3 secret kept":        "SK",
		"anonymous webdav":      "",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := fillSecret(&cfg, tt.prompt); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := tt.check(cfg); got != want[tt.name] {
				t.Errorf("Expected %q, got %q", want[tt.name], got)
			}
		})
	}
}
