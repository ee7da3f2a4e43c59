// Package storage implements the remote stores the dashboard document can be
// synchronized with. Every backend satisfies Adapter; the optional
// capabilities are separate interfaces checked with a type assertion.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

var (
	// ErrConflict reports that the remote changed since it was read.
	ErrConflict = errors.New("remote document changed since it was read")

	// ErrUnsafePath is returned when a save would overwrite a file that is
	// not a JSON document.
	ErrUnsafePath = errors.New("refusing to write JSON over a non-JSON remote path")

	// ErrUploadUnsupported is returned for backends without asset storage.
	ErrUploadUnsupported = errors.New("backend does not support uploads")
)

// Adapter loads and saves the whole document.
type Adapter interface {
	// Load returns (nil, nil) when there is nothing usable on the remote:
	// the document does not exist yet or cannot be parsed. An error means
	// the remote could not be reached or refused the request.
	Load(ctx context.Context) (*domain.DataSchema, error)

	// Save overwrites the remote with doc.
	Save(ctx context.Context, doc domain.DataSchema) error

	// Type reports which backend this is.
	Type() domain.StorageType
}

// ConnectionTester performs a cheap existence and permission check.
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}

// ProgressFunc receives the number of bytes sent so far and the total.
type ProgressFunc func(sent, total int64)

// Uploader stores a binary asset and returns a URL a browser can load.
type Uploader interface {
	UploadFile(ctx context.Context, r io.Reader, size int64, filename, contentType string, onProgress ProgressFunc) (string, error)
}

// Version is an opaque optimistic-concurrency token. Empty means the
// document does not exist yet.
type Version string

// Versioned is implemented by backends that can detect a stale overwrite.
type Versioned interface {
	LoadVersion(ctx context.Context) (*domain.DataSchema, Version, error)
	SaveVersion(ctx context.Context, doc domain.DataSchema, expected Version) (Version, error)
}

// ConflictError is returned by SaveVersion when the remote moved on.
type ConflictError struct {
	Backend  domain.StorageType
	Expected Version
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %v (expected version %q)", e.Backend, ErrConflict, e.Expected)
}

func (e *ConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Err}
}

// Upload stores an asset through a if the backend supports it.
func Upload(ctx context.Context, a Adapter, r io.Reader, size int64, filename, contentType string, onProgress ProgressFunc) (string, error) {
	up, ok := a.(Uploader)
	if !ok {
		return "", fmt.Errorf("%s: %w", a.Type(), ErrUploadUnsupported)
	}
	return up.UploadFile(ctx, r, size, filename, contentType, onProgress)
}

// TestConnection runs the backend check, or a Load when there is none.
func TestConnection(ctx context.Context, a Adapter) error {
	if t, ok := a.(ConnectionTester); ok {
		return t.TestConnection(ctx)
	}
	_, err := a.Load(ctx)
	return err
}

// countingReader reports progress while the body is consumed.
type countingReader struct {
	r          io.Reader
	total      int64
	sent       int64
	onProgress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		if c.onProgress != nil {
			c.onProgress(c.sent, c.total)
		}
	}
	return n, err
}

func encode(doc domain.DataSchema) ([]byte, error) {
	return domain.EncodePretty(domain.Normalize(doc))
}

// assetName builds a collision-resistant object name from an uploaded
// filename.
func assetName(now time.Time, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}
