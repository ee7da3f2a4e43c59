package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/studio-b12/gowebdav"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/sources/netscape"
)

// WebDAVAdapter keeps the document as a file on a WebDAV server. A path that
// holds a browser bookmark export is readable but never overwritten.
type WebDAVAdapter struct {
	client *gowebdav.Client
	cfg    domain.WebDAVConfig
	opts   Options
	log    logger.Logger
}

var (
	_ Adapter          = (*WebDAVAdapter)(nil)
	_ ConnectionTester = (*WebDAVAdapter)(nil)
)

func NewWebDAVAdapter(cfg domain.WebDAVConfig, opts Options) *WebDAVAdapter {
	opts = opts.withDefaults()
	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)
	if opts.HTTPClient.Transport != nil {
		client.SetTransport(opts.HTTPClient.Transport)
	}
	client.SetTimeout(opts.HTTPClient.Timeout)
	return &WebDAVAdapter{client: client, cfg: cfg, opts: opts, log: opts.Logger}
}

func (a *WebDAVAdapter) Type() domain.StorageType { return domain.StorageWebDAV }

// Load reads the file after checking it exists. Content that is not JSON is
// tried as a Netscape bookmark export before being ignored.
func (a *WebDAVAdapter) Load(ctx context.Context) (*domain.DataSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := a.client.Stat(a.cfg.Path); err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("webdav: failed to stat %s: %w", a.cfg.Path, err)
	}

	data, err := a.client.Read(a.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("webdav: failed to read %s: %w", a.cfg.Path, err)
	}

	if doc, err := domain.Decode(data); err == nil {
		return &doc, nil
	}

	doc, err := netscape.ParseDocument(bytes.NewReader(data), a.opts.Now().UnixMilli())
	if err != nil {
		a.log.Warn("remote file is neither JSON nor a bookmark export, ignoring",
			logger.String("location", a.cfg.Path),
			logger.Error(err),
		)
		return nil, nil
	}
	a.log.Info("remote file loaded as a bookmark export",
		logger.String("location", a.cfg.Path),
		logger.Int("categories", len(doc.Categories)),
	)
	return &doc, nil
}

// Save refuses .html/.htm targets before touching the server, then creates
// missing parent collections and writes the file.
func (a *WebDAVAdapter) Save(ctx context.Context, doc domain.DataSchema) error {
	if isHTMLPath(a.cfg.Path) {
		return fmt.Errorf("webdav: %s: %w", a.cfg.Path, ErrUnsafePath)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(doc)
	if err != nil {
		return err
	}

	if dir := path.Dir(a.cfg.Path); dir != "/" && dir != "." {
		if err := a.client.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("webdav: failed to create %s: %w", dir, err)
		}
	}
	if err := a.client.Write(a.cfg.Path, data, 0o644); err != nil {
		return fmt.Errorf("webdav: failed to write %s: %w", a.cfg.Path, err)
	}

	a.log.Info("document saved", logger.String("location", a.cfg.Path), logger.Int("bytes", len(data)))
	return nil
}

func (a *WebDAVAdapter) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.client.Connect(); err != nil {
		return fmt.Errorf("webdav: cannot connect to %s: %w", a.cfg.URL, err)
	}
	return nil
}

func isHTMLPath(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".html", ".htm":
		return true
	}
	return false
}
