package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// Options carries the collaborators shared by every backend.
type Options struct {
	Logger     logger.Logger
	HTTPClient *http.Client
	// Now is the clock used for asset names and imported timestamps.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.NewNop()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// NewAdapterFromConfig validates cfg and builds the matching backend. This is
// the only place that branches on the storage type.
func NewAdapterFromConfig(ctx context.Context, cfg domain.StorageConfig, opts Options) (Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With(logger.String("backend", string(cfg.Type)))

	switch cfg.Type {
	case domain.StorageGitHub:
		return NewGitHubAdapter(*cfg.GitHub, opts)
	case domain.StorageGist:
		return NewGistAdapter(*cfg.Gist, opts)
	case domain.StorageS3:
		return NewS3Adapter(ctx, *cfg.S3, opts)
	case domain.StorageWebDAV:
		return NewWebDAVAdapter(*cfg.WebDAV, opts), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}

// decodeRemote parses a remote document. Unparsable content is a data
// integrity problem: it is logged and treated as "nothing to load".
func decodeRemote(log logger.Logger, where string, data []byte) *domain.DataSchema {
	doc, err := domain.Decode(data)
	if err != nil {
		log.Warn("remote document is not valid JSON, ignoring",
			logger.String("location", where),
			logger.Error(err),
		)
		return nil
	}
	return &doc
}
