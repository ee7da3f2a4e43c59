package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v66/github"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// GistAdapter keeps the document as a named file inside a gist. The gist
// API overwrites by filename, so there is no version token.
type GistAdapter struct {
	client *github.Client
	http   *http.Client
	cfg    domain.GistConfig
	log    logger.Logger
}

var (
	_ Adapter          = (*GistAdapter)(nil)
	_ ConnectionTester = (*GistAdapter)(nil)
)

func NewGistAdapter(cfg domain.GistConfig, opts Options) (*GistAdapter, error) {
	opts = opts.withDefaults()
	client, err := newGitHubClient(opts.HTTPClient, cfg.Token, cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	return &GistAdapter{client: client, http: opts.HTTPClient, cfg: cfg, log: opts.Logger}, nil
}

func (a *GistAdapter) Type() domain.StorageType { return domain.StorageGist }

func (a *GistAdapter) Load(ctx context.Context) (*domain.DataSchema, error) {
	gist, resp, err := a.client.Gists.Get(ctx, a.cfg.GistID)
	if err != nil {
		if isStatus(resp, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("gist: failed to read %s: %w", a.cfg.GistID, err)
	}

	file, ok := gist.Files[github.GistFilename(a.cfg.Filename)]
	if !ok {
		return nil, nil
	}

	content := []byte(file.GetContent())
	if file.GetTruncated() {
		if content, err = a.fetchRaw(ctx, file.GetRawURL()); err != nil {
			return nil, err
		}
	}
	return decodeRemote(a.log, a.location(), content), nil
}

// fetchRaw downloads a file the gist API truncated.
func (a *GistAdapter) fetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("gist: failed to create request: %w", err)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gist: failed to download %s: %w", a.location(), err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gist: failed to download %s: status %d", a.location(), resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (a *GistAdapter) Save(ctx context.Context, doc domain.DataSchema) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}

	_, _, err = a.client.Gists.Edit(ctx, a.cfg.GistID, &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(a.cfg.Filename): {Content: github.String(string(data))},
		},
	})
	if err != nil {
		return fmt.Errorf("gist: failed to write %s: %w", a.location(), err)
	}

	a.log.Info("document saved", logger.String("location", a.location()), logger.Int("bytes", len(data)))
	return nil
}

func (a *GistAdapter) TestConnection(ctx context.Context) error {
	if _, _, err := a.client.Gists.Get(ctx, a.cfg.GistID); err != nil {
		return fmt.Errorf("gist: cannot access gist %s: %w", a.cfg.GistID, err)
	}
	return nil
}

func (a *GistAdapter) location() string {
	return a.cfg.GistID + "/" + a.cfg.Filename
}
