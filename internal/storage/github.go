package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

const wallpaperDir = "public/wallpapers"

// GitHubAdapter keeps the document as one file in a repository. Writes
// carry the blob SHA read beforehand, so a concurrent writer is detected.
type GitHubAdapter struct {
	client *github.Client
	cfg    domain.GitHubConfig
	opts   Options
	log    logger.Logger
}

var (
	_ Adapter          = (*GitHubAdapter)(nil)
	_ Versioned        = (*GitHubAdapter)(nil)
	_ ConnectionTester = (*GitHubAdapter)(nil)
	_ Uploader         = (*GitHubAdapter)(nil)
)

func NewGitHubAdapter(cfg domain.GitHubConfig, opts Options) (*GitHubAdapter, error) {
	opts = opts.withDefaults()
	client, err := newGitHubClient(opts.HTTPClient, cfg.Token, cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	return &GitHubAdapter{client: client, cfg: cfg, opts: opts, log: opts.Logger}, nil
}

// newGitHubClient points the client at apiBaseURL when set (GitHub
// Enterprise, tests).
func newGitHubClient(httpClient *http.Client, token, apiBaseURL string) (*github.Client, error) {
	client := github.NewClient(httpClient).WithAuthToken(token)
	if apiBaseURL == "" {
		return client, nil
	}
	if !strings.HasSuffix(apiBaseURL, "/") {
		apiBaseURL += "/"
	}
	base, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, &domain.ConfigError{Backend: "github", Reason: fmt.Sprintf("invalid api base url: %v", err)}
	}
	client.BaseURL = base
	return client, nil
}

func (a *GitHubAdapter) Type() domain.StorageType { return domain.StorageGitHub }

func (a *GitHubAdapter) Load(ctx context.Context) (*domain.DataSchema, error) {
	doc, _, err := a.LoadVersion(ctx)
	return doc, err
}

// LoadVersion returns the document with its blob SHA. A missing file yields
// a nil document and an empty version.
func (a *GitHubAdapter) LoadVersion(ctx context.Context) (*domain.DataSchema, Version, error) {
	file, _, err := a.getFile(ctx)
	if err != nil {
		return nil, "", err
	}
	if file == nil {
		return nil, "", nil
	}
	version := Version(file.GetSHA())

	content, err := a.fileContent(ctx, file)
	if err != nil {
		return nil, version, err
	}
	return decodeRemote(a.log, a.location(), content), version, nil
}

func (a *GitHubAdapter) getFile(ctx context.Context) (*github.RepositoryContent, *github.Response, error) {
	file, _, resp, err := a.client.Repositories.GetContents(ctx, a.cfg.Owner, a.cfg.Repo, a.cfg.Path,
		&github.RepositoryContentGetOptions{Ref: a.cfg.Branch})
	if err != nil {
		if isStatus(resp, http.StatusNotFound) {
			return nil, resp, nil
		}
		return nil, resp, fmt.Errorf("github: failed to read %s: %w", a.location(), err)
	}
	if file == nil {
		// The path names a directory.
		a.log.Warn("remote path is a directory, ignoring", logger.String("location", a.location()))
		return nil, resp, nil
	}
	return file, resp, nil
}

// fileContent decodes inline content, falling back to the raw download for
// files over the contents API size limit.
func (a *GitHubAdapter) fileContent(ctx context.Context, file *github.RepositoryContent) ([]byte, error) {
	if file.GetEncoding() != "none" {
		content, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("github: failed to decode %s: %w", a.location(), err)
		}
		return []byte(content), nil
	}

	rc, _, err := a.client.Repositories.DownloadContents(ctx, a.cfg.Owner, a.cfg.Repo, a.cfg.Path,
		&github.RepositoryContentGetOptions{Ref: a.cfg.Branch})
	if err != nil {
		return nil, fmt.Errorf("github: failed to download %s: %w", a.location(), err)
	}
	defer utils.Close(rc)
	return io.ReadAll(rc)
}

// Save reads the current SHA and writes over it.
func (a *GitHubAdapter) Save(ctx context.Context, doc domain.DataSchema) error {
	file, _, err := a.getFile(ctx)
	if err != nil {
		return err
	}
	var current Version
	if file != nil {
		current = Version(file.GetSHA())
	}
	_, err = a.SaveVersion(ctx, doc, current)
	return err
}

// SaveVersion writes doc if the remote blob still has the expected SHA. An
// empty expected version creates the file.
func (a *GitHubAdapter) SaveVersion(ctx context.Context, doc domain.DataSchema, expected Version) (Version, error) {
	data, err := encode(doc)
	if err != nil {
		return "", err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Update start page data"),
		Content: data,
		Branch:  github.String(a.cfg.Branch),
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
	)
	if expected == "" {
		opts.Message = github.String("Create start page data")
		res, resp, err = a.client.Repositories.CreateFile(ctx, a.cfg.Owner, a.cfg.Repo, a.cfg.Path, opts)
	} else {
		opts.SHA = github.String(string(expected))
		res, resp, err = a.client.Repositories.UpdateFile(ctx, a.cfg.Owner, a.cfg.Repo, a.cfg.Path, opts)
	}
	if err != nil {
		if isStatus(resp, http.StatusConflict) || isStatus(resp, http.StatusUnprocessableEntity) {
			return "", &ConflictError{Backend: domain.StorageGitHub, Expected: expected, Err: err}
		}
		return "", fmt.Errorf("github: failed to write %s: %w", a.location(), err)
	}

	a.log.Info("document saved", logger.String("location", a.location()), logger.Int("bytes", len(data)))
	return Version(res.GetContent().GetSHA()), nil
}

func (a *GitHubAdapter) TestConnection(ctx context.Context) error {
	if _, _, err := a.client.Repositories.Get(ctx, a.cfg.Owner, a.cfg.Repo); err != nil {
		return fmt.Errorf("github: cannot access repository %s/%s: %w", a.cfg.Owner, a.cfg.Repo, err)
	}
	return nil
}

// UploadFile commits the asset under public/wallpapers and returns its raw
// URL.
func (a *GitHubAdapter) UploadFile(ctx context.Context, r io.Reader, size int64, filename, _ string, onProgress ProgressFunc) (string, error) {
	data, err := io.ReadAll(&countingReader{r: r, total: size, onProgress: onProgress})
	if err != nil {
		return "", fmt.Errorf("github: failed to read upload: %w", err)
	}

	p := path.Join(wallpaperDir, assetName(a.opts.Now(), filename))
	_, _, err = a.client.Repositories.CreateFile(ctx, a.cfg.Owner, a.cfg.Repo, p, &github.RepositoryContentFileOptions{
		Message: github.String("Add wallpaper " + path.Base(p)),
		Content: data,
		Branch:  github.String(a.cfg.Branch),
	})
	if err != nil {
		return "", fmt.Errorf("github: failed to upload %s: %w", p, err)
	}

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s",
		a.cfg.Owner, a.cfg.Repo, a.cfg.Branch, p), nil
}

func (a *GitHubAdapter) location() string {
	return fmt.Sprintf("%s/%s@%s:%s", a.cfg.Owner, a.cfg.Repo, a.cfg.Branch, a.cfg.Path)
}

func isStatus(resp *github.Response, code int) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == code
}
