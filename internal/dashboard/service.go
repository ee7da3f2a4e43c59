// Package dashboard owns the live document: it hydrates it from the local
// cache, applies editor operations, and merges with or pushes to the
// configured remote.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/merge"
	"github.com/MrSnakeDoc/startpage/internal/secret"
	"github.com/MrSnakeDoc/startpage/internal/sources"
	"github.com/MrSnakeDoc/startpage/internal/storage"
	"github.com/MrSnakeDoc/startpage/internal/store"
)

var (
	// ErrBusy is returned by Save while another save is in flight.
	ErrBusy = errors.New("a save is already in progress")
	// ErrLocalStore wraps failures of the local key-value store.
	ErrLocalStore = errors.New("local store failed")
)

// AdapterFactory builds a remote adapter. storage.NewAdapterFromConfig in
// production.
type AdapterFactory func(ctx context.Context, cfg domain.StorageConfig, opts storage.Options) (storage.Adapter, error)

// Options wires a Service.
type Options struct {
	Store   store.KV
	Sealer  *secret.Sealer
	Logger  logger.Logger
	Storage storage.Options
	Seed    Seed
	// NewAdapter defaults to storage.NewAdapterFromConfig.
	NewAdapter AdapterFactory
	Now        func() time.Time
}

type Service struct {
	kv         store.KV
	sealer     *secret.Sealer
	log        logger.Logger
	storage    storage.Options
	seed       Seed
	newAdapter AdapterFactory
	now        func() time.Time

	// saving serialises Save without blocking edits.
	saving sync.Mutex

	mu      sync.Mutex
	doc     domain.DataSchema
	remote  *domain.StorageConfig
	adapter storage.Adapter
	// version is the remote revision seen by the last Sync, when the
	// backend exposes one.
	version      storage.Version
	versionKnown bool
	status       Status
}

func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.NewAdapter == nil {
		opts.NewAdapter = storage.NewAdapterFromConfig
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Storage.Logger == nil {
		opts.Storage.Logger = opts.Logger
	}
	if opts.Storage.HTTPClient == nil {
		opts.Storage.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Storage.Now == nil {
		opts.Storage.Now = opts.Now
	}

	return &Service{
		kv:         opts.Store,
		sealer:     opts.Sealer,
		log:        opts.Logger,
		storage:    opts.Storage,
		seed:       opts.Seed,
		newAdapter: opts.NewAdapter,
		now:        opts.Now,
		doc:        domain.DefaultData(),
		status:     Status{SyncState: StateIdle},
	}
}

func (s *Service) nowMillis() int64 {
	return s.now().UnixMilli()
}

// Hydrate loads the storage configuration and the cached document. With no
// cache and no remote the document is bootstrapped from the seed.
func (s *Service) Hydrate(ctx context.Context) error {
	remote, err := s.loadStorageConfig(ctx)
	if err != nil {
		return err
	}

	doc, ok := s.readCache(ctx)
	if !ok {
		switch {
		case remote == nil && !s.seed.empty():
			doc = s.loadSeed(ctx)
		default:
			doc = domain.DefaultData()
		}
		if err := s.writeCache(ctx, doc); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.setRemoteLocked(remote)
	s.log.Info("dashboard hydrated",
		logger.Int("categories", len(doc.Categories)),
		logger.Int("links", domain.CountLinks(doc)),
		logger.Bool("remote", remote != nil))
	return nil
}

func (s *Service) readCache(ctx context.Context) (domain.DataSchema, bool) {
	raw, err := s.kv.Get(ctx, store.KeyData)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("failed to read local cache", logger.Error(err))
		}
		return domain.DataSchema{}, false
	}
	doc, err := domain.Decode(raw)
	if err != nil {
		s.log.Warn("local cache is corrupt, ignoring", logger.Error(err))
		return domain.DataSchema{}, false
	}
	return doc, true
}

func (s *Service) writeCache(ctx context.Context, doc domain.DataSchema) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode local cache: %w", err)
	}
	if err := s.kv.Set(ctx, store.KeyData, raw); err != nil {
		return fmt.Errorf("write local cache: %w: %w", ErrLocalStore, err)
	}
	return nil
}

// Document returns a copy of the current document.
func (s *Service) Document() domain.DataSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Clone(s.doc)
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Links = domain.CountLinks(s.doc)
	st.Categories = len(s.doc.Categories)
	return st
}

// Ping checks the local store.
func (s *Service) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Apply runs one editor operation and persists the result to the local
// cache. The remote is only touched by Save.
func (s *Service) Apply(ctx context.Context, edit domain.Edit) (domain.DataSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := edit(s.doc)
	if err != nil {
		return domain.DataSchema{}, err
	}
	next = domain.Normalize(next)
	if domain.Equal(next, s.doc) {
		return domain.Clone(s.doc), nil
	}

	if err := s.writeCache(ctx, next); err != nil {
		return domain.DataSchema{}, err
	}
	s.doc = next
	if s.remote != nil {
		s.status.UnsavedChanges = true
		if s.status.SyncState != StateSyncing {
			s.status.SyncState = StateUnsaved
		}
	}
	return domain.Clone(next), nil
}

// Replace swaps the whole document.
func (s *Service) Replace(ctx context.Context, doc domain.DataSchema) (domain.DataSchema, error) {
	return s.Apply(ctx, func(domain.DataSchema) (domain.DataSchema, error) {
		return domain.Clone(doc), nil
	})
}

// Import parses r and folds the categories it holds into the document. It
// returns the number of links imported.
func (s *Service) Import(ctx context.Context, r io.Reader, format sources.Format, mode sources.Mode) (int, error) {
	cats, err := sources.Categories(r, format, s.nowMillis())
	if err != nil {
		return 0, fmt.Errorf("parse %s import: %w: %w", format, domain.ErrInvalidInput, err)
	}
	if _, err := s.Apply(ctx, sources.Import(cats, mode)); err != nil {
		return 0, err
	}
	n := domain.CountLinks(domain.DataSchema{Categories: cats})
	s.log.Info("bookmarks imported",
		logger.String("format", string(format)),
		logger.String("mode", string(mode)),
		logger.Int("categories", len(cats)),
		logger.Int("links", n))
	return n, nil
}

// currentAdapter returns the adapter for the configured remote, building it
// on first use. It returns nil when no remote is configured.
func (s *Service) currentAdapter(ctx context.Context) (storage.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remote == nil {
		return nil, nil
	}
	if s.adapter != nil {
		return s.adapter, nil
	}
	a, err := s.newAdapter(ctx, *s.remote, s.storage)
	if err != nil {
		return nil, err
	}
	s.adapter = a
	return a, nil
}

// Sync loads the remote and merges it into the local document. It never
// writes the remote. Without a configured remote it does nothing.
func (s *Service) Sync(ctx context.Context) (merge.Stats, error) {
	a, err := s.currentAdapter(ctx)
	if err != nil {
		s.fail(err)
		return merge.Stats{}, err
	}
	if a == nil {
		return merge.Stats{}, nil
	}

	s.setState(StateSyncing)

	var (
		remote  *domain.DataSchema
		version storage.Version
		known   bool
	)
	if v, ok := a.(storage.Versioned); ok {
		remote, version, err = v.LoadVersion(ctx)
		known = err == nil
	} else {
		remote, err = a.Load(ctx)
	}
	if err != nil {
		err = fmt.Errorf("load from %s: %w", a.Type(), err)
		s.fail(err)
		s.log.Warn("sync failed, keeping local document", logger.Error(err))
		return merge.Stats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adapter != a {
		// The remote was reconfigured while loading.
		return merge.Stats{}, nil
	}
	s.version, s.versionKnown = version, known
	s.status.LastSyncAt = s.nowMillis()
	s.status.LastError = ""

	if remote == nil {
		// Nothing usable remotely: everything local is unsaved.
		s.status.UnsavedChanges = true
		s.status.SyncState = StateUnsaved
		s.log.Info("remote document absent, local document kept")
		return merge.Stats{}, nil
	}

	res := merge.Merge(s.doc, *remote)
	if res.ChangedLocal {
		if err := s.writeCache(ctx, res.Document); err != nil {
			s.status.SyncState = StateError
			s.status.LastError = err.Error()
			return res.Stats, err
		}
		s.doc = res.Document
	}
	s.status.UnsavedChanges = res.DiffersFromRemote
	if res.DiffersFromRemote {
		s.status.SyncState = StateUnsaved
	} else {
		s.status.SyncState = StateSynced
	}

	s.log.Info("synced with remote",
		logger.Bool("local_changed", res.ChangedLocal),
		logger.Bool("unsaved", res.DiffersFromRemote),
		logger.Int("from_local", res.Stats.FromLocal),
		logger.Int("local_only", res.Stats.LocalOnly),
		logger.Int("remote_only", res.Stats.RemoteOnly))
	if res.Stats.MissingTimestamps > 0 {
		s.log.Warn("merged records without updatedAt",
			logger.Int("count", res.Stats.MissingTimestamps))
	}
	return res.Stats, nil
}

// Save pushes the whole document to the remote. Configuration problems are
// reported before any network call. On failure the local document and the
// unsaved flag are kept.
func (s *Service) Save(ctx context.Context) error {
	if !s.saving.TryLock() {
		return ErrBusy
	}
	defer s.saving.Unlock()

	s.mu.Lock()
	if s.remote == nil {
		s.mu.Unlock()
		return &domain.ConfigError{Reason: "no remote storage configured"}
	}
	if err := s.remote.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := domain.Clone(s.doc)
	expected, versioned := s.version, s.versionKnown
	s.mu.Unlock()

	a, err := s.currentAdapter(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	if a == nil {
		return &domain.ConfigError{Reason: "no remote storage configured"}
	}

	s.setState(StateSyncing)

	var next storage.Version
	v, canVersion := a.(storage.Versioned)
	if canVersion && versioned {
		next, err = v.SaveVersion(ctx, snapshot, expected)
	} else {
		err = a.Save(ctx, snapshot)
	}
	if err != nil {
		err = fmt.Errorf("save to %s: %w", a.Type(), err)
		s.fail(err)
		s.log.Warn("save failed, local document kept", logger.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if canVersion && versioned {
		s.version = next
	}
	s.status.LastSaveAt = s.nowMillis()
	s.status.LastError = ""
	if domain.Equal(s.doc, snapshot) {
		s.status.UnsavedChanges = false
		s.status.SyncState = StateSynced
	} else {
		// Edited while the save was in flight.
		s.status.SyncState = StateUnsaved
	}
	s.log.Info("saved to remote",
		logger.String("backend", string(a.Type())),
		logger.Int("links", domain.CountLinks(snapshot)))
	return nil
}

// Upload stores a wallpaper on the remote and returns its public URL.
func (s *Service) Upload(ctx context.Context, r io.Reader, size int64, filename, contentType string, onProgress storage.ProgressFunc) (string, error) {
	a, err := s.currentAdapter(ctx)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", &domain.ConfigError{Reason: "no remote storage configured"}
	}
	return storage.Upload(ctx, a, r, size, filename, contentType, onProgress)
}

func (s *Service) setState(st SyncState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.SyncState = st
}

func (s *Service) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.SyncState = StateError
	s.status.LastError = err.Error()
}
