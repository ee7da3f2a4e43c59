package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/storage"
	"github.com/MrSnakeDoc/startpage/internal/store"
)

// loadStorageConfig reads the remote configuration, migrating the legacy
// GitHub-only key on first read. It returns nil when none is stored.
func (s *Service) loadStorageConfig(ctx context.Context) (*domain.StorageConfig, error) {
	raw, err := s.kv.Get(ctx, store.KeyStorageConfig)
	switch {
	case err == nil:
		plain, err := s.sealer.Open(raw)
		if err != nil {
			return nil, fmt.Errorf("open storage config: %w", err)
		}
		var cfg domain.StorageConfig
		if err := json.Unmarshal(plain, &cfg); err != nil {
			s.log.Warn("stored storage config is corrupt, ignoring", logger.Error(err))
			return nil, nil
		}
		cfg = cfg.WithDefaults()
		return &cfg, nil
	case errors.Is(err, store.ErrNotFound):
		return s.migrateLegacyConfig(ctx)
	default:
		return nil, fmt.Errorf("read storage config: %w: %w", ErrLocalStore, err)
	}
}

func (s *Service) migrateLegacyConfig(ctx context.Context) (*domain.StorageConfig, error) {
	raw, err := s.kv.Get(ctx, store.KeyLegacyGitHubConfig)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read legacy github config: %w: %w", ErrLocalStore, err)
	}

	var legacy domain.LegacyGitHubConfig
	if err := json.Unmarshal(raw, &legacy); err != nil {
		s.log.Warn("legacy github config is corrupt, ignoring", logger.Error(err))
		return nil, nil
	}
	cfg := legacy.Migrate()
	if err := s.writeStorageConfig(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.kv.Delete(ctx, store.KeyLegacyGitHubConfig); err != nil {
		return nil, fmt.Errorf("delete legacy github config: %w: %w", ErrLocalStore, err)
	}
	s.log.Info("migrated legacy github config",
		logger.String("owner", legacy.Owner),
		logger.String("repo", legacy.Repo))
	return &cfg, nil
}

func (s *Service) writeStorageConfig(ctx context.Context, cfg domain.StorageConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode storage config: %w", err)
	}
	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return fmt.Errorf("seal storage config: %w", err)
	}
	if err := s.kv.Set(ctx, store.KeyStorageConfig, sealed); err != nil {
		return fmt.Errorf("write storage config: %w: %w", ErrLocalStore, err)
	}
	return nil
}

// setRemoteLocked swaps the active remote and forgets everything learned
// about the previous one.
func (s *Service) setRemoteLocked(cfg *domain.StorageConfig) {
	s.remote = cfg
	s.adapter = nil
	s.version, s.versionKnown = "", false
	s.status = Status{SyncState: StateIdle}
	if cfg != nil {
		s.status.RemoteType = cfg.Type
	}
}

// StorageConfig returns the configured remote, or nil.
func (s *Service) StorageConfig() *domain.StorageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remote == nil {
		return nil
	}
	cfg := s.remote.WithDefaults()
	return &cfg
}

// SetStorageConfig validates and persists a new remote configuration. The
// next Sync merges against it.
func (s *Service) SetStorageConfig(ctx context.Context, cfg domain.StorageConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.WithDefaults()
	if err := s.writeStorageConfig(ctx, cfg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRemoteLocked(&cfg)
	s.log.Info("storage config updated", logger.String("backend", string(cfg.Type)))
	return nil
}

// ClearStorageConfig forgets the remote. The local document is kept.
func (s *Service) ClearStorageConfig(ctx context.Context) error {
	for _, key := range []string{store.KeyStorageConfig, store.KeyLegacyGitHubConfig} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w: %w", key, ErrLocalStore, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRemoteLocked(nil)
	s.log.Info("storage config cleared")
	return nil
}

// TestConnection checks cfg, or the stored configuration when cfg is nil,
// without saving anything.
func (s *Service) TestConnection(ctx context.Context, cfg *domain.StorageConfig) error {
	if cfg == nil {
		cfg = s.StorageConfig()
	}
	if cfg == nil {
		return &domain.ConfigError{Reason: "no remote storage configured"}
	}
	a, err := s.newAdapter(ctx, *cfg, s.storage)
	if err != nil {
		return err
	}
	return storage.TestConnection(ctx, a)
}
