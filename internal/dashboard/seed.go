package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// maxSeedBytes bounds a seed document fetched over HTTP.
const maxSeedBytes = 8 << 20

// Seed names the static document a fresh install starts from. File wins
// over URL.
type Seed struct {
	File string
	URL  string
}

func (s Seed) empty() bool {
	return s.File == "" && s.URL == ""
}

// loadSeed returns the seed document, or the defaults when it cannot be
// read.
func (s *Service) loadSeed(ctx context.Context) domain.DataSchema {
	raw, where, err := s.readSeed(ctx)
	if err != nil {
		s.log.Warn("failed to read seed document, using defaults",
			logger.String("seed", where), logger.Error(err))
		return domain.DefaultData()
	}
	doc, err := domain.Decode(raw)
	if err != nil {
		s.log.Warn("seed document is not valid JSON, using defaults",
			logger.String("seed", where), logger.Error(err))
		return domain.DefaultData()
	}
	s.log.Info("bootstrapped from seed", logger.String("seed", where))
	return doc
}

func (s *Service) readSeed(ctx context.Context) ([]byte, string, error) {
	if s.seed.File != "" {
		raw, err := os.ReadFile(s.seed.File)
		return raw, s.seed.File, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.seed.URL, http.NoBody)
	if err != nil {
		return nil, s.seed.URL, err
	}
	resp, err := s.storage.HTTPClient.Do(req)
	if err != nil {
		return nil, s.seed.URL, err
	}
	defer utils.Close(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, s.seed.URL, fmt.Errorf("unexpected status %s", resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedBytes))
	return raw, s.seed.URL, err
}
