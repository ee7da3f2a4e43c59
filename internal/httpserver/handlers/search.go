package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// maxSearchResults caps the JSON search response.
const maxSearchResults = 20

type searchResult struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Icon       string   `json:"icon,omitempty"`
	CategoryID string   `json:"categoryId"`
	Path       []string `json:"path"`
	Score      float64  `json:"score"`
}

// Search returns the links matching ?q= ranked best first.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		candidates := domain.SearchLinks(d.Dashboard.Document(), query)
		if len(candidates) > maxSearchResults {
			candidates = candidates[:maxSearchResults]
		}

		out := make([]searchResult, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, searchResult{
				ID:         c.Link.ID,
				Title:      c.Link.Title,
				URL:        c.Link.URL,
				Icon:       c.Link.Icon,
				CategoryID: c.CategoryID,
				Path:       c.Path,
				Score:      c.Score,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// Go redirects ?q= to the best matching link. Queries starting with "/" jump
// to an internal endpoint, and misses go to the fallback search engine.
func Go(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		if query == "" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		if strings.HasPrefix(query, "/") {
			if endpoint := matchInternalEndpoint(query); endpoint != "" {
				d.Logger.Info("internal endpoint redirect",
					logger.String("query", query),
					logger.String("endpoint", endpoint))
				http.Redirect(w, r, endpoint, http.StatusFound)
				return
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		if link, ok := domain.BestLink(d.Dashboard.Document(), query); ok {
			d.Logger.Info("resolved link",
				logger.String("query", query),
				logger.String("id", link.ID),
				logger.String("url", link.URL))
			http.Redirect(w, r, link.URL, http.StatusFound)
			return
		}

		d.Logger.Debug("no matching link, using fallback search",
			logger.String("query", query))
		http.Redirect(w, r, fallbackURL(d.SearchFallbackURL, query), http.StatusFound)
	}
}

func fallbackURL(pattern, query string) string {
	if pattern == "" || !strings.Contains(pattern, "%s") {
		return "/"
	}
	return fmt.Sprintf(pattern, url.QueryEscape(query))
}

var internalEndpoints = []string{
	"/api/status",
	"/healthz",
	"/infra",
	"/readyz",
}

// matchInternalEndpoint returns the endpoint the query is a unique prefix
// of, matching both "/infra" and "/api/status" style names.
func matchInternalEndpoint(query string) string {
	query = strings.ToLower(query)
	var matches []string
	for _, endpoint := range internalEndpoints {
		if strings.HasPrefix(endpoint, query) || strings.HasPrefix(endpoint, "/api"+query) {
			matches = append(matches, endpoint)
		}
	}
	if len(matches) == 1 {
		return matches[0]
	}
	return ""
}
