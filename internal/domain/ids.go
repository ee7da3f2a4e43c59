package domain

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// NewID generates an identity for a freshly created record.
func NewID() string {
	return uuid.NewString()
}

// NewCategoryParams holds parameters for creating a new Category.
type NewCategoryParams struct {
	Title string
	Icon  string
}

// NewCategory creates an empty Category with a generated id.
func NewCategory(params NewCategoryParams, now int64) Category {
	return Category{
		ID:        NewID(),
		Title:     strings.TrimSpace(params.Title),
		Icon:      params.Icon,
		Links:     []LinkItem{},
		UpdatedAt: now,
	}
}

// NewLinkParams holds parameters for creating a new LinkItem.
type NewLinkParams struct {
	Title       string
	URL         string
	Icon        string
	Description string
}

// NewLink creates a link-type item with a generated id.
func NewLink(params NewLinkParams, now int64) LinkItem {
	return LinkItem{
		ID:          NewID(),
		Title:       strings.TrimSpace(params.Title),
		URL:         strings.TrimSpace(params.URL),
		Icon:        params.Icon,
		Description: params.Description,
		Type:        LinkTypeLink,
		UpdatedAt:   now,
	}
}

// NewFolder creates an empty folder-type item with a generated id.
func NewFolder(title, icon string, now int64) LinkItem {
	return LinkItem{
		ID:        NewID(),
		Title:     strings.TrimSpace(title),
		Icon:      icon,
		Type:      LinkTypeFolder,
		Children:  []LinkItem{},
		UpdatedAt: now,
	}
}

// FaviconURL derives a best-effort favicon for a link from its hostname.
// Returns "" when the URL has no host.
func FaviconURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?domain=" + u.Hostname() + "&sz=64"
}
