package homepage

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// ErrNoEntries is returned when a config holds no usable link.
var ErrNoEntries = errors.New("no valid entries found in homepage config")

// Mapper converts Homepage groups into categories with fresh ids.
type Mapper struct {
	now int64
}

// NewMapper creates a mapper stamping every record with now (epoch-ms).
func NewMapper(now int64) *Mapper {
	return &Mapper{now: now}
}

// MapServices converts services.yaml groups to categories.
func (m *Mapper) MapServices(config ServicesConfig) ([]domain.Category, error) {
	var categories []domain.Category
	total := 0

	for _, groupMap := range config {
		for _, groupName := range sortedKeys(groupMap) {
			category := domain.NewCategory(domain.NewCategoryParams{Title: groupName}, m.now)

			for _, serviceMap := range groupMap[groupName] {
				for _, serviceName := range sortedKeys(serviceMap) {
					props := serviceMap[serviceName]
					link, ok := m.link(serviceName, props.Href, props.Icon, props.Description)
					if !ok {
						continue
					}
					category.Links = append(category.Links, link)
				}
			}

			if len(category.Links) > 0 {
				total += len(category.Links)
				categories = append(categories, category)
			}
		}
	}

	if total == 0 {
		return nil, ErrNoEntries
	}
	return categories, nil
}

// MapBookmarks converts bookmarks.yaml groups to categories. The abbreviation
// becomes the link description.
func (m *Mapper) MapBookmarks(config BookmarksConfig) ([]domain.Category, error) {
	var categories []domain.Category
	total := 0

	for _, groupMap := range config {
		for _, groupName := range sortedKeys(groupMap) {
			category := domain.NewCategory(domain.NewCategoryParams{Title: groupName}, m.now)

			for _, bookmarkMap := range groupMap[groupName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					// Each bookmark has a list with a single entry
					entries := bookmarkMap[bookmarkName]
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]
					link, ok := m.link(bookmarkName, entry.Href, entry.Icon, entry.Abbr)
					if !ok {
						continue
					}
					category.Links = append(category.Links, link)
				}
			}

			if len(category.Links) > 0 {
				total += len(category.Links)
				categories = append(categories, category)
			}
		}
	}

	if total == 0 {
		return nil, ErrNoEntries
	}
	return categories, nil
}

func (m *Mapper) link(name, href, icon, description string) (domain.LinkItem, bool) {
	// Skip entries without an absolute URL
	parsed, err := url.Parse(strings.TrimSpace(href))
	if err != nil || parsed.Hostname() == "" {
		return domain.LinkItem{}, false
	}

	return domain.NewLink(domain.NewLinkParams{
		Title:       name,
		URL:         parsed.String(),
		Icon:        iconFor(icon, href),
		Description: description,
	}, m.now), true
}

// iconFor keeps absolute icon URLs. Homepage icon names (dashboard-icons,
// mdi-*, si-*) mean nothing outside Homepage, so those fall back to the
// site favicon.
func iconFor(icon, href string) string {
	if strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") {
		return icon
	}
	return domain.FaviconURL(href)
}

// sortedKeys gives a stable order when one YAML list item holds several keys.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
