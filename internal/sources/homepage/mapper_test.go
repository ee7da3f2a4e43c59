package homepage

import (
	"errors"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

func TestMapperMapServices(t *testing.T) {
	config := ServicesConfig{
		{
			"Infrastructure": []map[string]ServiceProps{
				{
					"AdGuard Home": {
						Icon:        "adguard-home.svg",
						Href:        "https://adguard.domain.ext",
						Description: "Network-wide ads blocking",
					},
				},
				{
					"Traefik": {
						Icon:        "traefik.svg",
						Href:        "https://traefik.domain.ext",
						Description: "Cloud Native Application Proxy",
					},
				},
			},
		},
	}

	categories, err := NewMapper(testNow).MapServices(config)
	if err != nil {
		t.Fatalf("MapServices() error = %v", err)
	}

	if len(categories) != 1 || len(categories[0].Links) != 2 {
		t.Fatalf("MapServices() = %+v, want 1 category with 2 links", categories)
	}

	link := categories[0].Links[0]
	if link.Type != domain.LinkTypeLink || link.ID == "" || link.UpdatedAt != testNow {
		t.Errorf("link not initialized: %+v", link)
	}
	if link.Icon != domain.FaviconURL("https://adguard.domain.ext") {
		t.Errorf("icon name should fall back to favicon, got %q", link.Icon)
	}
	if categories[0].UpdatedAt != testNow {
		t.Errorf("category UpdatedAt = %d, want %d", categories[0].UpdatedAt, testNow)
	}
}

func TestMapperMapServicesEmptyConfig(t *testing.T) {
	categories, err := NewMapper(testNow).MapServices(ServicesConfig{})

	if !errors.Is(err, ErrNoEntries) {
		t.Errorf("MapServices() with empty config should return ErrNoEntries, got %v", err)
	}
	if categories != nil {
		t.Errorf("MapServices() with empty config should return nil, got %v", len(categories))
	}
}

func TestMapperMapServicesInvalidURL(t *testing.T) {
	config := ServicesConfig{
		{
			"Test": []map[string]ServiceProps{
				{
					"Invalid Service": {
						Icon: "test.svg",
						Href: "not-a-valid-url",
					},
				},
			},
		},
	}

	categories, err := NewMapper(testNow).MapServices(config)
	if err == nil {
		t.Error("MapServices() should return error when no valid services found")
	}
	if categories != nil {
		t.Errorf("MapServices() should return nil when no valid services, got %v", len(categories))
	}
}

func TestMapperIDsAreFresh(t *testing.T) {
	config := BookmarksConfig{
		{"Dev": {{"Github": {{Href: "https://github.com"}}}}},
	}

	first, err := NewMapper(testNow).MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}
	second, err := NewMapper(testNow).MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}

	if first[0].ID == second[0].ID || first[0].Links[0].ID == second[0].Links[0].ID {
		t.Error("each import should generate fresh ids")
	}
}
