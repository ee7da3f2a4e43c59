package homepage

import (
	"strings"
	"testing"
)

const testNow int64 = 1_700_000_000_000

func TestParseServices(t *testing.T) {
	yamlContent := `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: https://adguard.domain.ext
        description: Network-wide ads & trackers blocking DNS server
    - Traefik:
        icon: https://cdn.example.com/traefik.png
        href: https://traefik.domain.ext
`

	categories, err := Parse(strings.NewReader(yamlContent), testNow)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(categories) != 1 || categories[0].Title != "Infrastructure" {
		t.Fatalf("Parse() = %+v, want one Infrastructure category", categories)
	}
	links := categories[0].Links
	if len(links) != 2 {
		t.Fatalf("Parse() returned %d links, want 2", len(links))
	}
	if links[0].Title != "AdGuard Home" || links[0].Description == "" {
		t.Errorf("first link = %+v", links[0])
	}
	if links[1].Icon != "https://cdn.example.com/traefik.png" {
		t.Errorf("absolute icon not kept, got %q", links[1].Icon)
	}
}

func TestParseBookmarks(t *testing.T) {
	yamlContent := `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
- Social:
    - Reddit:
        - abbr: RE
          href: https://reddit.com/
`

	categories, err := Parse(strings.NewReader(yamlContent), testNow)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("Parse() returned %d categories, want 2", len(categories))
	}
	if categories[0].Title != "Developer" || categories[1].Title != "Social" {
		t.Errorf("categories out of order: %s, %s", categories[0].Title, categories[1].Title)
	}
	if got := categories[0].Links[0].Description; got != "GH" {
		t.Errorf("abbr not carried into description, got %q", got)
	}
}

func TestParseWithTemplateVariables(t *testing.T) {
	yamlContent := `---
- Infrastructure:
    - AdGuard Home:
        href: {{HOMEPAGE_VAR_ADGUARD_URL}}
    - Grafana:
        href: https://grafana.domain.ext
`

	categories, err := Parse(strings.NewReader(yamlContent), testNow)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := len(categories[0].Links); got != 1 {
		t.Errorf("templated entry should be skipped, got %d links", got)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse(strings.NewReader("just: [a, b"), testNow); err == nil {
		t.Error("Parse() with invalid yaml should return error")
	}
}

func TestStripTemplateVariablesFunc(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "single template variable",
			input:    []byte("url: {{HOMEPAGE_VAR_URL}}"),
			expected: "url: \"\"",
		},
		{
			name:     "no template variables",
			input:    []byte("plain text"),
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripTemplateVariables(tt.input)
			if string(result) != tt.expected {
				t.Errorf("stripTemplateVariables() = %q, want %q", string(result), tt.expected)
			}
		})
	}
}
