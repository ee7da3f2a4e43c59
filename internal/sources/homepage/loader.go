package homepage

import (
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Parse reads a Homepage services.yaml or bookmarks.yaml and maps its groups
// to categories. The two layouts are told apart by shape.
func Parse(r io.Reader, now int64) ([]domain.Category, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read homepage config: %w", err)
	}

	// Strip Homepage template variables ({{HOMEPAGE_VAR_...}})
	data = stripTemplateVariables(data)

	mapper := NewMapper(now)

	var services ServicesConfig
	if err := yaml.Unmarshal(data, &services); err == nil {
		if categories, err := mapper.MapServices(services); err == nil {
			return categories, nil
		}
	}

	var bookmarks BookmarksConfig
	if err := yaml.Unmarshal(data, &bookmarks); err != nil {
		return nil, fmt.Errorf("failed to parse homepage yaml: %w", err)
	}
	return mapper.MapBookmarks(bookmarks)
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
