package sources

import (
	"errors"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

func TestParseFormatAndMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatNetscape, false},
		{"HTML", FormatNetscape, false},
		{"homepage", FormatHomepage, false},
		{"yaml", FormatHomepage, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	if m, err := ParseMode(""); err != nil || m != ModeAppend {
		t.Errorf("ParseMode(\"\") = %q, %v, want append", m, err)
	}
	if _, err := ParseMode("merge"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("ParseMode(merge) error = %v, want ErrInvalidInput", err)
	}
}

func TestImportModes(t *testing.T) {
	existing := domain.DefaultData()
	existing.Categories = []domain.Category{{ID: "old", Title: "Old", Links: []domain.LinkItem{}}}

	html := `<DL><p><DT><H3>New</H3><DL><p><DT><A HREF="https://example.com">Example</A></DL></DL>`
	categories, err := Categories(strings.NewReader(html), FormatNetscape, 1)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}

	appended, err := Import(categories, ModeAppend)(existing)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(appended.Categories) != 2 || appended.Categories[0].ID != "old" || appended.Categories[1].Title != "New" {
		t.Errorf("append result = %+v", appended.Categories)
	}

	replaced, err := Import(categories, ModeReplace)(existing)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(replaced.Categories) != 1 || replaced.Categories[0].Title != "New" {
		t.Errorf("replace result = %+v", replaced.Categories)
	}

	if len(existing.Categories) != 1 {
		t.Error("input document must not change")
	}
}
