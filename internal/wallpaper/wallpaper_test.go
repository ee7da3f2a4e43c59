package wallpaper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, files map[string]int) string {
	t.Helper()
	dir := t.TempDir()
	for name, size := range files {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o700); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestScanFiltersAndSorts(t *testing.T) {
	dir := writeFiles(t, map[string]int{
		"b.JPG":     3,
		"a.webp":    2,
		"notes.txt": 1,
		"c.avif":    1,
	})

	images, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	var names []string
	for _, img := range images {
		names = append(names, img.Name)
	}
	if got := strings.Join(names, ","); got != "a.webp,b.JPG,c.avif" {
		t.Errorf("Expected a.webp,b.JPG,c.avif, got %s", got)
	}
	if images[1].Mime != "image/jpeg" {
		t.Errorf("Expected image/jpeg for upper-case extension, got %s", images[1].Mime)
	}
}

func TestPack(t *testing.T) {
	dir := writeFiles(t, map[string]int{
		"1.png": 4,
		"2.png": 100,
		"3.gif": 3,
		"4.png": 3,
	})

	tests := []struct {
		name        string
		limit       int
		maxBytes    int64
		wantCount   int
		wantSkipped []string
	}{
		{"no limits", 0, 0, 4, nil},
		{"size limit skips", 0, 10, 3, []string{"2.png"}},
		{"count limit", 2, 10, 2, []string{"2.png"}},
		{"count limit before large file", 1, 10, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pack(dir, tt.limit, tt.maxBytes)
			if err != nil {
				t.Fatalf("Pack() error = %v", err)
			}
			if len(got.DataURIs) != tt.wantCount {
				t.Errorf("Expected %d images, got %d", tt.wantCount, len(got.DataURIs))
			}
			if strings.Join(got.Skipped, ",") != strings.Join(tt.wantSkipped, ",") {
				t.Errorf("Expected skipped %v, got %v", tt.wantSkipped, got.Skipped)
			}
		})
	}

	got, _ := Pack(dir, 1, 0)
	if got.DataURIs[0] != "data:image/png;base64,AAAAAA==" {
		t.Errorf("Unexpected data URI %q", got.DataURIs[0])
	}
}

func TestList(t *testing.T) {
	dir := writeFiles(t, map[string]int{"a.png": 1, "b.jpg": 1})

	got, err := List(dir, "wallpapers")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if strings.Join(got, ",") != "/wallpapers/a.png,/wallpapers/b.jpg" {
		t.Errorf("Unexpected paths %v", got)
	}
}

func TestMissingDir(t *testing.T) {
	if _, err := Pack(filepath.Join(t.TempDir(), "absent"), 0, 0); err == nil {
		t.Error("Expected error for missing directory")
	}
}
