package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	DefaultPackedWallpapers = 10
	DefaultWallpaperBytes   = 4 << 20
)

// DefaultSettings returns the settings bundled with a fresh install.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		Title:               "Start",
		WallpaperType:       WallpaperBing,
		WallpaperList:       []string{},
		LayoutMode:          LayoutFolder,
		ThemeMode:           ThemeSystem,
		ShowClock:           true,
		ShowSearch:          true,
		ShowTodo:            true,
		ShowNotes:           true,
		OpenInNewTab:        true,
		MaxPackedWallpapers: DefaultPackedWallpapers,
		MaxWallpaperBytes:   DefaultWallpaperBytes,
	}
}

// DefaultData is the document used when nothing else is available.
func DefaultData() DataSchema {
	return DataSchema{
		Settings:   DefaultSettings(),
		Categories: []Category{},
		Todos:      []Todo{},
		Notes:      []Note{},
	}
}

// Clone returns a deep copy of the document. No slice in the result shares
// backing storage with doc.
func Clone(doc DataSchema) DataSchema {
	out := doc
	out.Settings.WallpaperList = cloneStrings(doc.Settings.WallpaperList)
	out.Categories = cloneCategories(doc.Categories)
	if doc.Todos != nil {
		out.Todos = append(make([]Todo, 0, len(doc.Todos)), doc.Todos...)
	}
	if doc.Notes != nil {
		out.Notes = append(make([]Note, 0, len(doc.Notes)), doc.Notes...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

func cloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Links = cloneLinks(c.Links)
	}
	return out
}

func cloneLinks(in []LinkItem) []LinkItem {
	if in == nil {
		return nil
	}
	out := make([]LinkItem, len(in))
	for i, l := range in {
		out[i] = l
		out[i].Children = cloneLinks(l.Children)
	}
	return out
}

// Normalize returns a copy with nil slices replaced by empty ones and
// children stripped from non-folder links. Documents coming from remotes,
// imports or the local cache all pass through here.
func Normalize(doc DataSchema) DataSchema {
	out := Clone(doc)
	if out.Settings.WallpaperList == nil {
		out.Settings.WallpaperList = []string{}
	}
	if out.Categories == nil {
		out.Categories = []Category{}
	}
	for i := range out.Categories {
		out.Categories[i].Links = normalizeLinks(out.Categories[i].Links)
	}
	if out.Todos == nil {
		out.Todos = []Todo{}
	}
	if out.Notes == nil {
		out.Notes = []Note{}
	}
	return out
}

func normalizeLinks(links []LinkItem) []LinkItem {
	if links == nil {
		return []LinkItem{}
	}
	for i := range links {
		if links[i].IsFolder() {
			links[i].Children = normalizeLinks(links[i].Children)
			continue
		}
		links[i].Children = nil
	}
	return links
}

// Equal compares two documents by their canonical JSON encoding, which is
// what ends up on disk and on the remote.
func Equal(a, b DataSchema) bool {
	ab, errA := json.Marshal(Normalize(a))
	bb, errB := json.Marshal(Normalize(b))
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Decode parses a JSON document and normalizes it. A document must carry a
// settings object, otherwise merging it would reset every local setting.
func Decode(data []byte) (DataSchema, error) {
	var shape struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return DataSchema{}, fmt.Errorf("failed to decode document: %w", err)
	}
	if len(shape.Settings) == 0 || string(shape.Settings) == "null" {
		return DataSchema{}, ErrNotDocument
	}

	var doc DataSchema
	if err := json.Unmarshal(data, &doc); err != nil {
		return DataSchema{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return Normalize(doc), nil
}

// EncodePretty serializes a document the way every remote stores it.
func EncodePretty(doc DataSchema) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// CountLinks counts non-folder links across the whole tree.
func CountLinks(doc DataSchema) int {
	n := 0
	for _, c := range doc.Categories {
		n += countLeaves(c.Links)
	}
	return n
}

func countLeaves(links []LinkItem) int {
	n := 0
	for _, l := range links {
		if l.IsFolder() {
			n += countLeaves(l.Children)
			continue
		}
		n++
	}
	return n
}
