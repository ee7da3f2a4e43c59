// Package wallpaper turns a directory of images into the document's
// wallpaper list, either inlined as data URIs or as URL paths.
package wallpaper

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".avif": "image/avif",
}

// Image is one candidate file.
type Image struct {
	Name string
	Path string
	Size int64
	Mime string
}

// Scan lists the images directly inside dir, sorted by name.
func Scan(dir string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading wallpaper dir: %w", err)
	}

	var images []Image
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		mime, ok := mimeTypes[strings.ToLower(filepath.Ext(e.Name()))]
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		images = append(images, Image{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
			Mime: mime,
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

// Packed is the result of Pack.
type Packed struct {
	DataURIs []string
	// Skipped names files over the size limit.
	Skipped []string
}

// Pack inlines up to limit images from dir as base64 data URIs. Files larger
// than maxBytes are skipped. limit <= 0 means no limit, as does maxBytes <= 0.
func Pack(dir string, limit int, maxBytes int64) (Packed, error) {
	images, err := Scan(dir)
	if err != nil {
		return Packed{}, err
	}

	out := Packed{DataURIs: []string{}}
	for _, img := range images {
		if limit > 0 && len(out.DataURIs) >= limit {
			break
		}
		if maxBytes > 0 && img.Size > maxBytes {
			out.Skipped = append(out.Skipped, img.Name)
			continue
		}
		raw, err := os.ReadFile(img.Path)
		if err != nil {
			return Packed{}, fmt.Errorf("reading %s: %w", img.Name, err)
		}
		out.DataURIs = append(out.DataURIs,
			"data:"+img.Mime+";base64,"+base64.StdEncoding.EncodeToString(raw))
	}
	return out, nil
}

// List returns URL paths for the images in dir, each joined to prefix.
func List(dir, prefix string) ([]string, error) {
	images, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, path.Join("/", prefix, img.Name))
	}
	return out, nil
}
