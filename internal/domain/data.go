package domain

// LinkType distinguishes plain links from folders.
type LinkType string

const (
	LinkTypeLink   LinkType = "link"
	LinkTypeFolder LinkType = "folder"
)

// LinkItem is a single entry inside a category.
//
// A folder-type item holds further LinkItems in Children, which may
// themselves be folders. A non-folder item never carries Children.
type LinkItem struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is generated once at creation (UUID) and never changes.
	ID string `json:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Title string `json:"title"`
	URL   string `json:"url"`

	// Icon is either an image URL or a symbolic icon name understood
	// by the front end.
	Icon        string   `json:"icon,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        LinkType `json:"type,omitempty"`

	// Children is only present on folders.
	Children []LinkItem `json:"children,omitempty"`

	// ─────────────────────────────
	// Merge metadata
	// ─────────────────────────────

	// UpdatedAt is the epoch-ms of the last edit to this item.
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (l LinkItem) IsFolder() bool {
	return l.Type == LinkTypeFolder
}

// Category is a top-level named grouping shown as one tile.
type Category struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Icon      string     `json:"icon,omitempty"`
	Links     []LinkItem `json:"links"`
	UpdatedAt int64      `json:"updatedAt,omitempty"`
}

type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// Timestamp is the value the merge compares. Todos written by older clients
// only carry CreatedAt.
func (t Todo) Timestamp() int64 {
	if t.UpdatedAt != 0 {
		return t.UpdatedAt
	}
	return t.CreatedAt
}

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	UpdatedAt int64  `json:"updatedAt"`
}

type WallpaperType string

const (
	WallpaperLocal  WallpaperType = "local"
	WallpaperCustom WallpaperType = "custom"
	WallpaperURL    WallpaperType = "url"
	WallpaperBing   WallpaperType = "bing"
)

type LayoutMode string

const (
	LayoutFolder LayoutMode = "folder"
	LayoutList   LayoutMode = "list"
)

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// SiteSettings holds everything the front end needs to lay out the page.
type SiteSettings struct {
	Title         string        `json:"title"`
	WallpaperType WallpaperType `json:"wallpaperType"`
	Wallpaper     string        `json:"wallpaper"`
	WallpaperList []string      `json:"wallpaperList"`
	LayoutMode    LayoutMode    `json:"layoutMode"`
	ThemeMode     ThemeMode     `json:"themeMode"`

	// Feature toggles
	ShowClock    bool `json:"showClock"`
	ShowSearch   bool `json:"showSearch"`
	ShowTodo     bool `json:"showTodo"`
	ShowNotes    bool `json:"showNotes"`
	OpenInNewTab bool `json:"openInNewTab"`

	// Packing limits for bundled wallpapers
	MaxPackedWallpapers int   `json:"maxPackedWallpapers"`
	MaxWallpaperBytes   int64 `json:"maxWallpaperBytes"`
}

// DataSchema is the whole persisted and synchronized document.
type DataSchema struct {
	Settings   SiteSettings `json:"settings"`
	Categories []Category   `json:"categories"`
	Todos      []Todo       `json:"todos,omitempty"`
	Notes      []Note       `json:"notes,omitempty"`
}
