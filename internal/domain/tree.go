package domain

import (
	"fmt"
	"strings"
)

// Edit is one copy-on-write change to the document. Implementations never
// modify their input.
type Edit func(doc DataSchema) (DataSchema, error)

// Structural edits (add, delete, move, reorder) stamp the owning category and
// folder as well as the item, because membership and order belong to the
// container. Content edits (rename, icon, url) only stamp the item itself.

// ─────────────────────────────
// Categories
// ─────────────────────────────

func AddCategory(doc DataSchema, cat Category, now int64) (DataSchema, error) {
	if strings.TrimSpace(cat.Title) == "" {
		return doc, fmt.Errorf("category title is empty: %w", ErrInvalidInput)
	}
	if cat.ID == "" {
		cat.ID = NewID()
	}
	out := Clone(doc)
	if findCategory(&out, cat.ID) >= 0 {
		return doc, fmt.Errorf("category %q already exists: %w", cat.ID, ErrInvalidInput)
	}
	cat.Links = normalizeLinks(cloneLinks(cat.Links))
	cat.UpdatedAt = now
	out.Categories = append(out.Categories, cat)
	return out, nil
}

func RenameCategory(doc DataSchema, id, title string, now int64) (DataSchema, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return doc, fmt.Errorf("category title is empty: %w", ErrInvalidInput)
	}
	return updateCategory(doc, id, now, func(c *Category) { c.Title = title })
}

func SetCategoryIcon(doc DataSchema, id, icon string, now int64) (DataSchema, error) {
	return updateCategory(doc, id, now, func(c *Category) { c.Icon = icon })
}

func updateCategory(doc DataSchema, id string, now int64, fn func(*Category)) (DataSchema, error) {
	out := Clone(doc)
	i := findCategory(&out, id)
	if i < 0 {
		return doc, notFound("category", id)
	}
	fn(&out.Categories[i])
	out.Categories[i].UpdatedAt = now
	return out, nil
}

func DeleteCategory(doc DataSchema, id string) (DataSchema, error) {
	out := Clone(doc)
	i := findCategory(&out, id)
	if i < 0 {
		return doc, notFound("category", id)
	}
	out.Categories = append(out.Categories[:i], out.Categories[i+1:]...)
	return out, nil
}

// ReorderCategories moves activeID to the position currently held by overID.
func ReorderCategories(doc DataSchema, activeID, overID string) (DataSchema, error) {
	out := Clone(doc)
	from := findCategory(&out, activeID)
	if from < 0 {
		return doc, notFound("category", activeID)
	}
	to := findCategory(&out, overID)
	if to < 0 {
		return doc, notFound("category", overID)
	}
	out.Categories = arrayMove(out.Categories, from, to)
	return out, nil
}

// ─────────────────────────────
// Links and folders
// ─────────────────────────────

// AddLink appends item to a container, which is either a category or a
// folder anywhere in the tree.
func AddLink(doc DataSchema, containerID string, item LinkItem, now int64) (DataSchema, error) {
	if strings.TrimSpace(item.Title) == "" {
		return doc, fmt.Errorf("link title is empty: %w", ErrInvalidInput)
	}
	if item.Type == "" {
		item.Type = LinkTypeLink
	}
	if !item.IsFolder() && strings.TrimSpace(item.URL) == "" {
		return doc, fmt.Errorf("link url is empty: %w", ErrInvalidInput)
	}
	if item.ID == "" {
		item.ID = NewID()
	}

	out := Clone(doc)
	if _, _, ok := locateLink(&out, item.ID); ok {
		return doc, fmt.Errorf("link %q already exists: %w", item.ID, ErrInvalidInput)
	}
	links, _, ok := findContainer(&out, containerID)
	if !ok {
		return doc, notFound("container", containerID)
	}

	item.Children = cloneLinks(item.Children)
	normalized := normalizeLinks([]LinkItem{item})
	item = normalized[0]
	item.UpdatedAt = now
	*links = append(*links, item)
	stampContainer(&out, containerID, now)
	return out, nil
}

// AddFolder appends an empty folder to a container.
func AddFolder(doc DataSchema, containerID, title, icon string, now int64) (DataSchema, LinkItem, error) {
	folder := NewFolder(title, icon, now)
	out, err := AddLink(doc, containerID, folder, now)
	if err != nil {
		return doc, LinkItem{}, err
	}
	return out, folder, nil
}

// LinkPatch carries the fields to change; nil means unchanged.
type LinkPatch struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

func UpdateLink(doc DataSchema, id string, patch LinkPatch, now int64) (DataSchema, error) {
	out := Clone(doc)
	link, _, ok := locateLink(&out, id)
	if !ok {
		return doc, notFound("link", id)
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return doc, fmt.Errorf("link title is empty: %w", ErrInvalidInput)
		}
		link.Title = title
	}
	if patch.URL != nil {
		if !link.IsFolder() && strings.TrimSpace(*patch.URL) == "" {
			return doc, fmt.Errorf("link url is empty: %w", ErrInvalidInput)
		}
		link.URL = strings.TrimSpace(*patch.URL)
	}
	if patch.Icon != nil {
		link.Icon = *patch.Icon
	}
	if patch.Description != nil {
		link.Description = *patch.Description
	}
	link.UpdatedAt = now
	return out, nil
}

func SetLinkIcon(doc DataSchema, id, icon string, now int64) (DataSchema, error) {
	return UpdateLink(doc, id, LinkPatch{Icon: &icon}, now)
}

// DeleteLink removes a link, or a folder together with its subtree.
func DeleteLink(doc DataSchema, id string, now int64) (DataSchema, error) {
	out := Clone(doc)
	parentID, _, ok := parentOf(&out, id)
	if !ok {
		return doc, notFound("link", id)
	}
	removeLink(&out, id)
	stampContainer(&out, parentID, now)
	return out, nil
}

// ReorderLinks moves activeID to the position held by overID. Both must be
// direct children of containerID.
func ReorderLinks(doc DataSchema, containerID, activeID, overID string, now int64) (DataSchema, error) {
	out := Clone(doc)
	links, _, ok := findContainer(&out, containerID)
	if !ok {
		return doc, notFound("container", containerID)
	}
	from := indexOf(*links, activeID)
	if from < 0 {
		return doc, notFound("link", activeID)
	}
	to := indexOf(*links, overID)
	if to < 0 {
		return doc, notFound("link", overID)
	}
	*links = arrayMove(*links, from, to)
	stampContainer(&out, containerID, now)
	return out, nil
}

// MoveLink detaches id from wherever it lives and inserts it into
// targetID (a category or folder) at index. A negative or out-of-range index
// appends.
func MoveLink(doc DataSchema, id, targetID string, index int, now int64) (DataSchema, error) {
	out := Clone(doc)
	link, _, ok := locateLink(&out, id)
	if !ok {
		return doc, notFound("link", id)
	}
	if link.ID == targetID {
		return doc, fmt.Errorf("cannot move %q into itself: %w", id, ErrInvalidMove)
	}
	if link.IsFolder() {
		if _, found := findItem(&link.Children, targetID); found {
			return doc, fmt.Errorf("cannot move folder %q into its own descendant: %w", id, ErrInvalidMove)
		}
	}
	if _, _, ok := findContainer(&out, targetID); !ok {
		return doc, notFound("container", targetID)
	}

	sourceID, _, _ := parentOf(&out, id)
	moved, _ := removeLink(&out, id)

	// Resolve the target again: removal may have shifted slices.
	links, _, _ := findContainer(&out, targetID)
	if index < 0 || index > len(*links) {
		index = len(*links)
	}
	moved.UpdatedAt = now
	*links = insertAt(*links, index, moved)

	stampContainer(&out, sourceID, now)
	stampContainer(&out, targetID, now)
	return out, nil
}

// DragOver applies the provisional splice-move performed while a link is
// dragged across containers. Hovering a category header appends to that
// category; hovering a link takes that link's position in its container.
// Hovering within the link's own container changes nothing until the drop.
// Categories only move on drop.
func DragOver(doc DataSchema, activeID, overID string, now int64) (DataSchema, error) {
	if overID == "" || overID == activeID {
		return doc, nil
	}
	if findCategory(&doc, activeID) >= 0 {
		return doc, nil
	}
	activeParent, _, ok := parentOf(&doc, activeID)
	if !ok {
		return doc, notFound("link", activeID)
	}

	targetID, index, err := dropTarget(doc, overID)
	if err != nil {
		return doc, err
	}
	if targetID == activeParent {
		return doc, nil
	}
	return MoveLink(doc, activeID, targetID, index, now)
}

// DragEnd finalizes a drag. Categories are reordered among themselves; links
// dropped within their container are array-moved, and links dropped into a
// different container get the same correction DragOver would apply.
func DragEnd(doc DataSchema, activeID, overID string, now int64) (DataSchema, error) {
	if overID == "" || overID == activeID {
		return doc, nil
	}
	if findCategory(&doc, activeID) >= 0 {
		return ReorderCategories(doc, activeID, overID)
	}

	activeParent, _, ok := parentOf(&doc, activeID)
	if !ok {
		return doc, notFound("link", activeID)
	}
	overParent, _, overIsLink := parentOf(&doc, overID)
	if overIsLink && overParent == activeParent {
		return ReorderLinks(doc, activeParent, activeID, overID, now)
	}
	return DragOver(doc, activeID, overID, now)
}

func dropTarget(doc DataSchema, overID string) (string, int, error) {
	if findCategory(&doc, overID) >= 0 {
		return overID, -1, nil
	}
	parent, idx, ok := parentOf(&doc, overID)
	if !ok {
		return "", 0, notFound("drop target", overID)
	}
	return parent, idx, nil
}

// ─────────────────────────────
// Todos, notes, settings
// ─────────────────────────────

func NewTodo(text string, now int64) Todo {
	return Todo{ID: NewID(), Text: strings.TrimSpace(text), CreatedAt: now, UpdatedAt: now}
}

func AddTodo(doc DataSchema, todo Todo) (DataSchema, error) {
	if strings.TrimSpace(todo.Text) == "" {
		return doc, fmt.Errorf("todo text is empty: %w", ErrInvalidInput)
	}
	out := Clone(doc)
	out.Todos = append(out.Todos, todo)
	return out, nil
}

func ToggleTodo(doc DataSchema, id string, now int64) (DataSchema, error) {
	return updateTodo(doc, id, now, func(t *Todo) { t.Completed = !t.Completed })
}

func EditTodo(doc DataSchema, id, text string, now int64) (DataSchema, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return doc, fmt.Errorf("todo text is empty: %w", ErrInvalidInput)
	}
	return updateTodo(doc, id, now, func(t *Todo) { t.Text = text })
}

func updateTodo(doc DataSchema, id string, now int64, fn func(*Todo)) (DataSchema, error) {
	out := Clone(doc)
	for i := range out.Todos {
		if out.Todos[i].ID == id {
			fn(&out.Todos[i])
			out.Todos[i].UpdatedAt = now
			return out, nil
		}
	}
	return doc, notFound("todo", id)
}

func DeleteTodo(doc DataSchema, id string) (DataSchema, error) {
	out := Clone(doc)
	for i := range out.Todos {
		if out.Todos[i].ID == id {
			out.Todos = append(out.Todos[:i], out.Todos[i+1:]...)
			return out, nil
		}
	}
	return doc, notFound("todo", id)
}

func ClearCompletedTodos(doc DataSchema) (DataSchema, error) {
	out := Clone(doc)
	kept := make([]Todo, 0, len(out.Todos))
	for _, t := range out.Todos {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	out.Todos = kept
	return out, nil
}

func NewNote(title, content string, now int64) Note {
	return Note{ID: NewID(), Title: strings.TrimSpace(title), Content: content, UpdatedAt: now}
}

func AddNote(doc DataSchema, note Note) (DataSchema, error) {
	out := Clone(doc)
	out.Notes = append(out.Notes, note)
	return out, nil
}

func UpdateNote(doc DataSchema, id, title, content string, now int64) (DataSchema, error) {
	out := Clone(doc)
	for i := range out.Notes {
		if out.Notes[i].ID == id {
			out.Notes[i].Title = strings.TrimSpace(title)
			out.Notes[i].Content = content
			out.Notes[i].UpdatedAt = now
			return out, nil
		}
	}
	return doc, notFound("note", id)
}

func DeleteNote(doc DataSchema, id string) (DataSchema, error) {
	out := Clone(doc)
	for i := range out.Notes {
		if out.Notes[i].ID == id {
			out.Notes = append(out.Notes[:i], out.Notes[i+1:]...)
			return out, nil
		}
	}
	return doc, notFound("note", id)
}

func UpdateSettings(doc DataSchema, settings SiteSettings) (DataSchema, error) {
	out := Clone(doc)
	out.Settings = settings
	out.Settings.WallpaperList = cloneStrings(settings.WallpaperList)
	if out.Settings.WallpaperList == nil {
		out.Settings.WallpaperList = []string{}
	}
	return out, nil
}

// ─────────────────────────────
// Tree lookup helpers. They operate on an already cloned document.
// ─────────────────────────────

func findCategory(doc *DataSchema, id string) int {
	for i := range doc.Categories {
		if doc.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// findItem searches links and every nested folder for id.
func findItem(links *[]LinkItem, id string) (*LinkItem, bool) {
	for i := range *links {
		l := &(*links)[i]
		if l.ID == id {
			return l, true
		}
		if l.IsFolder() {
			if found, ok := findItem(&l.Children, id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// locateLink returns the link with id and the index of its category.
func locateLink(doc *DataSchema, id string) (*LinkItem, int, bool) {
	for ci := range doc.Categories {
		if l, ok := findItem(&doc.Categories[ci].Links, id); ok {
			return l, ci, true
		}
	}
	return nil, -1, false
}

// findContainer resolves a category or folder id to its child slice and
// owning category index.
func findContainer(doc *DataSchema, id string) (*[]LinkItem, int, bool) {
	for ci := range doc.Categories {
		if doc.Categories[ci].ID == id {
			return &doc.Categories[ci].Links, ci, true
		}
		if f, ok := findItem(&doc.Categories[ci].Links, id); ok && f.IsFolder() {
			return &f.Children, ci, true
		}
	}
	return nil, -1, false
}

// parentOf returns the id of the container holding link id and its index.
func parentOf(doc *DataSchema, id string) (string, int, bool) {
	for ci := range doc.Categories {
		c := &doc.Categories[ci]
		if parent, idx, ok := parentIn(c.ID, c.Links, id); ok {
			return parent, idx, true
		}
	}
	return "", -1, false
}

func parentIn(containerID string, links []LinkItem, id string) (string, int, bool) {
	for i, l := range links {
		if l.ID == id {
			return containerID, i, true
		}
		if l.IsFolder() {
			if parent, idx, ok := parentIn(l.ID, l.Children, id); ok {
				return parent, idx, true
			}
		}
	}
	return "", -1, false
}

func removeLink(doc *DataSchema, id string) (LinkItem, bool) {
	for ci := range doc.Categories {
		if l, ok := removeFrom(&doc.Categories[ci].Links, id); ok {
			return l, true
		}
	}
	return LinkItem{}, false
}

func removeFrom(links *[]LinkItem, id string) (LinkItem, bool) {
	for i := range *links {
		if (*links)[i].ID == id {
			removed := (*links)[i]
			*links = append((*links)[:i], (*links)[i+1:]...)
			return removed, true
		}
		if (*links)[i].IsFolder() {
			if removed, ok := removeFrom(&(*links)[i].Children, id); ok {
				return removed, true
			}
		}
	}
	return LinkItem{}, false
}

// stampContainer refreshes updatedAt on a container and its owning category.
func stampContainer(doc *DataSchema, containerID string, now int64) {
	_, ci, ok := findContainer(doc, containerID)
	if !ok {
		return
	}
	doc.Categories[ci].UpdatedAt = now
	if f, ok := findItem(&doc.Categories[ci].Links, containerID); ok {
		f.UpdatedAt = now
	}
}

func indexOf(links []LinkItem, id string) int {
	for i := range links {
		if links[i].ID == id {
			return i
		}
	}
	return -1
}

func arrayMove[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	return insertAt(items, to, item)
}

func insertAt[T any](items []T, index int, item T) []T {
	items = append(items, item)
	copy(items[index+1:], items[index:])
	items[index] = item
	return items
}
