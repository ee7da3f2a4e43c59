package domain

import "fmt"

// NavState is the mode of the category browser.
type NavState string

const (
	NavClosed       NavState = "closed"
	NavCategoryOpen NavState = "category-open"
	NavFolderOpen   NavState = "folder-open"
)

// Navigator tracks which category is open and the stack of folders entered
// inside it. The zero value is closed.
type Navigator struct {
	categoryID string
	folders    []string
}

// Crumb is one breadcrumb entry.
type Crumb struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NavView is what the browser shows for the current navigator state.
type NavView struct {
	State       NavState   `json:"state"`
	CategoryID  string     `json:"categoryId,omitempty"`
	Title       string     `json:"title,omitempty"`
	Items       []LinkItem `json:"items"`
	Breadcrumbs []Crumb    `json:"breadcrumbs"`
}

func (n *Navigator) State() NavState {
	switch {
	case n.categoryID == "":
		return NavClosed
	case len(n.folders) == 0:
		return NavCategoryOpen
	default:
		return NavFolderOpen
	}
}

// Open shows a category at its root, discarding any previous stack.
func (n *Navigator) Open(categoryID string) {
	n.categoryID = categoryID
	n.folders = nil
}

// Enter pushes a folder that is a direct child of the current view.
func (n *Navigator) Enter(doc DataSchema, folderID string) error {
	if n.categoryID == "" {
		return fmt.Errorf("enter folder %q: navigator is closed: %w", folderID, ErrInvalidInput)
	}
	items, _, err := n.resolve(doc)
	if err != nil {
		return err
	}
	i := indexOf(items, folderID)
	if i < 0 || !items[i].IsFolder() {
		return notFound("folder", folderID)
	}
	n.folders = append(n.folders, folderID)
	return nil
}

// Back pops one folder. From the category root it closes the browser.
func (n *Navigator) Back() {
	if len(n.folders) == 0 {
		n.Close()
		return
	}
	n.folders = n.folders[:len(n.folders)-1]
}

func (n *Navigator) Close() {
	n.categoryID = ""
	n.folders = nil
}

// View resolves the visible items and breadcrumbs against doc. A frame that
// no longer exists yields ErrNotFound.
func (n *Navigator) View(doc DataSchema) (NavView, error) {
	view := NavView{State: n.State(), Items: []LinkItem{}, Breadcrumbs: []Crumb{}}
	if view.State == NavClosed {
		return view, nil
	}

	items, crumbs, err := n.resolve(doc)
	if err != nil {
		return view, err
	}
	view.CategoryID = n.categoryID
	view.Title = crumbs[len(crumbs)-1].Title
	if len(items) > 0 {
		view.Items = cloneLinks(items)
	}
	view.Breadcrumbs = crumbs
	return view, nil
}

func (n *Navigator) resolve(doc DataSchema) ([]LinkItem, []Crumb, error) {
	ci := findCategory(&doc, n.categoryID)
	if ci < 0 {
		return nil, nil, notFound("category", n.categoryID)
	}
	c := doc.Categories[ci]
	items := c.Links
	crumbs := []Crumb{{ID: c.ID, Title: c.Title}}

	for _, id := range n.folders {
		i := indexOf(items, id)
		if i < 0 || !items[i].IsFolder() {
			return nil, nil, notFound("folder", id)
		}
		crumbs = append(crumbs, Crumb{ID: items[i].ID, Title: items[i].Title})
		items = items[i].Children
	}
	return items, crumbs, nil
}
