// Package netscape imports the bookmark export format shared by every major
// browser (NETSCAPE-Bookmark-file-1).
package netscape

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// UncategorizedTitle names the category collecting links outside any folder.
const UncategorizedTitle = "Uncategorized"

// ErrNotBookmarkExport is returned when the input has neither links nor
// folders.
var ErrNotBookmarkExport = errors.New("not a bookmark export")

// node is the intermediate tree built while walking the HTML.
type node struct {
	title    string
	url      string
	folder   bool
	children []*node
}

// Parse converts an export into categories. Top-level folders become
// categories, deeper folders become folder links. Ids are always fresh and
// every record is stamped with now (epoch-ms).
func Parse(r io.Reader, now int64) ([]domain.Category, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bookmark html: %w", err)
	}

	root := &node{folder: true}
	stack := []*node{root}
	var pending *node
	seen := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		owned := false

		if n.Type == html.ElementNode {
			switch n.Data {
			case "h3":
				// Found folder header <H3 ...>
				seen++
				f := &node{title: textContent(n), folder: true}
				top := stack[len(stack)-1]
				top.children = append(top.children, f)
				pending = f
			case "dl":
				// The list following a header holds that folder's entries
				if pending != nil {
					stack = append(stack, pending)
					pending = nil
					owned = true
				}
			case "a":
				// Found bookmark <A HREF=...>
				seen++
				href := strings.TrimSpace(attr(n, "href"))
				if importable(href) {
					top := stack[len(stack)-1]
					top.children = append(top.children, &node{title: textContent(n), url: href})
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if owned {
			stack = stack[:len(stack)-1]
		}
	}
	walk(doc)

	if seen == 0 {
		return nil, ErrNotBookmarkExport
	}
	return toCategories(root, now), nil
}

// ParseDocument wraps Parse into a full document with default settings.
func ParseDocument(r io.Reader, now int64) (domain.DataSchema, error) {
	categories, err := Parse(r, now)
	if err != nil {
		return domain.DataSchema{}, err
	}
	doc := domain.DefaultData()
	doc.Categories = categories
	return doc, nil
}

func toCategories(root *node, now int64) []domain.Category {
	categories := []domain.Category{}
	var loose []domain.LinkItem

	for _, child := range root.children {
		if !child.folder {
			loose = append(loose, toLink(child, now))
			continue
		}
		c := domain.NewCategory(domain.NewCategoryParams{Title: titleOr(child.title, "Untitled")}, now)
		for _, grandchild := range child.children {
			c.Links = append(c.Links, toLink(grandchild, now))
		}
		categories = append(categories, c)
	}

	if len(loose) > 0 {
		c := domain.NewCategory(domain.NewCategoryParams{Title: UncategorizedTitle}, now)
		c.Links = loose
		categories = append(categories, c)
	}
	return categories
}

func toLink(n *node, now int64) domain.LinkItem {
	if n.folder {
		f := domain.NewFolder(titleOr(n.title, "Untitled"), "", now)
		for _, child := range n.children {
			f.Children = append(f.Children, toLink(child, now))
		}
		return f
	}
	return domain.NewLink(domain.NewLinkParams{
		Title: titleOr(n.title, n.url),
		URL:   n.url,
		Icon:  domain.FaviconURL(n.url),
	}, now)
}

// importable skips browser-internal entries (place: queries, bookmarklets).
func importable(href string) bool {
	if href == "" {
		return false
	}
	lower := strings.ToLower(href)
	return !strings.HasPrefix(lower, "place:") && !strings.HasPrefix(lower, "javascript:")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func titleOr(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}
