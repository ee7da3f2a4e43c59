package domain

import (
	"errors"
	"testing"
)

func TestNavigatorTransitions(t *testing.T) {
	doc := fixture()
	var nav Navigator

	if nav.State() != NavClosed {
		t.Fatalf("Expected closed navigator, got %s", nav.State())
	}

	nav.Open("dev")
	view, err := nav.View(doc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if view.State != NavCategoryOpen || len(view.Items) != 2 || len(view.Breadcrumbs) != 1 {
		t.Errorf("Expected category root with 2 items, got %+v", view)
	}

	if err := nav.Enter(doc, "tools"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := nav.Enter(doc, "nested"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	view, err = nav.View(doc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if view.State != NavFolderOpen || view.Title != "Nested" {
		t.Errorf("Expected nested folder open, got %+v", view)
	}
	if len(view.Items) != 1 || view.Items[0].ID != "jq" {
		t.Errorf("Expected [jq], got %v", linkIDs(view.Items))
	}
	crumbs := []string{}
	for _, c := range view.Breadcrumbs {
		crumbs = append(crumbs, c.Title)
	}
	if !equalIDs(crumbs, []string{"Dev", "Tools", "Nested"}) {
		t.Errorf("Expected breadcrumbs Dev/Tools/Nested, got %v", crumbs)
	}

	nav.Back()
	if view, _ = nav.View(doc); view.Title != "Tools" {
		t.Errorf("Expected Tools after one back, got %s", view.Title)
	}
	nav.Back()
	if nav.State() != NavCategoryOpen {
		t.Errorf("Expected category root, got %s", nav.State())
	}
	nav.Back()
	if nav.State() != NavClosed {
		t.Errorf("Expected back from root to close, got %s", nav.State())
	}
}

func TestNavigatorEnterRejects(t *testing.T) {
	doc := fixture()

	var closed Navigator
	if err := closed.Enter(doc, "tools"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput while closed, got %v", err)
	}

	var nav Navigator
	nav.Open("dev")
	if err := nav.Enter(doc, "gh"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a plain link, got %v", err)
	}
	if err := nav.Enter(doc, "nested"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a grandchild folder, got %v", err)
	}
}

func TestNavigatorCloseAndStaleFrames(t *testing.T) {
	doc := fixture()
	var nav Navigator
	nav.Open("dev")
	if err := nav.Enter(doc, "tools"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	pruned, err := DeleteLink(doc, "tools", testNow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := nav.View(pruned); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a deleted folder, got %v", err)
	}

	nav.Close()
	view, err := nav.View(pruned)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if view.State != NavClosed || len(view.Items) != 0 {
		t.Errorf("Expected empty closed view, got %+v", view)
	}
}
