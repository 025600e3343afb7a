package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/boardcamp/internal/db"
)

func TestCreateAndListCategories(t *testing.T) {
	conn := db.NewTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Strategy", "Party", "Cooperative"} {
		if _, err := CreateCategory(ctx, conn, name); err != nil {
			t.Fatalf("CreateCategory(%q): %v", name, err)
		}
	}

	categories, err := ListCategories(ctx, conn, ListOptions{})
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	if categories[0].Name != "Strategy" {
		t.Errorf("expected insertion order, got %q first", categories[0].Name)
	}

	sorted, err := ListCategories(ctx, conn, ListOptions{Order: "name"})
	if err != nil {
		t.Fatalf("ListCategories ordered: %v", err)
	}
	if sorted[0].Name != "Cooperative" || sorted[2].Name != "Strategy" {
		t.Errorf("unexpected order: %+v", sorted)
	}

	page, err := ListCategories(ctx, conn, ListOptions{Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListCategories paged: %v", err)
	}
	if len(page) != 1 || page[0].Name != "Party" {
		t.Errorf("expected [Party], got %+v", page)
	}
}

func TestCreateCategoryDuplicate(t *testing.T) {
	conn := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateCategory(ctx, conn, "Strategy"); err != nil {
		t.Fatal(err)
	}
	_, err := CreateCategory(ctx, conn, "Strategy")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestListOptionsInvalid(t *testing.T) {
	conn := db.NewTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts ListOptions
	}{
		{"negative offset", ListOptions{Offset: -1}},
		{"negative limit", ListOptions{Limit: -5}},
		{"unknown column", ListOptions{Order: "name; DROP TABLE categories"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ListCategories(ctx, conn, tt.opts)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestPrefixPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "%"},
		{"abc", "abc%"},
		{"50%", `50\%%`},
		{"a_b", `a\_b%`},
		{`c:\`, `c:\\%`},
	}
	for _, tt := range tests {
		if got := prefixPattern(tt.in); got != tt.want {
			t.Errorf("prefixPattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
