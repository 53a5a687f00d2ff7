package view

import (
	"strings"
	"testing"
	"time"

	"github.com/glabrego/esa-reader/internal/reader"
)

func TestDetailMetaLines(t *testing.T) {
	item := reader.Item{
		Number:        5,
		FullName:      "dev/Design",
		Category:      "dev",
		Tags:          []string{"go", "tui"},
		CreatedBy:     reader.User{Name: "Alice", ScreenName: "alice"},
		UpdatedBy:     reader.User{ScreenName: "bob"},
		UpdatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Stars:         2,
		Starred:       true,
		Watches:       1,
		CommentsCount: 4,
		URL:           "https://docs.esa.io/posts/5",
	}
	got := DetailMetaLines(item, 80, nil)
	want := []string{
		"dev/Design",
		"==========",
		"",
		"Post: #5",
		"Category: dev",
		"Tags: #go #tui",
		"Author: Alice (@alice)",
		"Updated: 2026-01-02T03:04:05Z by @bob",
		"Stars: 2 (starred)",
		"Watchers: 1",
		"Comments: 4",
		"URL: https://docs.esa.io/posts/5",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected meta lines:\n%s", strings.Join(got, "\n"))
	}
}

func TestDetailMetaLines_WrapsAndMarksWIP(t *testing.T) {
	item := reader.Item{Number: 1, FullName: "a very long post title that wraps", WIP: true}
	got := DetailMetaLines(item, 12, nil)
	if !strings.HasPrefix(got[0], "[WIP]") {
		t.Fatalf("expected WIP marker, got %q", got[0])
	}
	for _, line := range got {
		if len([]rune(line)) > 12 && !strings.HasPrefix(line, "Updated:") {
			t.Fatalf("line %q exceeds width", line)
		}
	}
}
