package view

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/esa-reader/internal/reader"
	tuitheme "github.com/glabrego/esa-reader/internal/tui/theme"
)

var updateViewGolden = flag.Bool("update-view-golden", false, "update view golden files")

func TestListRenderingGolden(t *testing.T) {
	th := tuitheme.Default()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	lines := []string{
		RenderPostLine(PostLineParams{
			Item: reader.Item{
				Number:    12,
				FullName:  "dev/Weekly notes",
				Stars:     3,
				Watches:   1,
				Starred:   true,
				UpdatedAt: now.Add(-3 * time.Hour),
			},
			Now:          now,
			RelativeTime: true,
			Active:       true,
			Width:        60,
		}, th),
		RenderPostLine(PostLineParams{
			Item: reader.Item{
				Number:    7,
				FullName:  "drafts/Very long title that should be truncated by the renderer",
				WIP:       true,
				Watches:   2,
				Watched:   true,
				UpdatedAt: time.Date(2025, 12, 24, 18, 30, 0, 0, time.UTC),
			},
			Now:   now,
			Width: 60,
		}, th),
		RenderSentinelLine(false, false, 3, 60, th),
		RenderSentinelLine(true, true, 3, 60, th),
		CompactFooter(FooterParams{View: "Recent", Page: 2, Shown: 40, Total: 87, HasNext: true, Relative: true}, th),
		CompactMessage(reader.StateLoadingMore, "", false, "", "", th),
	}
	for i := range lines {
		lines[i] = ansi.Strip(lines[i])
	}
	assertViewGolden(t, "list_rendering.golden", strings.Join(lines, "\n"))
}

func assertViewGolden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if *updateViewGolden {
		if err := os.WriteFile(path, []byte(got+"\n"), 0o644); err != nil {
			t.Fatalf("write golden %s: %v", path, err)
		}
	}
	wantBytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	want := strings.TrimRight(string(wantBytes), "\n")
	if got != want {
		t.Fatalf("golden mismatch for %s\n--- got ---\n%s\n--- want ---\n%s", name, got, want)
	}
}
