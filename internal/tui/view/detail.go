package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/esa-reader/internal/reader"
)

type WrapFunc func(string, int) []string

// WrapLines hard-wraps s on word boundaries to width cells.
func WrapLines(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}

// DetailMetaLines renders the header block shown above a post body.
func DetailMetaLines(item reader.Item, width int, wrap WrapFunc) []string {
	if wrap == nil {
		wrap = WrapLines
	}
	title := item.FullName
	if title == "" {
		title = item.Name
	}
	if item.WIP {
		title = "[WIP] " + title
	}

	lines := make([]string, 0, 16)
	lines = append(lines, wrap(title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, ansi.StringWidth(title)))))
	lines = append(lines, "")

	lines = append(lines, "Post: "+item.Label())
	if item.Category != "" {
		lines = append(lines, wrap("Category: "+item.Category, width)...)
	}
	if len(item.Tags) > 0 {
		tags := make([]string, len(item.Tags))
		for i, tag := range item.Tags {
			tags[i] = "#" + tag
		}
		lines = append(lines, wrap("Tags: "+strings.Join(tags, " "), width)...)
	}
	if by := userLabel(item.CreatedBy); by != "" {
		lines = append(lines, "Author: "+by)
	}
	updated := "Updated: " + item.UpdatedAt.UTC().Format(time.RFC3339)
	if by := userLabel(item.UpdatedBy); by != "" {
		updated += " by " + by
	}
	lines = append(lines, wrap(updated, width)...)
	lines = append(lines, fmt.Sprintf("Stars: %d%s", item.Stars, yes(item.Starred, " (starred)")))
	lines = append(lines, fmt.Sprintf("Watchers: %d%s", item.Watches, yes(item.Watched, " (watching)")))
	lines = append(lines, fmt.Sprintf("Comments: %d", item.CommentsCount))
	if item.URL != "" {
		lines = append(lines, wrap("URL: "+item.URL, width)...)
	}
	return lines
}

func userLabel(u reader.User) string {
	switch {
	case u.ScreenName != "" && u.Name != "":
		return fmt.Sprintf("%s (@%s)", u.Name, u.ScreenName)
	case u.ScreenName != "":
		return "@" + u.ScreenName
	default:
		return u.Name
	}
}

func yes(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}
