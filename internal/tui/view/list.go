package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/glabrego/esa-reader/internal/reader"
	tuitheme "github.com/glabrego/esa-reader/internal/tui/theme"
)

type PostLineParams struct {
	Item         reader.Item
	Now          time.Time
	RelativeTime bool
	Active       bool
	Width        int
}

func RenderPostLine(p PostLineParams, th tuitheme.Theme) string {
	date := p.Item.UpdatedAt.UTC().Format(time.DateOnly)
	if p.RelativeTime {
		date = RelativeTimeLabel(p.Now, p.Item.UpdatedAt)
	}

	marker := "  "
	if p.Active {
		marker = "> "
	}
	number := p.Item.Label() + " "
	right := " " + FlagsLabel(p.Item) + "  " + date

	label := strings.TrimSpace(p.Item.FullName)
	if label == "" {
		label = p.Item.Name
	}
	if p.Item.WIP {
		label = "[WIP] " + label
	}
	available := p.Width - ansi.StringWidth(marker+number) - ansi.StringWidth(right)
	if available < 1 {
		available = 1
	}
	label = Truncate(label, available)

	titleStyle := th.PostTitle
	if p.Item.WIP {
		titleStyle = th.PostWIP
	}
	gap := p.Width - ansi.StringWidth(marker+number+label+right)
	if gap < 0 {
		gap = 0
	}
	line := marker + th.Number.Render(number) + titleStyle.Render(label) + strings.Repeat(" ", gap) + styleFlags(p.Item, right, th)
	return th.RenderActiveLine(p.Active, line)
}

// FlagsLabel renders the star and watch state with their counters.
func FlagsLabel(item reader.Item) string {
	star := "☆"
	if item.Starred {
		star = "★"
	}
	watch := "○"
	if item.Watched {
		watch = "◉"
	}
	return fmt.Sprintf("%s%d %s%d", star, item.Stars, watch, item.Watches)
}

func styleFlags(item reader.Item, right string, th tuitheme.Theme) string {
	switch {
	case item.Starred:
		return th.Starred.Render(right)
	case item.Watched:
		return th.Watched.Render(right)
	default:
		return th.Muted.Render(right)
	}
}

// RenderSentinelLine draws the trailing load-more row.
func RenderSentinelLine(active, loading bool, nextPage, width int, th tuitheme.Theme) string {
	marker := "  "
	if active {
		marker = "> "
	}
	label := fmt.Sprintf("↓ Load more (page %d)", nextPage)
	if loading {
		label = "… Loading more posts"
	}
	return th.RenderActiveLine(active, marker+th.Sentinel.Render(Truncate(label, max(1, width-2))))
}

func RenderEmptyLine(loading bool, th tuitheme.Theme) string {
	if loading {
		return th.Muted.Render("  Loading posts…")
	}
	return th.Muted.Render("  No posts in this view")
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if !then.Before(now) || now.Sub(then) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

// Truncate cuts s to width cells, ANSI aware, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
