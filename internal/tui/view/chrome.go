package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/esa-reader/internal/reader"
	tuitheme "github.com/glabrego/esa-reader/internal/tui/theme"
)

// Header renders the title line followed by one tab per configured view.
func Header(team string, views []reader.View, active, width int, th tuitheme.Theme) string {
	title := th.Title.Render("esa-reader")
	if team != "" {
		title += th.Muted.Render(" · " + team)
	}
	tabs := make([]string, 0, len(views))
	for i, v := range views {
		if i == active {
			tabs = append(tabs, th.ViewTabActive.Render(v.Title))
			continue
		}
		tabs = append(tabs, th.ViewTab.Render(v.Title))
	}
	return Truncate(title+"  "+strings.Join(tabs, ""), width)
}

// FooterParams is the pagination summary drawn under the list.
type FooterParams struct {
	View        string
	Page        int
	Shown       int
	Total       int
	HasNext     bool
	Relative    bool
	FocusDetail bool
}

func CompactFooter(p FooterParams, th tuitheme.Theme) string {
	pageLabel := fmt.Sprintf("%d", p.Page)
	if p.HasNext {
		pageLabel += "+"
	}
	shown := fmt.Sprintf("%d shown", p.Shown)
	if p.Total > 0 {
		shown = fmt.Sprintf("%d/%d shown", p.Shown, p.Total)
	}
	timeLabel := "date"
	if p.Relative {
		timeLabel = "relative"
	}
	focus := "list"
	if p.FocusDetail {
		focus = "detail"
	}
	parts := []string{
		th.MetaLabel.Render("view") + " " + th.MetaValue.Render(p.View),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(pageLabel),
		th.MetaValue.Render(shown),
		th.MetaLabel.Render("time") + " " + th.MetaValue.Render(timeLabel),
		th.MetaLabel.Render("focus") + " " + th.MetaValue.Render(focus),
	}
	return strings.Join(parts, " • ")
}

// CompactMessage renders the status line. spinner is prefixed while a request
// is running.
func CompactMessage(state reader.State, spinner string, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	label := state.String()
	if hasWarning && state == reader.StateIdle {
		label = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch {
	case state != reader.StateIdle:
		stateLabel = th.StateLoad.Render("state")
		if spinner != "" {
			label = spinner + " " + label
		}
	case hasWarning:
		stateLabel = th.StateWarn.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, label, th.MetaValue.Render(main))
}

// ErrorMessage maps a classified error to the line shown in the status bar.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	switch reader.KindOf(err) {
	case reader.KindUnauthorized:
		return "Unauthorized: check the access token for this workspace"
	case reader.KindForbidden:
		return "Forbidden: the token cannot access this team"
	case reader.KindNotFound:
		return "Not found: the post or team no longer exists"
	case reader.KindTimeout:
		return "Request timed out"
	case reader.KindNetwork:
		return "Network error: " + err.Error()
	case reader.KindMalformed:
		return "Unexpected response from esa.io"
	case reader.KindBusy:
		return "Busy: wait for the current request to finish"
	default:
		return "Error: " + err.Error()
	}
}
