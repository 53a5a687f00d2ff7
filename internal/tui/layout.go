package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/esa-reader/internal/reader"
	"github.com/glabrego/esa-reader/internal/tui/state"
	"github.com/glabrego/esa-reader/internal/tui/view"
)

const maxPickerMatches = 5

func (m Model) View() string {
	if m.ctrl == nil {
		return ""
	}
	w, _ := m.size()
	proj := m.ctrl.Projection()

	var b strings.Builder
	b.WriteString(view.Header(m.team, m.ctrl.Views(), proj.ViewIndex, w, m.theme))
	b.WriteString("\n")
	b.WriteString(m.body(proj))
	b.WriteString("\n")
	b.WriteString(m.messageLine(proj))
	b.WriteString("\n")
	b.WriteString(view.Truncate(m.footer(proj), w))
	if hv := m.helpView(); hv != "" {
		b.WriteString("\n")
		b.WriteString(hv)
	}
	return b.String()
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) helpView() string {
	if !m.help.ShowAll && !m.prefs.ShowHelpBar {
		return ""
	}
	return m.help.View(m.keys)
}

// bodyHeight is the number of content rows inside a pane.
func (m Model) bodyHeight() int {
	_, h := m.size()
	chrome := 3 + 2
	if hv := m.helpView(); hv != "" {
		chrome += lipgloss.Height(hv)
	}
	return max(1, h-chrome)
}

func (m *Model) layout() {
	w, _ := m.size()
	m.help.Width = w
	_, detailW := state.SplitWidths(w, m.prefs.SplitRatio)
	m.detail.Width = max(1, detailW-2)
	m.detail.Height = m.bodyHeight()
}

func (m Model) body(proj reader.Projection) string {
	w, _ := m.size()
	h := m.bodyHeight()
	if w < state.SinglePaneWidth {
		if m.focusDetail && m.hasDetail {
			return m.detailPane(w, h, true)
		}
		return m.listPane(proj, w, h, true)
	}
	listW, detailW := state.SplitWidths(w, m.prefs.SplitRatio)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.listPane(proj, listW, h, !m.focusDetail),
		m.detailPane(detailW, h, m.focusDetail),
	)
}

func (m Model) listPane(proj reader.Projection, width, height int, focused bool) string {
	inner := max(1, width-2)
	style := m.theme.Pane
	if focused {
		style = m.theme.PaneFocused
	}
	return style.Width(inner).Height(height).Render(strings.Join(m.listLines(proj, inner, height), "\n"))
}

func (m Model) listLines(proj reader.Projection, width, height int) []string {
	if len(proj.Rows) == 0 {
		return []string{view.RenderEmptyLine(proj.State == reader.StateLoading, m.theme)}
	}
	start, end := state.CenteredWindow(len(proj.Rows), proj.Highlighted, height)
	nextPage := m.ctrl.Page().NextPage
	now := m.nowFn()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := proj.Rows[i]
		active := i == proj.Highlighted
		if row.IsSentinel {
			lines = append(lines, view.RenderSentinelLine(active, proj.State == reader.StateLoadingMore, nextPage, width, m.theme))
			continue
		}
		lines = append(lines, view.RenderPostLine(view.PostLineParams{
			Item:         row.Item,
			Now:          now,
			RelativeTime: m.prefs.RelativeTime,
			Active:       active,
			Width:        width,
		}, m.theme))
	}
	return lines
}

func (m Model) detailPane(width, height int, focused bool) string {
	inner := max(1, width-2)
	style := m.theme.Pane
	if focused {
		style = m.theme.PaneFocused
	}
	content := m.detail.View()
	if !m.hasDetail {
		content = m.theme.Muted.Render(view.Truncate("Select a post and press enter", inner))
	}
	return style.Width(inner).Height(height).Render(content)
}

// refreshDetail rebuilds the detail viewport from the opened item and its body.
func (m *Model) refreshDetail() {
	if !m.hasDetail {
		m.detail.SetContent("")
		return
	}
	width := m.detail.Width
	var body string
	switch {
	case m.contentLoading:
		body = m.theme.Muted.Render("Loading post…")
	case m.contentErr != nil:
		body = m.theme.StateWarn.Render(view.ErrorMessage(m.contentErr))
	default:
		out, err := m.md.Render(m.content.BodyMD, m.content.BodyHTML, width)
		switch {
		case err != nil:
			m.logger.Warn("render post body", "number", m.detailItem.Number, "error", err)
			body = m.theme.StateWarn.Render("Could not render post: " + err.Error())
		case out == "":
			body = m.theme.Muted.Render("(empty post)")
		default:
			body = out
		}
	}
	meta := view.DetailMetaLines(m.detailItem, width, nil)
	meta[0] = m.theme.Section.Render(meta[0])
	m.detail.SetContent(strings.Join(meta, "\n") + "\n\n" + body)
}

func (m Model) messageLine(proj reader.Projection) string {
	w, _ := m.size()
	if m.picking {
		return view.Truncate(m.pickerLine(), w)
	}
	spin := ""
	if proj.State != reader.StateIdle {
		spin = m.spinner.View()
	}
	return view.Truncate(view.CompactMessage(proj.State, spin, m.err != nil, m.status, view.ErrorMessage(m.err), m.theme), w)
}

func (m Model) pickerLine() string {
	matches := m.viewMatches()
	names := make([]string, 0, maxPickerMatches)
	for i, match := range matches {
		if i == maxPickerMatches {
			break
		}
		if i == 0 {
			names = append(names, m.theme.ViewTabActive.Render(match.Str))
			continue
		}
		names = append(names, m.theme.Muted.Render(match.Str))
	}
	return m.picker.View() + "  " + strings.Join(names, " ")
}

func (m Model) footer(proj reader.Projection) string {
	shown := len(proj.Rows)
	if proj.HasNext && shown > 0 {
		shown--
	}
	title := proj.View.Title
	if !proj.Loaded {
		title = fmt.Sprintf("%s (loading)", title)
	}
	return view.CompactFooter(view.FooterParams{
		View:        title,
		Page:        proj.CurrentPage,
		Shown:       shown,
		Total:       proj.TotalCount,
		HasNext:     proj.HasNext,
		Relative:    m.prefs.RelativeTime,
		FocusDetail: m.focusDetail,
	}, m.theme)
}
