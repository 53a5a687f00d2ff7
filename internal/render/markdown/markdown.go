// Package markdown turns esa post bodies into terminal text.
package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/muesli/termenv"
)

const minWidth = 20

// Renderer renders post bodies at a given width. Glamour renderers are cached
// per width since building one parses the whole style config.
type Renderer struct {
	style   ansi.StyleConfig
	profile termenv.Profile

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

func NewRenderer(style ansi.StyleConfig, profile termenv.Profile) *Renderer {
	return &Renderer{
		style:   style,
		profile: profile,
		cache:   make(map[int]*glamour.TermRenderer),
	}
}

// Render prefers the Markdown body and falls back to the HTML body when the
// Markdown is empty or cannot be rendered.
func (r *Renderer) Render(bodyMD, bodyHTML string, width int) (string, error) {
	if width < minWidth {
		width = minWidth
	}
	if strings.TrimSpace(bodyMD) != "" {
		out, err := r.renderMarkdown(bodyMD, width)
		if err == nil {
			return strings.Trim(out, "\n"), nil
		}
		if strings.TrimSpace(bodyHTML) == "" {
			return "", err
		}
	}
	if strings.TrimSpace(bodyHTML) != "" {
		return strings.Join(HTMLLines(bodyHTML, width), "\n"), nil
	}
	return "", nil
}

func (r *Renderer) renderMarkdown(body string, width int) (string, error) {
	tr, err := r.termRenderer(width)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out, err := tr.Render(body)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStyles(r.style),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(r.profile),
	)
	if err != nil {
		return nil, fmt.Errorf("build markdown renderer: %w", err)
	}
	r.cache[width] = tr
	return tr, nil
}
