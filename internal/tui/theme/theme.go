package theme

import (
	"regexp"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/esa-reader/internal/config"
)

// Palette holds the seven resolved #rrggbb colors.
type Palette struct {
	Primary string
	Muted   string
	Accent  string
	Error   string
	Success string
	Warning string
	Link    string
}

func DefaultPalette() Palette {
	return Palette{
		Primary: "#cba6f7",
		Muted:   "#7f849c",
		Accent:  "#94e2d5",
		Error:   "#f38ba8",
		Success: "#a6e3a1",
		Warning: "#fab387",
		Link:    "#89b4fa",
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether s is a #rrggbb color.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

type Theme struct {
	Palette Palette

	Title         lipgloss.Style
	ViewTab       lipgloss.Style
	ViewTabActive lipgloss.Style
	Section       lipgloss.Style
	ActiveLine    lipgloss.Style
	MetaLabel     lipgloss.Style
	MetaValue     lipgloss.Style
	StateIdle     lipgloss.Style
	StateWarn     lipgloss.Style
	StateLoad     lipgloss.Style
	Success       lipgloss.Style

	PostTitle   lipgloss.Style
	PostWIP     lipgloss.Style
	Number      lipgloss.Style
	Starred     lipgloss.Style
	Watched     lipgloss.Style
	Sentinel    lipgloss.Style
	Muted       lipgloss.Style
	Link        lipgloss.Style
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
}

func Default() Theme {
	return New(DefaultPalette())
}

// FromConfig resolves colors from cfg, falling back to the default for any
// empty or invalid value.
func FromConfig(cfg config.Theme) Theme {
	p := DefaultPalette()
	pick := func(dst *string, v string) {
		if ValidColor(v) {
			*dst = v
		}
	}
	pick(&p.Primary, cfg.Primary)
	pick(&p.Muted, cfg.Muted)
	pick(&p.Accent, cfg.Accent)
	pick(&p.Error, cfg.Error)
	pick(&p.Success, cfg.Success)
	pick(&p.Warning, cfg.Warning)
	pick(&p.Link, cfg.Link)
	return New(p)
}

func New(p Palette) Theme {
	primary := lipgloss.Color(p.Primary)
	muted := lipgloss.Color(p.Muted)
	accent := lipgloss.Color(p.Accent)
	errColor := lipgloss.Color(p.Error)
	success := lipgloss.Color(p.Success)
	warning := lipgloss.Color(p.Warning)
	link := lipgloss.Color(p.Link)
	text := lipgloss.Color("#cdd6f4")
	surface := lipgloss.Color("#313244")

	return Theme{
		Palette:       p,
		Title:         lipgloss.NewStyle().Bold(true).Foreground(primary),
		ViewTab:       lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		ViewTabActive: lipgloss.NewStyle().Bold(true).Foreground(primary).Background(surface).Padding(0, 1),
		Section:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		ActiveLine:    lipgloss.NewStyle().Background(surface).Foreground(text),
		MetaLabel:     lipgloss.NewStyle().Foreground(muted),
		MetaValue:     lipgloss.NewStyle().Foreground(text),
		StateIdle:     lipgloss.NewStyle().Foreground(success),
		StateWarn:     lipgloss.NewStyle().Foreground(errColor),
		StateLoad:     lipgloss.NewStyle().Foreground(warning),
		Success:       lipgloss.NewStyle().Foreground(success),
		PostTitle:     lipgloss.NewStyle().Foreground(text),
		PostWIP:       lipgloss.NewStyle().Italic(true).Foreground(muted),
		Number:        lipgloss.NewStyle().Foreground(muted),
		Starred:       lipgloss.NewStyle().Foreground(warning),
		Watched:       lipgloss.NewStyle().Foreground(accent),
		Sentinel:      lipgloss.NewStyle().Italic(true).Foreground(accent),
		Muted:         lipgloss.NewStyle().Foreground(muted),
		Link:          lipgloss.NewStyle().Underline(true).Foreground(link),
		Pane:          lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted),
		PaneFocused:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary),
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}

// GlamourStyle derives a markdown style from the dark glamour style with the
// palette applied: headings and bold in primary, emphasis muted, code in
// accent and links in the link color.
func (t Theme) GlamourStyle() ansi.StyleConfig {
	s := styles.DarkStyleConfig
	p := t.Palette
	color := func(c string) *string { return &c }

	s.Heading.Color = color(p.Primary)
	s.H1.Color = color(p.Primary)
	s.H1.BackgroundColor = nil
	s.H2.Color = color(p.Primary)
	s.H3.Color = color(p.Accent)
	s.H4.Color = color(p.Accent)
	s.H5.Color = color(p.Muted)
	s.H6.Color = color(p.Muted)
	s.Strong.Color = color(p.Primary)
	s.Emph.Color = color(p.Muted)
	s.Code.Color = color(p.Accent)
	s.Link.Color = color(p.Link)
	s.LinkText.Color = color(p.Link)
	s.BlockQuote.Color = color(p.Muted)
	return s
}
