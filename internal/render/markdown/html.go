package markdown

import (
	"html"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	nethtml "golang.org/x/net/html"
)

// HTMLLines converts an HTML fragment into wrapped plain-text lines.
func HTMLLines(raw string, width int) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return wrap(html.UnescapeString(raw), width, "")
	}
	body := findBody(doc)
	if body == nil {
		return wrap(html.UnescapeString(raw), width, "")
	}
	w := htmlWriter{width: width}
	w.blocks(body, "")
	return trimBlankLines(w.lines)
}

type htmlWriter struct {
	width int
	lines []string
}

func (w *htmlWriter) blank() {
	if len(w.lines) > 0 && w.lines[len(w.lines)-1] != "" {
		w.lines = append(w.lines, "")
	}
}

func (w *htmlWriter) emit(text, prefix string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	w.lines = append(w.lines, wrap(text, w.width, prefix)...)
}

func (w *htmlWriter) blocks(node *nethtml.Node, prefix string) {
	var inline strings.Builder
	flush := func() {
		w.emit(inline.String(), prefix)
		inline.Reset()
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlock(child.Data) {
			flush()
			w.block(child, prefix)
			continue
		}
		inline.WriteString(inlineText(child))
	}
	flush()
}

func (w *htmlWriter) block(node *nethtml.Node, prefix string) {
	switch node.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.blank()
		level := int(node.Data[1] - '0')
		w.emit(strings.Repeat("#", level)+" "+inlineChildren(node), prefix)
		w.blank()
	case "p":
		w.blank()
		w.blocks(node, prefix)
		w.blank()
	case "ul", "ol":
		w.blank()
		n := 0
		for li := node.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != nethtml.ElementNode || li.Data != "li" {
				continue
			}
			n++
			marker := "• "
			if node.Data == "ol" {
				marker = strconv.Itoa(n) + ". "
			}
			start := len(w.lines)
			w.blocks(li, prefix+strings.Repeat(" ", len([]rune(marker))))
			if start < len(w.lines) {
				indent := prefix + strings.Repeat(" ", len([]rune(marker)))
				w.lines[start] = prefix + marker + strings.TrimPrefix(w.lines[start], indent)
			}
		}
		w.blank()
	case "pre":
		w.blank()
		for _, line := range strings.Split(strings.TrimRight(rawText(node), "\n"), "\n") {
			w.lines = append(w.lines, prefix+"  "+line)
		}
		w.blank()
	case "blockquote":
		w.blank()
		w.blocks(node, prefix+"│ ")
		w.blank()
	case "hr":
		w.blank()
		w.lines = append(w.lines, prefix+strings.Repeat("─", max(1, w.width-len([]rune(prefix)))))
		w.blank()
	case "br":
		w.lines = append(w.lines, "")
	default:
		w.blocks(node, prefix)
	}
}

func inlineChildren(node *nethtml.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(inlineText(child))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func inlineText(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
	default:
		return ""
	}
	switch node.Data {
	case "script", "style":
		return ""
	case "code":
		return "`" + rawText(node) + "`"
	case "img":
		if alt := attr(node, "alt"); alt != "" {
			return "[image: " + alt + "]"
		}
		return "[image]"
	case "a":
		text := inlineChildren(node)
		href := attr(node, "href")
		if href == "" || href == text || strings.HasPrefix(href, "#") {
			return text
		}
		return text + " (" + href + ")"
	}
	return inlineChildren(node)
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "pre", "blockquote", "hr", "br", "table", "details":
		return true
	}
	return false
}

func wrap(text string, width int, prefix string) []string {
	avail := width - ansi.StringWidth(prefix)
	if avail < 1 {
		avail = 1
	}
	text = strings.Join(strings.Fields(text), " ")
	wrapped := ansi.Wrap(text, avail, "")
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = prefix + strings.TrimRight(lines[i], " ")
	}
	return lines
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node.Type == nethtml.ElementNode && node.Data == "body" {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

func attr(node *nethtml.Node, name string) string {
	for _, a := range node.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func rawText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(rawText(child))
	}
	return b.String()
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	out := make([]string, 0, end-start)
	prevBlank := false
	for _, line := range lines[start:end] {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return out
}
