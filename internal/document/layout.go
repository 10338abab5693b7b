package document

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

// MinWidth is the narrowest width a document is wrapped to.
const MinWidth = 20

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("#7D56F4"))
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00BFFF"))
	subheadingStyle = lipgloss.NewStyle().Bold(true)
	quoteStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			Italic(true)
	ruleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// Layout is a document wrapped to a width. Areas returned by Regions read
// their position from the layout, so a Reflow moves them.
type Layout struct {
	doc     *Document
	width   int
	lines   []string
	tops    []int
	heights []int
}

// Layout wraps the document to width.
func (d *Document) Layout(width int) *Layout {
	l := &Layout{doc: d}
	l.Reflow(width)
	return l
}

// Reflow re-wraps the document when the width changes.
func (l *Layout) Reflow(width int) {
	width = max(width, MinWidth)
	if width == l.width {
		return
	}
	l.width = width
	l.lines = nil
	l.tops = make([]int, len(l.doc.Sections))
	l.heights = make([]int, len(l.doc.Sections))

	for i, s := range l.doc.Sections {
		rendered := renderSection(s, l.doc.source, width, l.doc.CodeStyle)
		l.tops[i] = len(l.lines)
		l.heights[i] = len(rendered)
		l.lines = append(l.lines, rendered...)
	}
}

// Width returns the wrap width.
func (l *Layout) Width() int { return l.width }

// Lines returns the rendered rows.
func (l *Layout) Lines() []string { return l.lines }

// Content joins the rendered rows for a viewport.
func (l *Layout) Content() string { return strings.Join(l.lines, "\n") }

// Regions returns one region per section in document order.
func (l *Layout) Regions() []model.Region {
	out := make([]model.Region, len(l.doc.Sections))
	for i, s := range l.doc.Sections {
		out[i] = model.Region{ID: s.ID, Area: sectionArea{layout: l, index: i}}
	}
	return out
}

// SectionAt returns the section that contains row.
func (l *Layout) SectionAt(row int) (string, bool) {
	for i := len(l.tops) - 1; i >= 0; i-- {
		if row >= l.tops[i] {
			return l.doc.Sections[i].ID, row < l.tops[i]+l.heights[i]
		}
	}
	return "", false
}

type sectionArea struct {
	layout *Layout
	index  int
}

func (a sectionArea) Top() int    { return a.layout.tops[a.index] }
func (a sectionArea) Height() int { return a.layout.heights[a.index] }

func renderSection(s Section, src []byte, width int, codeStyle string) []string {
	var out []string
	switch {
	case s.Level == 1:
		out = append(out, wrap(titleStyle, s.Title, width)...)
	case s.Level > 1:
		out = append(out, wrap(headingStyle, s.Title, width)...)
	}
	out = append(out, renderBlocks(s.blocks, src, width, codeStyle, false)...)
	if n := len(out); n == 0 || out[n-1] != "" {
		out = append(out, "")
	}
	return out
}

// renderBlocks renders sibling blocks, separated by a blank row unless tight.
func renderBlocks(blocks []ast.Node, src []byte, width int, codeStyle string, tight bool) []string {
	var out []string
	for _, n := range blocks {
		rendered := renderBlock(n, src, width, codeStyle)
		if len(rendered) == 0 {
			continue
		}
		if len(out) > 0 && !tight {
			out = append(out, "")
		}
		out = append(out, rendered...)
	}
	return out
}

func renderBlock(n ast.Node, src []byte, width int, codeStyle string) []string {
	width = max(width, 4)
	switch b := n.(type) {
	case *ast.Heading:
		title := strings.TrimSpace(plainText(b, src))
		if title == "" {
			return nil
		}
		return wrap(subheadingStyle, title, width)
	case *ast.Paragraph, *ast.TextBlock:
		return wrap(lipgloss.NewStyle(), plainText(n, src), width)
	case *ast.FencedCodeBlock:
		return highlight(blockText(b, src), string(b.Language(src)), codeStyle)
	case *ast.CodeBlock:
		return highlight(blockText(b, src), "", codeStyle)
	case *ast.HTMLBlock:
		raw := blockText(b, src)
		if b.HasClosure() {
			raw += "\n" + strings.TrimSuffix(string(b.ClosureLine.Value(src)), "\n")
		}
		return strings.Split(raw, "\n")
	case *ast.ThematicBreak:
		return []string{ruleStyle.Render(strings.Repeat("─", width))}
	case *ast.Blockquote:
		inner := renderBlocks(children(b), src, width-2, codeStyle, false)
		for i, l := range inner {
			inner[i] = quoteStyle.Render("│ " + l)
		}
		return inner
	case *ast.List:
		return renderList(b, src, width, codeStyle)
	case *east.Table:
		return renderTable(b, src, width)
	}
	if n.Lines().Len() > 0 {
		return strings.Split(blockText(n, src), "\n")
	}
	return renderBlocks(children(n), src, width, codeStyle, false)
}

func renderList(l *ast.List, src []byte, width int, codeStyle string) []string {
	var out []string
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := string(l.Marker) + " "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d%c ", num, l.Marker)
			num++
		}
		if len(out) > 0 && !l.IsTight {
			out = append(out, "")
		}
		body := renderBlocks(children(item), src, width-len(marker), codeStyle, l.IsTight)
		if len(body) == 0 {
			out = append(out, strings.TrimRight(marker, " "))
			continue
		}
		pad := strings.Repeat(" ", len(marker))
		for i, line := range body {
			if i == 0 {
				out = append(out, marker+line)
			} else {
				out = append(out, pad+line)
			}
		}
	}
	return out
}

func renderTable(t *east.Table, src []byte, width int) []string {
	var out []string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(plainText(cell, src)))
		}
		line := strings.Join(cells, " │ ")
		if _, header := row.(*east.TableHeader); header {
			out = append(out, wrap(subheadingStyle, line, width)...)
			out = append(out, ruleStyle.Render(strings.Repeat("─", min(width, max(lipgloss.Width(line), 1)))))
			continue
		}
		out = append(out, wrap(lipgloss.NewStyle(), line, width)...)
	}
	return out
}

func children(n ast.Node) []ast.Node {
	var out []ast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// blockText joins a leaf block's source lines.
func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.WriteString(strings.Repeat(" ", seg.Padding))
		b.Write(seg.Value(src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func wrap(style lipgloss.Style, text string, width int) []string {
	return strings.Split(style.Width(width).Render(text), "\n")
}

// highlight renders code with chroma. Unknown languages are lexed as plain
// text and unknown styles fall back to chroma's default.
func highlight(code, lang, styleName string) []string {
	if code == "" {
		return []string{""}
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal256")
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return indent(strings.Split(code, "\n"))
	}
	var b strings.Builder
	if err := formatter.Format(&b, styles.Get(styleName), it); err != nil {
		return indent(strings.Split(code, "\n"))
	}
	return indent(strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n"))
}

func indent(lines []string) []string {
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return lines
}
