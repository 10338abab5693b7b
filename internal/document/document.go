package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

// IntroID is the section ID given to text before the first heading.
const IntroID = "intro"

// NavEntry is one front matter nav item.
type NavEntry struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type frontMatter struct {
	Title        string     `yaml:"title"`
	HeadingLevel int        `yaml:"heading-level"`
	Nav          []NavEntry `yaml:"nav"`
}

// Section is one navigable part of a document.
type Section struct {
	ID    string
	Title string
	// Level is the heading depth, 0 for the intro section.
	Level int
	Label string
	// Linked is false for sections left out of the front matter nav list.
	Linked bool
	// Body is the markdown source under the heading.
	Body string

	blocks []ast.Node
}

// Document is a parsed markdown file split into sections.
type Document struct {
	Name         string
	Title        string
	HeadingLevel int
	CodeStyle    string
	Sections     []Section
	// Nav holds the linked section IDs in sidebar order.
	Nav []string
	// Warnings lists problems that did not stop parsing.
	Warnings []string

	source []byte
}

type options struct {
	headingLevel int
	codeStyle    string
}

// Option configures Parse and Load.
type Option func(*options)

// WithHeadingLevel sets the deepest heading that starts a section. Front
// matter overrides it.
func WithHeadingLevel(level int) Option {
	return func(o *options) { o.headingLevel = level }
}

// WithCodeStyle sets the chroma style used for fenced code.
func WithCodeStyle(name string) Option {
	return func(o *options) { o.codeStyle = name }
}

// Parse splits a markdown source into sections.
func Parse(name string, src []byte, opts ...Option) (*Document, error) {
	o := options{headingLevel: model.DefaultHeadingLevel, codeStyle: model.DefaultCodeStyle}
	for _, opt := range opts {
		opt(&o)
	}

	fm, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, fmt.Errorf("%s: front matter: %w", name, err)
	}
	level := o.headingLevel
	if fm.HeadingLevel != 0 {
		level = fm.HeadingLevel
	}
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("%s: heading level %d: %w", name, level, model.ErrInvalidArgument)
	}

	doc := &Document{
		Name:         name,
		Title:        fm.Title,
		HeadingLevel: level,
		CodeStyle:    o.codeStyle,
	}
	doc.source = bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))
	doc.Sections = splitSections(doc.source, level)
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("%s: no sections: %w", name, model.ErrInvalidArgument)
	}
	if doc.Title == "" {
		doc.Title = defaultTitle(doc)
	}
	doc.applyNav(fm.Nav, fm.Nav != nil)
	return doc, nil
}

// Section returns the section with the given ID.
func (d *Document) Section(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Summary lists every section in document order.
func (d *Document) Summary() []model.Section {
	out := make([]model.Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		out = append(out, model.Section{ID: s.ID, Label: s.Label, Linked: s.Linked})
	}
	return out
}

func (d *Document) applyNav(nav []NavEntry, explicit bool) {
	if !explicit {
		for i := range d.Sections {
			d.Sections[i].Linked = true
			d.Nav = append(d.Nav, d.Sections[i].ID)
		}
		return
	}

	index := make(map[string]int, len(d.Sections))
	for i, s := range d.Sections {
		index[s.ID] = i
	}
	for _, e := range nav {
		i, ok := index[e.ID]
		if !ok {
			d.Warnings = append(d.Warnings, fmt.Sprintf("nav entry %q matches no section", e.ID))
			continue
		}
		if d.Sections[i].Linked {
			continue
		}
		d.Sections[i].Linked = true
		if e.Label != "" {
			d.Sections[i].Label = e.Label
		}
		d.Nav = append(d.Nav, e.ID)
	}
}

func defaultTitle(d *Document) string {
	for _, s := range d.Sections {
		if s.Level == 1 {
			return s.Title
		}
	}
	return d.Name
}

func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(src, []byte("---\n")) && !bytes.HasPrefix(src, []byte("---\r\n")) {
		return fm, src, nil
	}

	rest := src[bytes.IndexByte(src, '\n')+1:]
	off := 0
	for off <= len(rest) {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		next := len(rest) + 1
		if end >= 0 {
			line = rest[off : off+end]
			next = off + end + 1
		}
		trimmed := strings.TrimRight(string(line), "\r ")
		if trimmed == "---" || trimmed == "..." {
			if err := yaml.Unmarshal(rest[:off], &fm); err != nil {
				return fm, nil, err
			}
			if next > len(rest) {
				return fm, nil, nil
			}
			return fm, rest[next:], nil
		}
		off = next
	}
	return fm, nil, fmt.Errorf("unterminated block: %w", model.ErrInvalidArgument)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// splitSections cuts the document at top-level headings no deeper than
// maxLevel. Heading IDs come from goldmark's auto heading IDs; the intro
// section keeps IntroID, so a colliding heading is re-numbered.
func splitSections(src []byte, maxLevel int) []Section {
	sections := cutSections(src, parseMarkdown(src, false), maxLevel)
	if len(sections) == 0 || sections[0].Level != 0 {
		return sections
	}
	for _, s := range sections[1:] {
		if s.ID == IntroID {
			return cutSections(src, parseMarkdown(src, true), maxLevel)
		}
	}
	return sections
}

func parseMarkdown(src []byte, reserveIntro bool) ast.Node {
	ctx := parser.NewContext()
	if reserveIntro {
		ctx.IDs().Put([]byte(IntroID))
	}
	return markdown.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))
}

func cutSections(src []byte, root ast.Node, maxLevel int) []Section {
	var (
		sections  []Section
		bodyStart []int
		intro     []ast.Node
		introEnd  = len(src)
	)
	closeLast := func(end int) {
		if n := len(sections); n > 0 {
			sections[n-1].Body = string(src[bodyStart[n-1]:end])
		}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		var title string
		if ok && h.Level <= maxLevel && h.Lines().Len() > 0 {
			title = strings.TrimSpace(plainText(h, src))
		}
		if title == "" {
			if len(sections) == 0 {
				intro = append(intro, n)
			} else {
				sections[len(sections)-1].blocks = append(sections[len(sections)-1].blocks, n)
			}
			continue
		}

		start, end := headingSpan(h, src)
		if len(sections) == 0 {
			introEnd = start
		}
		closeLast(start)
		sections = append(sections, Section{
			ID:    headingID(h),
			Title: title,
			Label: title,
			Level: h.Level,
		})
		bodyStart = append(bodyStart, end)
	}
	closeLast(len(src))

	if len(intro) > 0 {
		s := Section{
			ID:     IntroID,
			Title:  "Introduction",
			Label:  "Introduction",
			Body:   string(src[:introEnd]),
			blocks: intro,
		}
		sections = append([]Section{s}, sections...)
	}
	return sections
}

func headingID(h *ast.Heading) string {
	if v, ok := h.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok {
			return string(id)
		}
	}
	return ""
}

// headingSpan returns the byte offsets of the heading's first line and of
// the line after it. Setext headings also cover their underline.
func headingSpan(h *ast.Heading, src []byte) (int, int) {
	first := h.Lines().At(0)
	start := bytes.LastIndexByte(src[:first.Start], '\n') + 1
	last := h.Lines().At(h.Lines().Len() - 1)
	end := lineEnd(src, last.Start)
	if !bytes.HasPrefix(bytes.TrimLeft(src[start:], " "), []byte("#")) {
		end = lineEnd(src, end)
	}
	return start, end
}

func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}

// plainText flattens inline markup to its visible text.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			switch {
			case t.HardLineBreak():
				b.WriteByte('\n')
			case t.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				b.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
