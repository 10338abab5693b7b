package document

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(ansi.Strip(l), " ")
	}
	return out
}

func TestLayout_AreasTileTheContent(t *testing.T) {
	t.Parallel()

	doc, err := Parse("guide.md", []byte(guide))
	require.NoError(t, err)
	layout := doc.Layout(80)

	regions := layout.Regions()
	require.Len(t, regions, len(doc.Sections))

	next := 0
	for _, r := range regions {
		assert.Equal(t, next, r.Area.Top(), r.ID)
		assert.Positive(t, r.Area.Height(), r.ID)
		next += r.Area.Height()
	}
	assert.Equal(t, len(layout.Lines()), next)
}

func TestLayout_ReflowMovesAreas(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 40)
	doc, err := Parse("x.md", []byte("## One\n"+long+"\n## Two\nshort\n"))
	require.NoError(t, err)

	layout := doc.Layout(120)
	two := layout.Regions()[1].Area
	wide := two.Top()

	layout.Reflow(30)
	assert.Equal(t, 30, layout.Width())
	assert.Greater(t, two.Top(), wide)

	layout.Reflow(5)
	assert.Equal(t, MinWidth, layout.Width())
}

func TestLayout_Rendering(t *testing.T) {
	t.Parallel()

	src := "## Usage\nfirst line\nsecond line\n\n- one\n- two\n\n> quoted\n\n### Detail\n"
	doc, err := Parse("x.md", []byte(src))
	require.NoError(t, err)

	got := plain(doc.Layout(60).Lines())
	assert.Equal(t, []string{
		"Usage",
		"first line second line",
		"",
		"- one",
		"- two",
		"",
		"│ quoted",
		"",
		"Detail",
		"",
	}, got)
}

func TestLayout_HighlightsCode(t *testing.T) {
	t.Parallel()

	src := "## Code\n```go\nfunc main() {}\n```\n```nosuchlang\nplain text\n```\n"
	doc, err := Parse("x.md", []byte(src), WithCodeStyle("monokai"))
	require.NoError(t, err)

	lines := doc.Layout(60).Lines()
	got := plain(lines)
	assert.Contains(t, got, "  func main() {}")
	assert.Contains(t, got, "  plain text")

	colored := false
	for _, l := range lines {
		if strings.Contains(l, "main") && strings.Contains(l, "\x1b[") {
			colored = true
		}
	}
	assert.True(t, colored)
}

func TestLayout_SectionAt(t *testing.T) {
	t.Parallel()

	doc, err := Parse("guide.md", []byte(guide))
	require.NoError(t, err)
	layout := doc.Layout(80)

	for _, r := range layout.Regions() {
		id, ok := layout.SectionAt(r.Area.Top())
		assert.True(t, ok)
		assert.Equal(t, r.ID, id)
	}
	_, ok := layout.SectionAt(-1)
	assert.False(t, ok)
}

func TestLayout_RendersBlocks(t *testing.T) {
	t.Parallel()

	src := "## Misc\n1. first\n2. second\n\n---\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	doc, err := Parse("x.md", []byte(src))
	require.NoError(t, err)

	got := plain(doc.Layout(40).Lines())
	assert.Equal(t, []string{
		"Misc",
		"1. first",
		"2. second",
		"",
		strings.Repeat("─", 40),
		"",
		"a │ b",
		"─────",
		"1 │ 2",
		"",
	}, got)
}

func TestLayout_SetextSectionsTile(t *testing.T) {
	t.Parallel()

	doc, err := Parse("x.md", []byte("Intro text\n\nUsage\n=====\n\nbody\n\nAPI\n---\n\nmore\n"))
	require.NoError(t, err)

	got := plain(doc.Layout(40).Lines())
	assert.Equal(t, []string{
		"Intro text",
		"",
		"Usage",
		"body",
		"",
		"API",
		"more",
		"",
	}, got)
}
