package markup

import (
	"testing"

	"github.com/notesctl/notesctl/internal/notes"
)

func bold() notes.Style   { return notes.Style{Bold: true} }
func italic() notes.Style { return notes.Style{Italic: true} }

func TestToDialectParagraphs(t *testing.T) {
	doc := &notes.Document{Blocks: []notes.Block{
		{Type: notes.BlockParagraph, Text: "first"},
		{Type: notes.BlockParagraph, Text: ""},
		{Type: notes.BlockParagraph, Text: "second"},
	}}

	got := ToDialect(doc)
	want := "<div>first</div>\n<div><br></div>\n<div>second</div>"
	if got != want {
		t.Errorf("ToDialect = %q, want %q", got, want)
	}
}

func TestToDialectHeadings(t *testing.T) {
	doc := &notes.Document{Blocks: []notes.Block{
		{Type: notes.BlockHeading, Level: 1, Text: "Title"},
		{Type: notes.BlockHeading, Level: 2, Text: "Section"},
		{Type: notes.BlockHeading, Level: 7, Text: "Deep"},
	}}

	got := ToDialect(doc)
	want := "<h1>Title</h1>\n<h2>Section</h2>\n<h3>Deep</h3>"
	if got != want {
		t.Errorf("ToDialect = %q, want %q", got, want)
	}
}

func TestToDialectStyledRuns(t *testing.T) {
	doc := &notes.Document{Blocks: []notes.Block{
		{
			Type: notes.BlockParagraph,
			Text: "plain bold italic",
			Runs: []notes.AttributeRun{
				{Length: 6},
				{Length: 5, Style: bold()},
				{Length: 6, Style: italic()},
			},
		},
	}}

	got := ToDialect(doc)
	want := "<div>plain <b>bold </b><i>italic</i></div>"
	if got != want {
		t.Errorf("ToDialect = %q, want %q", got, want)
	}
}

func TestToDialectLinkAndCode(t *testing.T) {
	doc := &notes.Document{Blocks: []notes.Block{
		{
			Type: notes.BlockParagraph,
			Text: "see docs",
			Runs: []notes.AttributeRun{
				{Length: 4},
				{Length: 4, Style: notes.Style{Link: "https://example.com"}},
			},
		},
		{
			Type: notes.BlockParagraph,
			Text: "x := 1",
			Runs: []notes.AttributeRun{{Length: 6, Style: notes.Style{Code: true}}},
		},
	}}

	got := ToDialect(doc)
	want := `<div>see <a href="https://example.com">docs</a></div>` + "\n" +
		`<div><code>x := 1</code></div>`
	if got != want {
		t.Errorf("ToDialect = %q, want %q", got, want)
	}
}

func TestToDialectLists(t *testing.T) {
	doc := &notes.Document{Blocks: []notes.Block{
		{Type: notes.BlockListItem, Text: "one"},
		{Type: notes.BlockListItem, Text: "two"},
		{Type: notes.BlockListItem, Text: "first", Ordered: true},
		{Type: notes.BlockParagraph, Text: "after"},
	}}

	got := ToDialect(doc)
	want := "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n" +
		"<ol>\n<li>first</li>\n</ol>\n<div>after</div>"
	if got != want {
		t.Errorf("ToDialect = %q, want %q", got, want)
	}
}

func TestToDialectChecklistGlyphs(t *testing.T) {
	doc := &notes.Document{Blocks: []notes.Block{
		{Type: notes.BlockChecklist, Text: "done", Checked: true},
		{Type: notes.BlockChecklist, Text: "todo"},
	}}

	got := ToDialect(doc)
	want := "<ul>\n<li>☑ done</li>\n<li>☐ todo</li>\n</ul>"
	if got != want {
		t.Errorf("ToDialect = %q, want %q", got, want)
	}
}

func TestToDialectEscapesMarkup(t *testing.T) {
	doc := &notes.Document{Blocks: []notes.Block{
		{Type: notes.BlockParagraph, Text: `a < b & "c"`},
	}}

	got := ToDialect(doc)
	if got != "<div>a &lt; b &amp; &#34;c&#34;</div>" {
		t.Errorf("ToDialect = %q, want escaped markup", got)
	}
}
