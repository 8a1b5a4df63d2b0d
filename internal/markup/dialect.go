// Package markup converts between the portable document model and the two
// textual representations the engine speaks: the host application's
// restricted HTML dialect (the automation channel's body format) and
// markdown (the surface format for callers).
//
// The dialect is a narrow subset: block containers (<div>, <h1>–<h3>,
// <ul>/<ol>/<li>), inline style tags instead of stylesheet classes, and the
// object replacement character standing in for embedded objects. Stylesheets
// are ignored by the host renderer, so styling must be tag-per-run.
package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/notesctl/notesctl/internal/notes"
)

// Checklist state glyphs. The automation interface cannot create native
// checklist items, so state is serialized into the item text where it
// survives a round trip exactly.
const (
	glyphChecked   = "☑" // ☑
	glyphUnchecked = "☐" // ☐
)

// ToDialect renders a Document as dialect markup for submission over the
// automation channel. Unsupported constructs are emitted as literal text,
// never dropped.
func ToDialect(doc *notes.Document) string {
	var sb strings.Builder
	var listOpen string // "", "ul", or "ol"

	closeList := func() {
		if listOpen != "" {
			sb.WriteString("</" + listOpen + ">\n")
			listOpen = ""
		}
	}
	openList := func(tag string) {
		if listOpen != tag {
			closeList()
			sb.WriteString("<" + tag + ">\n")
			listOpen = tag
		}
	}

	for _, b := range doc.Blocks {
		switch b.Type {
		case notes.BlockHeading:
			closeList()
			level := b.Level
			if level < 1 || level > 3 {
				level = 3
			}
			fmt.Fprintf(&sb, "<h%d>%s</h%d>\n", level, inlineHTML(b), level)

		case notes.BlockListItem:
			tag := "ul"
			if b.Ordered {
				tag = "ol"
			}
			openList(tag)
			sb.WriteString("<li>" + inlineHTML(b) + "</li>\n")

		case notes.BlockChecklist:
			openList("ul")
			glyph := glyphUnchecked
			if b.Checked {
				glyph = glyphChecked
			}
			sb.WriteString("<li>" + glyph + " " + inlineHTML(b) + "</li>\n")

		default:
			// Paragraphs, degraded tables, and object blocks all render as
			// plain divs; markers and partial text pass through literally.
			closeList()
			if b.Text == "" {
				sb.WriteString("<div><br></div>\n")
			} else {
				sb.WriteString("<div>" + inlineHTML(b) + "</div>\n")
			}
		}
	}
	closeList()

	return strings.TrimSuffix(sb.String(), "\n")
}

// inlineHTML renders one block's text with per-run inline style tags.
func inlineHTML(b notes.Block) string {
	var sb strings.Builder
	for _, seg := range segments(b) {
		sb.WriteString(styledSpan(seg.text, seg.style))
	}
	return sb.String()
}

// styledSpan wraps escaped text in the dialect's inline tags. Nesting order
// is fixed so rendering is deterministic.
func styledSpan(text string, s notes.Style) string {
	out := html.EscapeString(text)
	if s.Code {
		out = "<code>" + out + "</code>"
	}
	if s.Strikethrough {
		out = "<strike>" + out + "</strike>"
	}
	if s.Underline {
		out = "<u>" + out + "</u>"
	}
	if s.Italic {
		out = "<i>" + out + "</i>"
	}
	if s.Bold {
		out = "<b>" + out + "</b>"
	}
	if s.Link != "" {
		out = `<a href="` + html.EscapeString(s.Link) + `">` + out + "</a>"
	}
	return out
}
