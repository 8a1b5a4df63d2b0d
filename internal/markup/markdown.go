package markup

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/notesctl/notesctl/internal/notes"
)

var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.TaskList),
)

// FromMarkdown parses markdown into a Document covering the constructs the
// dialect can express. Unsupported constructs keep their text content.
func FromMarkdown(src string) *notes.Document {
	source := []byte(src)
	root := mdParser.Parser().Parse(text.NewReader(source))

	doc := &notes.Document{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		mdBlock(doc, n, source, 0)
	}
	return doc
}

func mdBlock(doc *notes.Document, n ast.Node, source []byte, indent int) {
	switch v := n.(type) {
	case *ast.Heading:
		level := v.Level
		if level > 3 {
			level = 3
		}
		appendMDBlocks(doc, n, source, notes.Block{Type: notes.BlockHeading, Level: level})

	case *ast.List:
		mdList(doc, v, source, indent)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimRight(string(seg.Value(source)), "\n")
			doc.Blocks = append(doc.Blocks, notes.Block{
				Type: notes.BlockParagraph,
				Text: line,
				Runs: []notes.AttributeRun{{Length: len(line), Style: notes.Style{Code: true}}},
			})
		}

	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			mdBlock(doc, c, source, indent)
		}

	case *ast.ThematicBreak:
		doc.Blocks = append(doc.Blocks, notes.Block{Type: notes.BlockParagraph})

	default:
		appendMDBlocks(doc, n, source, notes.Block{Type: notes.BlockParagraph})
	}
}

func mdList(doc *notes.Document, list *ast.List, source []byte, indent int) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		proto := notes.Block{Type: notes.BlockListItem, Ordered: list.IsOrdered(), Indent: indent}
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch cv := c.(type) {
			case *ast.List:
				mdList(doc, cv, source, indent+1)
			default:
				checked, isTask := taskState(c)
				block := proto
				if isTask {
					block.Type = notes.BlockChecklist
					block.Checked = checked
					block.Ordered = false
				}
				appendMDBlocks(doc, c, source, block)
			}
		}
	}
}

// taskState reports whether a list item body starts with a task checkbox.
func taskState(n ast.Node) (checked, ok bool) {
	if box, isBox := n.FirstChild().(*extast.TaskCheckBox); isBox {
		return box.IsChecked, true
	}
	return false, false
}

func appendMDBlocks(doc *notes.Document, n ast.Node, source []byte, proto notes.Block) {
	var rb runBuilder
	mdInline(n, source, notes.Style{}, &rb)
	txt, runs := rb.finish()
	// Task checkboxes leave a leading space on the item text.
	if strings.HasPrefix(txt, " ") {
		runs = trimRuns(runs, 1)
		txt = txt[1:]
	}

	for _, part := range splitLines(txt, runs) {
		block := proto
		block.Text = part.text
		block.Runs = part.runs
		doc.Blocks = append(doc.Blocks, block)
	}
}

func mdInline(n ast.Node, source []byte, style notes.Style, rb *runBuilder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			rb.add(string(v.Segment.Value(source)), style)
			if v.HardLineBreak() {
				rb.add("\n", style)
			} else if v.SoftLineBreak() {
				rb.add(" ", style)
			}

		case *ast.String:
			rb.add(string(v.Value), style)

		case *ast.Emphasis:
			child := style
			if v.Level >= 2 {
				child.Bold = true
			} else {
				child.Italic = true
			}
			mdInline(c, source, child, rb)

		case *extast.Strikethrough:
			child := style
			child.Strikethrough = true
			mdInline(c, source, child, rb)

		case *ast.CodeSpan:
			child := style
			child.Code = true
			mdInline(c, source, child, rb)

		case *ast.Link:
			child := style
			child.Link = string(v.Destination)
			mdInline(c, source, child, rb)

		case *ast.AutoLink:
			url := string(v.URL(source))
			linked := style
			linked.Link = url
			rb.add(url, linked)

		case *extast.TaskCheckBox:
			// Consumed by the list walker.

		default:
			mdInline(c, source, style, rb)
		}
	}
}

// ToMarkdown renders a Document as markdown for display. Object markers
// become typed inline placeholders.
func ToMarkdown(doc *notes.Document) string {
	var sb strings.Builder
	prevList := false
	for i, b := range doc.Blocks {
		isList := b.Type == notes.BlockListItem || b.Type == notes.BlockChecklist
		if i > 0 {
			if isList && prevList {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		prevList = isList

		switch b.Type {
		case notes.BlockHeading:
			level := b.Level
			if level < 1 {
				level = 1
			}
			sb.WriteString(strings.Repeat("#", level) + " " + mdInlineText(b))

		case notes.BlockListItem:
			sb.WriteString(strings.Repeat("  ", b.Indent))
			if b.Ordered {
				sb.WriteString("1. ")
			} else {
				sb.WriteString("- ")
			}
			sb.WriteString(mdInlineText(b))

		case notes.BlockChecklist:
			sb.WriteString(strings.Repeat("  ", b.Indent))
			if b.Checked {
				sb.WriteString("- [x] ")
			} else {
				sb.WriteString("- [ ] ")
			}
			sb.WriteString(mdInlineText(b))

		case notes.BlockTable:
			sb.WriteString("[table]")

		default:
			sb.WriteString(mdInlineText(b))
		}
	}
	return sb.String()
}

// mdInlineText renders one block's styled text, substituting placeholders
// for object markers.
func mdInlineText(b notes.Block) string {
	var sb strings.Builder
	for _, seg := range segments(b) {
		sb.WriteString(styledMarkdown(seg.text, seg.style))
	}
	return substituteMarkers(sb.String(), b.Objects)
}

func styledMarkdown(txt string, style notes.Style) string {
	if txt == "" {
		return ""
	}
	if style.Code {
		txt = "`" + txt + "`"
	}
	if style.Strikethrough {
		txt = "~~" + txt + "~~"
	}
	if style.Bold && style.Italic {
		txt = "***" + txt + "***"
	} else if style.Bold {
		txt = "**" + txt + "**"
	} else if style.Italic {
		txt = "*" + txt + "*"
	}
	if style.Link != "" {
		txt = "[" + txt + "](" + style.Link + ")"
	}
	return txt
}

// substituteMarkers replaces object markers in order with readable
// placeholders describing the referenced object.
func substituteMarkers(txt string, objects []notes.InlineObject) string {
	marker := string(notes.ObjectMarker)
	if !strings.Contains(txt, marker) {
		return txt
	}
	i := 0
	return replaceEach(txt, marker, func() string {
		var ref notes.ObjectRef
		if i < len(objects) {
			ref = objects[i].Ref
		} else {
			ref = notes.ObjectRef{Kind: notes.ObjectUnknown}
		}
		i++
		return placeholderFor(ref)
	})
}

func replaceEach(txt, marker string, next func() string) string {
	var sb strings.Builder
	for {
		idx := strings.Index(txt, marker)
		if idx < 0 {
			sb.WriteString(txt)
			return sb.String()
		}
		sb.WriteString(txt[:idx])
		sb.WriteString(next())
		txt = txt[idx+len(marker):]
	}
}

func placeholderFor(ref notes.ObjectRef) string {
	switch ref.Kind {
	case notes.ObjectURL:
		if ref.URL != "" {
			return fmt.Sprintf("[link: %s]", ref.URL)
		}
		return "[link]"
	case notes.ObjectTable:
		return "[table]"
	case notes.ObjectAttachment:
		if ref.Identifier != "" {
			return fmt.Sprintf("[attachment: %s]", ref.Identifier)
		}
		return "[attachment]"
	default:
		return "[object]"
	}
}
