package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/notes"
)

// ToPortable parses dialect markup (as fetched over the automation channel)
// into a Document. Markup outside the supported subset degrades to its text
// content; embedded-object markers become typed unknown placeholders since
// the dialect carries no attachment metadata.
func ToPortable(dialect string) (*notes.Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(dialect), body)
	if err != nil {
		return nil, errors.NewInvalidRequest("unparseable dialect markup: " + err.Error())
	}

	doc := &notes.Document{}
	for _, n := range nodes {
		walkBlock(doc, n, 0)
	}

	for i := range doc.Blocks {
		markUnknownObjects(&doc.Blocks[i])
	}
	return doc, nil
}

// walkBlock dispatches one top-level node into document blocks.
func walkBlock(doc *notes.Document, n *html.Node, indent int) {
	switch {
	case n.Type == html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			appendInlineBlocks(doc, n, notes.Block{Type: notes.BlockParagraph})
		}

	case n.Type != html.ElementNode:
		// Comments, doctypes: nothing to project.

	case n.DataAtom == atom.H1 || n.DataAtom == atom.H2 || n.DataAtom == atom.H3:
		level := int(n.Data[1] - '0')
		appendInlineBlocks(doc, n, notes.Block{Type: notes.BlockHeading, Level: level})

	case n.DataAtom == atom.Ul:
		walkList(doc, n, false, indent)

	case n.DataAtom == atom.Ol:
		walkList(doc, n, true, indent)

	case n.DataAtom == atom.Div || n.DataAtom == atom.P:
		appendInlineBlocks(doc, n, notes.Block{Type: notes.BlockParagraph})

	case n.DataAtom == atom.Br:
		doc.Blocks = append(doc.Blocks, notes.Block{Type: notes.BlockParagraph})

	default:
		// Unknown container: recurse so its text is preserved.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkBlock(doc, c, indent)
		}
	}
}

// walkList projects li children, recursing into nested lists with a deeper
// indent.
func walkList(doc *notes.Document, n *html.Node, ordered bool, indent int) {
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}

		proto := notes.Block{Type: notes.BlockListItem, Ordered: ordered, Indent: indent}
		appendInlineBlocks(doc, li, proto)

		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
				walkList(doc, c, c.DataAtom == atom.Ol, indent+1)
			}
		}
	}
}

// appendInlineBlocks collects a node's inline content and appends the
// resulting block(s); <br> inside the node splits it into multiple blocks.
// List items whose text carries a checklist glyph become checklist blocks.
func appendInlineBlocks(doc *notes.Document, n *html.Node, proto notes.Block) {
	var rb runBuilder
	collectInline(n, notes.Style{}, &rb)
	text, runs := rb.finish()

	for _, part := range splitLines(text, runs) {
		block := proto
		block.Text = part.text
		block.Runs = part.runs

		if block.Type == notes.BlockListItem {
			if state, rest, ok := stripChecklistGlyph(block.Text); ok {
				block.Type = notes.BlockChecklist
				block.Checked = state
				block.Runs = trimRuns(block.Runs, len(block.Text)-len(rest))
				block.Text = rest
				block.Ordered = false
			}
		}
		doc.Blocks = append(doc.Blocks, block)
	}
}

// collectInline flattens inline markup into styled text. <br> becomes a
// newline for the caller to split on.
func collectInline(n *html.Node, style notes.Style, rb *runBuilder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			rb.add(c.Data, style)

		case html.ElementNode:
			child := style
			switch c.DataAtom {
			case atom.B, atom.Strong:
				child.Bold = true
			case atom.I, atom.Em:
				child.Italic = true
			case atom.U:
				child.Underline = true
			case atom.Strike, atom.S, atom.Del:
				child.Strikethrough = true
			case atom.Code, atom.Tt:
				child.Code = true
			case atom.A:
				for _, attr := range c.Attr {
					if attr.Key == "href" {
						child.Link = attr.Val
					}
				}
			case atom.Br:
				rb.add("\n", style)
				continue
			case atom.Ul, atom.Ol:
				// Nested lists are handled by the block walker.
				continue
			}
			collectInline(c, child, rb)
		}
	}
}

// linePart is one block's worth of text and runs after splitting on <br>.
type linePart struct {
	text string
	runs []notes.AttributeRun
}

// splitLines splits styled text on newlines, carving the run list at the
// split points.
func splitLines(text string, runs []notes.AttributeRun) []linePart {
	if !strings.Contains(text, "\n") {
		return []linePart{{text: text, runs: runs}}
	}

	var parts []linePart
	lineStart := 0
	for lineStart <= len(text) {
		idx := strings.IndexByte(text[lineStart:], '\n')
		lineEnd := len(text)
		if idx >= 0 {
			lineEnd = lineStart + idx
		}
		parts = append(parts, linePart{
			text: text[lineStart:lineEnd],
			runs: sliceRuns(runs, lineStart, lineEnd),
		})
		if idx < 0 {
			break
		}
		lineStart = lineEnd + 1
	}
	// A trailing break closes the line rather than opening an empty one.
	if n := len(parts); n > 1 && parts[n-1].text == "" {
		parts = parts[:n-1]
	}
	return parts
}

// sliceRuns extracts the runs covering [start, end) rebased to the slice.
func sliceRuns(runs []notes.AttributeRun, start, end int) []notes.AttributeRun {
	var out []notes.AttributeRun
	cursor := 0
	allPlain := true
	for _, r := range runs {
		rStart := max(cursor, start)
		rEnd := min(cursor+r.Length, end)
		cursor += r.Length
		if rStart >= rEnd {
			continue
		}
		out = append(out, notes.AttributeRun{Length: rEnd - rStart, Style: r.Style})
		if !r.Style.Zero() {
			allPlain = false
		}
	}
	if allPlain {
		return nil
	}
	return out
}

// trimRuns drops n leading bytes from a run list.
func trimRuns(runs []notes.AttributeRun, n int) []notes.AttributeRun {
	if len(runs) == 0 || n <= 0 {
		return runs
	}
	total := 0
	for _, r := range runs {
		total += r.Length
	}
	return sliceRuns(runs, n, total)
}

// stripChecklistGlyph recognizes the serialized checklist state prefix.
func stripChecklistGlyph(text string) (checked bool, rest string, ok bool) {
	if rest, found := strings.CutPrefix(text, glyphChecked+" "); found {
		return true, rest, true
	}
	if rest, found := strings.CutPrefix(text, glyphUnchecked+" "); found {
		return false, rest, true
	}
	return false, text, false
}

// markUnknownObjects attaches typed placeholders for object markers found
// in parsed text.
func markUnknownObjects(b *notes.Block) {
	marker := string(notes.ObjectMarker)
	offset := 0
	for {
		idx := strings.Index(b.Text[offset:], marker)
		if idx < 0 {
			return
		}
		abs := offset + idx
		b.Objects = append(b.Objects, notes.InlineObject{
			Offset: abs,
			Ref:    notes.ObjectRef{Kind: notes.ObjectUnknown},
		})
		offset = abs + len(marker)
	}
}
