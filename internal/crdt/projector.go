// Package crdt projects the decoded message tree of a note blob into the
// portable document model. The tree embeds full CRDT merge history, but that
// history is never replayed here: the materialized current text is
// authoritative for reading, and the rest of the tree is consulted only for
// attribute ranges and embedded objects. Merging is the owning application's
// job, not ours.
package crdt

import (
	"strings"

	"github.com/notesctl/notesctl/internal/blob"
	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/notes"
)

// Field numbers read by convention from the note blob. These are observed
// values, not a published contract; anything not listed rides along opaquely
// in the blob.Message.
const (
	fieldDocument = 2 // root → document wrapper
	fieldNote     = 3 // document → note body

	fieldNoteText = 2 // note → materialized text
	fieldAttrRun  = 5 // note → repeated attribute runs

	runLength     = 1 // run → covered length
	runParaStyle  = 2 // run → paragraph style
	runFontWeight = 5 // run → 1 bold, 2 italic, 3 both
	runUnderline  = 6
	runStrike     = 7
	runLink       = 9
	runAttachment = 12 // run → attachment info

	paraStyleType = 1 // paragraph style → block style code
	paraIndent    = 4
	paraChecklist = 5

	checklistDone = 2 // checklist → checked state

	attachIdentifier = 1 // attachment info → UUID
	attachUTI        = 2 // attachment info → type identifier
)

// Paragraph style codes.
const (
	styleTitle      = 0
	styleHeading    = 1
	styleSubheading = 2
	styleMonospaced = 4
	styleDotList    = 100
	styleDashList   = 101
	styleNumberList = 102
	styleChecklist  = 103
)

// UTIs with dedicated handling. Everything else resolves as a plain
// attachment reference.
const (
	utiURL   = "public.url"
	utiTable = "com.apple.notes.table"
)

// span is an attribute run resolved to absolute byte offsets over the note
// text.
type span struct {
	start, end int
	style      notes.Style

	paraStyle int // style code, -1 when absent
	indent    int
	checked   bool
	hasCheck  bool

	attachment *notes.ObjectRef
}

// Project walks a decoded blob into a Document. Decode-level inconsistencies
// surface as typed errors; the caller substitutes a placeholder document
// rather than aborting its whole query.
func Project(msg *blob.Message) (*notes.Document, error) {
	note, ok := noteMessage(msg)
	if !ok {
		return nil, errors.NewMalformedBlob(-1, "blob does not contain a note document tree")
	}

	text, ok := note.String(fieldNoteText)
	if !ok {
		return nil, errors.NewMalformedBlob(-1, "note tree is missing its text field")
	}

	spans, err := resolveSpans(note, len(text))
	if err != nil {
		return nil, err
	}

	// Attachment references resolve by position, not ID: markers in the text
	// consume entries from this list in order. Observed format behavior, and
	// possibly version-fragile; exhaustion degrades to unknown placeholders.
	var attachments []notes.ObjectRef
	for _, sp := range spans {
		if sp.attachment != nil {
			attachments = append(attachments, *sp.attachment)
		}
	}

	return buildDocument(text, spans, attachments), nil
}

// noteMessage locates the note body inside the wrapper tree.
func noteMessage(msg *blob.Message) (*blob.Message, bool) {
	doc, ok := msg.Nested(fieldDocument)
	if !ok {
		return nil, false
	}
	return doc.Nested(fieldNote)
}

// resolveSpans accumulates the offset cursor across the run list and checks
// the coverage invariant: run lengths must sum to the text length.
func resolveSpans(note *blob.Message, textLen int) ([]span, error) {
	runs := note.NestedAll(fieldAttrRun)
	if len(runs) == 0 {
		// No runs at all: the whole text is one unstyled span.
		return []span{{start: 0, end: textLen, paraStyle: -1}}, nil
	}

	spans := make([]span, 0, len(runs))
	cursor := 0
	for _, run := range runs {
		length64, _ := run.Uint(runLength)
		length := int(length64)
		if length < 0 || cursor+length > textLen {
			return nil, errors.NewInconsistentRuns(cursor+length, textLen)
		}

		sp := span{start: cursor, end: cursor + length, paraStyle: -1}
		decorate(&sp, run)
		spans = append(spans, sp)
		cursor += length
	}

	if cursor != textLen {
		return nil, errors.NewInconsistentRuns(cursor, textLen)
	}
	return spans, nil
}

// decorate reads the style descriptor of one run.
func decorate(sp *span, run *blob.Message) {
	if weight, ok := run.Uint(runFontWeight); ok {
		sp.style.Bold = weight == 1 || weight == 3
		sp.style.Italic = weight == 2 || weight == 3
	}
	if v, ok := run.Uint(runUnderline); ok && v != 0 {
		sp.style.Underline = true
	}
	if v, ok := run.Uint(runStrike); ok && v != 0 {
		sp.style.Strikethrough = true
	}
	if link, ok := run.String(runLink); ok && link != "" {
		sp.style.Link = link
	}

	if ps, ok := run.Nested(runParaStyle); ok {
		if code, ok := ps.Uint(paraStyleType); ok {
			sp.paraStyle = int(code)
			if code == styleMonospaced {
				sp.style.Code = true
			}
		}
		if indent, ok := ps.Uint(paraIndent); ok {
			sp.indent = int(indent)
		}
		if cl, ok := ps.Nested(paraChecklist); ok {
			sp.hasCheck = true
			if done, ok := cl.Uint(checklistDone); ok && done != 0 {
				sp.checked = true
			}
		}
	}

	if ai, ok := run.Nested(runAttachment); ok {
		ref := notes.ObjectRef{Kind: notes.ObjectAttachment}
		ref.Identifier, _ = ai.String(attachIdentifier)
		ref.UTI, _ = ai.String(attachUTI)
		switch ref.UTI {
		case utiURL:
			ref.Kind = notes.ObjectURL
		case utiTable:
			ref.Kind = notes.ObjectTable
		}
		sp.attachment = &ref
	}
}

// buildDocument splits the text into line blocks, rebases attribute runs to
// block-relative offsets, and resolves object markers against the ordered
// attachment list.
func buildDocument(text string, spans []span, attachments []notes.ObjectRef) *notes.Document {
	doc := &notes.Document{}
	nextAttachment := 0

	lineStart := 0
	for lineStart <= len(text) {
		lineEnd := strings.IndexByte(text[lineStart:], '\n')
		last := lineEnd < 0
		if last {
			lineEnd = len(text)
		} else {
			lineEnd += lineStart
		}

		// The trailing empty segment after a final newline is not a block.
		if !(last && lineStart == lineEnd && lineStart > 0) {
			block := buildBlock(text[lineStart:lineEnd], lineStart, spans)
			resolveMarkers(&block, attachments, &nextAttachment)
			if block.Partial {
				doc.Partial = true
			}
			doc.Blocks = append(doc.Blocks, block)
		}

		if last {
			break
		}
		lineStart = lineEnd + 1
	}

	return doc
}

// buildBlock derives one block from a line and the spans overlapping it.
func buildBlock(line string, base int, spans []span) notes.Block {
	block := notes.Block{Type: notes.BlockParagraph, Text: line}

	lineEnd := base + len(line)
	para := -1
	for _, sp := range spans {
		// Paragraph attributes ride on runs covering the line or its
		// terminating newline, so the overlap window extends one past the
		// line text.
		if sp.end <= base || sp.start > lineEnd {
			continue
		}
		if sp.paraStyle >= 0 && para < 0 {
			para = sp.paraStyle
			block.Indent = sp.indent
			if sp.hasCheck {
				block.Checked = sp.checked
			}
		}

		// Rebase the styled range onto the line.
		start := max(sp.start-base, 0)
		end := min(sp.end-base, len(line))
		if start >= end {
			continue
		}
		block.Runs = append(block.Runs, notes.AttributeRun{Length: end - start, Style: sp.style})
	}

	block.Runs = fillRuns(block.Runs, len(line))

	switch para {
	case styleTitle:
		block.Type = notes.BlockHeading
		block.Level = 1
	case styleHeading:
		block.Type = notes.BlockHeading
		block.Level = 2
	case styleSubheading:
		block.Type = notes.BlockHeading
		block.Level = 3
	case styleDotList, styleDashList:
		block.Type = notes.BlockListItem
	case styleNumberList:
		block.Type = notes.BlockListItem
		block.Ordered = true
	case styleChecklist:
		block.Type = notes.BlockChecklist
	}

	return block
}

// fillRuns guarantees the runs cover the whole line. Rebasing can leave a
// gap at either edge when a span covered only the newline; the gap becomes
// an unstyled run.
func fillRuns(runs []notes.AttributeRun, lineLen int) []notes.AttributeRun {
	total := 0
	allPlain := true
	for _, r := range runs {
		total += r.Length
		if !r.Style.Zero() {
			allPlain = false
		}
	}
	if total < lineLen {
		runs = append(runs, notes.AttributeRun{Length: lineLen - total})
	}
	if allPlain {
		// A fully unstyled line carries no explicit runs.
		return nil
	}
	return runs
}

// resolveMarkers scans a block for object markers and consumes the next
// attachment for each, in order. When the list is exhausted the marker
// resolves to an unknown-object placeholder instead of failing.
func resolveMarkers(block *notes.Block, attachments []notes.ObjectRef, next *int) {
	marker := string(notes.ObjectMarker)
	offset := 0
	rest := block.Text
	for {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			break
		}
		abs := offset + idx

		ref := notes.ObjectRef{Kind: notes.ObjectUnknown}
		if *next < len(attachments) {
			ref = attachments[*next]
			*next++
		} else {
			block.Partial = true
		}
		block.Objects = append(block.Objects, notes.InlineObject{Offset: abs, Ref: ref})

		// A lone table marker becomes a table block; full table fidelity is
		// not decoded, so the block stays flagged partial.
		if ref.Kind == notes.ObjectTable && strings.TrimSpace(block.Text) == marker {
			block.Type = notes.BlockTable
			block.Partial = true
		}

		offset = abs + len(marker)
		rest = block.Text[offset:]
	}
}
