package notes

import (
	"strings"

	"github.com/notesctl/notesctl/internal/errors"
)

// ObjectMarker is the code point standing in for an embedded object inside
// note text (U+FFFC OBJECT REPLACEMENT CHARACTER).
const ObjectMarker = '￼'

// BlockType discriminates Document blocks.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
	BlockListItem  BlockType = "list_item"
	BlockChecklist BlockType = "checklist_item"
	BlockTable     BlockType = "table"
	BlockObject    BlockType = "object"
)

// ObjectKind classifies the target of an embedded-object reference.
type ObjectKind string

const (
	ObjectAttachment ObjectKind = "attachment"
	ObjectURL        ObjectKind = "url"
	ObjectTable      ObjectKind = "table"
	ObjectUnknown    ObjectKind = "unknown"
)

// ObjectRef is a resolved (or deliberately unresolved) embedded object.
// Unresolvable references are preserved as ObjectUnknown placeholders,
// never dropped.
type ObjectRef struct {
	Kind       ObjectKind `json:"kind"`
	Identifier string     `json:"identifier,omitempty"`
	UTI        string     `json:"uti,omitempty"`
	URL        string     `json:"url,omitempty"`
}

// InlineObject anchors an ObjectRef at a byte offset within a block's text,
// at the position of an ObjectMarker.
type InlineObject struct {
	Offset int       `json:"offset"`
	Ref    ObjectRef `json:"ref"`
}

// Style is the style descriptor carried by an attribute run.
type Style struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Link          string `json:"link,omitempty"`
}

// Zero reports whether the style carries no formatting at all.
func (s Style) Zero() bool {
	return s == Style{}
}

// AttributeRun tags Length bytes of a block's text with a style. Runs are
// ordered, non-overlapping, and must cover the full text length.
type AttributeRun struct {
	Length int   `json:"length"`
	Style  Style `json:"style"`
}

// Block is one element of a Document's ordered block sequence.
type Block struct {
	Type BlockType `json:"type"`

	// Text is the block's raw text, without a trailing newline.
	Text string `json:"text"`

	// Runs covers Text; empty means one implicit unstyled run.
	Runs []AttributeRun `json:"runs,omitempty"`

	// Objects anchors embedded-object references inside Text.
	Objects []InlineObject `json:"objects,omitempty"`

	Level   int  `json:"level,omitempty"`   // heading level 1..3
	Ordered bool `json:"ordered,omitempty"` // list item numbering
	Indent  int  `json:"indent,omitempty"`  // list nesting depth
	Checked bool `json:"checked,omitempty"` // checklist state; authoritative data, round-trips exactly

	// Partial marks a block that degraded from a richer structure the
	// decoder did not fully recognize.
	Partial bool `json:"partial,omitempty"`
}

// Document is an ordered sequence of blocks.
type Document struct {
	Blocks []Block `json:"blocks"`

	// Partial marks a document containing degraded blocks or produced as a
	// placeholder for undecodable content.
	Partial bool `json:"partial,omitempty"`
}

// Validate checks the attribute-run invariant on every block: run lengths
// are positive and sum to the byte length of the block text.
func (d *Document) Validate() error {
	for _, b := range d.Blocks {
		if len(b.Runs) == 0 {
			continue
		}
		total := 0
		for _, r := range b.Runs {
			if r.Length < 0 {
				return errors.NewInconsistentRuns(r.Length, len(b.Text))
			}
			total += r.Length
		}
		if total != len(b.Text) {
			return errors.NewInconsistentRuns(total, len(b.Text))
		}
	}
	return nil
}

// PlainText renders the document as plain text, one line per block, with
// object markers intact. Used for search and snippets.
func (d *Document) PlainText() string {
	lines := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		lines[i] = b.Text
	}
	return strings.Join(lines, "\n")
}

// Placeholder builds the document substituted for undecodable content. The
// caller degrades to it instead of failing a whole listing.
func Placeholder(reason string) *Document {
	return &Document{
		Blocks: []Block{{
			Type:    BlockParagraph,
			Text:    "[unreadable note content: " + reason + "]",
			Partial: true,
		}},
		Partial: true,
	}
}

// FromPlainText builds a single-paragraph-per-line document with no styling.
func FromPlainText(text string) *Document {
	var doc Document
	for _, line := range strings.Split(text, "\n") {
		doc.Blocks = append(doc.Blocks, Block{Type: BlockParagraph, Text: line})
	}
	return &doc
}
