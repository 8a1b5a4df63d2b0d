package markup

import (
	"strings"

	"github.com/notesctl/notesctl/internal/notes"
)

// segment is a contiguous stretch of block text under one style.
type segment struct {
	text  string
	style notes.Style
}

// segments slices a block's text by its attribute runs. A block without
// explicit runs is a single unstyled segment.
func segments(b notes.Block) []segment {
	if len(b.Runs) == 0 {
		return []segment{{text: b.Text}}
	}
	out := make([]segment, 0, len(b.Runs))
	cursor := 0
	for _, r := range b.Runs {
		end := cursor + r.Length
		if end > len(b.Text) {
			end = len(b.Text)
		}
		if end > cursor {
			out = append(out, segment{text: b.Text[cursor:end], style: r.Style})
		}
		cursor = end
	}
	return out
}

// runBuilder accumulates styled text into a block's text and runs,
// merging adjacent stretches that share a style.
type runBuilder struct {
	text strings.Builder
	runs []notes.AttributeRun
}

func (rb *runBuilder) add(text string, style notes.Style) {
	if text == "" {
		return
	}
	rb.text.WriteString(text)
	if n := len(rb.runs); n > 0 && rb.runs[n-1].Style == style {
		rb.runs[n-1].Length += len(text)
		return
	}
	rb.runs = append(rb.runs, notes.AttributeRun{Length: len(text), Style: style})
}

// finish returns the accumulated text and runs. A fully unstyled block
// carries no explicit runs, matching what the projector produces.
func (rb *runBuilder) finish() (string, []notes.AttributeRun) {
	allPlain := true
	for _, r := range rb.runs {
		if !r.Style.Zero() {
			allPlain = false
			break
		}
	}
	if allPlain {
		return rb.text.String(), nil
	}
	return rb.text.String(), rb.runs
}
