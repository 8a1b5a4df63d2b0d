package ops

import (
	"github.com/notesctl/notesctl/internal/markup"
	"github.com/notesctl/notesctl/internal/notes"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	Identifier      string
	IncludeMarkdown bool
}

// GetOutput contains the result of the Get operation. ModifiedRaw inside
// the note is the concurrency token callers pass back on writes.
type GetOutput struct {
	notes.Note
	Markdown string `json:"markdown,omitempty"`
}

// Get retrieves one note by its stable identifier, body decoded into the
// portable document model. A note whose body cannot be decoded still
// returns, with a placeholder document and the decode failure attached.
func Get(env *Env, input GetInput) (*GetOutput, error) {
	identifier, err := requireIdentifier(input.Identifier)
	if err != nil {
		return nil, err
	}

	note, err := env.Reader.GetNote(identifier)
	if err != nil {
		return nil, err
	}

	out := &GetOutput{Note: *note}
	if input.IncludeMarkdown && note.Document != nil {
		out.Markdown = markup.ToMarkdown(note.Document)
	}
	return out, nil
}
