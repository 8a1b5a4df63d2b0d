package ops

import (
	"context"

	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/markup"
)

// UpdateInput contains parameters for the Update operation.
// ExpectedModified is the concurrency token from the caller's last read of
// the note; the write terminates conflicted if the note changed since.
type UpdateInput struct {
	Identifier       string
	Body             string // markdown, replaces the whole body
	ExpectedModified float64
}

// Update replaces a note's body through the write path.
func Update(ctx context.Context, env *Env, input UpdateInput) (*IntentOutput, error) {
	identifier, err := requireIdentifier(input.Identifier)
	if err != nil {
		return nil, err
	}
	if input.ExpectedModified == 0 {
		return nil, errors.NewInvalidRequest("expected_modified token is required; read the note first")
	}

	doc := markup.FromMarkdown(input.Body)
	return finishIntent(env.Writer.Update(ctx, identifier, doc, input.ExpectedModified))
}
