package ops

import (
	"context"
	"strings"

	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/markup"
)

// AppendInput contains parameters for the Append operation.
type AppendInput struct {
	Identifier       string
	Body             string // markdown, added after the existing content
	ExpectedModified float64
}

// Append adds content to the end of a note through the write path.
func Append(ctx context.Context, env *Env, input AppendInput) (*IntentOutput, error) {
	identifier, err := requireIdentifier(input.Identifier)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, errors.NewInvalidRequest("body must not be empty")
	}
	if input.ExpectedModified == 0 {
		return nil, errors.NewInvalidRequest("expected_modified token is required; read the note first")
	}

	doc := markup.FromMarkdown(input.Body)
	return finishIntent(env.Writer.Append(ctx, identifier, doc, input.ExpectedModified))
}
