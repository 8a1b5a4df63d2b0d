package ops

import (
	"context"
	"strings"

	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/markup"
)

// CreateInput contains parameters for the Create operation. Body is
// markdown; it is parsed into the document model before submission.
type CreateInput struct {
	Title  string
	Body   string
	Folder string // empty means the configured default
}

// Create makes a new note through the write path.
func Create(ctx context.Context, env *Env, input CreateInput) (*IntentOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title must not be empty")
	}

	folder := input.Folder
	if folder == "" && env.Config != nil {
		folder = env.Config.DefaultFolder
	}

	doc := markup.FromMarkdown(input.Body)
	return finishIntent(env.Writer.Create(ctx, title, doc, folder))
}
