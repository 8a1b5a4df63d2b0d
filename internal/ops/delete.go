package ops

import (
	"context"

	"github.com/notesctl/notesctl/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	Identifier       string
	ExpectedModified float64
}

// Delete removes a note through the write path, guarded by the same
// concurrency token as updates.
func Delete(ctx context.Context, env *Env, input DeleteInput) (*IntentOutput, error) {
	identifier, err := requireIdentifier(input.Identifier)
	if err != nil {
		return nil, err
	}
	if input.ExpectedModified == 0 {
		return nil, errors.NewInvalidRequest("expected_modified token is required; read the note first")
	}
	return finishIntent(env.Writer.Delete(ctx, identifier, input.ExpectedModified))
}
