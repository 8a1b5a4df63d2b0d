package ops

import (
	"context"
	"strings"

	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/notes"
)

// FoldersInput contains parameters for the Folders operation.
type FoldersInput struct{}

// FoldersOutput contains the result of the Folders operation.
type FoldersOutput struct {
	Items []notes.Folder `json:"items"`
}

// Folders enumerates the folders present in the snapshot.
func Folders(env *Env, _ FoldersInput) (*FoldersOutput, error) {
	items, err := env.Reader.ListFolders()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []notes.Folder{}
	}
	return &FoldersOutput{Items: items}, nil
}

// CreateFolderInput contains parameters for the CreateFolder operation.
type CreateFolderInput struct {
	Name string
}

// CreateFolder makes a new top-level folder through the write path.
func CreateFolder(ctx context.Context, env *Env, input CreateFolderInput) (*IntentOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.NewInvalidRequest("folder name must not be empty")
	}
	return finishIntent(env.Writer.CreateFolder(ctx, input.Name))
}
