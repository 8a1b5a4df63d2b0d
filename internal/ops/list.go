package ops

import (
	"github.com/notesctl/notesctl/internal/notes"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Folder string // empty means all folders
	Limit  int    // default: 20, max: 200
	Offset int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []notes.NoteSummary `json:"items"`
	Pagination Pagination          `json:"pagination"`
	Stale      bool                `json:"stale,omitempty"`
	Sort       string              `json:"sort"`
}

// List retrieves note summaries ordered by modification time, newest first.
func List(env *Env, input ListInput) (*ListOutput, error) {
	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := max(input.Offset, 0)

	// Fetch one extra row to detect whether more remain.
	items, stale, err := env.Reader.ListNotes(input.Folder, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	if items == nil {
		items = []notes.NoteSummary{}
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
		},
		Stale: stale,
		Sort:  "modified_desc",
	}, nil
}
