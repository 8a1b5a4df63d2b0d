package ops

import (
	"strings"

	"github.com/notesctl/notesctl/internal/config"
	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/mediator"
	"github.com/notesctl/notesctl/internal/store"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
	DefaultSearchCap = 50
	MaxSearchCap     = 200
)

// Env bundles the read and write surfaces every operation works against.
type Env struct {
	Reader *store.Reader
	Writer *mediator.Mediator
	Config *config.Config
}

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// IntentOutput describes the outcome of one write operation.
type IntentOutput struct {
	IntentID string `json:"intent_id"`
	Kind     string `json:"kind"`
	State    string `json:"state"`
	Title    string `json:"title,omitempty"`
	Folder   string `json:"folder,omitempty"`
	Result   string `json:"result,omitempty"`
}

// finishIntent maps a terminal intent to an operation result. Conflicted
// and rejected intents surface as their underlying taxonomy error.
func finishIntent(in *mediator.Intent) (*IntentOutput, error) {
	if in.Err != nil {
		return nil, in.Err
	}
	return &IntentOutput{
		IntentID: in.ID,
		Kind:     string(in.Kind),
		State:    string(in.State),
		Title:    in.Title,
		Folder:   in.Folder,
		Result:   in.Result,
	}, nil
}

// requireIdentifier validates the stable-identifier parameter shared by
// every targeted operation.
func requireIdentifier(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", errors.NewInvalidRequest("identifier must not be empty")
	}
	return identifier, nil
}

// clampLimit applies the default and ceiling for one pagination knob.
func clampLimit(limit, def, ceil int) int {
	if limit <= 0 {
		return def
	}
	if limit > ceil {
		return ceil
	}
	return limit
}
