package ops

import (
	"strings"

	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/notes"
)

// Search scopes.
const (
	ScopeTitle = "title"
	ScopeBody  = "body"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query string
	Scope string // "title" (default) or "body"
	Limit int    // default: 50, max: 200
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items []notes.NoteSummary `json:"items"`
	Scope string              `json:"scope"`
	Stale bool                `json:"stale,omitempty"`
}

// Search finds notes matching a case-insensitive substring query. Title
// scope is indexed and fast; body scope decodes candidate blobs and is
// bounded by the configured candidate cap.
func Search(env *Env, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query must not be empty")
	}

	scope := input.Scope
	if scope == "" {
		scope = ScopeTitle
	}
	limit := clampLimit(input.Limit, defaultSearchLimit(env), MaxSearchCap)

	var (
		items []notes.NoteSummary
		stale bool
		err   error
	)
	switch scope {
	case ScopeTitle:
		items, stale, err = env.Reader.SearchTitles(query, limit)
	case ScopeBody:
		items, stale, err = env.Reader.SearchBodies(query, limit, bodySearchCap(env))
	default:
		return nil, errors.NewInvalidRequest("scope must be \"title\" or \"body\"")
	}
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []notes.NoteSummary{}
	}
	return &SearchOutput{Items: items, Scope: scope, Stale: stale}, nil
}

func defaultSearchLimit(env *Env) int {
	if env.Config != nil && env.Config.SearchLimit > 0 {
		return env.Config.SearchLimit
	}
	return DefaultSearchCap
}

func bodySearchCap(env *Env) int {
	if env.Config != nil && env.Config.BodySearchCap > 0 {
		return env.Config.BodySearchCap
	}
	return 0 // store default
}
