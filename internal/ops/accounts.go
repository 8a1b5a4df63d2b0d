package ops

import (
	"github.com/notesctl/notesctl/internal/notes"
)

// AccountsInput contains parameters for the Accounts operation.
type AccountsInput struct{}

// AccountsOutput contains the result of the Accounts operation.
type AccountsOutput struct {
	Items []notes.Account `json:"items"`
}

// Accounts enumerates the sync accounts present in the snapshot.
func Accounts(env *Env, _ AccountsInput) (*AccountsOutput, error) {
	items, err := env.Reader.ListAccounts()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []notes.Account{}
	}
	return &AccountsOutput{Items: items}, nil
}
