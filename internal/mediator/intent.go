// Package mediator owns the write path. Every mutation is modeled as an
// Intent that moves through an explicit lifecycle; a snapshot read pins the
// target and checks the caller's concurrency token before any automation
// command is submitted. A conflicted intent never reaches the channel.
package mediator

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/notesctl/notesctl/internal/notes"
)

// IntentKind names the mutation an intent carries.
type IntentKind string

const (
	KindCreate IntentKind = "create"
	KindUpdate IntentKind = "update"
	KindAppend IntentKind = "append"
	KindDelete IntentKind = "delete"
)

// IntentState is one step of the intent lifecycle. Terminal states are
// Acknowledged, Rejected, and Conflicted.
type IntentState string

const (
	StateDrafted      IntentState = "drafted"
	StateValidated    IntentState = "validated"
	StateSubmitted    IntentState = "submitted"
	StateAcknowledged IntentState = "acknowledged"
	StateRejected     IntentState = "rejected"
	StateConflicted   IntentState = "conflicted"
)

// Intent is one mutation moving through the write path.
type Intent struct {
	ID      string
	Kind    IntentKind
	State   IntentState
	Created time.Time

	// Target identity: the stable identifier the caller named and the
	// title the pre-write snapshot read resolved it to.
	Identifier string
	Title      string
	Folder     string

	// ExpectedModified is the concurrency token from the caller's last
	// read, compared exactly against the stored timestamp.
	ExpectedModified float64

	Body *notes.Document

	// Result is channel stdout for acknowledged intents (the new note's
	// object reference for creates).
	Result string
	Err    error
}

func newIntent(kind IntentKind) *Intent {
	return &Intent{
		ID:      ulid.Make().String(),
		Kind:    kind,
		State:   StateDrafted,
		Created: time.Now().UTC(),
	}
}

func (in *Intent) validated() *Intent {
	in.State = StateValidated
	return in
}

func (in *Intent) submitted() *Intent {
	in.State = StateSubmitted
	return in
}

func (in *Intent) acknowledged(result string) *Intent {
	in.State = StateAcknowledged
	in.Result = result
	return in
}

func (in *Intent) rejected(err error) *Intent {
	in.State = StateRejected
	in.Err = err
	return in
}

func (in *Intent) conflicted(err error) *Intent {
	in.State = StateConflicted
	in.Err = err
	return in
}

// Terminal reports whether the intent has finished its lifecycle.
func (in *Intent) Terminal() bool {
	switch in.State {
	case StateAcknowledged, StateRejected, StateConflicted:
		return true
	}
	return false
}
