package notes

import "time"

// appleEpoch is the Core Data reference date. Timestamps in the snapshot are
// stored as seconds (REAL) since this instant.
var appleEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// FromAppleTime converts a Core Data timestamp to a time.Time.
// A zero or negative value maps to the zero time.
func FromAppleTime(sec float64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return appleEpoch.Add(time.Duration(sec * float64(time.Second)))
}

// ToAppleTime converts a time.Time to a Core Data timestamp.
func ToAppleTime(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return t.Sub(appleEpoch).Seconds()
}

// Account is an identity at the root of a containment tree. Accounts are
// enumerated read-only and treated as immutable within a session.
type Account struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// Folder belongs to exactly one account. Folder titles are not unique across
// accounts; disambiguation needs (account, title) or the opaque identifier.
type Folder struct {
	ID         int64  `json:"id"`
	Identifier string `json:"identifier,omitempty"`
	Title      string `json:"title"`
	Account    string `json:"account,omitempty"`
}

// NoteSummary is the metadata row for a note, without its body.
//
// Identifier is the opaque persistent ID (stable across renames, globally
// unique). ModifiedRaw is the stored Core Data timestamp verbatim; it is the
// optimistic-concurrency token for the write path and must be passed back
// unmodified, so it is carried alongside the converted time.
type NoteSummary struct {
	ID          int64     `json:"id"`
	Identifier  string    `json:"identifier"`
	Title       string    `json:"title"`
	Folder      string    `json:"folder,omitempty"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	ModifiedRaw float64   `json:"modified_raw"`

	// Stale marks a row observed mid-write after the single read retry.
	Stale bool `json:"stale,omitempty"`
}

// Note is a summary plus its decoded body. The body is a read-only snapshot
// materialized at query time; it is never the source of truth.
type Note struct {
	NoteSummary
	Document *Document `json:"document,omitempty"`

	// DecodeError is set when the content blob could not be decoded and
	// Document holds a placeholder instead of the real body.
	DecodeError string `json:"decode_error,omitempty"`
}
