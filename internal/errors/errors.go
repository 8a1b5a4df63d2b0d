package errors

import "fmt"

// ErrorCode classifies a notesctl error.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"          // 404
	ErrConflicted       ErrorCode = "CONFLICTED"         // 409 optimistic-concurrency violation
	ErrMalformedBlob    ErrorCode = "MALFORMED_BLOB"     // 422 undecodable note content
	ErrInconsistentRuns ErrorCode = "INCONSISTENT_RUNS"  // 422 attribute runs do not cover the text
	ErrSchemaDrift      ErrorCode = "SCHEMA_DRIFT"       // 422 unexpected snapshot layout
	ErrStaleRead        ErrorCode = "STALE_READ"         // 503 advisory, partial result
	ErrChannelTimeout   ErrorCode = "CHANNEL_TIMEOUT"    // 504 automation call exceeded its deadline
	ErrChannelRejected  ErrorCode = "CHANNEL_REJECTED"   // 502 automation command failed
	ErrPermissionDenied ErrorCode = "PERMISSION_DENIED"  // 403 automation consent not granted
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// NotesError is a structured error with code, status, and details.
// Every error crossing a package boundary in this engine carries a code so
// callers can render actionable guidance (e.g. "grant automation permission"
// vs "the note changed underneath you").
type NotesError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *NotesError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid parameters.
func NewInvalidRequest(msg string) *NotesError {
	return &NotesError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a note that cannot be found.
func NewNotFound(identifier string) *NotesError {
	return &NotesError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("note not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflicted creates a 409 error for a write whose concurrency token no
// longer matches the stored modification timestamp. Never auto-merged: this
// engine has no CRDT-merge authority.
func NewConflicted(identifier string, expected, actual float64) *NotesError {
	return &NotesError{
		Code:    ErrConflicted,
		Status:  409,
		Message: fmt.Sprintf("note %s changed since it was read", identifier),
		Details: map[string]any{
			"identifier":        identifier,
			"expected_modified": expected,
			"actual_modified":   actual,
		},
	}
}

// NewMalformedBlob creates a 422 error for content that cannot be decoded.
// Offset is the byte position where decoding failed (-1 if unknown).
func NewMalformedBlob(offset int, msg string) *NotesError {
	return &NotesError{
		Code:    ErrMalformedBlob,
		Status:  422,
		Message: msg,
		Details: map[string]any{"offset": offset},
	}
}

// NewInconsistentRuns creates a 422 error for attribute runs whose lengths
// do not sum to the text length.
func NewInconsistentRuns(runTotal, textLen int) *NotesError {
	return &NotesError{
		Code:    ErrInconsistentRuns,
		Status:  422,
		Message: fmt.Sprintf("attribute runs cover %d bytes of %d-byte text", runTotal, textLen),
		Details: map[string]any{"run_total": runTotal, "text_length": textLen},
	}
}

// NewSchemaDrift creates a 422 error for a snapshot whose layout is missing
// expected columns. Reads degrade rather than crash on this.
func NewSchemaDrift(missing []string) *NotesError {
	return &NotesError{
		Code:    ErrSchemaDrift,
		Status:  422,
		Message: fmt.Sprintf("snapshot schema missing expected columns: %v", missing),
		Details: map[string]any{"missing_columns": missing},
	}
}

// NewStaleRead creates an advisory error for a query that observed the
// snapshot mid-write after its single retry.
func NewStaleRead(msg string) *NotesError {
	return &NotesError{
		Code:    ErrStaleRead,
		Status:  503,
		Message: msg,
	}
}

// NewChannelTimeout creates a 504 error for an automation call that exceeded
// its deadline. Not retried automatically: the command may already have been
// applied, and duplication is worse than a reported failure.
func NewChannelTimeout(timeoutMS int64) *NotesError {
	return &NotesError{
		Code:    ErrChannelTimeout,
		Status:  504,
		Message: fmt.Sprintf("automation call exceeded %dms deadline", timeoutMS),
		Details: map[string]any{"timeout_ms": timeoutMS},
	}
}

// NewChannelRejected creates a 502 error for a failed automation command.
func NewChannelRejected(stderr string) *NotesError {
	return &NotesError{
		Code:    ErrChannelRejected,
		Status:  502,
		Message: "automation command failed",
		Details: map[string]any{"stderr": stderr},
	}
}

// NewPermissionDenied creates a 403 error for an automation call refused by
// the OS consent system. Surfaced distinctly from other rejections because
// resolving it requires user action outside this engine.
func NewPermissionDenied() *NotesError {
	return &NotesError{
		Code:    ErrPermissionDenied,
		Status:  403,
		Message: "automation access denied; grant permission in System Settings > Privacy & Security > Automation",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *NotesError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &NotesError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a NotesError with the given code.
func Is(err error, code ErrorCode) bool {
	if nErr, ok := err.(*NotesError); ok {
		return nErr.Code == code
	}
	return false
}
