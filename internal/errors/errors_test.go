package errors

import (
	"fmt"
	"testing"
)

func TestNotesError_Error(t *testing.T) {
	err := &NotesError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "note not found",
	}

	expected := "NOT_FOUND: note not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("ABC-123")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "ABC-123" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "ABC-123")
	}
}

func TestNewConflicted(t *testing.T) {
	err := NewConflicted("ABC-123", 100.5, 200.75)

	if err.Code != ErrConflicted {
		t.Errorf("Code = %q, want %q", err.Code, ErrConflicted)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["expected_modified"] != 100.5 {
		t.Errorf("Details[expected_modified] = %v, want 100.5", err.Details["expected_modified"])
	}
	if err.Details["actual_modified"] != 200.75 {
		t.Errorf("Details[actual_modified] = %v, want 200.75", err.Details["actual_modified"])
	}
}

func TestNewMalformedBlob(t *testing.T) {
	err := NewMalformedBlob(42, "invalid varint")

	if err.Code != ErrMalformedBlob {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedBlob)
	}
	if err.Details["offset"] != 42 {
		t.Errorf("Details[offset] = %v, want 42", err.Details["offset"])
	}
}

func TestNewInconsistentRuns(t *testing.T) {
	err := NewInconsistentRuns(10, 12)

	if err.Code != ErrInconsistentRuns {
		t.Errorf("Code = %q, want %q", err.Code, ErrInconsistentRuns)
	}
	if err.Details["run_total"] != 10 {
		t.Errorf("Details[run_total] = %v, want 10", err.Details["run_total"])
	}
	if err.Details["text_length"] != 12 {
		t.Errorf("Details[text_length] = %v, want 12", err.Details["text_length"])
	}
}

func TestNewSchemaDrift(t *testing.T) {
	err := NewSchemaDrift([]string{"ZTITLE1", "ZMODIFICATIONDATE"})

	if err.Code != ErrSchemaDrift {
		t.Errorf("Code = %q, want %q", err.Code, ErrSchemaDrift)
	}
	missing, ok := err.Details["missing_columns"].([]string)
	if !ok || len(missing) != 2 {
		t.Errorf("Details[missing_columns] = %v, want two columns", err.Details["missing_columns"])
	}
}

func TestNewChannelTimeout(t *testing.T) {
	err := NewChannelTimeout(15000)

	if err.Code != ErrChannelTimeout {
		t.Errorf("Code = %q, want %q", err.Code, ErrChannelTimeout)
	}
	if err.Details["timeout_ms"] != int64(15000) {
		t.Errorf("Details[timeout_ms] = %v, want 15000", err.Details["timeout_ms"])
	}
}

func TestNewPermissionDenied(t *testing.T) {
	err := NewPermissionDenied()

	if err.Code != ErrPermissionDenied {
		t.Errorf("Code = %q, want %q", err.Code, ErrPermissionDenied)
	}
	if err.Status != 403 {
		t.Errorf("Status = %d, want 403", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}

	nilErr := NewInternal(nil)
	if nilErr.Message != "internal error" {
		t.Errorf("Message = %q, want %q", nilErr.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("X")

	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrConflicted) {
		t.Error("Is(err, ErrConflicted) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is(plain error, ErrNotFound) = true, want false")
	}
	if Is(nil, ErrNotFound) {
		t.Error("Is(nil, ErrNotFound) = true, want false")
	}
}
