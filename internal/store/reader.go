// Package store implements read-only access to the local relational
// snapshot of the note store. The snapshot is owned by another process and
// its sync daemon; this engine never opens it writable, takes no locks, and
// treats every query result as a point-in-time projection, not state.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/notesctl/notesctl/internal/errors"
)

// DefaultPath is the snapshot location under the user's home directory.
const DefaultPath = "Library/Group Containers/group.com.apple.notes/NoteStore.sqlite"

// Reader is a read-only handle on the snapshot.
type Reader struct {
	db     *sql.DB
	schema *schemaInfo
}

// Open opens the snapshot read-only and probes its layout. The owning
// application may be appending concurrently; busy_timeout bounds how long a
// single statement waits before the retry policy takes over.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("note snapshot not found at %s", path))
	}

	dsn := "file:" + path + "?mode=ro&_pragma=busy_timeout(5000)&_pragma=query_only(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	schema, err := probeSchema(db)
	if err != nil {
		db.Close()
		return nil, errors.NewInternal(err)
	}

	return &Reader{db: db, schema: schema}, nil
}

// Close releases the snapshot handle.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Drift returns the expected columns the snapshot is missing, empty when
// the layout matches expectations.
func (r *Reader) Drift() []string {
	return r.schema.missing
}

// requireCore guards queries that cannot produce anything useful when the
// core columns are gone.
func (r *Reader) requireCore() error {
	if r.schema.coreMissing() {
		return errors.NewSchemaDrift(r.schema.missing)
	}
	return nil
}

// isBusy matches the locked/busy errors the driver surfaces when the
// owning application is mid-checkpoint.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "sqlite_busy")
}

// queryRetry runs fn, retrying exactly once on a busy snapshot. The second
// failure reports stale=true so callers return a partial result annotated
// StaleRead instead of blocking indefinitely.
func queryRetry(fn func() error) (stale bool, err error) {
	err = fn()
	if !isBusy(err) {
		return false, err
	}
	err = fn()
	if isBusy(err) {
		return true, nil
	}
	return false, err
}
