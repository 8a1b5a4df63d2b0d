package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/notesctl/notesctl/internal/blob"
	"github.com/notesctl/notesctl/internal/crdt"
	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/notes"
)

// DefaultBodySearchCap bounds how many candidate blobs a body search will
// decode. Body search is explicitly the slow path.
const DefaultBodySearchCap = 500

// summarySelect builds the projection shared by listings and searches.
// extra adds columns to the select list (", nd.ZDATA"); joins adds join
// clauses after the folder join. Either may be empty.
func (r *Reader) summarySelect(extra, joins string) string {
	return fmt.Sprintf(`
		SELECT n.%s, n.%s, %s, %s, %s, %s%s
		FROM %s n
		LEFT JOIN %s f ON n.%s = f.%s%s`,
		colPK, colIdentifier,
		r.schema.titleExpr(),
		r.schema.col("n", colCreated),
		r.schema.col("n", colModified),
		folderTitleExpr(r.schema),
		extra,
		tableSyncObject, tableSyncObject, colFolder, colPK,
		joins,
	)
}

// noteDataJoin attaches the content-blob table.
func noteDataJoin() string {
	return fmt.Sprintf(" LEFT JOIN %s nd ON n.%s = nd.%s", tableNoteData, colNoteData, colPK)
}

// folderTitleExpr projects the joined folder's title, NULL under drift.
func folderTitleExpr(s *schemaInfo) string {
	if s.syncCols[colFolderTitle] {
		return "f." + colFolderTitle
	}
	return "NULL"
}

// noteFilter restricts rows to live notes.
func (r *Reader) noteFilter() string {
	cond := fmt.Sprintf("n.%s IS NOT NULL", colNoteData)
	if r.schema.syncCols[colDeleted] {
		cond += fmt.Sprintf(" AND n.%s = 0", colDeleted)
	}
	return cond
}

func (r *Reader) orderByModified() string {
	if r.schema.syncCols[colModified] {
		return fmt.Sprintf(" ORDER BY n.%s DESC", colModified)
	}
	return fmt.Sprintf(" ORDER BY n.%s DESC", colPK)
}

// scanSummary reads one summary row.
func scanSummary(rows *sql.Rows) (notes.NoteSummary, error) {
	var (
		s          notes.NoteSummary
		identifier sql.NullString
		title      sql.NullString
		created    sql.NullFloat64
		modified   sql.NullFloat64
		folder     sql.NullString
	)
	if err := rows.Scan(&s.ID, &identifier, &title, &created, &modified, &folder); err != nil {
		return s, err
	}
	s.Identifier = identifier.String
	s.Title = title.String
	s.Folder = folder.String
	s.Created = notes.FromAppleTime(created.Float64)
	s.Modified = notes.FromAppleTime(modified.Float64)
	s.ModifiedRaw = modified.Float64
	return s, nil
}

// collectSummaries runs a summary query with the retry-once policy.
func (r *Reader) collectSummaries(query string, args ...any) ([]notes.NoteSummary, bool, error) {
	var out []notes.NoteSummary
	stale, err := queryRetry(func() error {
		out = out[:0]
		rows, err := r.db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			s, err := scanSummary(rows)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	if stale {
		for i := range out {
			out[i].Stale = true
		}
	}
	return out, stale, nil
}

// ListNotes returns summaries, newest first, optionally filtered to one
// folder by title.
func (r *Reader) ListNotes(folder string, limit, offset int) ([]notes.NoteSummary, bool, error) {
	if err := r.requireCore(); err != nil {
		return nil, false, err
	}

	query := r.summarySelect("", "") + " WHERE " + r.noteFilter()
	var args []any
	if folder != "" {
		if !r.schema.syncCols[colFolderTitle] {
			return nil, false, errors.NewSchemaDrift(r.schema.missing)
		}
		query += " AND f." + colFolderTitle + " = ?"
		args = append(args, folder)
	}
	query += r.orderByModified() + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.collectSummaries(query, args...)
}

// GetNote fetches a single note by its opaque identifier, decoding its
// content blob. A blob that fails to decode degrades to a placeholder
// document with the failure annotated on the note, not an error.
func (r *Reader) GetNote(identifier string) (*notes.Note, error) {
	if err := r.requireCore(); err != nil {
		return nil, err
	}

	query := r.summarySelect(", nd."+colData, noteDataJoin()) +
		" WHERE " + r.noteFilter() + " AND n." + colIdentifier + " = ?"

	var (
		note notes.Note
		data []byte
	)
	stale, err := queryRetry(func() error {
		row := r.db.QueryRow(query, identifier)
		var (
			id         sql.NullString
			title      sql.NullString
			created    sql.NullFloat64
			modified   sql.NullFloat64
			folder     sql.NullString
		)
		if err := row.Scan(&note.ID, &id, &title, &created, &modified, &folder, &data); err != nil {
			return err
		}
		note.Identifier = id.String
		note.Title = title.String
		note.Folder = folder.String
		note.Created = notes.FromAppleTime(created.Float64)
		note.Modified = notes.FromAppleTime(modified.Float64)
		note.ModifiedRaw = modified.Float64
		return nil
	})
	if stale {
		return nil, errors.NewStaleRead("snapshot busy while fetching note " + identifier)
	}
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(identifier)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	note.Document, note.DecodeError = decodeBody(data)
	return &note, nil
}

// decodeBody runs the blob through the codec and projector, substituting a
// placeholder document on any decode failure.
func decodeBody(data []byte) (*notes.Document, string) {
	if len(data) == 0 {
		return &notes.Document{}, ""
	}
	msg, err := blob.Decode(data)
	if err != nil {
		return notes.Placeholder(err.Error()), err.Error()
	}
	doc, err := crdt.Project(msg)
	if err != nil {
		return notes.Placeholder(err.Error()), err.Error()
	}
	return doc, ""
}

// SearchTitles does a case-insensitive substring match over title columns.
func (r *Reader) SearchTitles(q string, limit int) ([]notes.NoteSummary, bool, error) {
	if err := r.requireCore(); err != nil {
		return nil, false, err
	}

	var conds []string
	var args []any
	pattern := "%" + q + "%"
	for _, c := range []string{colTitle1, colTitle, colSnippet} {
		if r.schema.syncCols[c] {
			conds = append(conds, fmt.Sprintf("n.%s LIKE ? COLLATE NOCASE", c))
			args = append(args, pattern)
		}
	}
	if len(conds) == 0 {
		return nil, false, errors.NewSchemaDrift(r.schema.missing)
	}

	query := r.summarySelect("", "") + " WHERE " + r.noteFilter() +
		" AND (" + strings.Join(conds, " OR ") + ")" +
		r.orderByModified() + " LIMIT ?"
	args = append(args, limit)

	return r.collectSummaries(query, args...)
}

// SearchBodies decodes candidate blobs and substring-matches their text.
// Candidates are bounded by cap to keep decode cost from growing with the
// store; rows whose blobs fail to decode are skipped, never fatal.
func (r *Reader) SearchBodies(q string, limit, candidateCap int) ([]notes.NoteSummary, bool, error) {
	if err := r.requireCore(); err != nil {
		return nil, false, err
	}
	if candidateCap <= 0 {
		candidateCap = DefaultBodySearchCap
	}

	query := r.summarySelect(", nd."+colData, noteDataJoin()) +
		" WHERE " + r.noteFilter() + r.orderByModified() + " LIMIT ?"

	needle := strings.ToLower(q)
	var out []notes.NoteSummary
	stale, err := queryRetry(func() error {
		out = out[:0]
		rows, err := r.db.Query(query, candidateCap)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				s          notes.NoteSummary
				identifier sql.NullString
				title      sql.NullString
				created    sql.NullFloat64
				modified   sql.NullFloat64
				folder     sql.NullString
				data       []byte
			)
			if err := rows.Scan(&s.ID, &identifier, &title, &created, &modified, &folder, &data); err != nil {
				return err
			}
			s.Identifier = identifier.String
			s.Title = title.String
			s.Folder = folder.String
			s.Created = notes.FromAppleTime(created.Float64)
			s.Modified = notes.FromAppleTime(modified.Float64)
			s.ModifiedRaw = modified.Float64

			if strings.Contains(strings.ToLower(s.Title), needle) {
				out = append(out, s)
			} else if doc, decodeErr := decodeBody(data); decodeErr == "" &&
				strings.Contains(strings.ToLower(doc.PlainText()), needle) {
				out = append(out, s)
			}
			if len(out) >= limit {
				break
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	if stale {
		for i := range out {
			out[i].Stale = true
		}
	}
	return out, stale, nil
}

// ListFolders enumerates folders, i.e. rows other notes point at through
// the folder reference column.
func (r *Reader) ListFolders() ([]notes.Folder, error) {
	if !r.schema.syncCols[colPK] || !r.schema.syncCols[colFolder] || !r.schema.syncCols[colFolderTitle] {
		return nil, errors.NewSchemaDrift(r.schema.missing)
	}

	account := "NULL"
	if r.schema.syncCols[colAccountName] {
		account = colAccountName
	}
	deleted := ""
	if r.schema.syncCols[colDeleted] {
		deleted = fmt.Sprintf("%s = 0 AND ", colDeleted)
	}
	identifier := "NULL"
	if r.schema.syncCols[colIdentifier] {
		identifier = colIdentifier
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s%s IN (SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL)
		ORDER BY %s`,
		colPK, identifier, colFolderTitle, account,
		tableSyncObject,
		deleted, colPK, colFolder, tableSyncObject, colFolder,
		colFolderTitle,
	)

	var out []notes.Folder
	stale, err := queryRetry(func() error {
		out = out[:0]
		rows, err := r.db.Query(query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				f          notes.Folder
				identifier sql.NullString
				title      sql.NullString
				account    sql.NullString
			)
			if err := rows.Scan(&f.ID, &identifier, &title, &account); err != nil {
				return err
			}
			f.Identifier = identifier.String
			f.Title = title.String
			f.Account = account.String
			out = append(out, f)
		}
		return rows.Err()
	})
	if stale {
		return out, errors.NewStaleRead("snapshot busy while listing folders")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// ListAccounts enumerates accounts by their sorting name.
func (r *Reader) ListAccounts() ([]notes.Account, error) {
	if !r.schema.syncCols[colAccountName] {
		return nil, errors.NewSchemaDrift(r.schema.missing)
	}

	kind := "NULL"
	if r.schema.syncCols[colAccountType] {
		kind = colAccountType
	}
	query := fmt.Sprintf(`
		SELECT DISTINCT %s, %s
		FROM %s
		WHERE %s IS NOT NULL
		ORDER BY %s`,
		colAccountName, kind,
		tableSyncObject,
		colAccountName, colAccountName,
	)

	var out []notes.Account
	stale, err := queryRetry(func() error {
		out = out[:0]
		rows, err := r.db.Query(query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				a    notes.Account
				name sql.NullString
				kind sql.NullString
			)
			if err := rows.Scan(&name, &kind); err != nil {
				return err
			}
			a.Name = name.String
			a.Kind = kind.String
			out = append(out, a)
		}
		return rows.Err()
	})
	if stale {
		return out, errors.NewStaleRead("snapshot busy while listing accounts")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// ModificationTime reads the current optimistic-concurrency token for a
// note. The write path calls this immediately before submitting.
func (r *Reader) ModificationTime(identifier string) (float64, error) {
	if err := r.requireCore(); err != nil {
		return 0, err
	}
	if !r.schema.hasTimestamps() {
		// Without the token column the race guard cannot run; refusing is
		// safer than writing blind.
		return 0, errors.NewSchemaDrift(r.schema.missing)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		colModified, tableSyncObject, colIdentifier)

	var modified sql.NullFloat64
	stale, err := queryRetry(func() error {
		return r.db.QueryRow(query, identifier).Scan(&modified)
	})
	if stale {
		return 0, errors.NewStaleRead("snapshot busy while reading modification time of " + identifier)
	}
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFound(identifier)
	}
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return modified.Float64, nil
}
