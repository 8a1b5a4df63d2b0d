package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// Column names read from the snapshot. The owning application renames and
// adds columns across OS versions, so every one of these is probed at open
// time instead of assumed.
const (
	tableSyncObject = "ZICCLOUDSYNCINGOBJECT"
	tableNoteData   = "ZICNOTEDATA"

	colPK          = "Z_PK"
	colTitle1      = "ZTITLE1"
	colTitle       = "ZTITLE"
	colSnippet     = "ZSNIPPET"
	colFolderTitle = "ZTITLE2"
	colIdentifier  = "ZIDENTIFIER"
	colModified    = "ZMODIFICATIONDATE"
	colCreated     = "ZCREATIONDATE"
	colFolder      = "ZFOLDER"
	colNoteData    = "ZNOTEDATA"
	colDeleted     = "ZMARKEDFORDELETION"
	colAccountName = "ZACCOUNTNAMEFORACCOUNTLISTSORTING"
	colAccountType = "ZACCOUNTTYPE"
	colData        = "ZDATA"
)

// schemaInfo records which expected columns the snapshot actually has.
type schemaInfo struct {
	syncCols map[string]bool
	dataCols map[string]bool
	missing  []string
}

// coreMissing reports whether columns without which no read can work are
// absent. Anything else only degrades the result.
func (s *schemaInfo) coreMissing() bool {
	return !s.syncCols[colPK] || !s.syncCols[colIdentifier] ||
		!s.syncCols[colNoteData] || !s.dataCols[colData]
}

// hasTimestamps reports whether the optimistic-concurrency token column is
// present. Without it the write-path race guard cannot run.
func (s *schemaInfo) hasTimestamps() bool {
	return s.syncCols[colModified]
}

// titleExpr builds the title projection from whichever title columns exist,
// in preference order. Falls back to an empty literal under heavy drift.
func (s *schemaInfo) titleExpr() string {
	var cols []string
	for _, c := range []string{colTitle1, colTitle, colSnippet} {
		if s.syncCols[c] {
			cols = append(cols, "n."+c)
		}
	}
	switch len(cols) {
	case 0:
		return "''"
	case 1:
		return cols[0]
	default:
		return "COALESCE(" + strings.Join(cols, ", ") + ")"
	}
}

// col returns the column expression or a typed NULL stand-in when absent.
func (s *schemaInfo) col(prefix, name string) string {
	if s.syncCols[name] {
		return prefix + "." + name
	}
	return "NULL"
}

// probeSchema inspects the snapshot layout. It never fails on missing
// columns; it records them so reads degrade instead of crashing.
func probeSchema(db *sql.DB) (*schemaInfo, error) {
	info := &schemaInfo{
		syncCols: make(map[string]bool),
		dataCols: make(map[string]bool),
	}

	var err error
	info.syncCols, err = tableColumns(db, tableSyncObject)
	if err != nil {
		return nil, err
	}
	info.dataCols, err = tableColumns(db, tableNoteData)
	if err != nil {
		return nil, err
	}

	expected := []struct {
		table string
		cols  map[string]bool
		name  string
	}{
		{tableSyncObject, info.syncCols, colPK},
		{tableSyncObject, info.syncCols, colIdentifier},
		{tableSyncObject, info.syncCols, colNoteData},
		{tableSyncObject, info.syncCols, colModified},
		{tableSyncObject, info.syncCols, colCreated},
		{tableNoteData, info.dataCols, colData},
	}
	for _, e := range expected {
		if !e.cols[e.name] {
			info.missing = append(info.missing, e.table+"."+e.name)
		}
	}

	return info, nil
}

// tableColumns lists the columns of one table. A missing table yields an
// empty set, which the caller treats as drift rather than an error.
func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
