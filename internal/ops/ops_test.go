package ops

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/notesctl/notesctl/internal/config"
	"github.com/notesctl/notesctl/internal/mediator"
	"github.com/notesctl/notesctl/internal/store"
)

// fixture is a snapshot database plus a write path wired to a recording
// channel runner.
type fixture struct {
	t      *testing.T
	db     *sql.DB
	path   string
	runner *recordingRunner

	nextPK int64
}

type recordingRunner struct {
	scripts []string
	out     string
	err     error
}

func (r *recordingRunner) Run(_ context.Context, script string) (string, error) {
	r.scripts = append(r.scripts, script)
	if r.err != nil {
		return "", r.err
	}
	return r.out, nil
}

const fixtureSchema = `
CREATE TABLE ZICCLOUDSYNCINGOBJECT (
  Z_PK INTEGER PRIMARY KEY,
  ZTITLE1 TEXT,
  ZTITLE TEXT,
  ZTITLE2 TEXT,
  ZSNIPPET TEXT,
  ZIDENTIFIER TEXT,
  ZCREATIONDATE REAL,
  ZMODIFICATIONDATE REAL,
  ZFOLDER INTEGER,
  ZNOTEDATA INTEGER,
  ZMARKEDFORDELETION INTEGER DEFAULT 0,
  ZACCOUNTNAMEFORACCOUNTLISTSORTING TEXT,
  ZACCOUNTTYPE INTEGER
);
CREATE TABLE ZICNOTEDATA (
  Z_PK INTEGER PRIMARY KEY,
  ZDATA BLOB
);
`

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "NoteStore.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	if _, err := db.Exec(fixtureSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &fixture{t: t, db: db, path: path, runner: &recordingRunner{}, nextPK: 1}
}

func (f *fixture) pk() int64 {
	pk := f.nextPK
	f.nextPK++
	return pk
}

func (f *fixture) addFolder(title, account string) int64 {
	pk := f.pk()
	_, err := f.db.Exec(`INSERT INTO ZICCLOUDSYNCINGOBJECT
		(Z_PK, ZTITLE2, ZIDENTIFIER, ZACCOUNTNAMEFORACCOUNTLISTSORTING, ZACCOUNTTYPE)
		VALUES (?, ?, ?, ?, 1)`,
		pk, title, "folder-"+title, account)
	if err != nil {
		f.t.Fatalf("insert folder: %v", err)
	}
	return pk
}

func (f *fixture) addNote(folderPK int64, identifier, title string, modified float64, text string) {
	dataPK := f.pk()
	if _, err := f.db.Exec(`INSERT INTO ZICNOTEDATA (Z_PK, ZDATA) VALUES (?, ?)`,
		dataPK, textBlob(f.t, text)); err != nil {
		f.t.Fatalf("insert note data: %v", err)
	}
	pk := f.pk()
	_, err := f.db.Exec(`INSERT INTO ZICCLOUDSYNCINGOBJECT
		(Z_PK, ZTITLE1, ZIDENTIFIER, ZCREATIONDATE, ZMODIFICATIONDATE, ZFOLDER, ZNOTEDATA, ZMARKEDFORDELETION)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		pk, title, identifier, modified-100, modified, folderPK, dataPK)
	if err != nil {
		f.t.Fatalf("insert note: %v", err)
	}
}

func (f *fixture) env() *Env {
	f.t.Helper()
	reader, err := store.Open(f.path)
	if err != nil {
		f.t.Fatalf("open reader: %v", err)
	}
	f.t.Cleanup(func() { reader.Close() })
	return &Env{
		Reader: reader,
		Writer: mediator.New(reader, f.runner),
		Config: config.DefaultConfig(),
	}
}

// textBlob builds a minimal valid content blob holding plain text.
func textBlob(t *testing.T, text string) []byte {
	t.Helper()

	var note []byte
	note = protowire.AppendTag(note, 2, protowire.BytesType)
	note = protowire.AppendString(note, text)

	var doc []byte
	doc = protowire.AppendTag(doc, 3, protowire.BytesType)
	doc = protowire.AppendBytes(doc, note)

	var root []byte
	root = protowire.AppendTag(root, 2, protowire.BytesType)
	root = protowire.AppendBytes(root, doc)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(root); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
