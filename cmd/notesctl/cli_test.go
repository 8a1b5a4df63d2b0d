package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/notesctl/notesctl/internal/config"
	"github.com/notesctl/notesctl/internal/mediator"
	"github.com/notesctl/notesctl/internal/ops"
	"github.com/notesctl/notesctl/internal/store"
)

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

type stubRunner struct {
	scripts []string
	out     string
}

func (r *stubRunner) Run(_ context.Context, script string) (string, error) {
	r.scripts = append(r.scripts, script)
	return r.out, nil
}

// testEnv creates a snapshot with one note and an Env wired to a stub
// channel runner.
func testEnv(t *testing.T) (*ops.Env, *stubRunner) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "NoteStore.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	if _, err := db.Exec(fixtureSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}

	blob := textBlob(t, "milk\neggs")
	if _, err := db.Exec(`INSERT INTO ZICNOTEDATA (Z_PK, ZDATA) VALUES (1, ?)`, blob); err != nil {
		t.Fatalf("insert note data: %v", err)
	}
	stmts := []string{
		`INSERT INTO ZICCLOUDSYNCINGOBJECT (Z_PK, ZTITLE2, ZIDENTIFIER, ZACCOUNTNAMEFORACCOUNTLISTSORTING, ZACCOUNTTYPE)
		 VALUES (2, 'Notes', 'folder-notes', 'iCloud', 1)`,
		`INSERT INTO ZICCLOUDSYNCINGOBJECT (Z_PK, ZTITLE1, ZIDENTIFIER, ZCREATIONDATE, ZMODIFICATIONDATE, ZFOLDER, ZNOTEDATA, ZMARKEDFORDELETION)
		 VALUES (3, 'Groceries', 'UUID-1', 900, 1000, 2, 1, 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed fixture: %v", err)
		}
	}
	db.Close()

	reader, err := store.Open(path)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	t.Cleanup(func() { reader.Close() })

	runner := &stubRunner{}
	env := &ops.Env{
		Reader: reader,
		Writer: mediator.New(reader, runner),
		Config: config.DefaultConfig(),
	}
	return env, runner
}

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

// runApp runs the CLI with the given args and captures stdout.
func runApp(t *testing.T, env *ops.Env, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	os.Stdout = w

	app := newCLIApp(env)
	runErr := app.Run(append([]string{"notesctl"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), runErr
}

func TestCLIList(t *testing.T) {
	env, _ := testEnv(t)

	out, err := runApp(t, env, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var output ops.ListOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if len(output.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(output.Items))
	}
	if output.Items[0].Title != "Groceries" {
		t.Errorf("expected title=Groceries, got %s", output.Items[0].Title)
	}
}

func TestCLIShow(t *testing.T) {
	env, _ := testEnv(t)

	t.Run("json", func(t *testing.T) {
		out, err := runApp(t, env, "show", "UUID-1")
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}

		var output ops.GetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Title != "Groceries" {
			t.Errorf("expected title=Groceries, got %s", output.Title)
		}
		if output.ModifiedRaw != 1000 {
			t.Errorf("expected modified_raw=1000, got %v", output.ModifiedRaw)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := runApp(t, env, "show", "--markdown", "UUID-1")
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}
		if !strings.Contains(out, "milk") {
			t.Errorf("expected markdown body, got %q", out)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := runApp(t, env, "show", "no-such-note")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestCLISearch(t *testing.T) {
	env, _ := testEnv(t)

	out, err := runApp(t, env, "search", "groc")
	if err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	var output ops.SearchOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Items) != 1 {
		t.Errorf("expected 1 match, got %d", len(output.Items))
	}
}

func TestCLIFolders(t *testing.T) {
	env, _ := testEnv(t)

	out, err := runApp(t, env, "folders")
	if err != nil {
		t.Fatalf("folders command failed: %v", err)
	}

	var output ops.FoldersOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Items) != 1 || output.Items[0].Title != "Notes" {
		t.Errorf("expected single folder Notes, got %+v", output.Items)
	}
}

func TestCLICreate(t *testing.T) {
	env, runner := testEnv(t)
	runner.out = "x-coredata://STORE/ICNote/p42"

	out, err := runApp(t, env, "create", "--body", "hello", "Meeting")
	if err != nil {
		t.Fatalf("create command failed: %v", err)
	}

	var output ops.IntentOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.State != "acknowledged" {
		t.Errorf("expected state=acknowledged, got %s", output.State)
	}
	if len(runner.scripts) != 1 {
		t.Fatalf("expected 1 automation call, got %d", len(runner.scripts))
	}
	if !strings.Contains(runner.scripts[0], `"Meeting"`) {
		t.Errorf("script missing title: %s", runner.scripts[0])
	}
}

func TestCLIUpdate(t *testing.T) {
	env, runner := testEnv(t)

	t.Run("fresh token acknowledged", func(t *testing.T) {
		out, err := runApp(t, env, "update", "--token", "1000", "--body", "new content", "UUID-1")
		if err != nil {
			t.Fatalf("update command failed: %v", err)
		}

		var output ops.IntentOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.State != "acknowledged" {
			t.Errorf("expected state=acknowledged, got %s", output.State)
		}
	})

	t.Run("stale token conflicted", func(t *testing.T) {
		before := len(runner.scripts)
		_, err := runApp(t, env, "update", "--token", "999", "--body", "x", "UUID-1")
		if err == nil {
			t.Error("expected error for stale token, got nil")
		}
		if len(runner.scripts) != before {
			t.Error("conflicted update must not reach the channel")
		}
	})

	t.Run("token required", func(t *testing.T) {
		_, err := runApp(t, env, "update", "--body", "x", "UUID-1")
		if err == nil {
			t.Error("expected error for missing token, got nil")
		}
	})
}

func TestCLIDelete(t *testing.T) {
	env, _ := testEnv(t)

	out, err := runApp(t, env, "delete", "--token", "1000", "UUID-1")
	if err != nil {
		t.Fatalf("delete command failed: %v", err)
	}

	var output ops.IntentOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.State != "acknowledged" {
		t.Errorf("expected state=acknowledged, got %s", output.State)
	}
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"notesctl"},
			expected: false,
		},
		{
			name:     "list command",
			args:     []string{"notesctl", "list"},
			expected: true,
		},
		{
			name:     "show command",
			args:     []string{"notesctl", "show"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"notesctl", "--help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"notesctl", "--version"},
			expected: true,
		},
		{
			name:     "unknown arg defaults to MCP",
			args:     []string{"notesctl", "--unknown"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if got := isCLIMode(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"notesctl"},
			expected: false,
		},
		{
			name:     "help flag",
			args:     []string{"notesctl", "--help"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"notesctl", "help"},
			expected: true,
		},
		{
			name:     "list command is not help",
			args:     []string{"notesctl", "list"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if got := isHelpOrVersion(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestReadStdin(t *testing.T) {
	content := "- milk\n- eggs"
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	go func() {
		_, _ = w.WriteString(content + "\n")
		w.Close()
	}()

	oldStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	got, err := readStdin()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != content {
		t.Errorf("expected %q, got %q", content, got)
	}
}
