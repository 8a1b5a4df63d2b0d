package channel

import (
	"strings"
	"testing"

	"github.com/notesctl/notesctl/internal/errors"
)

func TestEscapeScript(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`plain`, `plain`},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{`both \"`, `both \\\"`},
	}
	for _, c := range cases {
		if got := escapeScript(c.in); got != c.want {
			t.Errorf("escapeScript(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCreateNoteScript(t *testing.T) {
	script := CreateNote(`A "quoted" title`, "<div>body</div>", "Notes")

	if !strings.Contains(script, `tell folder "Notes"`) {
		t.Errorf("script missing folder scope:\n%s", script)
	}
	if !strings.Contains(script, `name:"A \"quoted\" title"`) {
		t.Errorf("script missing escaped title:\n%s", script)
	}
	if !strings.Contains(script, `body:"<div>body</div>"`) {
		t.Errorf("script missing body:\n%s", script)
	}
}

func TestSetBodyTargetsByName(t *testing.T) {
	script := SetBody("Groceries", "<div>milk</div>")
	if !strings.Contains(script, `first note whose name is "Groceries"`) {
		t.Errorf("script does not target by name:\n%s", script)
	}
	if !strings.Contains(script, `set body of theNote to "<div>milk</div>"`) {
		t.Errorf("script does not set body:\n%s", script)
	}
}

func TestAppendBodyConcatenates(t *testing.T) {
	script := AppendBody("Groceries", "<div>eggs</div>")
	if !strings.Contains(script, `(body of theNote) & "<div>eggs</div>"`) {
		t.Errorf("script does not concatenate:\n%s", script)
	}
}

func TestDeleteNoteScript(t *testing.T) {
	script := DeleteNote("Old Note")
	if !strings.Contains(script, `delete (first note whose name is "Old Note")`) {
		t.Errorf("script does not delete by name:\n%s", script)
	}
}

func TestClassifyFailurePermission(t *testing.T) {
	cases := []string{
		"execution error: Not allowed to send Apple events to Notes. (-1743)",
		"osascript: permission denied",
		"error -1743",
	}
	for _, stderr := range cases {
		err := classifyFailure(stderr)
		if !errors.Is(err, errors.ErrPermissionDenied) {
			t.Errorf("classifyFailure(%q) = %v, want permission denied", stderr, err)
		}
	}
}

func TestClassifyFailureRejected(t *testing.T) {
	stderr := "execution error: Notes got an error: doesn't understand message. (-1708)"
	err := classifyFailure(stderr)
	if !errors.Is(err, errors.ErrChannelRejected) {
		t.Errorf("classifyFailure = %v, want channel rejected", err)
	}

	ne := err.(*errors.NotesError)
	if ne.Details["stderr"] != stderr {
		t.Errorf("rejection should carry the host diagnostic, got %v", ne.Details)
	}
}
