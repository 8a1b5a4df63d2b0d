package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/notesctl/notesctl/internal/errors"
)

func TestCreate(t *testing.T) {
	f := newFixture(t)
	f.runner.out = "note id x-coredata://STORE/ICNote/p9"
	env := f.env()

	out, err := Create(context.Background(), env, CreateInput{
		Title: "Trip Plan",
		Body:  "# Agenda\n\n- Item 1\n- Item 2",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.State != "acknowledged" || out.Kind != "create" {
		t.Errorf("out = %+v", out)
	}
	if out.Result != "x-coredata://STORE/ICNote/p9" {
		t.Errorf("result = %q", out.Result)
	}

	if len(f.runner.scripts) != 1 {
		t.Fatalf("scripts = %v", f.runner.scripts)
	}
	script := f.runner.scripts[0]
	if !strings.Contains(script, "<h1>Agenda</h1>") {
		t.Errorf("script missing transcoded heading:\n%s", script)
	}
	if !strings.Contains(script, "<ul>\n<li>Item 1</li>\n<li>Item 2</li>\n</ul>") {
		t.Errorf("script missing transcoded list:\n%s", script)
	}
}

func TestCreate_DefaultFolderFromConfig(t *testing.T) {
	f := newFixture(t)
	env := f.env()
	env.Config.DefaultFolder = "Inbox"

	out, err := Create(context.Background(), env, CreateInput{Title: "Quick"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Folder != "Inbox" {
		t.Errorf("folder = %q, want configured default", out.Folder)
	}
	if !strings.Contains(f.runner.scripts[0], `tell folder "Inbox"`) {
		t.Errorf("script = %s", f.runner.scripts[0])
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	env := newFixture(t).env()
	if _, err := Create(context.Background(), env, CreateInput{Title: " "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want invalid request", err)
	}
}

func TestCreateFolderOp(t *testing.T) {
	f := newFixture(t)
	f.runner.out = "folder id x-coredata://STORE/ICFolder/p3"
	env := f.env()

	out, err := CreateFolder(context.Background(), env, CreateFolderInput{Name: "Projects"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if out.State != "acknowledged" || out.Result != "x-coredata://STORE/ICFolder/p3" {
		t.Errorf("out = %+v", out)
	}
}
