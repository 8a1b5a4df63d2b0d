package mediator

import (
	"context"
	"strings"

	"github.com/notesctl/notesctl/internal/channel"
	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/markup"
	"github.com/notesctl/notesctl/internal/notes"
)

// DefaultFolder is where creates land when the caller names no folder.
const DefaultFolder = "Notes"

// Snapshot is the read surface the mediator needs: enough to pin a target
// note's title and check its concurrency token before writing.
type Snapshot interface {
	GetNote(identifier string) (*notes.Note, error)
	ModificationTime(identifier string) (float64, error)
}

// Mediator turns mutations into guarded automation commands.
type Mediator struct {
	snap Snapshot
	run  channel.Runner
}

func New(snap Snapshot, runner channel.Runner) *Mediator {
	return &Mediator{snap: snap, run: runner}
}

// Create makes a new note. No concurrency token applies: nothing exists to
// conflict with. The acknowledged intent's Result carries the new note's
// object reference as reported by the host.
func (m *Mediator) Create(ctx context.Context, title string, doc *notes.Document, folder string) *Intent {
	in := newIntent(KindCreate)
	in.Title = title
	in.Body = doc

	if strings.TrimSpace(title) == "" {
		return in.rejected(errors.NewInvalidRequest("title must not be empty"))
	}
	if doc == nil {
		doc = &notes.Document{}
		in.Body = doc
	}
	if err := doc.Validate(); err != nil {
		return in.rejected(err)
	}
	if folder == "" {
		folder = DefaultFolder
	}
	in.Folder = folder
	in.validated()

	script := channel.CreateNote(title, markup.ToDialect(doc), folder)
	out, err := m.submit(ctx, in, script)
	if err != nil {
		return in.rejected(err)
	}
	return in.acknowledged(objectRef(out))
}

// Update replaces a note's body. The expected token must exactly match the
// stored modification timestamp observed by the pre-write read; otherwise
// the intent terminates conflicted without touching the channel.
func (m *Mediator) Update(ctx context.Context, identifier string, doc *notes.Document, expected float64) *Intent {
	in := newIntent(KindUpdate)
	in.Identifier = identifier
	in.Body = doc
	in.ExpectedModified = expected

	if doc == nil {
		return in.rejected(errors.NewInvalidRequest("update requires a body"))
	}
	if err := doc.Validate(); err != nil {
		return in.rejected(err)
	}

	title, err := m.guard(in)
	if err != nil {
		return in
	}
	in.validated()

	script := channel.SetBody(title, markup.ToDialect(doc))
	out, err := m.submit(ctx, in, script)
	if err != nil {
		return in.rejected(err)
	}
	return in.acknowledged(out)
}

// Append adds blocks to the end of a note. When the current body decodes
// cleanly the combined document is re-rendered and written whole, keeping
// block structure coherent. A note whose body cannot be decoded is extended
// host-side instead, so unrepresentable content is never clobbered.
func (m *Mediator) Append(ctx context.Context, identifier string, doc *notes.Document, expected float64) *Intent {
	in := newIntent(KindAppend)
	in.Identifier = identifier
	in.Body = doc
	in.ExpectedModified = expected

	if doc == nil || len(doc.Blocks) == 0 {
		return in.rejected(errors.NewInvalidRequest("append requires content"))
	}
	if err := doc.Validate(); err != nil {
		return in.rejected(err)
	}

	title, err := m.guard(in)
	if err != nil {
		return in
	}

	note, err := m.snap.GetNote(identifier)
	if err != nil {
		return in.rejected(err)
	}
	in.validated()

	var script string
	if note.DecodeError != "" {
		script = channel.AppendBody(title, markup.ToDialect(doc))
	} else {
		merged := &notes.Document{
			Blocks:  append(append([]notes.Block{}, note.Document.Blocks...), doc.Blocks...),
			Partial: note.Document.Partial,
		}
		script = channel.SetBody(title, markup.ToDialect(merged))
	}

	out, err := m.submit(ctx, in, script)
	if err != nil {
		return in.rejected(err)
	}
	return in.acknowledged(out)
}

// Delete removes a note, guarded by the same token check as updates.
func (m *Mediator) Delete(ctx context.Context, identifier string, expected float64) *Intent {
	in := newIntent(KindDelete)
	in.Identifier = identifier
	in.ExpectedModified = expected

	title, err := m.guard(in)
	if err != nil {
		return in
	}
	in.validated()

	out, err := m.submit(ctx, in, channel.DeleteNote(title))
	if err != nil {
		return in.rejected(err)
	}
	return in.acknowledged(out)
}

// CreateFolder makes a new top-level folder.
func (m *Mediator) CreateFolder(ctx context.Context, name string) *Intent {
	in := newIntent(KindCreate)
	in.Folder = name

	if strings.TrimSpace(name) == "" {
		return in.rejected(errors.NewInvalidRequest("folder name must not be empty"))
	}
	in.validated()

	out, err := m.submit(ctx, in, channel.CreateFolder(name))
	if err != nil {
		return in.rejected(err)
	}
	return in.acknowledged(objectRef(out))
}

// submit marks the intent in flight and hands its script to the channel.
func (m *Mediator) submit(ctx context.Context, in *Intent, script string) (string, error) {
	in.submitted()
	return m.run.Run(ctx, script)
}

// guard runs the pre-write snapshot read: it resolves the target's current
// title and compares the caller's token against the stored timestamp. On
// failure it moves the intent to its terminal state and returns a non-nil
// error.
func (m *Mediator) guard(in *Intent) (string, error) {
	actual, err := m.snap.ModificationTime(in.Identifier)
	if err != nil {
		in.rejected(err)
		return "", err
	}
	if actual != in.ExpectedModified {
		err := errors.NewConflicted(in.Identifier, in.ExpectedModified, actual)
		in.conflicted(err)
		return "", err
	}

	note, err := m.snap.GetNote(in.Identifier)
	if err != nil {
		in.rejected(err)
		return "", err
	}
	in.Title = note.Title
	return note.Title, nil
}

// objectRef extracts the Core Data object URL from channel stdout, falling
// back to the raw output when none is present.
func objectRef(out string) string {
	if idx := strings.Index(out, "x-coredata://"); idx >= 0 {
		ref := out[idx:]
		if end := strings.IndexAny(ref, " \t\n"); end >= 0 {
			ref = ref[:end]
		}
		return ref
	}
	return out
}
