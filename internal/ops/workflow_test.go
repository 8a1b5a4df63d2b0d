package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notesctl/notesctl/internal/errors"
)

// TestFullWorkflow exercises the read-modify-write loop a caller follows:
// read a note for its token, update with that token, then observe that the
// stale token from before the external edit no longer works.
func TestFullWorkflow(t *testing.T) {
	f := newFixture(t)
	folder := f.addFolder("Notes", "iCloud")
	f.addNote(folder, "UUID-1", "Standup", 1000, "yesterday: infra\ntoday: reviews")
	env := f.env()

	// 1. Read for the token
	got, err := Get(env, GetInput{Identifier: "UUID-1", IncludeMarkdown: true})
	require.NoError(t, err)
	require.Equal(t, "yesterday: infra\n\ntoday: reviews", got.Markdown)
	require.Equal(t, float64(1000), got.ModifiedRaw)

	// 2. Update with the fresh token
	out, err := Update(context.Background(), env, UpdateInput{
		Identifier:       "UUID-1",
		Body:             got.Markdown + "\n\nblockers: none",
		ExpectedModified: got.ModifiedRaw,
	})
	require.NoError(t, err)
	require.Equal(t, "acknowledged", out.State)
	require.Len(t, f.runner.scripts, 1)
	require.Contains(t, f.runner.scripts[0], "<div>blockers: none</div>")

	// 3. Another writer lands; the snapshot moves underneath the old token
	_, err = f.db.Exec(`UPDATE ZICCLOUDSYNCINGOBJECT SET ZMODIFICATIONDATE = 1050 WHERE ZIDENTIFIER = 'UUID-1'`)
	require.NoError(t, err)

	// 4. The stale token is refused before anything reaches the channel
	_, err = Update(context.Background(), env, UpdateInput{
		Identifier:       "UUID-1",
		Body:             "late write",
		ExpectedModified: got.ModifiedRaw,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrConflicted))
	require.Len(t, f.runner.scripts, 1)
}
