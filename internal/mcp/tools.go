package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var listToolDef = mcp.NewTool("notes_list",
	mcp.WithDescription("List notes from the local snapshot, newest first. Returns summaries including each note's identifier and modification token."),
	mcp.WithString("folder", mcp.Description("Only list notes in this folder")),
	mcp.WithNumber("limit", mcp.Description("Maximum results (default 20, max 200)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
)

var getToolDef = mcp.NewTool("notes_get",
	mcp.WithDescription("Fetch one note by its stable identifier. The body is decoded into structured blocks; modified_raw is the concurrency token required by write tools."),
	mcp.WithString("identifier", mcp.Required(), mcp.Description("The note's stable identifier (from notes_list or notes_search)")),
	mcp.WithBoolean("include_markdown", mcp.Description("Also render the body as markdown")),
)

var searchToolDef = mcp.NewTool("notes_search",
	mcp.WithDescription("Search notes by case-insensitive substring. Title scope is fast; body scope decodes candidate notes and is bounded."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Substring to search for")),
	mcp.WithString("scope", mcp.Description("\"title\" (default) or \"body\""),
		mcp.Enum("title", "body")),
	mcp.WithNumber("limit", mcp.Description("Maximum results")),
)

var foldersToolDef = mcp.NewTool("notes_folders",
	mcp.WithDescription("List the folders present in the snapshot."),
)

var accountsToolDef = mcp.NewTool("notes_accounts",
	mcp.WithDescription("List the sync accounts present in the snapshot."),
)

var createToolDef = mcp.NewTool("notes_create",
	mcp.WithDescription("Create a new note. The body is markdown and is transcoded into the notes application's format before submission."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Title of the new note")),
	mcp.WithString("body", mcp.Description("Markdown body")),
	mcp.WithString("folder", mcp.Description("Destination folder (defaults to the configured folder)")),
)

var updateToolDef = mcp.NewTool("notes_update",
	mcp.WithDescription("Replace a note's body. Requires the expected_modified token from a prior notes_get; the write is refused if the note changed since."),
	mcp.WithString("identifier", mcp.Required(), mcp.Description("The note's stable identifier")),
	mcp.WithString("body", mcp.Required(), mcp.Description("Markdown body replacing the current content")),
	mcp.WithNumber("expected_modified", mcp.Required(), mcp.Description("Concurrency token (modified_raw) from the last read")),
)

var appendToolDef = mcp.NewTool("notes_append",
	mcp.WithDescription("Append markdown content to the end of a note. Requires the expected_modified token from a prior notes_get."),
	mcp.WithString("identifier", mcp.Required(), mcp.Description("The note's stable identifier")),
	mcp.WithString("body", mcp.Required(), mcp.Description("Markdown content to add")),
	mcp.WithNumber("expected_modified", mcp.Required(), mcp.Description("Concurrency token (modified_raw) from the last read")),
)

var deleteToolDef = mcp.NewTool("notes_delete",
	mcp.WithDescription("Delete a note. Requires the expected_modified token from a prior notes_get."),
	mcp.WithString("identifier", mcp.Required(), mcp.Description("The note's stable identifier")),
	mcp.WithNumber("expected_modified", mcp.Required(), mcp.Description("Concurrency token (modified_raw) from the last read")),
)

var createFolderToolDef = mcp.NewTool("notes_create_folder",
	mcp.WithDescription("Create a new top-level folder."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new folder")),
)
