package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/notesctl/notesctl/internal/errors"
	"github.com/notesctl/notesctl/internal/ops"
	"github.com/notesctl/notesctl/internal/web"
)

// newCLIApp builds the CLI application. env may be nil when only help or
// version output is requested.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "notesctl",
		Usage:   "Dual-path access to the local notes store",
		Version: Version,
		Commands: []*cli.Command{
			listCmd(env),
			showCmd(env),
			searchCmd(env),
			foldersCmd(env),
			accountsCmd(env),
			createCmd(env),
			updateCmd(env),
			appendCmd(env),
			deleteCmd(env),
			createFolderCmd(env),
			serveCmd(env),
		},
	}
	// Errors are printed by main with a consistent prefix.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List notes, most recently modified first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "restrict to a folder"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "maximum notes to return"},
			&cli.IntFlag{Name: "offset", Usage: "skip this many notes"},
		},
		Action: func(c *cli.Context) error {
			out, err := ops.List(env, ops.ListInput{
				Folder: c.String("folder"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func showCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a note by identifier",
		ArgsUsage: "<identifier>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Aliases: []string{"m"}, Usage: "print the body as markdown instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			out, err := ops.Get(env, ops.GetInput{
				Identifier:      c.Args().First(),
				IncludeMarkdown: true,
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("markdown") {
				fmt.Println(out.Markdown)
				return nil
			}
			return outputJSON(out)
		},
	}
}

func searchCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search notes by title or body",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Value: ops.ScopeTitle, Usage: "search scope: title or body"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "maximum matches to return"},
		},
		Action: func(c *cli.Context) error {
			out, err := ops.Search(env, ops.SearchInput{
				Query: strings.Join(c.Args().Slice(), " "),
				Scope: c.String("scope"),
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func foldersCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "folders",
		Usage: "List folders that contain notes",
		Action: func(c *cli.Context) error {
			out, err := ops.Folders(env, ops.FoldersInput{})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func accountsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "List sync accounts",
		Action: func(c *cli.Context) error {
			out, err := ops.Accounts(env, ops.AccountsInput{})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func createCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a note (body from --body or stdin, markdown)",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "note body in markdown"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "destination folder"},
		},
		Action: func(c *cli.Context) error {
			body := c.String("body")
			if body == "" && stdinHasData() {
				var err error
				body, err = readStdin()
				if err != nil {
					return outputError(err)
				}
			}
			out, err := ops.Create(c.Context, env, ops.CreateInput{
				Title:  c.Args().First(),
				Body:   body,
				Folder: c.String("folder"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func updateCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Replace a note's body (body from --body or stdin, markdown)",
		ArgsUsage: "<identifier>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "new body in markdown"},
			&cli.Float64Flag{Name: "token", Usage: "modified_raw value from a prior read", Required: true},
		},
		Action: func(c *cli.Context) error {
			body := c.String("body")
			if body == "" && stdinHasData() {
				var err error
				body, err = readStdin()
				if err != nil {
					return outputError(err)
				}
			}
			out, err := ops.Update(c.Context, env, ops.UpdateInput{
				Identifier:       c.Args().First(),
				Body:             body,
				ExpectedModified: c.Float64("token"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func appendCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "append",
		Usage:     "Append to a note's body (content from --body or stdin, markdown)",
		ArgsUsage: "<identifier>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "content to append, in markdown"},
			&cli.Float64Flag{Name: "token", Usage: "modified_raw value from a prior read", Required: true},
		},
		Action: func(c *cli.Context) error {
			body := c.String("body")
			if body == "" && stdinHasData() {
				var err error
				body, err = readStdin()
				if err != nil {
					return outputError(err)
				}
			}
			out, err := ops.Append(c.Context, env, ops.AppendInput{
				Identifier:       c.Args().First(),
				Body:             body,
				ExpectedModified: c.Float64("token"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func deleteCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a note",
		ArgsUsage: "<identifier>",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "token", Usage: "modified_raw value from a prior read", Required: true},
		},
		Action: func(c *cli.Context) error {
			out, err := ops.Delete(c.Context, env, ops.DeleteInput{
				Identifier:       c.Args().First(),
				ExpectedModified: c.Float64("token"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func createFolderCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "create-folder",
		Usage:     "Create a top-level folder",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			out, err := ops.CreateFolder(c.Context, env, ops.CreateFolderInput{
				Name: strings.Join(c.Args().Slice(), " "),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func serveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the read-only web viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "address to bind"},
			&cli.IntFlag{Name: "port", Value: 8374, Usage: "port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(env, Version, c.String("bind"), c.Int("port"))
			fmt.Fprintf(os.Stderr, "listening on http://%s\n", srv.Addr)
			return web.Run(srv)
		},
	}
}

// outputJSON marshals v with indentation and writes it to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats a domain error as "[CODE] message" for the shell.
func outputError(err error) error {
	var notesErr *errors.NotesError
	if stderrors.As(err, &notesErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", notesErr.Code, notesErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData reports whether stdin is a pipe or redirect with content.
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
