package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/notesctl/notesctl/internal/channel"
	"github.com/notesctl/notesctl/internal/config"
	"github.com/notesctl/notesctl/internal/mcp"
	"github.com/notesctl/notesctl/internal/mediator"
	"github.com/notesctl/notesctl/internal/ops"
	"github.com/notesctl/notesctl/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"list": true, "show": true, "search": true,
	"folders": true, "accounts": true,
	"create": true, "update": true, "append": true, "delete": true,
	"create-folder": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
              _             _   _
   _ __  ___ | |_ ___  ___ | |_| |
  | '_ \/ _ \|  _/ -_)(_-< |  _| |
  |_| |_\___/ \__\___|/__/  \__|_|

  Dual-path access to the local notes store

  Usage: notesctl <command> [options]
         notesctl --help

  MCP server mode requires piped input.`)
}

// newEnv opens the snapshot and wires the write path.
func newEnv(cfg *config.Config) (*ops.Env, error) {
	path := cfg.SnapshotPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, store.DefaultPath)
	}

	reader, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	runner := &channel.OSARunner{}
	if cfg.AutomationTimeoutMS > 0 {
		runner.Timeout = time.Duration(cfg.AutomationTimeoutMS) * time.Millisecond
	}

	return &ops.Env{
		Reader: reader,
		Writer: mediator.New(reader, runner),
		Config: cfg,
	}, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before touching the snapshot
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(filepath.Join(homeDir, ".notesctl"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	env, err := newEnv(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer env.Reader.Close()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'notesctl --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(env, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
