// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for docchat.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.3.1"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdUpload
	CmdDocs
	CmdTranscripts
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific
	Query      string
	File       string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `docchat - chat with your documents from the terminal

Docchat is a front-end for a local document retrieval backend. Upload
pdf, docx, or txt files and ask questions; answers cite the passages
they came from.

Usage:
  docchat                        Start the TUI (default)
  docchat ask "question"         Ask a single question
  docchat chat                   Interactive chat in the terminal
  docchat upload <file>          Upload a document
  docchat docs [subcommand]      Document library management
  docchat transcripts [subcommand] Saved conversation management
  docchat status, s              Show backend status
  docchat config [show|set|path] Configuration
  docchat version, -v            Show version
  docchat help, -h               Show this help

Ask:
  docchat ask "what does the contract say about termination?"
    --top-k N                    Retrieved passages per question
    --no-citations               Hide source citations
    --json                       Machine-readable output

Documents:
  docchat docs list              List indexed documents
  docchat docs search <query>    Search documents by name
  docchat docs delete <id>       Delete a document
    --confirm                    Skip the interactive prompt

Transcripts:
  docchat transcripts list       List saved conversations
  docchat transcripts show <id>  Print a saved conversation
  docchat transcripts export <id>  Export a conversation
    --format md|json             Export format (default: md)
    --output FILE                Write to file instead of stdout
  docchat transcripts search <query>  Search saved conversations
  docchat transcripts delete <id>  Delete a saved conversation
    --confirm                    Skip the interactive prompt

Config:
  docchat config show            Show current configuration
  docchat config set <key> <value>  Set a value (e.g. backend.url)
  docchat config path            Print the config file location

Environment:
  DOCCHAT_BACKEND_URL            Backend base URL (default http://127.0.0.1:8765)
  DOCCHAT_WATCH_DIR              Folder to auto-upload new documents from
  NO_COLOR                       Disable colored output
`

// ParseArgs parses os.Args style arguments into a command and Args.
func ParseArgs(argv []string) (Command, Args) {
	args := Args{Raw: []string{}}

	if len(argv) == 0 {
		return CmdTUI, args
	}

	rest := argv
	cmd := CmdTUI

	switch argv[0] {
	case "ask":
		cmd = CmdAsk
		rest = argv[1:]
	case "chat":
		cmd = CmdChat
		rest = argv[1:]
	case "status", "s":
		cmd = CmdStatus
		rest = argv[1:]
	case "config":
		cmd = CmdConfig
		rest = argv[1:]
	case "upload", "up":
		cmd = CmdUpload
		rest = argv[1:]
	case "docs", "documents":
		cmd = CmdDocs
		rest = argv[1:]
	case "transcripts", "transcript":
		cmd = CmdTranscripts
		rest = argv[1:]
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		if strings.HasPrefix(argv[0], "-") {
			rest = argv
		} else {
			// Unknown word: treat it as an implicit ask query.
			cmd = CmdAsk
			rest = argv
		}
	}

	parser := NewArgParser(rest)
	args.Quiet = parser.BoolFlag("quiet") || parser.BoolFlag("q")
	args.Verbose = parser.BoolFlag("verbose")
	args.JSON = parser.BoolFlag("json")
	args.Subcommand = parser.Subcommand()
	args.Raw = rest

	switch cmd {
	case CmdAsk:
		args.Query = strings.Join(parser.PositionalFrom(0), " ")
	case CmdUpload:
		args.File = parser.Positional(0)
	}

	return cmd, args
}

// Run dispatches a parsed command. It returns the process exit code.
func Run(cmd Command, args Args) int {
	var err error

	switch cmd {
	case CmdAsk:
		err = RunAsk(args)
	case CmdChat:
		err = RunChat(args)
	case CmdStatus:
		err = RunStatus(args)
	case CmdConfig:
		err = RunConfig(args)
	case CmdUpload:
		err = RunUpload(args)
	case CmdDocs:
		err = RunDocs(args)
	case CmdTranscripts:
		err = RunTranscripts(args)
	case CmdVersion:
		printVersion(args)
	case CmdHelp:
		fmt.Print(usageText)
	default:
		// CmdTUI is launched by main, not here.
		fmt.Print(usageText)
		return ExitUsageError
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func printVersion(args Args) {
	if args.JSON {
		resp := NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		})
		resp.Print()
		return
	}
	fmt.Printf("docchat %s (%s, built %s, %s)\n", Version, GitCommit, BuildDate, runtime.Version())
}
