// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"

	"github.com/kenzydocs/docchat-tui/internal/backend"
)

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser_FlagFormats(t *testing.T) {
	parser := NewArgParser([]string{"export", "abc123", "--format=md", "--output", "out.md", "--json"})

	if parser.Subcommand() != "export" {
		t.Errorf("Subcommand() = %q, want export", parser.Subcommand())
	}
	if parser.Positional(1) != "abc123" {
		t.Errorf("Positional(1) = %q, want abc123", parser.Positional(1))
	}
	if parser.Flag("format") != "md" {
		t.Errorf("Flag(format) = %q, want md", parser.Flag("format"))
	}
	if parser.Flag("output") != "out.md" {
		t.Errorf("Flag(output) = %q, want out.md", parser.Flag("output"))
	}
	if !parser.BoolFlag("json") {
		t.Error("BoolFlag(json) = false, want true")
	}
}

func TestArgParser_ExplicitBoolValues(t *testing.T) {
	parser := NewArgParser([]string{"--json=false", "--confirm=true"})

	if parser.BoolFlag("json") {
		t.Error("--json=false parsed as true")
	}
	if !parser.BoolFlag("confirm") {
		t.Error("--confirm=true parsed as false")
	}
}

func TestArgParser_IntFlags(t *testing.T) {
	parser := NewArgParser([]string{"--top-k", "8"})

	if got := parser.FlagIntOrDefault("top-k", 5); got != 8 {
		t.Errorf("FlagIntOrDefault(top-k) = %d, want 8", got)
	}
	if got := parser.FlagIntOrDefault("missing", 5); got != 5 {
		t.Errorf("FlagIntOrDefault(missing) = %d, want default 5", got)
	}

	bad := NewArgParser([]string{"--top-k", "many"})
	if _, err := bad.FlagInt("top-k"); err == nil {
		t.Error("FlagInt accepted a non-integer value")
	}
}

func TestArgParser_PositionalFrom(t *testing.T) {
	parser := NewArgParser([]string{"search", "revenue", "growth", "--json"})

	rest := parser.PositionalFrom(1)
	if len(rest) != 2 || rest[0] != "revenue" || rest[1] != "growth" {
		t.Errorf("PositionalFrom(1) = %v", rest)
	}
	if out := parser.PositionalFrom(10); len(out) != 0 {
		t.Errorf("PositionalFrom out of range = %v, want empty", out)
	}
}

func TestArgParser_Empty(t *testing.T) {
	parser := NewArgParser(nil)

	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q on empty args", parser.Subcommand())
	}
	if parser.PositionalCount() != 0 {
		t.Errorf("PositionalCount() = %d on empty args", parser.PositionalCount())
	}
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"default tui", []string{}, CmdTUI},
		{"ask", []string{"ask", "what is this?"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"config", []string{"config", "show"}, CmdConfig},
		{"upload", []string{"upload", "report.pdf"}, CmdUpload},
		{"docs", []string{"docs", "list"}, CmdDocs},
		{"docs alias", []string{"documents"}, CmdDocs},
		{"transcripts", []string{"transcripts", "list"}, CmdTranscripts},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ParseArgs(tt.argv)
			if got != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestParseArgs_ImplicitAsk(t *testing.T) {
	cmd, args := ParseArgs([]string{"what", "is", "in", "the", "report?"})

	if cmd != CmdAsk {
		t.Fatalf("bare words parsed as %v, want CmdAsk", cmd)
	}
	if args.Query != "what is in the report?" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgs_AskQueryJoined(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "summarize", "the", "contract"})

	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "summarize the contract" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgs_UploadFile(t *testing.T) {
	cmd, args := ParseArgs([]string{"upload", "report.pdf", "--json"})

	if cmd != CmdUpload {
		t.Fatalf("cmd = %v, want CmdUpload", cmd)
	}
	if args.File != "report.pdf" {
		t.Errorf("File = %q, want report.pdf", args.File)
	}
	if !args.JSON {
		t.Error("JSON flag not parsed")
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	_, args := ParseArgs([]string{"status", "--quiet", "--verbose"})

	if !args.Quiet || !args.Verbose {
		t.Errorf("flags = quiet %v verbose %v, want both true", args.Quiet, args.Verbose)
	}
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Command: "docs"}, ExitUsageError},
		{"not found", &NotFoundError{Resource: "document", ID: "x"}, ExitNotFoundError},
		{"unreachable", &backend.ClientError{Type: backend.ErrTypeUnreachable, Message: "down"}, ExitNetworkError},
		{"timeout", &backend.ClientError{Type: backend.ErrTypeTimeout, Message: "slow"}, ExitTimeoutError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

// =============================================================================
// JSON ENVELOPE
// =============================================================================

func TestJSONResponse_Success(t *testing.T) {
	resp := NewJSONResponse("status", map[string]int{"documents": 3})

	if !resp.Success {
		t.Error("Success = false")
	}
	if resp.Error != nil {
		t.Errorf("Error = %v, want nil", *resp.Error)
	}
	if resp.Command != "status" {
		t.Errorf("Command = %q", resp.Command)
	}
	if resp.String() == "" {
		t.Error("String() returned empty output")
	}
}

func TestJSONResponse_Error(t *testing.T) {
	resp := NewJSONErrorResponse("upload", errors.New("backend down"))

	if resp.Success {
		t.Error("Success = true for error response")
	}
	if resp.Error == nil || *resp.Error != "backend down" {
		t.Errorf("Error = %v", resp.Error)
	}
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

func TestWrapText(t *testing.T) {
	out := WrapText("one two three four five six seven eight nine ten", 20)
	for _, line := range splitLines(out) {
		if len(line) > 20 {
			t.Errorf("line %q exceeds width 20", line)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 bytes"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
