// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcripts.go - Saved conversation commands for the docchat CLI.
//
// Command: transcripts
//
// Examples:
//   docchat transcripts list
//   docchat transcripts show 4f1c...
//   docchat transcripts export 4f1c... --format md --output chat.md
//   docchat transcripts search revenue
//   docchat transcripts delete 4f1c... --confirm
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/kenzydocs/docchat-tui/internal/storage"
	"github.com/kenzydocs/docchat-tui/internal/util"
)

// RunTranscripts handles the "docchat transcripts" command.
func RunTranscripts(args Args) error {
	store, err := storage.NewTranscriptStore()
	if err != nil {
		return err
	}

	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls":
		return runTranscriptsList(args, store, "")
	case "search":
		query := strings.Join(parser.PositionalFrom(1), " ")
		return runTranscriptsList(args, store, query)
	case "show":
		return runTranscriptsShow(store, parser.Positional(1))
	case "export":
		return runTranscriptsExport(store, parser)
	case "delete", "rm":
		return runTranscriptsDelete(args, store, parser)
	default:
		return &UsageError{Command: "transcripts [list|show|export|search|delete]"}
	}
}

func runTranscriptsList(args Args, store *storage.TranscriptStore, query string) error {
	var metas []storage.TranscriptMeta
	var err error

	if query != "" {
		metas, err = store.Search(query)
	} else {
		metas, err = store.List()
	}
	if err != nil {
		return err
	}

	if args.JSON {
		out := make([]TranscriptData, 0, len(metas))
		for _, meta := range metas {
			out = append(out, TranscriptData{
				ID:        meta.ID,
				Title:     meta.Title,
				Messages:  meta.MessageCount,
				UpdatedAt: meta.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return NewJSONResponse("transcripts", out).Print()
	}

	if len(metas) == 0 {
		fmt.Println(DimStyle.Render("No saved conversations."))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Conversations (%d)", len(metas))))
	for _, meta := range metas {
		fmt.Printf("  %s  %s\n",
			ValueStyle.Render(util.TruncateRunes(meta.Title, 60)),
			DimStyle.Render(util.FormatRelativeTime(meta.UpdatedAt)))
		fmt.Printf("      %s %s\n",
			DimStyle.Render(meta.ID),
			DimStyle.Render(fmt.Sprintf("(%d messages)", meta.MessageCount)))
	}
	return nil
}

func runTranscriptsShow(store *storage.TranscriptStore, id string) error {
	if id == "" {
		return &UsageError{Command: "transcripts show <id>"}
	}

	transcript, err := store.Load(id)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render(transcript.Title))
	for _, msg := range transcript.Messages {
		fmt.Println(SectionStyle.Render(msg.Role.DisplayName()))
		fmt.Println(WrapText(msg.Content, GetTerminalWidth()))
		fmt.Println()
	}
	return nil
}

func runTranscriptsExport(store *storage.TranscriptStore, parser *ArgParser) error {
	id := parser.Positional(1)
	if id == "" {
		return &UsageError{Command: "transcripts export <id>", Hint: "--format md|json, --output FILE"}
	}

	transcript, err := store.Load(id)
	if err != nil {
		return err
	}

	var content []byte
	switch parser.FlagOrDefault("format", "md") {
	case "md", "markdown":
		content = []byte(transcript.ExportMarkdown())
	case "json":
		content, err = transcript.ExportJSON()
		if err != nil {
			return err
		}
	default:
		return &UsageError{Command: "transcripts export <id>", Hint: "format must be md or json"}
	}

	output := parser.Flag("output")
	if output == "" {
		fmt.Print(string(content))
		return nil
	}

	if err := os.WriteFile(output, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Println(SuccessStyle.Render("Exported ") + output)
	return nil
}

func runTranscriptsDelete(args Args, store *storage.TranscriptStore, parser *ArgParser) error {
	id := parser.Positional(1)
	if id == "" {
		return &UsageError{Command: "transcripts delete <id>"}
	}

	transcript, err := store.Load(id)
	if err != nil {
		return err
	}

	confirmed, err := RequireConfirmation("delete conversation "+transcript.Title, ConfirmationOptions{
		ConfirmFlag: parser.BoolFlag("confirm"),
		JSONMode:    args.JSON,
	})
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	if err := store.Delete(id); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Deleted ") + transcript.Title)
	return nil
}
