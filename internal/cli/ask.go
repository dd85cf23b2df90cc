// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for the docchat CLI.
//
// Command: ask
// Short:   Ask a single question against the indexed documents
//
// Examples:
//   docchat ask "what does the contract say about termination?"
//   docchat ask --top-k 8 "summarize the quarterly report"
//   docchat ask --json "who signed the agreement?" | jq .data.answer
//
// Flags:
//   --top-k N         Retrieved passages per question (default from config)
//   --no-citations    Hide source citations
//   --json            Machine-readable output
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/kenzydocs/docchat-tui/internal/backend"
	"github.com/kenzydocs/docchat-tui/internal/config"
	"github.com/kenzydocs/docchat-tui/internal/model"
)

// RunAsk handles the "docchat ask" command.
func RunAsk(args Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return &UsageError{Command: `ask "question"`}
	}

	cfg := config.Global()
	client := newBackendClient(cfg)

	if err := ensureBackend(cfg, client); err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	parser := NewArgParser(args.Raw)
	topK := parser.FlagIntOrDefault("top-k", cfg.Chat.TopK)
	showCitations := cfg.UI.ShowCitations && !parser.BoolFlag("no-citations")

	if !args.Quiet && !args.JSON {
		fmt.Println(DimStyle.Render("Asking..."))
	}

	start := time.Now()
	reply, err := client.Chat(context.Background(), backend.ChatRequest{
		Message: question,
		History: []model.Message{},
		TopK:    topK,
	})
	elapsed := time.Since(start)

	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("ask", askDataFrom(question, reply, elapsed)).Print()
	}

	printAnswer(reply, showCitations)

	if args.Verbose {
		fmt.Println(DimStyle.Render("\nAnswered in " + formatDuration(elapsed)))
	}
	return nil
}

// printAnswer renders the assistant reply, through glamour when stdout
// is a terminal.
func printAnswer(reply model.Message, showCitations bool) {
	body := reply.Content

	if IsStdoutTTY() {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
		if err == nil {
			if rendered, rerr := renderer.Render(body); rerr == nil {
				body = strings.TrimSpace(rendered)
			}
		}
	}

	fmt.Println(body)

	if showCitations && len(reply.Citations) > 0 {
		fmt.Println()
		fmt.Println(SectionStyle.Render(fmt.Sprintf("Sources (%d)", len(reply.Citations))))
		for _, c := range reply.Citations {
			fmt.Printf("  %s %s\n",
				HighlightStyle.Render(c.Source()),
				DimStyle.Render(fmt.Sprintf("(%.2f)", c.Score)))
			fmt.Println("    " + DimStyle.Render(c.Preview(120)))
		}
	}
}

func askDataFrom(question string, reply model.Message, elapsed time.Duration) AskData {
	data := AskData{
		Question:   question,
		Answer:     reply.Content,
		DurationMs: elapsed.Milliseconds(),
	}
	for _, c := range reply.Citations {
		data.Citations = append(data.Citations, CitationData{
			Source:  c.Source(),
			Score:   c.Score,
			Snippet: c.Preview(200),
		})
	}
	return data
}
