// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command for the docchat CLI.
//
// Command: chat
// Short:   Conversational REPL against the indexed documents
//
// Examples:
//   docchat chat                 Start interactive chat
//   docchat chat --top-k 8      More retrieved passages per turn
//
// Interactive commands (during chat):
//   /help, /h       Show available commands
//   /docs           List indexed documents
//   /history        Show the conversation so far
//   /save           Save the conversation transcript
//   /clear, /c      Clear conversation history
//   /quit, /q       Exit chat
//   Ctrl+D          Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/kenzydocs/docchat-tui/internal/backend"
	"github.com/kenzydocs/docchat-tui/internal/config"
	"github.com/kenzydocs/docchat-tui/internal/session"
	"github.com/kenzydocs/docchat-tui/internal/storage"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatInput provides line editing and input history for interactive
// chat via liner.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates a ChatInput with persistent history.
func NewChatInput() *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	in := &ChatInput{
		line:        line,
		historyFile: historyFile,
	}
	in.loadHistory()
	return in
}

func (c *ChatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt. Non-empty input is
// added to the history.
func (c *ChatInput) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatInput) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatInput) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// RunChat handles the "docchat chat" command.
func RunChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg := config.Global()
	client := newBackendClient(cfg)

	if err := ensureBackend(cfg, client); err != nil {
		fmt.Println(WarningStyle.Render("Warning: ") + "backend not reachable; answers will fail until it is running")
	}

	parser := NewArgParser(args.Raw)
	topK := parser.FlagIntOrDefault("top-k", cfg.Chat.TopK)

	manager := session.NewManager()
	input := NewChatInput()
	defer input.Close()

	if !args.Quiet {
		printChatWelcome(client)
	}

	for {
		text, err := input.ReadInput(InfoStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF from Ctrl+D ends the session.
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(text), "/") {
			if quit := handleChatCommand(text, manager, client); quit {
				break
			}
			continue
		}

		snapshot, userMsg, ok := manager.Submit(text)
		if !ok {
			continue
		}

		reply, err := client.Chat(context.Background(), backend.ChatRequest{
			Message: userMsg.Content,
			History: snapshot,
			TopK:    topK,
		})
		if err != nil {
			manager.Fail(err)
			fmt.Println(ErrorStyle.Render("assistant> ") + session.FallbackReply)
			fmt.Println(DimStyle.Render("  (" + err.Error() + ")"))
			continue
		}

		manager.Resolve(reply)
		printAnswer(reply, config.Global().UI.ShowCitations)
	}

	offerTranscriptSave(manager)
	return nil
}

func printChatWelcome(client *backend.Client) {
	fmt.Println(TitleStyle.Render("docchat " + Version))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if status, err := client.Health(ctx); err == nil && status.Healthy() {
		fmt.Println(RenderStatus("online") + " backend " + status.Version)
	} else {
		fmt.Println(RenderStatus("offline") + " backend not responding")
	}
	fmt.Println(DimStyle.Render("Type /help for commands, Ctrl+D to exit."))
	fmt.Println()
}

// handleChatCommand runs a slash command. Returns true when the REPL
// should exit.
func handleChatCommand(text string, manager *session.Manager, client *backend.Client) bool {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(SectionStyle.Render("Commands"))
		fmt.Println("  /docs      List indexed documents")
		fmt.Println("  /history   Show the conversation so far")
		fmt.Println("  /save      Save the conversation transcript")
		fmt.Println("  /clear     Clear conversation history")
		fmt.Println("  /quit      Exit chat")

	case "/clear", "/c":
		manager.Clear()
		fmt.Println(DimStyle.Render("History cleared."))

	case "/history":
		history := manager.History()
		if len(history) == 0 {
			fmt.Println(DimStyle.Render("No messages yet."))
			break
		}
		for _, msg := range history {
			fmt.Printf("%s %s\n",
				LabelStyle.Copy().Width(10).Render(msg.Role.DisplayName()+":"),
				msg.Preview(100))
		}

	case "/docs":
		docs, err := client.List(context.Background())
		if err != nil {
			fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
			break
		}
		if len(docs) == 0 {
			fmt.Println(DimStyle.Render("No documents indexed. Use 'docchat upload <file>'."))
			break
		}
		for _, doc := range docs {
			fmt.Printf("  %s  %s %s\n",
				ValueStyle.Render(doc.Name),
				DimStyle.Render(formatBytes(doc.Size)),
				DimStyle.Render(doc.ID))
		}

	case "/save":
		saveTranscript(manager)

	default:
		fmt.Println(DimStyle.Render("Unknown command. Type /help for the list."))
	}

	return false
}

// offerTranscriptSave saves the conversation on exit when there is one.
func offerTranscriptSave(manager *session.Manager) {
	if manager.MessageCount() == 0 {
		return
	}
	answer := promptInput("Save this conversation? [y/N] ")
	if strings.ToLower(answer) == "y" || strings.ToLower(answer) == "yes" {
		saveTranscript(manager)
	}
}

func saveTranscript(manager *session.Manager) {
	if manager.MessageCount() == 0 {
		fmt.Println(DimStyle.Render("Nothing to save."))
		return
	}

	store, err := storage.NewTranscriptStore()
	if err != nil {
		fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
		return
	}

	id, err := store.Save(&storage.Transcript{Messages: manager.History()})
	if err != nil {
		fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
		return
	}
	fmt.Println(SuccessStyle.Render("Saved ") + DimStyle.Render(id))
}
