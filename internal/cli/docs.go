// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs.go - Document library and upload commands for the docchat CLI.
//
// Commands: upload, docs
//
// Examples:
//   docchat upload report.pdf
//   docchat docs list
//   docchat docs search quarterly
//   docchat docs delete 4f1c... --confirm
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kenzydocs/docchat-tui/internal/config"
	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/upload"
	"github.com/kenzydocs/docchat-tui/internal/util"
)

// RunUpload handles the "docchat upload" command.
func RunUpload(args Args) error {
	if args.File == "" {
		return &UsageError{Command: "upload <file>", Hint: "Supported types: " + strings.Join(upload.AllowedExtensions(), ", ")}
	}

	cfg := config.Global()
	name := filepath.Base(args.File)

	info, err := os.Stat(args.File)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args.File, err)
	}

	// The file is checked locally before the backend is contacted.
	maxBytes := int64(cfg.Upload.MaxFileSizeMB) * 1024 * 1024
	if err := upload.ValidateFile(name, info.Size(), maxBytes); err != nil {
		if args.JSON {
			NewJSONErrorResponse("upload", err).Print()
		}
		return err
	}

	client := newBackendClient(cfg)
	if err := ensureBackend(cfg, client); err != nil {
		return err
	}

	content, err := os.ReadFile(args.File)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args.File, err)
	}

	if !args.Quiet && !args.JSON {
		fmt.Println(DimStyle.Render("Uploading " + name + " (" + formatBytes(info.Size()) + ")..."))
	}

	record, err := client.Upload(context.Background(), name, content)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("upload", err).Print()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("upload", UploadData{
			ID:   record.ID,
			Name: record.Name,
			Size: record.Size,
		}).Print()
	}

	fmt.Println(SuccessStyle.Render("Indexed ") + record.Name + " " + DimStyle.Render(record.ID))
	return nil
}

// RunDocs handles the "docchat docs" command.
func RunDocs(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls":
		return runDocsList(args, "")
	case "search":
		query := strings.Join(parser.PositionalFrom(1), " ")
		return runDocsList(args, query)
	case "delete", "rm":
		return runDocsDelete(args, parser)
	default:
		return &UsageError{Command: "docs [list|search|delete]"}
	}
}

func runDocsList(args Args, query string) error {
	cfg := config.Global()
	client := newBackendClient(cfg)

	docs, err := client.List(context.Background())
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("docs", err).Print()
		}
		return err
	}

	if query != "" {
		docs = filterDocs(docs, query)
	}

	if args.JSON {
		out := make([]DocData, 0, len(docs))
		for _, doc := range docs {
			out = append(out, DocData{
				ID:         doc.ID,
				Name:       doc.Name,
				Kind:       doc.DisplayKind(),
				Size:       doc.Size,
				IngestedAt: doc.IngestedAt().Format("2006-01-02 15:04:05"),
			})
		}
		return NewJSONResponse("docs", out).Print()
	}

	if len(docs) == 0 {
		if query != "" {
			fmt.Println(DimStyle.Render("No documents match " + query + "."))
		} else {
			fmt.Println(DimStyle.Render("No documents indexed. Use 'docchat upload <file>'."))
		}
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Documents (%d)", len(docs))))
	for _, doc := range docs {
		fmt.Printf("  %s %s  %s  %s\n",
			HighlightStyle.Render("["+doc.DisplayKind()+"]"),
			ValueStyle.Render(util.TruncateRunes(doc.Name, 48)),
			DimStyle.Render(formatBytes(doc.Size)),
			DimStyle.Render(util.FormatRelativeTime(doc.IngestedAt())))
		fmt.Println("      " + DimStyle.Render(doc.ID))
	}
	return nil
}

func filterDocs(docs []model.DocumentRecord, query string) []model.DocumentRecord {
	query = strings.ToLower(query)
	matched := make([]model.DocumentRecord, 0, len(docs))
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Name), query) {
			matched = append(matched, doc)
		}
	}
	return matched
}

func runDocsDelete(args Args, parser *ArgParser) error {
	id := parser.Positional(1)
	if id == "" {
		return &UsageError{Command: "docs delete <id>", Hint: "Use 'docchat docs list' to find document IDs."}
	}

	cfg := config.Global()
	client := newBackendClient(cfg)

	// Resolve the ID so the prompt can name the document.
	docs, err := client.List(context.Background())
	if err != nil {
		return err
	}
	name := id
	found := false
	for _, doc := range docs {
		if doc.ID == id {
			name = doc.Name
			found = true
			break
		}
	}
	if !found {
		return &NotFoundError{Resource: "document", ID: id}
	}

	confirmed, err := RequireConfirmation("delete "+name, ConfirmationOptions{
		ConfirmFlag: parser.BoolFlag("confirm"),
		JSONMode:    args.JSON,
	})
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	if err := client.Delete(context.Background(), id); err != nil {
		if args.JSON {
			NewJSONErrorResponse("docs", err).Print()
		}
		return err
	}

	if args.JSON {
		return NewJSONResponse("docs", map[string]string{"deleted": id}).Print()
	}
	fmt.Println(SuccessStyle.Render("Deleted ") + name)
	return nil
}
