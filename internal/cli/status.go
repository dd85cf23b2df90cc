// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend status command for the docchat CLI.
//
// Command: status (alias: s)
// Short:   Show backend health and effective configuration
//
// Examples:
//   docchat status
//   docchat status --json
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/kenzydocs/docchat-tui/internal/config"
)

// RunStatus handles the "docchat status" command.
func RunStatus(args Args) error {
	cfg := config.Global()
	client := newBackendClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data := StatusData{
		Backend: StatusBackendInfo{
			URL:    cfg.Backend.URL,
			Status: "offline",
		},
		Config: StatusConfigInfo{
			TopK:          cfg.Chat.TopK,
			MaxFileSizeMB: int(cfg.Upload.MaxFileSizeMB),
			WatchDir:      cfg.Upload.WatchDir,
		},
	}
	if path, err := config.ConfigPath(); err == nil {
		data.Config.ConfigPath = path
	}

	status, err := client.Health(ctx)
	if err == nil {
		data.Backend.Status = status.Status
		data.Backend.Version = status.Version
		data.Backend.Online = status.Healthy()
	}

	if data.Backend.Online {
		if docs, derr := client.List(context.Background()); derr == nil {
			data.Documents = len(docs)
		}
	}

	if args.JSON {
		return NewJSONResponse("status", data).Print()
	}

	fmt.Println(TitleStyle.Render("docchat status"))

	fmt.Println(SectionStyle.Render("Backend"))
	fmt.Println(RenderLabel("URL") + ValueStyle.Render(data.Backend.URL))
	if data.Backend.Online {
		fmt.Println(RenderLabel("Status") + RenderStatus("online") + " " + DimStyle.Render(data.Backend.Version))
	} else if data.Backend.Status != "offline" {
		fmt.Println(RenderLabel("Status") + RenderStatus(data.Backend.Status))
	} else {
		fmt.Println(RenderLabel("Status") + RenderStatus("offline"))
		fmt.Println(DimStyle.Render("  Start the backend or set backend.autostart = true"))
	}

	if data.Backend.Online {
		fmt.Println(RenderLabel("Documents") + ValueStyle.Render(fmt.Sprintf("%d", data.Documents)))
	}

	fmt.Println(SectionStyle.Render("Configuration"))
	fmt.Println(RenderLabel("Top K") + ValueStyle.Render(fmt.Sprintf("%d", data.Config.TopK)))
	fmt.Println(RenderLabel("Max file size") + ValueStyle.Render(fmt.Sprintf("%d MB", data.Config.MaxFileSizeMB)))
	if data.Config.WatchDir != "" {
		fmt.Println(RenderLabel("Watch folder") + ValueStyle.Render(data.Config.WatchDir))
	}
	if data.Config.ConfigPath != "" {
		fmt.Println(RenderLabel("Config file") + DimStyle.Render(data.Config.ConfigPath))
	}

	return nil
}
