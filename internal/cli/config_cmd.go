// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command for the docchat CLI.
//
// Command: config
// Short:   Show and edit docchat configuration
//
// Examples:
//   docchat config show
//   docchat config set backend.url http://127.0.0.1:9000
//   docchat config set chat.top_k 8
//   docchat config path
package cli

import (
	"fmt"
	"strconv"

	"github.com/kenzydocs/docchat-tui/internal/config"
)

// RunConfig handles the "docchat config" command.
func RunConfig(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		return runConfigShow(args)
	case "set":
		return runConfigSet(parser.Positional(1), parser.Positional(2))
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return &UsageError{Command: "config [show|set|path]"}
	}
}

func runConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		return NewJSONResponse("config", cfg).Print()
	}

	fmt.Println(TitleStyle.Render("docchat configuration"))

	fmt.Println(SectionStyle.Render("Backend"))
	fmt.Println(RenderLabel("backend.url") + ValueStyle.Render(cfg.Backend.URL))
	fmt.Println(RenderLabel("backend.timeout_secs") + ValueStyle.Render(strconv.Itoa(cfg.Backend.TimeoutSecs)))
	fmt.Println(RenderLabel("backend.autostart") + ValueStyle.Render(strconv.FormatBool(cfg.Backend.Autostart)))
	fmt.Println(RenderLabel("backend.health_interval_secs") + ValueStyle.Render(strconv.Itoa(cfg.Backend.HealthIntervalSecs)))

	fmt.Println(SectionStyle.Render("Chat"))
	fmt.Println(RenderLabel("chat.top_k") + ValueStyle.Render(strconv.Itoa(cfg.Chat.TopK)))

	fmt.Println(SectionStyle.Render("Upload"))
	fmt.Println(RenderLabel("upload.max_file_size_mb") + ValueStyle.Render(strconv.FormatInt(cfg.Upload.MaxFileSizeMB, 10)))
	fmt.Println(RenderLabel("upload.watch_dir") + ValueStyle.Render(orDash(cfg.Upload.WatchDir)))

	fmt.Println(SectionStyle.Render("UI"))
	fmt.Println(RenderLabel("ui.theme") + ValueStyle.Render(cfg.UI.Theme))
	fmt.Println(RenderLabel("ui.show_citations") + ValueStyle.Render(strconv.FormatBool(cfg.UI.ShowCitations)))

	return nil
}

func runConfigSet(key, value string) error {
	if key == "" || value == "" {
		return &UsageError{Command: "config set <key> <value>", Hint: "e.g. docchat config set chat.top_k 8"}
	}

	cfg := config.Global()

	switch key {
	case "backend.url":
		cfg.Backend.URL = value
	case "backend.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		cfg.Backend.TimeoutSecs = n
	case "backend.autostart":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		cfg.Backend.Autostart = b
	case "backend.health_interval_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		cfg.Backend.HealthIntervalSecs = n
	case "chat.top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		cfg.Chat.TopK = n
	case "upload.max_file_size_mb":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		cfg.Upload.MaxFileSizeMB = int64(n)
	case "upload.watch_dir":
		cfg.Upload.WatchDir = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.show_citations":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		cfg.UI.ShowCitations = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render("Saved ") + key + " = " + value)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
