// docchat - chat with your documents from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenzydocs/docchat-tui/internal/cli"
	"github.com/kenzydocs/docchat-tui/internal/config"
	"github.com/kenzydocs/docchat-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.3.1"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.ParseArgs(os.Args[1:])

	if cmd == cli.CmdTUI {
		runTUI()
		return
	}

	os.Exit(cli.Run(cmd, args))
}

// runTUI starts the full-screen interface.
func runTUI() {
	cfg := config.Global()

	m := app.New(cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docchat: %v\n", err)
		os.Exit(1)
	}
}
