// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Unified confirmation handling for destructive commands.
//
// The pattern is the same everywhere:
//  1. If --confirm was passed, proceed without prompting
//  2. If --json mode, require --confirm (no interactive prompts)
//  3. If stdin is not a TTY, require --confirm (cannot prompt)
//  4. Otherwise, prompt interactively
package cli

import (
	"errors"
	"fmt"
	"strings"
)

// ConfirmationOptions describes how a confirmation should be resolved.
type ConfirmationOptions struct {
	// ConfirmFlag indicates --confirm was passed (skip the prompt)
	ConfirmFlag bool
	// JSONMode indicates --json was passed (requires ConfirmFlag)
	JSONMode bool
}

// RequireConfirmation checks whether the user has confirmed a
// destructive action, prompting interactively when allowed.
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}

	if opts.JSONMode {
		return false, errors.New("--confirm flag required in JSON mode for: " + action)
	}

	if !IsTTY() {
		return false, errors.New("--confirm flag required (stdin is not a terminal) for: " + action)
	}

	fmt.Println(WarningStyle.Render("Warning: ") + "about to " + action)
	answer := promptInput("Continue? [y/N] ")

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		fmt.Println(DimStyle.Render("Cancelled."))
		return false, nil
	}
}
