// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for docchat CLI commands.
//
// Commands always return errors; the dispatcher decides how to display
// them and which exit code to use.
package cli

import (
	"errors"
	"fmt"

	"github.com/kenzydocs/docchat-tui/internal/backend"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string
	Action  string
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError represents invalid command usage.
type UsageError struct {
	Command string
	Hint    string
}

func (e *UsageError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("usage: docchat %s\n%s", e.Command, e.Hint)
	}
	return "usage: docchat " + e.Command
}

// NotFoundError represents a resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// exitCodeFor maps an error to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ExitNotFoundError
	}

	if backend.IsUnreachable(err) {
		return ExitNetworkError
	}
	if backend.IsTimeout(err) {
		return ExitTimeoutError
	}

	return ExitGeneralError
}
