// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Shared helper functions used across the docchat CLI commands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kenzydocs/docchat-tui/internal/backend"
	"github.com/kenzydocs/docchat-tui/internal/config"
)

// newBackendClient builds a backend client from the loaded configuration.
func newBackendClient(cfg *config.Config) *backend.Client {
	return backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:      cfg.Backend.URL,
		Timeout:      time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		StartCommand: cfg.Backend.AutostartCommand,
	})
}

// ensureBackend starts the sidecar if autostart is enabled and it is
// not already responding.
func ensureBackend(cfg *config.Config, client *backend.Client) error {
	if !cfg.Backend.Autostart {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return client.EnsureRunning(ctx)
}

// formatDuration formats a time.Duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

// formatBytes formats a byte count for display.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// promptInput prompts the user for a line of input.
func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
