// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package backend

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// findBackendExecutable searches for the backend binary in common
// installation paths on Unix. Falls back to PATH lookup.
func (c *Client) findBackendExecutable() (string, error) {
	name := c.config.StartCommand

	// Absolute or relative path configured directly
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		return "", fmt.Errorf("configured backend executable not found: %s", name)
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	possiblePaths := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
		filepath.Join("/opt/docchat", name),
	}

	if home := os.Getenv("HOME"); home != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(home, ".local", "bin", name),
			filepath.Join(home, "bin", name),
		)
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or common installation directories. "+
		"Checked: PATH, /usr/local/bin, /usr/bin, ~/.local/bin", name)
}

// startBackendProcess starts the backend server on Unix/macOS.
// Uses Unix-specific process attributes for proper background execution.
func (c *Client) startBackendProcess(ctx context.Context) error {
	backendPath, err := c.findBackendExecutable()
	if err != nil {
		return &ClientError{
			Type:    ErrTypeUnreachable,
			Message: "failed to find backend executable",
			Cause:   err,
		}
	}

	cmd := exec.Command(backendPath)
	cmd.Env = os.Environ()

	// Setpgid creates a new process group so the backend survives our exit.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	// Don't capture output - let it run independently
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return &ClientError{
			Type:    ErrTypeUnreachable,
			Message: fmt.Sprintf("failed to start backend (path: %s)", backendPath),
			Cause:   err,
		}
	}

	if cmd.Process != nil {
		// Non-fatal: process started but release failed
		cmd.Process.Release()
	}

	// Wait for the backend to become ready (poll for up to 10 seconds)
	deadline := time.Now().Add(10 * time.Second)
	startTime := time.Now()
	var lastErr error

	fmt.Fprintf(os.Stderr, "Starting backend service...\n")

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return &ClientError{
				Type:    ErrTypeUnreachable,
				Message: "backend startup cancelled",
				Cause:   ctx.Err(),
			}
		default:
		}

		checkCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		lastErr = c.CheckRunning(checkCtx)
		cancel()

		if lastErr == nil {
			elapsed := time.Since(startTime)
			fmt.Fprintf(os.Stderr, "Backend service started successfully (%.1fs)\n", elapsed.Seconds())
			return nil
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "\rStarting backend service... %.1fs elapsed", elapsed.Seconds())

		time.Sleep(500 * time.Millisecond)
	}

	fmt.Fprintf(os.Stderr, "\n")

	return &ClientError{
		Type:    ErrTypeUnreachable,
		Message: fmt.Sprintf("backend started but not responding after 10 seconds (path: %s)", backendPath),
		Cause:   lastErr,
	}
}
