// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

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

// Windows-specific creation flags
const (
	// CREATE_NO_WINDOW prevents a console window from being created
	CREATE_NO_WINDOW = 0x08000000
	// DETACHED_PROCESS creates a new process that is detached from the console
	DETACHED_PROCESS = 0x00000008
)

// findBackendExecutable searches for the backend binary in common
// installation paths on Windows. Falls back to PATH lookup.
func (c *Client) findBackendExecutable() (string, error) {
	name := c.config.StartCommand

	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		return "", fmt.Errorf("configured backend executable not found: %s", name)
	}

	if path, err := exec.LookPath(name + ".exe"); err == nil {
		return path, nil
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	possiblePaths := []string{}

	// User install location: %LOCALAPPDATA%\Programs\DocChat\
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		possiblePaths = append(possiblePaths, filepath.Join(localAppData, "Programs", "DocChat", name+".exe"))
	}

	possiblePaths = append(possiblePaths,
		filepath.Join(`C:\Program Files\DocChat`, name+".exe"),
		filepath.Join(`C:\Program Files (x86)\DocChat`, name+".exe"),
	)

	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(userProfile, "DocChat", name+".exe"),
		)
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s.exe not found in PATH or common installation directories. "+
		"Checked: PATH, %%LOCALAPPDATA%%\\Programs\\DocChat, C:\\Program Files\\DocChat", name)
}

// startBackendProcess starts the backend server on Windows.
// Uses Windows-specific process creation flags for background execution.
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

	// CREATE_NEW_PROCESS_GROUP allows independent termination;
	// CREATE_NO_WINDOW and DETACHED_PROCESS keep the console clean.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | CREATE_NO_WINDOW | DETACHED_PROCESS,
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

	// Wait for the backend to become ready (poll for up to 15 seconds).
	// First launch on Windows can be slow while the model loads.
	deadline := time.Now().Add(15 * time.Second)
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

		checkCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
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
		Message: fmt.Sprintf("backend started but not responding after 15 seconds (path: %s)", backendPath),
		Cause:   lastErr,
	}
}
