// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive docchat commands: ask,
// chat, status, config, upload, docs, and transcripts. The TUI itself
// lives in internal/ui/app; this package covers everything reachable
// from the command line without a full-screen terminal.
package cli
