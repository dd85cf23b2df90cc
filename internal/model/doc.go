// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the core data structures shared across the
// application: chat messages with their citations, and document records
// for the roster.
//
// The types here mirror the backend wire format. Messages are serialized
// as-is in chat requests; DocumentRecord matches the shape returned by
// the upload and list endpoints.
package model
