// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "strconv"

// formatDocCount renders a document counter with the right plural.
func formatDocCount(n int) string {
	if n == 1 {
		return "1 doc"
	}
	return strconv.Itoa(n) + " docs"
}

// formatTurnCount renders a turn counter with the right plural.
func formatTurnCount(n int) string {
	if n == 1 {
		return "1 turn"
	}
	return strconv.Itoa(n) + " turns"
}
