// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strconv"
	"time"
)

// =============================================================================
// FILE SIZE FORMATTING
// =============================================================================

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize formats a byte count as a human-readable size.
// Uses 1024-based units: "0 B", "512 B", "1.5 KB", "2.3 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}

	if unit == 0 {
		return strconv.FormatInt(bytes, 10) + " " + sizeUnits[0]
	}
	return strconv.FormatFloat(size, 'f', 1, 64) + " " + sizeUnits[unit]
}

// =============================================================================
// RELATIVE TIME FORMATTING
// =============================================================================

// FormatRelativeTime formats a timestamp relative to now.
// Recent times collapse to "just now", then minutes and hours; anything
// older than a day shows the date.
func FormatRelativeTime(t time.Time) string {
	elapsed := time.Since(t)

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return strconv.Itoa(int(elapsed.Minutes())) + "m ago"
	case elapsed < 24*time.Hour:
		return strconv.Itoa(int(elapsed.Hours())) + "h ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}
