// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// sanitize strips ANSI escape sequences and non-printing control
// characters from server-supplied text. User IDs, project names, and
// log bodies all pass through here before rendering: a hostile value
// must not be able to move the cursor or restyle the console.
func sanitize(text string) string {
	stripped := ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, stripped)
}

// truncateCell truncates a table cell to the given display width,
// appending an ellipsis when anything was cut.
func truncateCell(text string, width int) string {
	if ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width-1, "") + "…"
}
