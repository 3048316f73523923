// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces a rectangular region of a rendered view with
// overlay content. The overlay lines are placed starting at (anchorX,
// anchorY) in screen coordinates. Uses ANSI-aware truncation so escape
// sequences in the original view are preserved on both sides of the
// overlay.
func spliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		// Build: prefix + reset + overlay + reset + suffix.
		var result strings.Builder

		// Prefix: everything before the overlay anchor.
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		// Suffix: everything after the overlay region.
		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			suffix := ansi.TruncateLeft(viewLine, suffixStart, "")
			result.WriteString(suffix)
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// spliceCentered splices a bordered modal box over the view, centered
// horizontally and vertically within the given screen dimensions.
func spliceCentered(view, box string, screenWidth, screenHeight int) string {
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, line := range boxLines {
		if width := ansi.StringWidth(line); width > boxWidth {
			boxWidth = width
		}
	}

	anchorX := (screenWidth - boxWidth) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	anchorY := (screenHeight - len(boxLines)) / 2
	if anchorY < 0 {
		anchorY = 0
	}

	return spliceOverlay(view, boxLines, anchorX, anchorY)
}

// modalBox renders a titled, bordered modal frame around the given
// body lines. Every line is padded to the same interior width so the
// splice replaces a clean rectangle.
func (model Model) modalBox(title string, body []string, interiorWidth int) string {
	titleStyle := renderer.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, titleStyle.Render(padToWidth(title, interiorWidth)))
	lines = append(lines, "")
	for _, line := range body {
		lines = append(lines, padToWidth(line, interiorWidth))
	}

	boxStyle := renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(0, 2)

	return boxStyle.Render(strings.Join(lines, "\n"))
}

// padToWidth right-pads a line with spaces to the target display
// width, truncating ANSI-aware if it is too long.
func padToWidth(line string, width int) string {
	lineWidth := ansi.StringWidth(line)
	if lineWidth > width {
		return ansi.Truncate(line, width, "…")
	}
	return line + strings.Repeat(" ", width-lineWidth)
}
