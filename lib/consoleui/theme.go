// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/remote-ci/console/lib/consolefmt"
)

// Theme defines the console's color palette. All colors use ANSI 256
// codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Usage tiers for progress bars and percentage labels.
	TierDefault lipgloss.Color
	TierWarning lipgloss.Color
	TierDanger  lipgloss.Color

	// Job status badges.
	StatusQueued  lipgloss.Color
	StatusRunning lipgloss.Color
	StatusSuccess lipgloss.Color
	StatusFailed  lipgloss.Color
	StatusExpired lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	NoticeText       lipgloss.Color
	ErrorText        lipgloss.Color
}

// DefaultTheme is the built-in palette.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),

	TierDefault: lipgloss.Color("40"),
	TierWarning: lipgloss.Color("214"),
	TierDanger:  lipgloss.Color("196"),

	StatusQueued:  lipgloss.Color("245"),
	StatusRunning: lipgloss.Color("39"),
	StatusSuccess: lipgloss.Color("40"),
	StatusFailed:  lipgloss.Color("196"),
	StatusExpired: lipgloss.Color("208"),

	HeaderForeground: lipgloss.Color("81"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("243"),
	NoticeText:       lipgloss.Color("40"),
	ErrorText:        lipgloss.Color("196"),
}

// renderer is a lipgloss renderer with a forced ANSI256 profile. The
// TUI draws to the alt screen regardless of what stdout detection
// would report, so the profile is pinned rather than auto-detected.
var renderer = lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))

// TierColor returns the palette color for a usage tier.
func (theme Theme) TierColor(tier consolefmt.Tier) lipgloss.Color {
	switch tier {
	case consolefmt.TierDanger:
		return theme.TierDanger
	case consolefmt.TierWarning:
		return theme.TierWarning
	default:
		return theme.TierDefault
	}
}

// StatusColor returns the badge color for a job status code.
func (theme Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case "queued":
		return theme.StatusQueued
	case "running":
		return theme.StatusRunning
	case "success":
		return theme.StatusSuccess
	case "failed", "error", "timeout":
		return theme.StatusFailed
	default:
		return theme.NormalText
	}
}
