// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// alertState is the blocking error acknowledgment modal. Mutation
// failures surface here rather than in the status bar so the operator
// cannot miss them; the console accepts no other input until the
// alert is dismissed.
type alertState struct {
	message string
}

// updateAlert handles key input while an alert is open. Any of the
// usual dismissal keys acknowledge it.
func (model Model) updateAlert(message tea.KeyMsg) (Model, tea.Cmd) {
	switch message.String() {
	case "enter", "esc", "q", " ":
		model.alert = nil
	}
	return model, nil
}

// viewAlert renders the alert box.
func (model Model) viewAlert() string {
	errorStyle := renderer.NewStyle().Foreground(model.theme.ErrorText)
	faint := renderer.NewStyle().Foreground(model.theme.FaintText)
	body := []string{
		errorStyle.Render(sanitize(model.alert.message)),
		"",
		faint.Render("enter 关闭"),
	}
	return model.modalBox("操作失败", body, 50)
}
