// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmState is the delete-confirmation modal. Nothing reaches the
// network until the operator confirms; declining discards the request
// entirely.
type confirmState struct {
	userID string
}

// updateConfirm handles key input while the confirmation is open.
func (model Model) updateConfirm(message tea.KeyMsg) (Model, tea.Cmd) {
	switch message.String() {
	case "y", "enter":
		userID := model.confirm.userID
		model.confirm = nil
		return model, model.submitDelete(userID)
	case "n", "esc", "q":
		model.confirm = nil
	}
	return model, nil
}

// submitDelete issues the delete through the gateway.
func (model Model) submitDelete(userID string) tea.Cmd {
	gateway := model.gateway
	return func() tea.Msg {
		err := gateway.DeleteSpecialUser(context.Background(), userID)
		return writeDoneMsg{action: actionDelete, userID: userID, err: err}
	}
}

// viewConfirm renders the confirmation box.
func (model Model) viewConfirm() string {
	faint := renderer.NewStyle().Foreground(model.theme.FaintText)
	body := []string{
		fmt.Sprintf("确定要删除特殊用户 %q 吗？", sanitize(model.confirm.userID)),
		"删除后该用户将使用普通共享配额。",
		"",
		faint.Render("y 确认  n 取消"),
	}
	return model.modalBox("删除特殊用户", body, 44)
}
