// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/remote-ci/console/lib/ciapi"
)

// tokenModalState is the admin-token entry modal. A gateway goroutine
// is blocked on the reply channel the whole time the modal is open,
// so the modal must always answer: submit, or decline on escape.
type tokenModalState struct {
	reason ciapi.PromptReason
	input  textinput.Model
	reply  chan<- promptAnswer
}

// newTokenModal builds the modal for a prompt request.
func newTokenModal(message tokenPromptMsg) *tokenModalState {
	input := textinput.New()
	input.Placeholder = "API Token"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 256
	input.Width = 40
	return &tokenModalState{
		reason: message.reason,
		input:  input,
		reply:  message.reply,
	}
}

// updateTokenModal handles key input while the token modal is open.
func (model Model) updateTokenModal(message tea.KeyMsg) (Model, tea.Cmd) {
	switch message.String() {
	case "enter":
		model.tokenModal.reply <- promptAnswer{token: model.tokenModal.input.Value(), ok: true}
		model.tokenModal = nil
		return model, nil
	case "esc":
		model.tokenModal.reply <- promptAnswer{ok: false}
		model.tokenModal = nil
		return model, nil
	}
	var command tea.Cmd
	model.tokenModal.input, command = model.tokenModal.input.Update(message)
	return model, command
}

// viewTokenModal renders the token entry box. The title states why
// the prompt appeared: first use, or a rejected credential.
func (model Model) viewTokenModal() string {
	title := "请输入 API Token 以进行管理操作"
	if model.tokenModal.reason == ciapi.PromptRejected {
		title = "Token 无效或已过期，请重新输入"
	}

	faint := renderer.NewStyle().Foreground(model.theme.FaintText)
	body := []string{
		model.tokenModal.input.View(),
		"",
		faint.Render("enter 确认  esc 取消"),
	}
	return model.modalBox(title, body, 44)
}
