// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// logModalState is the job log viewer. Logs load on demand when the
// modal opens; the poll cycle never refreshes them.
type logModalState struct {
	jobID   string
	loading bool
	text    string
	err     error
	view    viewport.Model
}

// newLogViewport sizes a viewport for the log modal interior.
func (model Model) newLogViewport() viewport.Model {
	width := model.width - 12
	if width < 20 {
		width = 20
	}
	height := model.height - 10
	if height < 5 {
		height = 5
	}
	return viewport.New(width, height)
}

// updateLogModal handles key input while the log modal is open. All
// navigation is delegated to the viewport; esc closes.
func (model Model) updateLogModal(message tea.KeyMsg) (Model, tea.Cmd) {
	switch message.String() {
	case "esc", "q", "enter":
		model.logModal = nil
		return model, nil
	}
	var command tea.Cmd
	model.logModal.view, command = model.logModal.view.Update(message)
	return model, command
}

// applyLogs installs a fetched log body into the open modal. Results
// for a job other than the one on display are discarded: the operator
// may have closed and reopened the modal while a fetch was in flight.
func (model Model) applyLogs(message logsMsg) Model {
	if model.logModal == nil || model.logModal.jobID != message.jobID {
		return model
	}
	model.logModal.loading = false
	model.logModal.err = message.err
	model.logModal.text = message.text
	model.logModal.view.SetContent(model.logModalContent())
	return model
}

// logModalContent returns the text the viewport scrolls.
func (model Model) logModalContent() string {
	switch {
	case model.logModal.loading:
		return "加载中..."
	case model.logModal.err != nil:
		return "日志加载失败: " + model.logModal.err.Error()
	case strings.TrimSpace(model.logModal.text) == "":
		return "暂无日志"
	default:
		return sanitize(model.logModal.text)
	}
}

// viewLogModal renders the log viewer box. The viewport output is
// split into lines so each one is padded to the box width on its own.
func (model Model) viewLogModal() string {
	faint := renderer.NewStyle().Foreground(model.theme.FaintText)
	body := strings.Split(model.logModal.view.View(), "\n")
	body = append(body, "", faint.Render("j/k 滚动  esc 关闭"))
	return model.modalBox("任务日志 - "+sanitize(model.logModal.jobID), body, model.logModal.view.Width)
}
