// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/remote-ci/console/lib/ciapi"
)

// editorMode distinguishes the closed editor from its two open forms.
type editorMode int

const (
	editorClosed editorMode = iota
	editorAdding
	editorEditing
)

// editorField identifies which input currently has focus.
type editorField int

const (
	fieldUserID editorField = iota
	fieldQuota
)

// editorState is the special-user editor modal. In editing mode the
// user ID is fixed: the identifier is the resource key, so changing
// it would be a create, not an update.
type editorState struct {
	mode       editorMode
	field      editorField
	userID     textinput.Model
	quota      textinput.Model
	validation string
}

func newUserIDInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "用户 ID"
	input.CharLimit = 64
	input.Width = 24
	return input
}

func newQuotaInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "配额 (GB)"
	input.CharLimit = 12
	input.Width = 24
	return input
}

// newEditorAdding opens the editor with both fields blank and focus
// on the user ID.
func newEditorAdding() editorState {
	return editorState{
		mode:   editorAdding,
		field:  fieldUserID,
		userID: newUserIDInput(),
		quota:  newQuotaInput(),
	}
}

// newEditorEditing opens the editor prefilled from an existing user,
// with focus directly on the quota since the ID cannot change.
func newEditorEditing(user ciapi.SpecialUser) editorState {
	editor := editorState{
		mode:   editorEditing,
		field:  fieldQuota,
		userID: newUserIDInput(),
		quota:  newQuotaInput(),
	}
	editor.userID.SetValue(user.UserID)
	editor.quota.SetValue(strconv.FormatFloat(user.QuotaGB, 'f', -1, 64))
	editor.quota.CursorEnd()
	return editor
}

// open reports whether the editor modal is visible.
func (editor editorState) open() bool {
	return editor.mode != editorClosed
}

// focusCommand focuses the input the editor opened on.
func (editor *editorState) focusCommand() tea.Cmd {
	if editor.field == fieldQuota {
		return editor.quota.Focus()
	}
	return editor.userID.Focus()
}

// validate checks the form and records the inline error. Returns the
// trimmed user ID and parsed quota on success.
func (editor *editorState) validate() (string, float64, bool) {
	userID := strings.TrimSpace(sanitize(editor.userID.Value()))
	quota, err := strconv.ParseFloat(strings.TrimSpace(editor.quota.Value()), 64)
	if userID == "" || err != nil || quota <= 0 {
		editor.validation = "请填写正确的用户 ID 和配额（必须大于 0）"
		return "", 0, false
	}
	editor.validation = ""
	return userID, quota, true
}

// updateEditor handles key input while the editor modal is open.
// Invalid input never leaves the modal: submission with a bad form
// sets the inline error and issues no command.
func (model Model) updateEditor(message tea.KeyMsg) (Model, tea.Cmd) {
	switch message.String() {
	case "esc":
		model.editor = editorState{}
		return model, nil
	case "tab", "shift+tab", "up", "down":
		// Editing mode keeps focus pinned to the quota field.
		if model.editor.mode == editorAdding {
			if model.editor.field == fieldUserID {
				model.editor.field = fieldQuota
				model.editor.userID.Blur()
				return model, model.editor.quota.Focus()
			}
			model.editor.field = fieldUserID
			model.editor.quota.Blur()
			return model, model.editor.userID.Focus()
		}
		return model, nil
	case "enter":
		userID, quota, ok := model.editor.validate()
		if !ok {
			return model, nil
		}
		return model, model.submitEditor(userID, quota)
	}

	var command tea.Cmd
	if model.editor.field == fieldQuota {
		model.editor.quota, command = model.editor.quota.Update(message)
	} else {
		model.editor.userID, command = model.editor.userID.Update(message)
	}
	return model, command
}

// submitEditor issues the create or update through the gateway. The
// gateway handles token acquisition and the retry protocol; the
// command blocks in its own goroutine until the mutation resolves.
func (model Model) submitEditor(userID string, quota float64) tea.Cmd {
	gateway := model.gateway
	action := actionCreate
	if model.editor.mode == editorEditing {
		action = actionUpdate
	}
	return func() tea.Msg {
		var err error
		if action == actionUpdate {
			_, err = gateway.UpdateSpecialUser(context.Background(), userID, quota)
		} else {
			_, err = gateway.CreateSpecialUser(context.Background(), userID, quota)
		}
		return writeDoneMsg{action: action, userID: userID, err: err}
	}
}

// viewEditor renders the editor modal box.
func (model Model) viewEditor() string {
	title := "添加特殊用户"
	if model.editor.mode == editorEditing {
		title = "编辑特殊用户"
	}

	faint := renderer.NewStyle().Foreground(model.theme.FaintText)

	var userLine string
	if model.editor.mode == editorEditing {
		userLine = "用户 ID: " + faint.Render(sanitize(model.editor.userID.Value())+" (不可修改)")
	} else {
		userLine = "用户 ID: " + model.editor.userID.View()
	}

	body := []string{
		userLine,
		"配额(GB): " + model.editor.quota.View(),
		"",
	}
	if model.editor.validation != "" {
		errorStyle := renderer.NewStyle().Foreground(model.theme.ErrorText)
		body = append(body, errorStyle.Render(model.editor.validation))
	}
	body = append(body, faint.Render("enter 保存  esc 取消"))

	return model.modalBox(title, body, 44)
}
