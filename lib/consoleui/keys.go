// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the console's key bindings.
type KeyMap struct {
	// List navigation (active tab's list).
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Tab switching.
	TabJobs  key.Binding
	TabQuota key.Binding

	// Refresh control.
	Refresh    key.Binding // Immediate manual refresh.
	AutoToggle key.Binding // Toggle the 5-second poll cycle.

	// Job list.
	FilterActivate key.Binding // Focus the user-ID filter input.
	FilterClear    key.Binding // Clear the filter and reload.
	OpenLogs       key.Binding // Open the log modal for the row.
	Download       key.Binding // Open the artifact download in a browser.

	// Quota tab.
	AddUser    key.Binding
	EditUser   key.Binding
	DeleteUser key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set: vim-style navigation
// alongside arrow keys, digits for tabs.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "上移"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "下移"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "上翻页"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "下翻页"),
	),
	TabJobs: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "任务列表"),
	),
	TabQuota: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "存储配额"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "刷新"),
	),
	AutoToggle: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "自动刷新开关"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "按用户ID筛选"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "清除筛选"),
	),
	OpenLogs: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "查看日志"),
	),
	Download: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "下载产物"),
	),
	AddUser: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "添加特殊用户"),
	),
	EditUser: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "编辑"),
	),
	DeleteUser: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "删除"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "退出"),
	),
}
