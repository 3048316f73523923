// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// View renders the full console frame: header, tab bar, active tab
// content, status bar, and any open modal spliced over the top.
func (model Model) View() string {
	if model.width == 0 {
		return "加载中..."
	}

	sections := []string{
		model.viewHeader(),
		model.viewTabBar(),
		"",
	}

	if model.activeTab == TabQuota {
		sections = append(sections, model.viewQuota())
	} else {
		sections = append(sections, model.viewJobs())
	}

	content := strings.Join(sections, "\n")
	content = model.padToHeight(content, model.height-1)
	content += "\n" + model.viewStatusBar()

	// Modal precedence mirrors the input routing in handleKey.
	switch {
	case model.tokenModal != nil:
		return spliceCentered(content, model.viewTokenModal(), model.width, model.height)
	case model.alert != nil:
		return spliceCentered(content, model.viewAlert(), model.width, model.height)
	case model.confirm != nil:
		return spliceCentered(content, model.viewConfirm(), model.width, model.height)
	case model.editor.open():
		return spliceCentered(content, model.viewEditor(), model.width, model.height)
	case model.logModal != nil:
		return spliceCentered(content, model.viewLogModal(), model.width, model.height)
	}
	return content
}

// viewHeader renders the title line with live service stats and the
// auto-refresh indicator.
func (model Model) viewHeader() string {
	title := renderer.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Render("Remote CI 管理控制台")

	faint := renderer.NewStyle().Foreground(model.theme.FaintText)

	statsText := "统计加载中..."
	switch {
	case model.statsErr != nil:
		statsText = "统计不可用"
	case model.stats != nil:
		statsText = fmt.Sprintf("执行中 %d | 队列中 %d | 工作节点 %d",
			model.stats.Running, model.stats.Queued, model.stats.Workers)
	}

	refresh := "自动刷新: 开"
	if !model.autoRefresh {
		refresh = "自动刷新: 关"
	}

	return title + "   " + faint.Render(statsText+"   "+refresh)
}

// viewTabBar renders the tab selector.
func (model Model) viewTabBar() string {
	active := renderer.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground).
		Bold(true)
	inactive := renderer.NewStyle().Foreground(model.theme.FaintText)

	jobs := " 1 任务列表 "
	quota := " 2 存储配额 "
	if model.activeTab == TabQuota {
		return inactive.Render(jobs) + active.Render(quota)
	}
	return active.Render(jobs) + inactive.Render(quota)
}

// viewStatusBar renders the bottom line: a pending log record wins,
// then a transient confirmation notice, then the keyboard help.
func (model Model) viewStatusBar() string {
	if model.logMessage != "" {
		color := model.theme.TierWarning
		if model.logLevel >= slog.LevelError {
			color = model.theme.ErrorText
		}
		return renderer.NewStyle().Foreground(color).Render(truncateCell(model.logMessage, model.width))
	}
	if model.notice != "" {
		return renderer.NewStyle().Foreground(model.theme.NoticeText).Render(model.notice)
	}
	return renderer.NewStyle().Foreground(model.theme.HelpText).Render(model.helpLine())
}

// helpLine renders the context-sensitive key hints.
func (model Model) helpLine() string {
	bindings := []key.Binding{
		model.keys.TabJobs,
		model.keys.TabQuota,
	}
	if model.activeTab == TabQuota {
		bindings = append(bindings,
			model.keys.Up, model.keys.Down,
			model.keys.AddUser, model.keys.EditUser, model.keys.DeleteUser)
	} else {
		bindings = append(bindings,
			model.keys.Up, model.keys.Down,
			model.keys.FilterActivate, model.keys.OpenLogs, model.keys.Download)
	}
	bindings = append(bindings, model.keys.Refresh, model.keys.AutoToggle, model.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return truncateCell(strings.Join(parts, "  "), model.width)
}

// padToHeight pads the content with blank lines so the status bar
// sits on the last screen row and modals center over a full screen.
func (model Model) padToHeight(content string, height int) string {
	lineCount := strings.Count(content, "\n") + 1
	if lineCount >= height {
		return content
	}
	return content + strings.Repeat("\n", height-lineCount)
}
