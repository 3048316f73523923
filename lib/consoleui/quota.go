// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/remote-ci/console/lib/ciapi"
	"github.com/remote-ci/console/lib/consolefmt"
)

// usageBarWidth is the character width of quota progress bars.
const usageBarWidth = 40

// updateQuota handles key input while the quota tab is active and no
// modal is open.
func (model Model) updateQuota(message tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Up):
		if model.userCursor > 0 {
			model.userCursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.userCursor < len(model.users)-1 {
			model.userCursor++
		}
	case key.Matches(message, model.keys.AddUser):
		model.editor = newEditorAdding()
		return model, model.editor.focusCommand()
	case key.Matches(message, model.keys.EditUser):
		if user := model.selectedUser(); user != nil {
			model.editor = newEditorEditing(*user)
			return model, model.editor.focusCommand()
		}
	case key.Matches(message, model.keys.DeleteUser):
		if user := model.selectedUser(); user != nil {
			model.confirm = &confirmState{userID: user.UserID}
		}
	}
	return model, nil
}

// selectedUser returns the special user under the cursor, or nil when
// the list is empty.
func (model Model) selectedUser() *ciapi.SpecialUser {
	if model.userCursor < 0 || model.userCursor >= len(model.users) {
		return nil
	}
	return &model.users[model.userCursor]
}

// viewQuota renders the quota tab: the storage summary card, the
// shared-pool block for normal users, and the special-user list.
func (model Model) viewQuota() string {
	var sections []string

	switch {
	case model.quotaErr != nil:
		errorStyle := renderer.NewStyle().Foreground(model.theme.ErrorText)
		sections = append(sections, errorStyle.Render("配额信息加载失败: "+model.quotaErr.Error()))
	case model.quota == nil:
		faint := renderer.NewStyle().Foreground(model.theme.FaintText)
		sections = append(sections, faint.Render("加载中..."))
	default:
		sections = append(sections, model.viewQuotaSummary(*model.quota))
	}

	sections = append(sections, "", model.viewSpecialUsers())
	return strings.Join(sections, "\n")
}

// viewQuotaSummary renders the total-storage card and the
// normal-users shared pool.
func (model Model) viewQuotaSummary(summary ciapi.QuotaSummary) string {
	header := renderer.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)
	faint := renderer.NewStyle().Foreground(model.theme.FaintText)

	lines := []string{
		header.Render("存储总览"),
		fmt.Sprintf("总容量: %s    已用: %s    可用: %s",
			consolefmt.GB(summary.TotalBytes),
			consolefmt.GB(summary.UsedBytes),
			consolefmt.GB(summary.AvailableBytes)),
		model.renderUsageBar(summary.UsagePercent, consolefmt.Percent(summary.UsagePercent)),
		"",
		header.Render("普通用户共享配额"),
		fmt.Sprintf("配额: %s    已用: %s",
			consolefmt.GB(summary.NormalUsersQuota),
			consolefmt.GB(summary.NormalUsersUsed)),
		model.renderUsageBar(summary.NormalUsersUsagePercent,
			consolefmt.PercentCoarse(summary.NormalUsersUsagePercent)),
		faint.Render("未配置特殊配额的用户共用此空间"),
	}
	return strings.Join(lines, "\n")
}

// renderUsageBar renders a tier-colored progress bar with the given
// percentage label alongside. The bar fill is clamped to the bar, the
// label is not: an over-allocated pool reads above 100%.
func (model Model) renderUsageBar(percent float64, label string) string {
	tier := consolefmt.UsageTier(percent)
	color := model.theme.TierColor(tier)

	filled := int(consolefmt.BarPercent(percent) / 100 * usageBarWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", usageBarWidth-filled)

	barStyle := renderer.NewStyle().Foreground(color)
	return barStyle.Render(bar) + " " + barStyle.Render(label)
}

// viewSpecialUsers renders the special-user list with per-user quota,
// usage, and utilization.
func (model Model) viewSpecialUsers() string {
	header := renderer.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)
	faint := renderer.NewStyle().Foreground(model.theme.FaintText)

	var sections []string
	sections = append(sections, header.Render("特殊用户配额"))

	switch {
	case model.usersErr != nil:
		errorStyle := renderer.NewStyle().Foreground(model.theme.ErrorText)
		sections = append(sections, errorStyle.Render("特殊用户加载失败: "+model.usersErr.Error()))
	case len(model.users) == 0:
		sections = append(sections, faint.Render("暂无特殊用户，按 a 添加"))
	default:
		for index, user := range model.users {
			sections = append(sections, model.renderUserRow(user, index == model.userCursor))
		}
	}

	return strings.Join(sections, "\n")
}

// renderUserRow renders one special user:
//
//	alice  配额: 50.00 GB | 已用: 12.34 GB | 使用率: 24.68%
func (model Model) renderUserRow(user ciapi.SpecialUser, selected bool) string {
	tierStyle := renderer.NewStyle().
		Foreground(model.theme.TierColor(consolefmt.UsageTier(user.UsagePercent)))

	identifier := padToWidth(truncateCell(sanitize(user.UserID), 19), 20)
	detail := fmt.Sprintf("配额: %s | 已用: %s | 使用率: ",
		consolefmt.GBValue(user.QuotaGB),
		consolefmt.GBValue(user.UsedGB))

	label := consolefmt.PercentCoarse(user.UsagePercent)
	row := identifier + detail + tierStyle.Render(label)
	if selected {
		return renderer.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground).
			Render("> "+identifier+detail) +
			tierStyle.Background(model.theme.SelectedBackground).Render(label)
	}
	return "  " + row
}
