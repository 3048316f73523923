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

// Column widths for the job table. The project column fills remaining
// space; all others are fixed.
const (
	columnWidthStatus   = 10 // "[队列中]" plus padding
	columnWidthJobID    = 14
	columnWidthUser     = 14
	columnWidthMode     = 8
	columnWidthTime     = 20 // "2026-08-29 12:00:05"
	columnWidthDuration = 9
	columnWidthArtifact = 10 // "产物已过期"
)

// updateJobs handles key input while the job tab is active and no
// modal is open.
func (model Model) updateJobs(message tea.KeyMsg) (Model, tea.Cmd) {
	// While the filter input has focus, keys type into it. Enter
	// submits the filter and reloads; esc abandons the edit and
	// clears any applied filter.
	if model.filterFocused {
		switch message.String() {
		case "enter":
			model.filterFocused = false
			model.filterInput.Blur()
			model.filterApplied = strings.TrimSpace(sanitize(model.filterInput.Value()))
			model.jobCursor = 0
			return model, model.loadJobs()
		case "esc":
			model.filterFocused = false
			model.filterInput.Blur()
			model.filterInput.SetValue("")
			if model.filterApplied != "" {
				model.filterApplied = ""
				model.jobCursor = 0
				return model, model.loadJobs()
			}
			return model, nil
		}
		var command tea.Cmd
		model.filterInput, command = model.filterInput.Update(message)
		return model, command
	}

	switch {
	case key.Matches(message, model.keys.Up):
		if model.jobCursor > 0 {
			model.jobCursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.jobCursor < model.jobRowCount()-1 {
			model.jobCursor++
		}
	case key.Matches(message, model.keys.PageUp):
		model.jobCursor -= model.listPageStep()
		if model.jobCursor < 0 {
			model.jobCursor = 0
		}
	case key.Matches(message, model.keys.PageDown):
		model.jobCursor += model.listPageStep()
		if last := model.jobRowCount() - 1; model.jobCursor > last {
			model.jobCursor = max(0, last)
		}
	case key.Matches(message, model.keys.FilterActivate):
		model.filterFocused = true
		model.filterInput.SetValue(model.filterApplied)
		model.filterInput.CursorEnd()
		return model, model.filterInput.Focus()
	case key.Matches(message, model.keys.FilterClear):
		if model.filterApplied != "" {
			model.filterApplied = ""
			model.filterInput.SetValue("")
			model.jobCursor = 0
			return model, model.loadJobs()
		}
	case key.Matches(message, model.keys.OpenLogs):
		if job := model.selectedJob(); job != nil {
			model.logModal = &logModalState{jobID: job.JobID, loading: true}
			model.logModal.view = model.newLogViewport()
			model.logModal.view.SetContent(model.logModalContent())
			return model, model.loadLogs(job.JobID)
		}
	case key.Matches(message, model.keys.Download):
		if job := model.selectedJob(); job != nil && job.HasArtifacts() {
			return model, openBrowser(model.client.ArtifactURL(job.JobID))
		}
	}
	return model, nil
}

// jobRowCount returns the number of rows in the current job table.
func (model Model) jobRowCount() int {
	if model.history == nil {
		return 0
	}
	return len(model.history.Jobs)
}

// selectedJob returns the job under the cursor, or nil when the table
// is empty.
func (model Model) selectedJob() *ciapi.Job {
	if model.history == nil || model.jobCursor < 0 || model.jobCursor >= len(model.history.Jobs) {
		return nil
	}
	return &model.history.Jobs[model.jobCursor]
}

// viewJobs renders the job tab: the filter line, the result count,
// and the job table.
func (model Model) viewJobs() string {
	var sections []string
	sections = append(sections, model.viewFilterLine())
	sections = append(sections, model.viewJobCount())
	sections = append(sections, "")

	switch {
	case model.historyErr != nil:
		errorStyle := renderer.NewStyle().Foreground(model.theme.ErrorText)
		sections = append(sections, errorStyle.Render("任务列表加载失败: "+model.historyErr.Error()))
	case model.history == nil:
		faint := renderer.NewStyle().Foreground(model.theme.FaintText)
		sections = append(sections, faint.Render("加载中..."))
	case len(model.history.Jobs) == 0:
		sections = append(sections, model.viewJobsEmpty())
	default:
		for index, job := range model.history.Jobs {
			sections = append(sections, model.renderJobRow(job, index == model.jobCursor))
		}
	}

	return strings.Join(sections, "\n")
}

// viewFilterLine renders the user-ID filter. The input is only drawn
// expanded while focused; otherwise the applied value (or a hint) is
// shown inline.
func (model Model) viewFilterLine() string {
	label := renderer.NewStyle().Foreground(model.theme.FaintText).Render("筛选用户ID: ")
	if model.filterFocused {
		return label + model.filterInput.View()
	}
	if model.filterApplied != "" {
		applied := renderer.NewStyle().Foreground(model.theme.HeaderForeground).Render(model.filterApplied)
		hint := renderer.NewStyle().Foreground(model.theme.FaintText).Render("  (esc 清除)")
		return label + applied + hint
	}
	return label + renderer.NewStyle().Foreground(model.theme.FaintText).Render("(按 / 输入)")
}

// viewJobCount renders the result count line. Both variants report
// the server's total, which can exceed the page shown; the filtered
// wording says the total counts matches, not all records.
func (model Model) viewJobCount() string {
	if model.history == nil {
		return ""
	}
	faint := renderer.NewStyle().Foreground(model.theme.FaintText)
	if model.historyFilter != "" {
		return faint.Render(fmt.Sprintf("找到 %d 条匹配记录", model.history.Total))
	}
	return faint.Render(fmt.Sprintf("共 %d 条记录", model.history.Total))
}

// viewJobsEmpty renders the empty state. The filtered variant names
// the filter value so the operator sees what produced zero rows.
func (model Model) viewJobsEmpty() string {
	faint := renderer.NewStyle().Foreground(model.theme.FaintText)
	if model.historyFilter != "" {
		message := fmt.Sprintf("未找到包含 %q 的用户ID", sanitize(model.historyFilter))
		hint := faint.Render("筛选支持部分匹配，可尝试更短的关键字")
		return message + "\n" + hint
	}
	return faint.Render("暂无任务记录")
}

// renderJobRow renders one job as a table row:
//
//	[成功] a1b2c3d4  myproject  alice  ci  2026-08-29 12:00:05  12.3s  产物可下载
func (model Model) renderJobRow(job ciapi.Job, selected bool) string {
	statusBadge := "[" + consolefmt.StatusLabel(job.Status) + "]"
	statusStyle := renderer.NewStyle().Foreground(model.theme.StatusColor(job.Status))

	// The project column absorbs whatever width remains after the
	// fixed columns and the two-cell cursor indent.
	projectWidth := model.width - columnWidthStatus - columnWidthJobID -
		columnWidthUser - columnWidthMode - columnWidthTime -
		columnWidthDuration - columnWidthArtifact - 2
	if projectWidth < 10 {
		projectWidth = 10
	}

	// Queued and still-running jobs report a zero duration; the cell
	// stays blank until the server has a real value.
	duration := ""
	if job.Duration > 0 {
		duration = consolefmt.Duration(job.Duration)
	}

	cells := []string{
		statusStyle.Render(padToWidth(statusBadge, columnWidthStatus)),
		padToWidth(truncateCell(sanitize(job.JobID), columnWidthJobID-1), columnWidthJobID),
		padToWidth(truncateCell(sanitize(job.ProjectName), projectWidth-1), projectWidth),
		padToWidth(truncateCell(sanitize(job.UserID), columnWidthUser-1), columnWidthUser),
		padToWidth(truncateCell(sanitize(job.Mode), columnWidthMode-1), columnWidthMode),
		padToWidth(consolefmt.Timestamp(job.CreatedAt), columnWidthTime),
		padToWidth(duration, columnWidthDuration),
		model.renderArtifactCell(job),
	}

	row := strings.Join(cells, "")
	if selected {
		return renderer.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground).
			Render("> " + row)
	}
	return "  " + row
}

// renderArtifactCell renders the artifact availability column.
func (model Model) renderArtifactCell(job ciapi.Job) string {
	switch {
	case job.HasArtifacts():
		style := renderer.NewStyle().Foreground(model.theme.StatusSuccess)
		return style.Render(padToWidth("产物可下载", columnWidthArtifact))
	case job.Status == "success" && job.IsExpired:
		style := renderer.NewStyle().Foreground(model.theme.StatusExpired)
		return style.Render(padToWidth("产物已过期", columnWidthArtifact))
	default:
		return padToWidth("", columnWidthArtifact)
	}
}
