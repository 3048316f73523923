// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remote-ci/console/lib/ciapi"
)

// pollTickMsg fires once per poll interval. The handler always
// schedules the next tick; the fan-out itself is gated by the
// auto-refresh toggle.
type pollTickMsg struct{}

// Region load results. Each message replaces exactly one region of
// the view; the messages arrive in completion order, not issue order,
// and the latest arrival wins for its region.

type statsMsg struct {
	stats *ciapi.Stats
	err   error
}

type jobsMsg struct {
	history *ciapi.JobHistory
	// filter is the user-ID filter the query was issued with, so the
	// count label and empty state describe the result actually shown.
	filter string
	err    error
}

type quotaMsg struct {
	summary *ciapi.QuotaSummary
	err     error
}

type usersMsg struct {
	users []ciapi.SpecialUser
	err   error
}

// logsMsg delivers the on-demand log fetch for the log modal.
type logsMsg struct {
	jobID string
	text  string
	err   error
}

// writeAction identifies which mutation a writeDoneMsg reports.
type writeAction int

const (
	actionCreate writeAction = iota
	actionUpdate
	actionDelete
)

// writeDoneMsg is sent when a gateway mutation completes, after any
// prompting and the single retry the gateway may have performed.
type writeDoneMsg struct {
	action writeAction
	userID string
	err    error
}

// noticeFadeMsg clears the transient status-bar confirmation.
type noticeFadeMsg struct{}

// noticeFadeDelay is how long transient confirmations stay visible.
const noticeFadeDelay = 3 * time.Second

// browserOpenedMsg reports the artifact-download browser launch.
type browserOpenedMsg struct {
	url string
	err error
}

// scheduleTick arms the poll timer for one interval.
func (model Model) scheduleTick() tea.Cmd {
	return tea.Tick(model.pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// refreshCommands is the poll cycle's parallel fan-out: one command
// per read query. No coordination between them: reads are idempotent
// and each result overwrites only its own region.
func (model Model) refreshCommands() []tea.Cmd {
	return []tea.Cmd{
		model.loadStats(),
		model.loadJobs(),
		model.loadQuota(),
		model.loadUsers(),
	}
}

func (model Model) loadStats() tea.Cmd {
	client := model.client
	return func() tea.Msg {
		stats, err := client.Stats(context.Background())
		return statsMsg{stats: stats, err: err}
	}
}

func (model Model) loadJobs() tea.Cmd {
	client := model.client
	filter := model.appliedFilter()
	pageSize := model.pageSize
	return func() tea.Msg {
		history, err := client.JobHistory(context.Background(), filter, pageSize)
		return jobsMsg{history: history, filter: filter, err: err}
	}
}

func (model Model) loadQuota() tea.Cmd {
	client := model.client
	return func() tea.Msg {
		summary, err := client.Quota(context.Background())
		return quotaMsg{summary: summary, err: err}
	}
}

func (model Model) loadUsers() tea.Cmd {
	client := model.client
	return func() tea.Msg {
		users, err := client.SpecialUsers(context.Background())
		return usersMsg{users: users, err: err}
	}
}

func (model Model) loadLogs(jobID string) tea.Cmd {
	client := model.client
	return func() tea.Msg {
		text, err := client.JobLogs(context.Background(), jobID)
		return logsMsg{jobID: jobID, text: text, err: err}
	}
}

func noticeFade() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}
