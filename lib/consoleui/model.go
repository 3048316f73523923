// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/remote-ci/console/lib/ciapi"
)

// Tab identifies the active top-level view.
type Tab int

const (
	// TabJobs shows the job history table with the user-ID filter.
	TabJobs Tab = iota

	// TabQuota shows the storage summary and the special-user list.
	TabQuota
)

// Model is the bubbletea model for the admin console.
type Model struct {
	client  *ciapi.Client
	gateway *ciapi.Gateway
	keys    KeyMap
	theme   Theme

	pollInterval time.Duration
	pageSize     int
	autoRefresh  bool

	width  int
	height int

	activeTab Tab

	// Read-region data. Each field pair is replaced wholesale by its
	// region's result message; an error leaves the previous data on
	// screen alongside the error line.
	stats         *ciapi.Stats
	statsErr      error
	history       *ciapi.JobHistory
	historyFilter string
	historyErr    error
	quota         *ciapi.QuotaSummary
	quotaErr      error
	users         []ciapi.SpecialUser
	usersErr      error

	// Job tab state.
	jobCursor     int
	filterInput   textinput.Model
	filterFocused bool
	filterApplied string

	// Quota tab state.
	userCursor int

	// Modals. At most one is open at a time; the token modal takes
	// precedence because a gateway goroutine is blocked behind it.
	logModal   *logModalState
	editor     editorState
	confirm    *confirmState
	tokenModal *tokenModalState
	alert      *alertState

	// Status bar.
	notice     string
	logMessage string
	logLevel   slog.Level
}

// Options configures a new console model.
type Options struct {
	Client       *ciapi.Client
	Gateway      *ciapi.Gateway
	PollInterval time.Duration
	PageSize     int
}

// NewModel creates the console model. Auto-refresh starts enabled.
func NewModel(options Options) Model {
	filterInput := textinput.New()
	filterInput.Placeholder = "用户 ID"
	filterInput.CharLimit = 64
	filterInput.Width = 24

	return Model{
		client:       options.Client,
		gateway:      options.Gateway,
		keys:         DefaultKeyMap,
		theme:        DefaultTheme,
		pollInterval: options.PollInterval,
		pageSize:     options.PageSize,
		autoRefresh:  true,
		filterInput:  filterInput,
	}
}

// appliedFilter returns the user-ID filter queries are issued with.
func (model Model) appliedFilter() string {
	return model.filterApplied
}

// Init starts the first full refresh and arms the poll timer.
func (model Model) Init() tea.Cmd {
	commands := model.refreshCommands()
	commands = append(commands, model.scheduleTick())
	return tea.Batch(commands...)
}

// Update is the bubbletea message handler.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		if model.logModal != nil {
			resized := model.newLogViewport()
			resized.SetContent(model.logModalContent())
			model.logModal.view = resized
		}
		return model, nil

	case pollTickMsg:
		// The timer always re-arms; the toggle only gates the fan-out.
		// That keeps a single tick in flight no matter how often the
		// toggle flips.
		commands := []tea.Cmd{model.scheduleTick()}
		if model.autoRefresh {
			commands = append(commands, model.refreshCommands()...)
		}
		return model, tea.Batch(commands...)

	case statsMsg:
		model.statsErr = message.err
		if message.err == nil {
			model.stats = message.stats
		}
		return model, nil

	case jobsMsg:
		model.historyErr = message.err
		if message.err == nil {
			model.history = message.history
			model.historyFilter = message.filter
			if last := len(message.history.Jobs) - 1; model.jobCursor > last {
				model.jobCursor = max(0, last)
			}
		}
		return model, nil

	case quotaMsg:
		model.quotaErr = message.err
		if message.err == nil {
			model.quota = message.summary
		}
		return model, nil

	case usersMsg:
		model.usersErr = message.err
		if message.err == nil {
			model.users = message.users
			if last := len(message.users) - 1; model.userCursor > last {
				model.userCursor = max(0, last)
			}
		}
		return model, nil

	case logsMsg:
		return model.applyLogs(message), nil

	case tokenPromptMsg:
		// A gateway goroutine is now blocked on the reply channel.
		// If a token modal is somehow already open, decline the new
		// request rather than strand its goroutine.
		if model.tokenModal != nil {
			message.reply <- promptAnswer{ok: false}
			return model, nil
		}
		model.tokenModal = newTokenModal(message)
		return model, model.tokenModal.input.Focus()

	case writeDoneMsg:
		return model.handleWriteDone(message)

	case noticeFadeMsg:
		model.notice = ""
		return model, nil

	case browserOpenedMsg:
		if message.err != nil {
			model.alert = &alertState{message: "无法打开浏览器: " + message.err.Error()}
			return model, nil
		}
		model.notice = "已在浏览器中打开下载链接"
		return model, noticeFade()

	case logRecordMsg:
		model.logMessage = message.Summary
		model.logLevel = message.Level
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{}
		})

	case logRecordFadeMsg:
		model.logMessage = ""
		return model, nil
	}

	return model, nil
}

// handleKey routes keyboard input. Open modals capture all input;
// otherwise global bindings run first and the rest goes to the
// active tab.
func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal routing, most urgent first. The token modal outranks
	// everything because declining it is the only way to release the
	// blocked gateway goroutine.
	switch {
	case model.tokenModal != nil:
		return model.updateTokenModal(message)
	case model.alert != nil:
		return model.updateAlert(message)
	case model.confirm != nil:
		return model.updateConfirm(message)
	case model.editor.open():
		return model.updateEditor(message)
	case model.logModal != nil:
		return model.updateLogModal(message)
	}

	// Global bindings. While the filter input is focused, text keys
	// belong to it, so globals are limited to quit.
	if model.filterFocused {
		if key.Matches(message, model.keys.Quit) && message.String() == "ctrl+c" {
			return model, tea.Quit
		}
		return model.updateJobs(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.TabJobs):
		model = model.switchTab(TabJobs)
		return model, nil
	case key.Matches(message, model.keys.TabQuota):
		model = model.switchTab(TabQuota)
		return model, nil
	case key.Matches(message, model.keys.Refresh):
		return model, tea.Batch(model.refreshCommands()...)
	case key.Matches(message, model.keys.AutoToggle):
		model.autoRefresh = !model.autoRefresh
		return model, nil
	}

	if model.activeTab == TabQuota {
		return model.updateQuota(message)
	}
	return model.updateJobs(message)
}

// switchTab activates a tab. Switching is explicit: landing on a tab
// never resets its cursor or filter, so the operator returns to the
// view exactly as they left it.
func (model Model) switchTab(target Tab) Model {
	model.activeTab = target
	return model
}

// handleWriteDone reacts to a finished mutation. Success closes
// whatever modal drove it, posts a transient confirmation, and
// refreshes immediately rather than waiting out the poll interval.
// A declined prompt cancels silently. Everything else is a real
// failure and raises the blocking alert; the editor stays open so
// the operator can retry without retyping.
func (model Model) handleWriteDone(message writeDoneMsg) (tea.Model, tea.Cmd) {
	if message.err == nil {
		model.editor = editorState{}
		switch message.action {
		case actionCreate:
			model.notice = fmt.Sprintf("已添加特殊用户 %s", message.userID)
		case actionUpdate:
			model.notice = fmt.Sprintf("已更新 %s 的配额", message.userID)
		case actionDelete:
			model.notice = fmt.Sprintf("已删除特殊用户 %s", message.userID)
		}
		commands := append(model.refreshCommands(), noticeFade())
		return model, tea.Batch(commands...)
	}

	if errors.Is(message.err, ciapi.ErrPromptDeclined) {
		return model, nil
	}

	model.alert = &alertState{message: message.err.Error()}
	return model, nil
}

// listPageStep is how many rows a page-up/page-down moves.
func (model Model) listPageStep() int {
	step := model.height - 10
	if step < 1 {
		step = 1
	}
	return step
}
