// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remote-ci/console/lib/ciapi"
	"github.com/remote-ci/console/lib/credential"
	"github.com/remote-ci/console/lib/testutil"
)

// testModel creates a console model backed by the given handler, with
// a prompter that always supplies "test-token". The returned model has
// a screen size applied so View renders the full frame.
func testModel(t *testing.T, handler http.Handler) Model {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := ciapi.NewClient(server.URL, server.Client(), nil)
	store := credential.NewStoreAt("")
	prompter := ciapi.PromptFunc(func(ciapi.PromptReason) (string, bool) {
		return "test-token", true
	})
	gateway := ciapi.NewGateway(client, store, prompter)

	model := NewModel(Options{
		Client:       client,
		Gateway:      gateway,
		PollInterval: 5 * time.Second,
		PageSize:     50,
	})
	resized, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return resized.(Model)
}

// requestCounter records mutation requests by method.
type requestCounter struct {
	mu       sync.Mutex
	requests []string
}

func (counter *requestCounter) handler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		counter.mu.Lock()
		counter.requests = append(counter.requests, request.Method+" "+request.URL.Path)
		counter.mu.Unlock()
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{}`))
	})
}

func (counter *requestCounter) recorded() []string {
	counter.mu.Lock()
	defer counter.mu.Unlock()
	return append([]string(nil), counter.requests...)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestEditorInvalidInputIssuesNoCommand(t *testing.T) {
	t.Parallel()

	counter := &requestCounter{}
	model := testModel(t, counter.handler())
	model = model.switchTab(TabQuota)

	// Open the add-user editor and submit with both fields empty.
	updated, _ := model.Update(keyRune('a'))
	model = updated.(Model)
	if !model.editor.open() {
		t.Fatal("editor did not open on 'a'")
	}

	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)

	if command != nil {
		t.Error("invalid form produced a command; want none")
	}
	if !model.editor.open() {
		t.Error("editor closed on invalid submit; want it to stay open")
	}
	if model.editor.validation == "" {
		t.Error("no validation message after invalid submit")
	}
	if requests := counter.recorded(); len(requests) != 0 {
		t.Errorf("invalid form reached the network: %v", requests)
	}

	// The inline error must be visible in the rendered modal.
	if !strings.Contains(model.View(), "必须大于 0") {
		t.Error("rendered view missing the validation message")
	}
}

func TestDeleteConfirmationDeclinedIssuesNoRequest(t *testing.T) {
	t.Parallel()

	counter := &requestCounter{}
	model := testModel(t, counter.handler())
	model.users = []ciapi.SpecialUser{{UserID: "alice", QuotaGB: 10}}
	model = model.switchTab(TabQuota)

	updated, _ := model.Update(keyRune('x'))
	model = updated.(Model)
	if model.confirm == nil {
		t.Fatal("confirmation did not open on 'x'")
	}
	if !strings.Contains(model.View(), "确定要删除特殊用户") {
		t.Error("rendered view missing the confirmation question")
	}

	updated, command := model.Update(keyRune('n'))
	model = updated.(Model)

	if model.confirm != nil {
		t.Error("confirmation still open after decline")
	}
	if command != nil {
		t.Error("decline produced a command; want none")
	}
	if requests := counter.recorded(); len(requests) != 0 {
		t.Errorf("declined delete reached the network: %v", requests)
	}
}

func TestDeleteConfirmationAcceptedIssuesOneDelete(t *testing.T) {
	t.Parallel()

	counter := &requestCounter{}
	model := testModel(t, counter.handler())
	model.users = []ciapi.SpecialUser{{UserID: "alice", QuotaGB: 10}}
	model = model.switchTab(TabQuota)

	updated, _ := model.Update(keyRune('x'))
	model = updated.(Model)

	updated, command := model.Update(keyRune('y'))
	model = updated.(Model)
	if command == nil {
		t.Fatal("confirmed delete produced no command")
	}

	// Run the mutation command synchronously and feed its result back.
	result := command()
	done, ok := result.(writeDoneMsg)
	if !ok {
		t.Fatalf("mutation command returned %T, want writeDoneMsg", result)
	}
	if done.err != nil {
		t.Fatalf("delete failed: %v", done.err)
	}

	requests := counter.recorded()
	if len(requests) != 1 || requests[0] != "DELETE /api/admin/special-users/alice" {
		t.Errorf("requests = %v, want exactly one DELETE for alice", requests)
	}

	updated, _ = model.Update(done)
	model = updated.(Model)
	if !strings.Contains(model.View(), "已删除特殊用户 alice") {
		t.Error("status bar missing the delete confirmation notice")
	}
}

func TestFilteredEmptyStateNamesTheFilter(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(jobsMsg{
		history: &ciapi.JobHistory{Total: 0, Jobs: nil},
		filter:  "alice",
	})
	model = updated.(Model)

	view := model.View()
	if !strings.Contains(view, `未找到包含 "alice" 的用户ID`) {
		t.Errorf("empty state does not name the filter value:\n%s", view)
	}
	if !strings.Contains(view, "找到 0 条匹配记录") {
		t.Error("filtered count label missing")
	}
}

func TestFilteredCountShowsServerTotal(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	// The server reports more matches than fit on one page; the count
	// label must show the server total, not the page length.
	jobs := make([]ciapi.Job, 3)
	for index := range jobs {
		jobs[index] = ciapi.Job{
			JobID:     fmt.Sprintf("job-%d", index),
			Status:    "success",
			UserID:    "alice",
			CreatedAt: "2026-08-29T04:00:05Z",
		}
	}
	updated, _ := model.Update(jobsMsg{
		history: &ciapi.JobHistory{Total: 120, Jobs: jobs},
		filter:  "alice",
	})
	model = updated.(Model)

	if !strings.Contains(model.View(), "找到 120 条匹配记录") {
		t.Errorf("filtered count label does not show the server total:\n%s", model.View())
	}
}

func TestUnfinishedJobHidesDuration(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(jobsMsg{history: &ciapi.JobHistory{
		Total: 1,
		Jobs: []ciapi.Job{{
			JobID:     "job-13",
			Status:    "running",
			UserID:    "bob",
			CreatedAt: "2026-08-29T04:00:05Z",
		}},
	}})
	model = updated.(Model)

	if strings.Contains(model.View(), "0.0s") {
		t.Error("unfinished job renders a zero duration; want a blank cell")
	}
}

func TestUnfilteredEmptyStateIsGeneric(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(jobsMsg{history: &ciapi.JobHistory{}})
	model = updated.(Model)

	if !strings.Contains(model.View(), "暂无任务记录") {
		t.Error("generic empty state missing")
	}
}

func TestQuotaRowFormatsGigabytes(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())
	model = model.switchTab(TabQuota)

	updated, _ := model.Update(usersMsg{users: []ciapi.SpecialUser{
		{UserID: "alice", QuotaGB: 5.5, UsedGB: 1.25, UsagePercent: 22.7},
	}})
	model = updated.(Model)

	view := model.View()
	for _, want := range []string{"配额: 5.50 GB", "已用: 1.25 GB", "22.7%"} {
		if !strings.Contains(view, want) {
			t.Errorf("quota row missing %q:\n%s", want, view)
		}
	}
}

func TestQuotaSummaryFormatsBytesAndPercent(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())
	model = model.switchTab(TabQuota)

	updated, _ := model.Update(quotaMsg{summary: &ciapi.QuotaSummary{
		TotalBytes:              107374182400,
		UsedBytes:               96636764160,
		AvailableBytes:          10737418240,
		UsagePercent:            89.97,
		NormalUsersQuota:        21474836480,
		NormalUsersUsed:         3758096384,
		NormalUsersUsagePercent: 17.5,
	}})
	model = updated.(Model)

	view := model.View()
	for _, want := range []string{"总容量: 100.00 GB", "已用: 90.00 GB", "可用: 10.00 GB", "89.97%", "配额: 20.00 GB", "17.5%"} {
		if !strings.Contains(view, want) {
			t.Errorf("quota summary missing %q", want)
		}
	}
}

func TestOverProvisionedLabelExceedsHundred(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())
	model = model.switchTab(TabQuota)

	updated, _ := model.Update(quotaMsg{summary: &ciapi.QuotaSummary{
		TotalBytes:   107374182400,
		UsagePercent: 112.4,
	}})
	model = updated.(Model)

	// The numeric label reports the true value even though the bar
	// fill is clamped at 100%.
	if !strings.Contains(model.View(), "112.40%") {
		t.Error("over-provisioned percentage label was clamped")
	}
}

func TestJobRowShowsStatusLabelAndDuration(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(jobsMsg{history: &ciapi.JobHistory{
		Total: 1,
		Jobs: []ciapi.Job{{
			JobID:       "job-42",
			ProjectName: "widget",
			Status:      "running",
			UserID:      "bob",
			CreatedAt:   "2026-08-29T04:00:05Z",
			Duration:    12.3,
		}},
	}})
	model = updated.(Model)

	view := model.View()
	for _, want := range []string{"[执行中]", "job-42", "widget", "12.3s", "2026-08-29 12:00:05"} {
		if !strings.Contains(view, want) {
			t.Errorf("job row missing %q", want)
		}
	}
	if !strings.Contains(view, "共 1 条记录") {
		t.Error("unfiltered count label missing")
	}
}

func TestHeaderShowsStatsAndRefreshState(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(statsMsg{stats: &ciapi.Stats{Running: 2, Queued: 7, Workers: 4}})
	model = updated.(Model)

	view := model.View()
	if !strings.Contains(view, "执行中 2 | 队列中 7 | 工作节点 4") {
		t.Error("header missing service stats")
	}
	if !strings.Contains(view, "自动刷新: 开") {
		t.Error("header missing auto-refresh indicator")
	}

	updated, _ = model.Update(keyRune('t'))
	model = updated.(Model)
	if !strings.Contains(model.View(), "自动刷新: 关") {
		t.Error("auto-refresh toggle not reflected in header")
	}
}

func TestRegionErrorKeepsPreviousData(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())
	model = model.switchTab(TabQuota)

	updated, _ := model.Update(usersMsg{users: []ciapi.SpecialUser{{UserID: "alice", QuotaGB: 10}}})
	model = updated.(Model)

	updated, _ = model.Update(quotaMsg{err: ciapi.ErrUnauthorized})
	model = updated.(Model)

	view := model.View()
	if !strings.Contains(view, "配额信息加载失败") {
		t.Error("quota region error not shown")
	}
	if !strings.Contains(view, "alice") {
		t.Error("special-user region lost its data when another region failed")
	}
}

func TestTokenPromptModalAnswersBlockedGoroutine(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	reply := make(chan promptAnswer, 1)
	updated, _ := model.Update(tokenPromptMsg{reason: ciapi.PromptFirstUse, reply: reply})
	model = updated.(Model)

	if model.tokenModal == nil {
		t.Fatal("token modal did not open")
	}
	if !strings.Contains(model.View(), "请输入 API Token 以进行管理操作") {
		t.Error("first-use prompt title missing")
	}

	// Type a token and submit.
	for _, r := range "secret" {
		updated, _ = model.Update(keyRune(r))
		model = updated.(Model)
	}
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)

	answer := testutil.RequireReceive(t, reply, time.Second, "prompt answer")
	if !answer.ok || answer.token != "secret" {
		t.Errorf("answer = %+v, want ok with token %q", answer, "secret")
	}
	if model.tokenModal != nil {
		t.Error("token modal still open after submit")
	}
}

func TestTokenPromptEscapeDeclines(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	reply := make(chan promptAnswer, 1)
	updated, _ := model.Update(tokenPromptMsg{reason: ciapi.PromptRejected, reply: reply})
	model = updated.(Model)

	if !strings.Contains(model.View(), "Token 无效或已过期，请重新输入") {
		t.Error("rejected prompt title missing")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(Model)

	answer := testutil.RequireReceive(t, reply, time.Second, "prompt answer")
	if answer.ok {
		t.Error("escape did not decline the prompt")
	}
}

func TestSecondPromptWhileModalOpenIsDeclined(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	first := make(chan promptAnswer, 1)
	updated, _ := model.Update(tokenPromptMsg{reason: ciapi.PromptFirstUse, reply: first})
	model = updated.(Model)

	second := make(chan promptAnswer, 1)
	updated, _ = model.Update(tokenPromptMsg{reason: ciapi.PromptFirstUse, reply: second})
	model = updated.(Model)

	answer := testutil.RequireReceive(t, second, time.Second, "second prompt answer")
	if answer.ok {
		t.Error("second concurrent prompt was not declined")
	}
	if model.tokenModal == nil {
		t.Error("original token modal was closed by the second prompt")
	}
}

func TestPromptBrokerRoundTrip(t *testing.T) {
	t.Parallel()

	broker := NewPromptBroker()

	// Before the program is connected, prompts are declined.
	if _, ok := broker.PromptToken(ciapi.PromptFirstUse); ok {
		t.Error("unconnected broker granted a prompt")
	}

	delivered := make(chan tokenPromptMsg, 1)
	broker.setSendFunc(func(message tea.Msg) {
		delivered <- message.(tokenPromptMsg)
	})

	type promptResult struct {
		token string
		ok    bool
	}
	results := make(chan promptResult, 1)
	go func() {
		token, ok := broker.PromptToken(ciapi.PromptRejected)
		results <- promptResult{token: token, ok: ok}
	}()

	request := testutil.RequireReceive(t, delivered, time.Second, "prompt request")
	if request.reason != ciapi.PromptRejected {
		t.Errorf("reason = %v, want PromptRejected", request.reason)
	}
	testutil.RequireSend(t, request.reply, promptAnswer{token: "fresh", ok: true}, time.Second, "prompt answer")

	result := testutil.RequireReceive(t, results, time.Second, "prompt result")
	if !result.ok || result.token != "fresh" {
		t.Errorf("result = %+v, want ok with token %q", result, "fresh")
	}
}

func TestWriteFailureRaisesBlockingAlert(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	failure := writeDoneMsg{
		action: actionCreate,
		userID: "alice",
		err:    &ciapi.APIError{StatusCode: 400, Message: "配额必须大于 0"},
	}
	updated, _ := model.Update(failure)
	model = updated.(Model)

	if model.alert == nil {
		t.Fatal("mutation failure did not raise an alert")
	}
	if !strings.Contains(model.View(), "配额必须大于 0") {
		t.Error("alert does not show the server message")
	}

	// The alert captures all input until acknowledged.
	updated, _ = model.Update(keyRune('1'))
	model = updated.(Model)
	if model.alert == nil {
		t.Error("unrelated key dismissed the alert")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.alert != nil {
		t.Error("enter did not dismiss the alert")
	}
}

func TestDeclinedPromptCancelsSilently(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, command := model.Update(writeDoneMsg{
		action: actionDelete,
		userID: "alice",
		err:    ciapi.ErrPromptDeclined,
	})
	model = updated.(Model)

	if model.alert != nil {
		t.Error("declined prompt raised an alert; want silent cancel")
	}
	if command != nil {
		t.Error("declined prompt produced a command")
	}
}

func TestFilterSubmitTrimsAndReloads(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(keyRune('/'))
	model = updated.(Model)
	if !model.filterFocused {
		t.Fatal("'/' did not focus the filter input")
	}

	for _, r := range "  alice " {
		updated, _ = model.Update(keyRune(r))
		model = updated.(Model)
	}
	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)

	if model.filterApplied != "alice" {
		t.Errorf("filterApplied = %q, want %q", model.filterApplied, "alice")
	}
	if command == nil {
		t.Error("filter submit did not trigger a reload")
	}
}

func TestEscapeClearsAppliedFilter(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())
	model.filterApplied = "alice"

	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(Model)

	if model.filterApplied != "" {
		t.Error("escape did not clear the applied filter")
	}
	if command == nil {
		t.Error("clearing the filter did not trigger a reload")
	}
}

func TestLogModalLoadsOnDemand(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(jobsMsg{history: &ciapi.JobHistory{
		Total: 1,
		Jobs:  []ciapi.Job{{JobID: "job-7", Status: "failed"}},
	}})
	model = updated.(Model)

	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.logModal == nil {
		t.Fatal("enter did not open the log modal")
	}
	if command == nil {
		t.Fatal("opening the log modal did not start the fetch")
	}
	if !strings.Contains(model.View(), "加载中...") {
		t.Error("modal does not show the loading placeholder")
	}

	// A result for a different job (stale fetch) is discarded.
	updated, _ = model.Update(logsMsg{jobID: "job-other", text: "wrong"})
	model = updated.(Model)
	if !model.logModal.loading {
		t.Error("stale log result was applied to the open modal")
	}

	updated, _ = model.Update(logsMsg{jobID: "job-7", text: "step 1 failed\n"})
	model = updated.(Model)
	if !strings.Contains(model.View(), "step 1 failed") {
		t.Error("log text not rendered in the modal")
	}
	if !strings.Contains(model.View(), "任务日志 - job-7") {
		t.Error("modal title missing the job identifier")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(Model)
	if model.logModal != nil {
		t.Error("esc did not close the log modal")
	}
}

func TestLogModalEmptyBody(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())

	updated, _ := model.Update(jobsMsg{history: &ciapi.JobHistory{
		Total: 1,
		Jobs:  []ciapi.Job{{JobID: "job-8", Status: "success"}},
	}})
	model = updated.(Model)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	updated, _ = model.Update(logsMsg{jobID: "job-8", text: "  \n"})
	model = updated.(Model)

	if !strings.Contains(model.View(), "暂无日志") {
		t.Error("empty log body placeholder missing")
	}
}

func TestTabSwitchPreservesCursor(t *testing.T) {
	t.Parallel()

	model := testModel(t, http.NotFoundHandler())
	model.users = []ciapi.SpecialUser{
		{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"},
	}
	model = model.switchTab(TabQuota)

	updated, _ := model.Update(keyRune('j'))
	model = updated.(Model)
	if model.userCursor != 1 {
		t.Fatalf("userCursor = %d, want 1", model.userCursor)
	}

	model = model.switchTab(TabJobs)
	model = model.switchTab(TabQuota)
	if model.userCursor != 1 {
		t.Error("tab switch reset the quota cursor")
	}
}
