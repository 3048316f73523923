// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remote-ci/console/lib/ciapi"
)

// tokenPromptMsg asks the model to open the token modal. Sent by the
// PromptBroker from a gateway goroutine.
type tokenPromptMsg struct {
	reason ciapi.PromptReason
	reply  chan<- promptAnswer
}

// promptAnswer carries the operator's response back to the waiting
// gateway goroutine.
type promptAnswer struct {
	token string
	ok    bool
}

// PromptBroker implements [ciapi.Prompter] by routing the prompt into
// the bubbletea program as a message and blocking the calling
// goroutine until the operator answers the token modal. This gives
// the gateway the blocking-prompt semantics its protocol requires
// while the UI loop stays responsive: scheduled poll ticks keep
// refreshing the read-only regions behind the modal.
//
// The broker must be created before the program starts; call
// [PromptBroker.SetProgram] once the tea.Program exists. A prompt
// requested before SetProgram is declined, matching the rule that a
// write with no acquirable credential issues no network call.
type PromptBroker struct {
	send atomic.Pointer[func(tea.Msg)]
}

// NewPromptBroker creates an unconnected broker.
func NewPromptBroker() *PromptBroker {
	return &PromptBroker{}
}

// SetProgram connects the broker to the running program.
func (broker *PromptBroker) SetProgram(program *tea.Program) {
	send := program.Send
	broker.send.Store(&send)
}

// setSendFunc is the test seam: deliver prompt messages to an
// arbitrary function instead of a live program.
func (broker *PromptBroker) setSendFunc(send func(tea.Msg)) {
	broker.send.Store(&send)
}

// PromptToken implements ciapi.Prompter. Blocks until the token modal
// is answered. The reply channel is buffered so the model's Update
// never blocks delivering the answer.
func (broker *PromptBroker) PromptToken(reason ciapi.PromptReason) (string, bool) {
	send := broker.send.Load()
	if send == nil {
		return "", false
	}

	reply := make(chan promptAnswer, 1)
	(*send)(tokenPromptMsg{reason: reason, reply: reply})
	answer := <-reply
	return answer.token, answer.ok
}
