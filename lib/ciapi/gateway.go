// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package ciapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// CredentialStore is the session token holder the gateway reads,
// populates (after a successful prompt) and clears (on rejection).
// Implemented by lib/credential.Store.
type CredentialStore interface {
	// Get returns the current token, or "" when absent.
	Get() string
	// Set stores a trimmed token; returns false for empty input,
	// leaving the store unchanged.
	Set(token string) bool
	// Clear removes the token from memory and session storage.
	Clear()
}

// PromptReason tells the Prompter why a token is being requested, so
// the UI can distinguish first use from a rejection.
type PromptReason int

const (
	// PromptFirstUse: a write was attempted with no token held.
	PromptFirstUse PromptReason = iota
	// PromptRejected: the server returned 401; the stored token has
	// already been cleared.
	PromptRejected
)

// Prompter acquires a token interactively. Ok is false when the
// operator declined. The call blocks the invoking goroutine until
// the operator answers; the gateway holds no locks while waiting.
type Prompter interface {
	PromptToken(reason PromptReason) (token string, ok bool)
}

// PromptFunc adapts a function to the Prompter interface.
type PromptFunc func(reason PromptReason) (string, bool)

// PromptToken implements Prompter.
func (prompt PromptFunc) PromptToken(reason PromptReason) (string, bool) {
	return prompt(reason)
}

// Gateway is the write-request class: special-user mutations
// authorized by the admin bearer token, with the retry-once-on-401
// protocol. Construct one per console session and share it between
// views; the underlying CredentialStore is the only shared mutable
// state.
type Gateway struct {
	client   *Client
	store    CredentialStore
	prompter Prompter
}

// NewGateway creates a Gateway issuing requests through client,
// holding the credential in store, and acquiring it via prompter.
func NewGateway(client *Client, store CredentialStore, prompter Prompter) *Gateway {
	return &Gateway{client: client, store: store, prompter: prompter}
}

// CreateSpecialUser adds a quota override for a user currently on the
// shared pool.
func (gateway *Gateway) CreateSpecialUser(ctx context.Context, userID string, quotaGB float64) (*SpecialUser, error) {
	var created SpecialUser
	err := gateway.do(ctx, http.MethodPost, "/api/admin/special-users",
		specialUserRequest{UserID: userID, QuotaGB: quotaGB}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSpecialUser changes the quota of an existing override. The
// user ID keys the URL and is immutable; only the quota changes.
func (gateway *Gateway) UpdateSpecialUser(ctx context.Context, userID string, quotaGB float64) (*SpecialUser, error) {
	var updated SpecialUser
	err := gateway.do(ctx, http.MethodPut, "/api/admin/special-users/"+url.PathEscape(userID),
		specialUserRequest{UserID: userID, QuotaGB: quotaGB}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSpecialUser removes an override, reverting the user to the
// shared pool. The interactive confirmation happens in the UI before
// this is called.
func (gateway *Gateway) DeleteSpecialUser(ctx context.Context, userID string) error {
	return gateway.do(ctx, http.MethodDelete, "/api/admin/special-users/"+url.PathEscape(userID), nil, nil)
}

// do runs one write operation under the credential protocol. The
// request body is re-marshaled for the retry so both attempts are
// byte-identical apart from the Authorization header.
func (gateway *Gateway) do(ctx context.Context, method, path string, body, result any) error {
	token := gateway.store.Get()
	if token == "" {
		entered, ok := gateway.prompter.PromptToken(PromptFirstUse)
		if !ok || !gateway.store.Set(entered) {
			// Declined (or empty input): abort before any network call.
			return ErrPromptDeclined
		}
		token = gateway.store.Get()
	}

	status, err := gateway.issue(ctx, method, path, body, result, token)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return nil
	}

	// Credential rejected: clear it, re-prompt, retry exactly once.
	gateway.store.Clear()
	entered, ok := gateway.prompter.PromptToken(PromptRejected)
	if !ok || !gateway.store.Set(entered) {
		return ErrPromptDeclined
	}

	status, err = gateway.issue(ctx, method, path, body, result, gateway.store.Get())
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		// Second rejection is terminal. No third attempt, ever.
		gateway.store.Clear()
		return ErrUnauthorized
	}
	return nil
}

// issue sends one attempt. Returns the 401 status for the caller to
// drive the retry protocol; every other non-2xx becomes a terminal
// *APIError and transport/decode failures a wrapped error.
func (gateway *Gateway) issue(ctx context.Context, method, path string, body, result any, token string) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%s %s: encoding request: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, gateway.client.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	request.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := gateway.client.httpClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, response.Body)
		return http.StatusUnauthorized, nil
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response.StatusCode, gateway.client.readError(response)
	}

	if result != nil {
		if err := json.NewDecoder(response.Body).Decode(result); err != nil {
			return response.StatusCode, fmt.Errorf("%s %s: decoding response: %w", method, path, err)
		}
	}
	return response.StatusCode, nil
}
