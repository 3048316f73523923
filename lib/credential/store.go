// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential holds the admin bearer token for a console
// session.
//
// The token authorizes quota mutations (special-user create, update,
// delete) and nothing else; read endpoints are served without
// authentication and the console never attaches the token to them.
// The job-submission token used by the submit tooling is a different
// credential with a different storage location; the two must never
// be conflated.
//
// Lifecycle: the store starts empty and is populated exactly one way,
// by the interactive prompt in the TUI. There is no non-interactive
// login flow. A token entered once is persisted to a session-scoped
// file so it survives console restarts within the same login session
// (the terminal counterpart of the browser's sessionStorage); the
// runtime directory is wiped at logout, so a fresh session starts
// unauthenticated. Any 401 from the server clears both the in-memory
// token and the persisted copy immediately.
package credential

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// fileName is the session file holding the admin token. The session
// identifier is part of the directory, not the file name.
const fileName = "admin-token"

// Store holds the admin bearer token. Safe for use from multiple
// goroutines: the poller never touches it, but write operations and
// the prompt flow read and clear it from gateway goroutines.
type Store struct {
	mu    sync.Mutex
	token string

	// path is the session-scoped persistence file. Empty disables
	// persistence (in-memory only, used by tests).
	path string
}

// NewStore creates a Store persisted under the user's runtime
// directory, keyed by the current login session, and hydrates the
// in-memory token from a previous console run in the same session.
func NewStore() *Store {
	store := &Store{path: sessionPath()}
	store.hydrate()
	return store
}

// NewStoreAt creates a Store persisted at an explicit path. An empty
// path disables persistence entirely.
func NewStoreAt(path string) *Store {
	store := &Store{path: path}
	store.hydrate()
	return store
}

// sessionPath returns the token file path for the current login
// session: $XDG_RUNTIME_DIR/remoteci-console/<session>/admin-token.
// XDG_RUNTIME_DIR is per-login-session and cleared at logout, which
// gives the session scoping for free. Outside a session manager the
// path falls back to the system temp directory keyed by the parent
// process, which approximates "same terminal session".
func sessionPath() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	session := os.Getenv("XDG_SESSION_ID")
	if session == "" {
		session = "ppid-" + strconv.Itoa(os.Getppid())
	}
	return filepath.Join(base, "remoteci-console", session, fileName)
}

// hydrate loads a previously persisted token, if any. Errors are
// deliberately ignored: a missing or unreadable file simply means the
// session starts unauthenticated.
func (store *Store) hydrate() {
	if store.path == "" {
		return
	}
	data, err := os.ReadFile(store.path)
	if err != nil {
		return
	}
	token := strings.TrimSpace(string(data))
	if token != "" {
		store.token = token
	}
}

// Get returns the current token, or the empty string when the session
// holds no credential.
func (store *Store) Get() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.token
}

// Set stores a token obtained from the interactive prompt. The value
// is trimmed first; a value that trims to empty leaves the store
// unchanged and returns false. The persisted copy is written with
// 0600 permissions; persistence failures are non-fatal (the in-memory
// token still works for the rest of this run).
func (store *Store) Set(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	store.mu.Lock()
	store.token = token
	store.mu.Unlock()

	if store.path != "" {
		if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err == nil {
			_ = os.WriteFile(store.path, []byte(token), 0o600)
		}
	}
	return true
}

// Clear wipes the token from memory and removes the persisted copy.
// Called on every 401 from a write endpoint, before re-prompting.
func (store *Store) Clear() {
	store.mu.Lock()
	store.token = ""
	store.mu.Unlock()

	if store.path != "" {
		_ = os.Remove(store.path)
	}
}
