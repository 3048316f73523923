// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

// Package consoleui implements the admin console TUI. Built on
// bubbletea (Elm architecture), it renders a job history tab and a
// storage quota tab, plus modal overlays for the log viewer, the
// special-user editor, delete confirmation, admin-token entry, and
// blocking error acknowledgment.
//
// Data flow is strictly poll-driven. Every five seconds (while
// auto-refresh is on), and immediately at startup and after each
// successful mutation, the model fans out one bubbletea command per
// read query: stats, job history, quota summary, special-user list.
// The commands run concurrently, complete in any order, and each
// delivers a message that replaces exactly one region of the view,
// so a slow response can leave one region stale without blocking the
// others. In-flight requests are never cancelled and the later
// completion wins for its region.
//
// Mutations route through [ciapi.Gateway]. When the gateway needs a
// token it calls back into the TUI through [PromptBroker]: the
// gateway goroutine blocks while the token modal is open, exactly as
// the browser console it replaces blocked on window.prompt, while
// the poll timer keeps servicing read-only refreshes behind the
// modal.
//
// User-supplied strings (user IDs, project names, log bodies) are
// stripped of control and escape sequences before rendering, so a
// hostile job name cannot inject terminal escapes into the console.
package consoleui
