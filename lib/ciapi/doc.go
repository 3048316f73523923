// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

// Package ciapi is the console's gateway to the Remote CI server's
// HTTP API. It divides the API into two request classes with
// different credential handling:
//
// Read requests (stats, job history, logs, quota summary, special
// user list) never attach a credential. A failure is an error the
// caller renders as "no data"; it is never an authentication
// problem and never triggers a prompt.
//
// Write requests (special-user create/update/delete) require the
// admin bearer token before the request is issued. [Gateway]
// implements the credential protocol around [Client]:
//
//   - no token held: prompt interactively; declined → abort with
//     zero network calls
//   - HTTP 401: clear the stored token, re-prompt, and re-issue the
//     identical request exactly once with the new token; a second
//     401 is terminal ([ErrUnauthorized]), never retried again
//   - other non-2xx: terminal, the server's error message surfaced
//     verbatim ([APIError])
//   - transport or decode failure: terminal, generic message
//
// The prompt itself is injected via [Prompter]; in the TUI it is a
// blocking modal, in tests a function. The token lives in a
// [CredentialStore] (see lib/credential) shared by all write call
// sites; it is read and cleared from gateway goroutines but the
// retried call always awaits the re-prompt serially, so the token is
// never written concurrently.
package ciapi
