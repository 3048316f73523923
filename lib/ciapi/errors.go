// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package ciapi

import (
	"errors"
	"fmt"
)

// ErrPromptDeclined is returned when the operator cancels the token
// prompt. The write operation was aborted: when the prompt preceded
// the first attempt, zero network calls were made; when it followed a
// 401, no retry was issued.
var ErrPromptDeclined = errors.New("管理操作需要 Token")

// ErrUnauthorized is returned when the server rejected the credential
// on the retry as well. The retry-once protocol treats this as
// terminal; callers must not re-issue the request.
var ErrUnauthorized = errors.New("Token 无效或已过期")

// APIError is a non-2xx, non-401 response from a write endpoint (or a
// decodable error body on a read endpoint). Message carries the
// server's `error` field verbatim for display to the operator.
type APIError struct {
	StatusCode int
	Message    string
}

func (apiError *APIError) Error() string {
	if apiError.Message != "" {
		return apiError.Message
	}
	return fmt.Sprintf("服务器返回 HTTP %d", apiError.StatusCode)
}
