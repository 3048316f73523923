// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package ciapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client issues requests against the Remote CI server. Methods on
// Client are the read class: no credential is ever attached. The
// write class lives on [Gateway], which wraps a Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the server at baseURL (scheme and
// host, no trailing slash required). The httpClient may be nil, in
// which case http.DefaultClient is used. The console deliberately
// sets no request timeout and relies on the transport's defaults.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Stats fetches the live queue counters.
func (client *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := client.getJSON(ctx, "/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// JobHistory fetches up to perPage job records, newest first. A
// non-empty userFilter is passed to the server for substring matching
// against user IDs; Total then counts the matching records, not all
// records.
func (client *Client) JobHistory(ctx context.Context, userFilter string, perPage int) (*JobHistory, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	if userFilter != "" {
		params.Set("user_id", userFilter)
	}

	var history JobHistory
	if err := client.getJSON(ctx, "/api/jobs/history?"+params.Encode(), &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// JobLogs fetches the raw log text for one job. Logs are loaded on
// demand when the operator opens the log modal, never pre-fetched.
func (client *Client) JobLogs(ctx context.Context, jobID string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		client.baseURL+"/api/jobs/history/"+url.PathEscape(jobID)+"/logs", nil)
	if err != nil {
		return "", err
	}

	path := "/api/jobs/history/" + jobID + "/logs"
	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", client.logReadFailure(path, fmt.Errorf("fetching logs for %s: %w", jobID, err))
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", client.logReadFailure(path, client.readError(response))
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", client.logReadFailure(path, fmt.Errorf("reading logs for %s: %w", jobID, err))
	}
	return string(body), nil
}

// ArtifactURL returns the artifact download URL for a job. The
// endpoint is authorized by job identifier alone, so the URL is
// handed to the operator's browser with no credential attached.
func (client *Client) ArtifactURL(jobID string) string {
	return client.baseURL + "/api/jobs/" + url.PathEscape(jobID) + "/artifacts"
}

// Quota fetches the storage quota summary.
func (client *Client) Quota(ctx context.Context) (*QuotaSummary, error) {
	var summary QuotaSummary
	if err := client.getJSON(ctx, "/api/admin/quota", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SpecialUsers fetches the current set of per-user quota overrides.
// The server guarantees uniqueness by user ID but not ordering.
func (client *Client) SpecialUsers(ctx context.Context) ([]SpecialUser, error) {
	var list specialUserList
	if err := client.getJSON(ctx, "/api/admin/special-users", &list); err != nil {
		return nil, err
	}
	return list.SpecialUsers, nil
}

// getJSON performs an unauthenticated GET and decodes a JSON body.
func (client *Client) getJSON(ctx context.Context, path string, result any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return err
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return client.logReadFailure(path, fmt.Errorf("GET %s: %w", path, err))
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return client.logReadFailure(path, client.readError(response))
	}

	if err := json.NewDecoder(response.Body).Decode(result); err != nil {
		return client.logReadFailure(path, fmt.Errorf("GET %s: decoding response: %w", path, err))
	}
	return nil
}

// logReadFailure records a failed read at Warn and passes the error
// through. The views render the failure as missing data; the log
// record is the durable trace of it.
func (client *Client) logReadFailure(path string, err error) error {
	client.logger.Warn("read request failed", "path", path, "error", err)
	return err
}

// readError converts a non-2xx response into an *APIError, preserving
// the server's error message when the body carries one.
func (client *Client) readError(response *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(response.Body, 64*1024))

	var envelope errorEnvelope
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		return &APIError{StatusCode: response.StatusCode, Message: envelope.Error}
	}
	return &APIError{StatusCode: response.StatusCode}
}
