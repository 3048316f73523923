// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package ciapi

// Stats is the live queue snapshot from GET /api/stats.
type Stats struct {
	Running int `json:"running"`
	Queued  int `json:"queued"`
	Workers int `json:"workers"`
}

// Job is one CI execution record as reported by the job history
// endpoint. The console holds a read-only snapshot; every poll cycle
// replaces it wholesale.
type Job struct {
	// JobID uniquely identifies the execution.
	JobID string `json:"job_id"`

	// ProjectName is the submitting project; empty for ad-hoc jobs.
	ProjectName string `json:"project_name,omitempty"`

	// Status is one of queued, running, success, failed, error,
	// timeout. Unknown values are rendered verbatim.
	Status string `json:"status"`

	// UserID is the submitting user; may be empty on old records.
	UserID string `json:"user_id,omitempty"`

	// CreatedAt is an ISO-8601 UTC timestamp.
	CreatedAt string `json:"created_at,omitempty"`

	// Duration is the wall-clock execution time in seconds; zero for
	// jobs that have not finished.
	Duration float64 `json:"duration,omitempty"`

	// Mode is the execution mode badge (e.g. "upload", "rsync").
	Mode string `json:"mode,omitempty"`

	// ArtifactsPath is set only for completed successful jobs whose
	// artifacts are still on disk.
	ArtifactsPath string `json:"artifacts_path,omitempty"`

	// IsExpired marks jobs whose artifacts were pruned after the
	// retention window; the download affordance must be withheld.
	IsExpired bool `json:"is_expired,omitempty"`
}

// HasArtifacts reports whether the job offers an artifact download:
// completed successfully, artifacts present, retention window not
// elapsed.
func (job Job) HasArtifacts() bool {
	return job.Status == "success" && job.ArtifactsPath != "" && !job.IsExpired
}

// JobHistory is the response of GET /api/jobs/history. Total counts
// all records matching the filter, which may exceed len(Jobs) when
// the page size truncates the result.
type JobHistory struct {
	Total int   `json:"total"`
	Jobs  []Job `json:"jobs"`
}

// QuotaSummary is the response of GET /api/admin/quota: the overall
// storage pool plus the aggregate for users without an override.
// UsagePercent may exceed 100 when the pool is over-provisioned.
type QuotaSummary struct {
	TotalBytes     int64   `json:"total_bytes"`
	UsedBytes      int64   `json:"used_bytes"`
	AvailableBytes int64   `json:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent"`

	NormalUsersQuota        int64   `json:"normal_users_quota"`
	NormalUsersUsed         int64   `json:"normal_users_used"`
	NormalUsersUsagePercent float64 `json:"normal_users_usage_percent"`
}

// SpecialUser is a per-user quota override. UserID is the unique key
// and is immutable once created; UsedGB and UsagePercent are computed
// server-side.
type SpecialUser struct {
	UserID       string  `json:"user_id"`
	QuotaGB      float64 `json:"quota_gb"`
	UsedGB       float64 `json:"used_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

// specialUserList is the envelope of GET /api/admin/special-users.
// Ordering across poll cycles is not stable; consumers key by UserID.
type specialUserList struct {
	SpecialUsers []SpecialUser `json:"special_users"`
}

// specialUserRequest is the body for create and update.
type specialUserRequest struct {
	UserID  string  `json:"user_id"`
	QuotaGB float64 `json:"quota_gb"`
}

// errorEnvelope is the error body shape shared by every endpoint.
type errorEnvelope struct {
	Error string `json:"error"`
}
