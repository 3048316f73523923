// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

// Package consolefmt provides the display formatting used across the
// admin console views: byte counts as gigabytes, server timestamps in
// the operator timezone, job status labels, and the usage tier
// classification that drives progress bar coloring.
//
// Everything here is pure. The functions hold no state and perform no
// I/O, so the rendering code and the tests share exactly the same
// formatting behavior.
package consolefmt

import (
	"fmt"
	"time"
)

// bytesPerGB is the divisor for byte→gigabyte conversion (binary GB,
// matching the server's quota accounting).
const bytesPerGB = 1024 * 1024 * 1024

// displayZone is the fixed timezone for all rendered timestamps. The
// server reports UTC; operators work in UTC+8.
var displayZone = time.FixedZone("UTC+8", 8*60*60)

// GB renders a byte count as gigabytes with two decimals, e.g.
// 107374182400 → "100.00 GB".
func GB(bytes int64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/bytesPerGB)
}

// GBValue renders a gigabyte quantity (already in GB, as the
// special-user endpoints report it) with two decimals.
func GBValue(gigabytes float64) string {
	return fmt.Sprintf("%.2f GB", gigabytes)
}

// Percent renders a usage percentage with two decimals for the quota
// summary card. The value is never clamped here: over-provisioned
// pools legitimately exceed 100%.
func Percent(percent float64) string {
	return fmt.Sprintf("%.2f%%", percent)
}

// PercentCoarse renders a usage percentage with one decimal, used on
// per-user rows and inside progress bars where space is tight.
func PercentCoarse(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}

// Duration renders a job duration in seconds with one decimal and a
// trailing unit, e.g. 12.34 → "12.3s".
func Duration(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}

// Timestamp parses an ISO-8601 UTC timestamp from the server and
// renders it as "2006-01-02 15:04:05" in UTC+8. Unparseable input is
// returned verbatim rather than hidden: a raw timestamp is more
// useful to the operator than an empty cell.
func Timestamp(iso string) string {
	parsed, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Some server versions omit the timezone suffix.
		parsed, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return iso
		}
		parsed = parsed.UTC()
	}
	return parsed.In(displayZone).Format("2006-01-02 15:04:05")
}

// StatusLabel maps a job status code to its display label. Unknown
// codes pass through unchanged so new server-side statuses degrade
// gracefully instead of rendering blank.
func StatusLabel(status string) string {
	switch status {
	case "queued":
		return "队列中"
	case "running":
		return "执行中"
	case "success":
		return "成功"
	case "failed":
		return "失败"
	case "error":
		return "错误"
	case "timeout":
		return "超时"
	default:
		return status
	}
}

// Tier classifies a usage percentage for progress coloring.
type Tier int

const (
	// TierDefault is usage below 70%.
	TierDefault Tier = iota
	// TierWarning is usage in [70, 90).
	TierWarning
	// TierDanger is usage at or above 90%.
	TierDanger
)

// UsageTier returns the coloring tier for a usage percentage. The
// boundaries are inclusive on the high side: exactly 90.0 is danger,
// exactly 70.0 is warning.
func UsageTier(percent float64) Tier {
	switch {
	case percent >= 90:
		return TierDanger
	case percent >= 70:
		return TierWarning
	default:
		return TierDefault
	}
}

// BarPercent returns the percentage used for progress bar width:
// clamped to 100 so an over-provisioned pool does not overflow the
// bar, while the numeric label keeps the true value.
func BarPercent(percent float64) float64 {
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}
