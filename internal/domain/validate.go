package domain

import "github.com/abdidvp/gltf-validator/internal/domain/report"

// Validation statuses, ordered from best to worst.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// ValidationOutcome is the result of validating one asset.
type ValidationOutcome struct {
	Status     string                   `json:"status"`
	Asset      AssetInfo                `json:"asset"`
	Report     *report.ValidationReport `json:"report"`
	Digest     string                   `json:"digest"`
	Cached     bool                     `json:"cached"`
	DurationMS int64                    `json:"duration_ms"`
	HistoryID  string                   `json:"history_id,omitempty"`
	UploadURL  string                   `json:"upload_url,omitempty"`
}

// AssetInfo identifies the validated file.
type AssetInfo struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// ClassifyReport derives a status from the issue counters. Counters are used
// rather than the message list so truncated reports are classified correctly.
//
// A report fails when it has any issue at least as severe as threshold,
// warns when it has errors or warnings below that bar, and passes otherwise.
// failEnabled=false never fails.
func ClassifyReport(r *report.ValidationReport, threshold report.Severity, failEnabled bool) string {
	worst, ok := worstCounted(r.Issues)
	if !ok {
		return StatusPass
	}
	if failEnabled && worst.AtLeast(threshold) {
		return StatusFail
	}
	if worst.AtLeast(report.SeverityWarning) {
		return StatusWarn
	}
	return StatusPass
}

func worstCounted(is report.Issues) (report.Severity, bool) {
	for _, sev := range report.Severities {
		if is.Count(sev) > 0 || is.CountBySeverity(sev) > 0 {
			return sev, true
		}
	}
	return 0, false
}

// BatchOutcome collects the outcomes of validating every asset under a directory.
type BatchOutcome struct {
	Root     string               `json:"root"`
	Status   string               `json:"status"`
	Outcomes []*ValidationOutcome `json:"outcomes"`
	Failures []BatchFailure       `json:"failures,omitempty"`
}

// BatchFailure records an asset the validator could not process.
type BatchFailure struct {
	Asset string `json:"asset"`
	Error string `json:"error"`
}

// WorstStatus returns the most severe of the given statuses, or StatusPass.
func WorstStatus(statuses ...string) string {
	worst := StatusPass
	for _, s := range statuses {
		switch {
		case s == StatusFail:
			return StatusFail
		case s == StatusWarn:
			worst = StatusWarn
		}
	}
	return worst
}
