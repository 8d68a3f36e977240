package domain

import "time"

// HistoryEntry records one validation run.
type HistoryEntry struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	AssetPath        string    `json:"asset_path"`
	AssetSHA256      string    `json:"asset_sha256"`
	ValidatorVersion string    `json:"validator_version"`
	CommitHash       string    `json:"commit_hash,omitempty"`
	Status           string    `json:"status"`
	NumErrors        uint32    `json:"num_errors"`
	NumWarnings      uint32    `json:"num_warnings"`
	NumInfos         uint32    `json:"num_infos"`
	NumHints         uint32    `json:"num_hints"`
	Truncated        bool      `json:"truncated,omitempty"`
	Digest           string    `json:"digest"`
	Cached           bool      `json:"cached,omitempty"`
	UploadURL        string    `json:"upload_url,omitempty"`
}
