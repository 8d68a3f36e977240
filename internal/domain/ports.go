package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAssetNotFound is returned when an asset path does not name a regular file.
var ErrAssetNotFound = errors.New("asset not found")

// ConfigLoader reads the project configuration for a directory.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// Provisioner locates or installs the gltf_validator binary and returns its path.
type Provisioner interface {
	Ensure(ctx context.Context, cfg ValidatorConfig) (string, error)
}

// ValidatorRunner executes the validator binary against one asset.
type ValidatorRunner interface {
	Run(ctx context.Context, binary, assetPath string, opts RunOptions) (*RunOutput, error)
}

// ReportCache stores raw validator output keyed by CacheKey.
type ReportCache interface {
	Load(projectPath, key string) (*CachedReport, error)
	Save(projectPath string, entry *CachedReport) error
	Invalidate(projectPath string) error
}

// ReportHistory persists one entry per validation run.
type ReportHistory interface {
	Save(projectPath string, entry HistoryEntry) error
	Load(projectPath string) ([]HistoryEntry, error)
}

// ReportSink uploads a report payload and returns its location.
type ReportSink interface {
	Upload(ctx context.Context, cfg StorageConfig, key string, payload []byte) (string, error)
}

// AssetScanner finds validatable assets under a directory.
type AssetScanner interface {
	Scan(root string, excludePaths ...string) ([]string, error)
}

// GitInfo provides repository metadata.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// RunOptions are passed to the validator on each run.
type RunOptions struct {
	MaxIssues int
	ExtraArgs []string
	Timeout   time.Duration
}

// RunOutput is the captured result of one validator process.
type RunOutput struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}
