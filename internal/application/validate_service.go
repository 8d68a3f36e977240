package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abdidvp/gltf-validator/internal/domain"
	"github.com/abdidvp/gltf-validator/internal/domain/report"
)

// ValidateOptions tune a single Validate call.
type ValidateOptions struct {
	// ProjectPath holds .gltf-validator.yaml and the .gltf-validator state dir.
	ProjectPath string
	NoCache     bool
	Schema      bool
	Upload      bool
	// FailOn overrides fail_on from the config file.
	FailOn string
}

// ValidateService runs the validator on an asset and turns its output into a
// classified, recorded outcome.
type ValidateService struct {
	configLoader domain.ConfigLoader
	provisioner  domain.Provisioner
	runner       domain.ValidatorRunner
	cache        domain.ReportCache
	history      domain.ReportHistory
	sink         domain.ReportSink
	git          domain.GitInfo
	logger       *slog.Logger
	now          func() time.Time
	newID        func() string
}

// NewValidateService creates a new ValidateService with all required dependencies.
func NewValidateService(
	configLoader domain.ConfigLoader,
	provisioner domain.Provisioner,
	runner domain.ValidatorRunner,
	cache domain.ReportCache,
	history domain.ReportHistory,
	sink domain.ReportSink,
	git domain.GitInfo,
) *ValidateService {
	return &ValidateService{
		configLoader: configLoader, provisioner: provisioner, runner: runner,
		cache: cache, history: history, sink: sink, git: git,
		logger: slog.Default().With("component", "validate"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Validate validates one asset. Cached output is reused when the asset path
// and content, its external resources, the validator version and validator
// settings are unchanged.
func (s *ValidateService) Validate(ctx context.Context, assetPath string, opts ValidateOptions) (*domain.ValidationOutcome, error) {
	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = "."
	}

	// 1. Load config
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.FailOn != "" {
		cfg.FailOn = opts.FailOn
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	// 2. Identify asset
	asset, err := describeAsset(assetPath)
	if err != nil {
		return nil, err
	}
	configHash := cfg.Validator.Fingerprint()
	key := domain.CacheKey(asset.Path, asset.SHA256, cfg.Validator.Version, configHash)

	// 3. Cached payload or a fresh run
	start := s.now()
	payload, cached := s.lookupCache(projectPath, key, asset, cfg, opts)
	if !cached {
		payload, err = s.run(ctx, asset.Path, cfg)
		if err != nil {
			return nil, err
		}
	}

	// 4. Decode and check
	if cfg.SchemaCheck || opts.Schema {
		if err := report.ValidateSchema(payload); err != nil {
			return nil, err
		}
	}
	r, err := report.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding validator output: %w", err)
	}
	if err := domain.CheckValidatorVersion(r.ValidatorVersion, cfg.Validator.VersionConstraint); err != nil {
		return nil, err
	}
	digest, err := report.Digest(r)
	if err != nil {
		return nil, err
	}

	threshold, failEnabled := cfg.FailThreshold()
	outcome := &domain.ValidationOutcome{
		Status:     domain.ClassifyReport(r, threshold, failEnabled),
		Asset:      asset,
		Report:     r,
		Digest:     digest,
		Cached:     cached,
		DurationMS: s.now().Sub(start).Milliseconds(),
		HistoryID:  s.newID(),
	}

	// 5. Save cache
	if !cached && cfg.Cache.IsEnabled() {
		s.saveCache(projectPath, key, configHash, asset, cfg, r)
	}

	// 6. Upload
	if opts.Upload {
		if outcome.UploadURL, err = s.upload(ctx, cfg.Storage, outcome); err != nil {
			return nil, err
		}
	}

	// 7. Record history
	if cfg.History.IsEnabled() {
		if err := s.history.Save(projectPath, s.historyEntry(outcome)); err != nil {
			s.logger.Warn("saving history failed", "error", err)
		}
	}

	s.logger.Debug("validated asset",
		"asset", asset.Path, "status", outcome.Status, "cached", cached, "digest", digest)
	return outcome, nil
}

func (s *ValidateService) lookupCache(projectPath, key string, asset domain.AssetInfo, cfg domain.ProjectConfig, opts ValidateOptions) ([]byte, bool) {
	if opts.NoCache || !cfg.Cache.IsEnabled() {
		return nil, false
	}
	entry, err := s.cache.Load(projectPath, key)
	if err != nil {
		s.logger.Warn("reading report cache failed", "error", err)
		return nil, false
	}
	if entry == nil || !entry.Matches(asset.Path, asset.SHA256, cfg.Validator.Version, cfg.Validator.Fingerprint()) {
		return nil, false
	}
	for _, dep := range entry.Dependencies {
		if sum, err := hashFile(dep.Path); err != nil || sum != dep.SHA256 {
			s.logger.Debug("cached report is stale", "key", key, "dependency", dep.Path)
			return nil, false
		}
	}
	s.logger.Debug("report cache hit", "key", key)
	return entry.Payload, true
}

// saveCache stores the re-encoded report so cached payloads are always
// valid UTF-8 JSON, whatever the validator printed.
func (s *ValidateService) saveCache(projectPath, key, configHash string, asset domain.AssetInfo, cfg domain.ProjectConfig, r *report.ValidationReport) {
	deps, ok := externalDependencies(asset.Path, r)
	if !ok {
		s.logger.Debug("report not cached, external resources cannot be pinned", "asset", asset.Path)
		return
	}
	payload, err := report.Encode(r)
	if err != nil {
		s.logger.Warn("encoding report for cache failed", "error", err)
		return
	}
	entry := &domain.CachedReport{
		Key:              key,
		AssetPath:        asset.Path,
		AssetSHA256:      asset.SHA256,
		ValidatorVersion: cfg.Validator.Version,
		ConfigHash:       configHash,
		Dependencies:     deps,
		Payload:          payload,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.cache.Save(projectPath, entry); err != nil {
		s.logger.Warn("saving report cache failed", "error", err)
	}
}

func (s *ValidateService) run(ctx context.Context, assetPath string, cfg domain.ProjectConfig) ([]byte, error) {
	binary, err := s.provisioner.Ensure(ctx, cfg.Validator)
	if err != nil {
		return nil, fmt.Errorf("provisioning validator: %w", err)
	}
	out, err := s.runner.Run(ctx, binary, assetPath, domain.RunOptions{
		MaxIssues: cfg.Validator.MaxIssues,
		ExtraArgs: cfg.Validator.ExtraArgs,
		Timeout:   cfg.Validator.TimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Stderr) > 0 {
		s.logger.Debug("validator stderr", "stderr", strings.TrimSpace(string(out.Stderr)))
	}
	return out.Stdout, nil
}

func (s *ValidateService) upload(ctx context.Context, cfg domain.StorageConfig, outcome *domain.ValidationOutcome) (string, error) {
	if !cfg.Configured() {
		return "", errors.New("upload requested but storage is not configured (set storage.endpoint and storage.bucket)")
	}
	data, err := report.EncodeIndent(outcome.Report)
	if err != nil {
		return "", err
	}
	key := path.Join(objectSafe(filepath.Base(outcome.Asset.Path)), outcome.HistoryID+".json")
	url, err := s.sink.Upload(ctx, cfg, key, data)
	if err != nil {
		return "", fmt.Errorf("uploading report: %w", err)
	}
	return url, nil
}

func (s *ValidateService) historyEntry(o *domain.ValidationOutcome) domain.HistoryEntry {
	is := o.Report.Issues
	entry := domain.HistoryEntry{
		ID:               o.HistoryID,
		Timestamp:        s.now().UTC(),
		AssetPath:        o.Asset.Path,
		AssetSHA256:      o.Asset.SHA256,
		ValidatorVersion: o.Report.ValidatorVersion,
		Status:           o.Status,
		NumErrors:        is.NumErrors,
		NumWarnings:      is.NumWarnings,
		NumInfos:         is.NumInfos,
		NumHints:         is.NumHints,
		Truncated:        is.Truncated,
		Digest:           o.Digest,
		Cached:           o.Cached,
		UploadURL:        o.UploadURL,
	}
	dir := filepath.Dir(o.Asset.Path)
	if s.git != nil && s.git.IsGitRepo(dir) {
		if hash, err := s.git.CommitHash(dir); err == nil {
			entry.CommitHash = hash
		}
	}
	return entry
}

// describeAsset resolves and hashes the asset file.
func describeAsset(assetPath string) (domain.AssetInfo, error) {
	abs, err := filepath.Abs(assetPath)
	if err != nil {
		return domain.AssetInfo{}, fmt.Errorf("resolving asset path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return domain.AssetInfo{}, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, assetPath)
	}
	sum, err := hashFile(abs)
	if err != nil {
		return domain.AssetInfo{}, fmt.Errorf("hashing asset: %w", err)
	}
	return domain.AssetInfo{Path: abs, SHA256: sum, Size: info.Size()}, nil
}

// externalDependencies pins the external files a report lists, resolved
// against the asset's directory. ok is false when one of them cannot be
// pinned (remote, missing or without a uri).
func externalDependencies(assetPath string, r *report.ValidationReport) (deps []domain.FileDigest, ok bool) {
	if r.Info == nil {
		return nil, true
	}
	for _, res := range r.Info.Resources {
		if res.Storage != report.StorageExternal {
			continue
		}
		if res.URI == nil {
			return nil, false
		}
		u, err := url.Parse(*res.URI)
		if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
			return nil, false
		}
		p := filepath.Join(filepath.Dir(assetPath), filepath.FromSlash(u.Path))
		sum, err := hashFile(p)
		if err != nil {
			return nil, false
		}
		deps = append(deps, domain.FileDigest{Path: p, SHA256: sum})
	}
	return deps, true
}

func hashFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// objectSafe keeps object keys to a portable character set.
func objectSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
