package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

// DefaultJobs is the number of assets validated in parallel when unset.
const DefaultJobs = 4

// BatchService validates every asset under a directory.
type BatchService struct {
	scanner  domain.AssetScanner
	validate *ValidateService
	logger   *slog.Logger
}

func NewBatchService(scanner domain.AssetScanner, validate *ValidateService) *BatchService {
	return &BatchService{
		scanner:  scanner,
		validate: validate,
		logger:   slog.Default().With("component", "batch"),
	}
}

// ValidateTree validates each .gltf/.glb file under root with at most jobs
// validator processes at once. Per-asset errors are collected as failures
// rather than aborting the batch; outcomes keep the scan order.
func (s *BatchService) ValidateTree(ctx context.Context, root string, opts ValidateOptions, jobs int) (*domain.BatchOutcome, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	assets, err := s.scanner.Scan(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if jobs <= 0 {
		jobs = DefaultJobs
	}
	s.logger.Debug("validating tree", "root", absRoot, "assets", len(assets), "jobs", jobs)

	type result struct {
		outcome *domain.ValidationOutcome
		err     error
	}
	results := make([]result, len(assets))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, asset := range assets {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			o, err := s.validate.Validate(ctx, path, opts)
			results[idx] = result{outcome: o, err: err}
		}(i, asset)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &domain.BatchOutcome{Root: absRoot, Outcomes: []*domain.ValidationOutcome{}}
	statuses := make([]string, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			batch.Failures = append(batch.Failures, domain.BatchFailure{Asset: assets[i], Error: r.err.Error()})
			statuses = append(statuses, domain.StatusFail)
			continue
		}
		batch.Outcomes = append(batch.Outcomes, r.outcome)
		statuses = append(statuses, r.outcome.Status)
	}
	batch.Status = domain.WorstStatus(statuses...)
	return batch, nil
}
