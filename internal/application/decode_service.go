package application

import (
	"fmt"

	"github.com/abdidvp/gltf-validator/internal/domain"
	"github.com/abdidvp/gltf-validator/internal/domain/report"
)

// DecodeService decodes saved validator output without running the validator.
type DecodeService struct {
	threshold   report.Severity
	failEnabled bool
}

// NewDecodeService classifies decoded reports against failOn
// ("error", "warning", "info", "hint" or "none").
func NewDecodeService(failOn string) (*DecodeService, error) {
	cfg := domain.ProjectConfig{FailOn: failOn}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	threshold, ok := cfg.FailThreshold()
	return &DecodeService{threshold: threshold, failEnabled: ok}, nil
}

// Decode parses data, optionally checking it against the report schema first.
// The returned outcome has no asset information.
func (s *DecodeService) Decode(data []byte, schema bool) (*domain.ValidationOutcome, error) {
	if schema {
		if err := report.ValidateSchema(data); err != nil {
			return nil, err
		}
	}
	r, err := report.Decode(data)
	if err != nil {
		return nil, err
	}
	digest, err := report.Digest(r)
	if err != nil {
		return nil, fmt.Errorf("digesting report: %w", err)
	}
	return &domain.ValidationOutcome{
		Status: domain.ClassifyReport(r, s.threshold, s.failEnabled),
		Report: r,
		Digest: digest,
	}, nil
}
