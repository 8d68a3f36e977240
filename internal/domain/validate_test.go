package domain_test

import (
	"testing"

	"github.com/abdidvp/gltf-validator/internal/domain"
	"github.com/abdidvp/gltf-validator/internal/domain/report"
	"github.com/stretchr/testify/assert"
)

func TestClassifyReport(t *testing.T) {
	tests := []struct {
		name      string
		issues    report.Issues
		threshold report.Severity
		enabled   bool
		want      string
	}{
		{"clean", report.Issues{}, report.SeverityError, true, domain.StatusPass},
		{"errors fail", report.Issues{NumErrors: 1}, report.SeverityError, true, domain.StatusFail},
		{"warnings warn", report.Issues{NumWarnings: 2}, report.SeverityError, true, domain.StatusWarn},
		{"warnings fail at warning", report.Issues{NumWarnings: 2}, report.SeverityWarning, true, domain.StatusFail},
		{"hints pass", report.Issues{NumHints: 4, NumInfos: 1}, report.SeverityError, true, domain.StatusPass},
		{"hints fail at hint", report.Issues{NumHints: 1}, report.SeverityHint, true, domain.StatusFail},
		{"errors warn when disabled", report.Issues{NumErrors: 1}, report.SeverityError, false, domain.StatusWarn},
		{"listed message without counter", report.Issues{
			Messages: []report.Message{{Code: "X", Severity: report.SeverityError}},
		}, report.SeverityError, true, domain.StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &report.ValidationReport{Issues: tt.issues}
			assert.Equal(t, tt.want, domain.ClassifyReport(r, tt.threshold, tt.enabled))
		})
	}
}

func TestWorstStatus(t *testing.T) {
	assert.Equal(t, domain.StatusPass, domain.WorstStatus())
	assert.Equal(t, domain.StatusWarn, domain.WorstStatus(domain.StatusPass, domain.StatusWarn))
	assert.Equal(t, domain.StatusFail, domain.WorstStatus(domain.StatusWarn, domain.StatusFail, domain.StatusPass))
}
