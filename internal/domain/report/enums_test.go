package report_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/gltf-validator/internal/domain/report"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want report.Severity
	}{
		{"error", report.SeverityError},
		{"Error", report.SeverityError},
		{"warning", report.SeverityWarning},
		{"warn", report.SeverityWarning},
		{" INFO ", report.SeverityInformation},
		{"information", report.SeverityInformation},
		{"hint", report.SeverityHint},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := report.ParseSeverity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := report.ParseSeverity("fatal")
	var ee *report.EnumError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "severity", ee.Enum)
	assert.Equal(t, "fatal", ee.Value)
}

func TestSeverity_Ordering(t *testing.T) {
	assert.True(t, report.SeverityError.MoreSevereThan(report.SeverityWarning))
	assert.False(t, report.SeverityHint.MoreSevereThan(report.SeverityInformation))
	assert.True(t, report.SeverityWarning.AtLeast(report.SeverityWarning))
	assert.True(t, report.SeverityError.AtLeast(report.SeverityWarning))
	assert.False(t, report.SeverityInformation.AtLeast(report.SeverityWarning))
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "Error", report.SeverityError.String())
	assert.Equal(t, "Hint", report.SeverityHint.String())
	assert.Equal(t, "Severity(7)", report.Severity(7).String())
}

func TestSeverity_MarshalJSON(t *testing.T) {
	for i, sev := range report.Severities {
		data, err := json.Marshal(sev)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte('0' + i)}, data)
	}
	_, err := json.Marshal(report.Severity(4))
	assert.Error(t, err)
}

func TestParseCategoricalTokens(t *testing.T) {
	for _, m := range report.MimeTypes {
		got, err := report.ParseMimeType(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	for _, s := range report.Storages {
		got, err := report.ParseStorage(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := report.ParseFormat("RGB")
	assert.Error(t, err, "tokens are case-sensitive")
	_, err = report.ParsePrimaries("")
	assert.Error(t, err)
	_, err = report.ParseTransfer("gamma")
	var ee *report.EnumError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "transfer", ee.Enum)
	assert.Equal(t, `unknown transfer value "gamma"`, ee.Error())
}

func TestMarshalText_RejectsUnknownValue(t *testing.T) {
	_, err := report.Format("cmyk").MarshalText()
	assert.Error(t, err)

	text, err := report.FormatLuminanceAlpha.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "luminanceAlpha", string(text))
}

func TestIssues_CountBySeverity(t *testing.T) {
	issues := report.Issues{
		NumErrors:   1,
		NumWarnings: 2,
		Messages: []report.Message{
			{Code: "A", Severity: report.SeverityError},
			{Code: "B", Severity: report.SeverityWarning},
			{Code: "C", Severity: report.SeverityWarning},
		},
	}
	assert.Equal(t, 2, issues.CountBySeverity(report.SeverityWarning))
	assert.Equal(t, uint32(2), issues.Count(report.SeverityWarning))
	assert.Equal(t, uint32(0), issues.Count(report.SeverityHint))
	assert.True(t, issues.Consistent())

	issues.NumHints = 5
	assert.False(t, issues.Consistent())
	issues.Truncated = true
	assert.True(t, issues.Consistent())
}
