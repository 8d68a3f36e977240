package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/abdidvp/gltf-validator/internal/domain/report"
)

const (
	// DefaultValidatorVersion is the glTF-Validator release provisioned when
	// no version is configured.
	DefaultValidatorVersion = "2.0.0-dev.3.8"
	// DefaultBaseURL is the release download root for glTF-Validator.
	DefaultBaseURL = "https://github.com/KhronosGroup/glTF-Validator/releases/download"
	DefaultTimeout = "60s"
	// FailOnNone disables the fail status entirely.
	FailOnNone = "none"
)

// ProjectConfig holds project-level configuration loaded from .gltf-validator.yaml.
type ProjectConfig struct {
	Validator   ValidatorConfig `yaml:"validator"    json:"validator"`
	FailOn      string          `yaml:"fail_on"      json:"fail_on,omitempty"`
	SchemaCheck bool            `yaml:"schema_check" json:"schema_check,omitempty"`
	History     ToggleConfig    `yaml:"history"      json:"history"`
	Cache       ToggleConfig    `yaml:"cache"        json:"cache"`
	Storage     StorageConfig   `yaml:"storage"      json:"storage,omitempty"`
}

// ValidatorConfig controls how the gltf_validator binary is found and run.
type ValidatorConfig struct {
	Binary            string   `yaml:"binary"             json:"binary,omitempty"`
	Version           string   `yaml:"version"            json:"version,omitempty"`
	BinDir            string   `yaml:"bin_dir"            json:"bin_dir,omitempty"`
	BaseURL           string   `yaml:"base_url"           json:"base_url,omitempty"`
	Timeout           string   `yaml:"timeout"            json:"timeout,omitempty"`
	MaxIssues         int      `yaml:"max_issues"         json:"max_issues,omitempty"`
	ExtraArgs         []string `yaml:"extra_args"         json:"extra_args,omitempty"`
	VersionConstraint string   `yaml:"version_constraint" json:"version_constraint,omitempty"`
}

// ToggleConfig is an on/off switch that defaults to on.
// A nil pointer means "not specified".
type ToggleConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports the effective setting.
func (t ToggleConfig) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

// StorageConfig points at an S3-compatible bucket receiving uploaded reports.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"   json:"endpoint,omitempty"`
	Bucket    string `yaml:"bucket"     json:"bucket,omitempty"`
	Region    string `yaml:"region"     json:"region,omitempty"`
	AccessKey string `yaml:"access_key" json:"-"`
	SecretKey string `yaml:"secret_key" json:"-"`
	UseSSL    bool   `yaml:"use_ssl"    json:"use_ssl,omitempty"`
	Prefix    string `yaml:"prefix"     json:"prefix,omitempty"`
}

// Configured reports whether uploads can be attempted.
func (s StorageConfig) Configured() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Validator: ValidatorConfig{
			Version: DefaultValidatorVersion,
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		FailOn: "error",
	}
}

// TimeoutDuration returns the parsed run timeout, or zero when unset.
func (v ValidatorConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(v.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Fingerprint hashes the settings that can change the validator's output.
// It is part of the report cache key.
func (v ValidatorConfig) Fingerprint() string {
	data, _ := json.Marshal(struct {
		Binary    string   `json:"binary"`
		Version   string   `json:"version"`
		MaxIssues int      `json:"max_issues"`
		ExtraArgs []string `json:"extra_args"`
	}{v.Binary, v.Version, v.MaxIssues, v.ExtraArgs})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FailThreshold resolves fail_on. ok is false for "none".
func (c ProjectConfig) FailThreshold() (sev report.Severity, ok bool) {
	if strings.EqualFold(c.FailOn, FailOnNone) {
		return 0, false
	}
	if c.FailOn == "" {
		return report.SeverityError, true
	}
	sev, err := report.ParseSeverity(c.FailOn)
	if err != nil {
		return report.SeverityError, true
	}
	return sev, true
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if c.FailOn != "" && !strings.EqualFold(c.FailOn, FailOnNone) {
		if _, err := report.ParseSeverity(c.FailOn); err != nil {
			return fmt.Errorf("unknown fail_on %q (valid: error, warning, info, hint, none)", c.FailOn)
		}
	}

	v := c.Validator
	if v.Timeout != "" {
		d, err := time.ParseDuration(v.Timeout)
		if err != nil {
			return fmt.Errorf("validator.timeout %q is not a duration", v.Timeout)
		}
		if d <= 0 {
			return fmt.Errorf("validator.timeout must be > 0 (got %s)", v.Timeout)
		}
	}
	if v.MaxIssues < 0 {
		return fmt.Errorf("validator.max_issues must be >= 0 (got %d)", v.MaxIssues)
	}
	if v.BaseURL != "" {
		u, err := url.Parse(v.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("validator.base_url %q must be an http(s) URL", v.BaseURL)
		}
	}
	if v.Version != "" && strings.ContainsAny(v.Version, "/\\ ") {
		return fmt.Errorf("validator.version %q contains invalid characters", v.Version)
	}
	if v.VersionConstraint != "" {
		if _, err := semver.NewConstraint(v.VersionConstraint); err != nil {
			return fmt.Errorf("validator.version_constraint %q: %w", v.VersionConstraint, err)
		}
	}

	s := c.Storage
	if (s.Endpoint == "") != (s.Bucket == "") {
		return fmt.Errorf("storage.endpoint and storage.bucket must be set together")
	}
	if strings.Contains(s.Endpoint, "://") {
		return fmt.Errorf("storage.endpoint %q must be host[:port] without a scheme", s.Endpoint)
	}

	return nil
}
