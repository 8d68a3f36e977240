package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".gltf-validator.yaml"

// Environment variables that override file settings.
const (
	EnvBinary           = "GLTF_VALIDATOR_BINARY"
	EnvStorageAccessKey = "GLTF_VALIDATOR_STORAGE_ACCESS_KEY"
	EnvStorageSecretKey = "GLTF_VALIDATOR_STORAGE_SECRET_KEY"
)

// YAMLLoader implements domain.ConfigLoader by reading .gltf-validator.yaml.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
}

// New creates a YAMLLoader that reads overrides from the process environment.
func New() *YAMLLoader { return &YAMLLoader{lookupEnv: os.LookupEnv} }

// Load reads .gltf-validator.yaml from projectPath.
// Returns DefaultConfig (plus environment overrides) if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.ProjectConfig{}, err
	default:
		var fileCfg domain.ProjectConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}

		// Validate before merging so errors point at the user's raw input.
		if err := fileCfg.Validate(); err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	l.applyEnv(&cfg)
	return cfg, nil
}

func (l *YAMLLoader) applyEnv(cfg *domain.ProjectConfig) {
	if l.lookupEnv == nil {
		return
	}
	if v, ok := l.lookupEnv(EnvBinary); ok && v != "" {
		cfg.Validator.Binary = v
	}
	if v, ok := l.lookupEnv(EnvStorageAccessKey); ok && v != "" {
		cfg.Storage.AccessKey = v
	}
	if v, ok := l.lookupEnv(EnvStorageSecretKey); ok && v != "" {
		cfg.Storage.SecretKey = v
	}
}

// mergeConfig overlays explicit file values on top of defaults.
// Explicit (non-zero) values always win.
func mergeConfig(base, override domain.ProjectConfig) domain.ProjectConfig {
	result := base

	v := override.Validator
	if v.Binary != "" {
		result.Validator.Binary = v.Binary
	}
	if v.Version != "" {
		result.Validator.Version = v.Version
	}
	if v.BinDir != "" {
		result.Validator.BinDir = v.BinDir
	}
	if v.BaseURL != "" {
		result.Validator.BaseURL = v.BaseURL
	}
	if v.Timeout != "" {
		result.Validator.Timeout = v.Timeout
	}
	if v.MaxIssues > 0 {
		result.Validator.MaxIssues = v.MaxIssues
	}
	if len(v.ExtraArgs) > 0 {
		result.Validator.ExtraArgs = v.ExtraArgs
	}
	if v.VersionConstraint != "" {
		result.Validator.VersionConstraint = v.VersionConstraint
	}

	if override.FailOn != "" {
		result.FailOn = override.FailOn
	}
	result.SchemaCheck = override.SchemaCheck
	if override.History.Enabled != nil {
		result.History = override.History
	}
	if override.Cache.Enabled != nil {
		result.Cache = override.Cache
	}

	// Storage is all-or-nothing.
	if override.Storage != (domain.StorageConfig{}) {
		result.Storage = override.Storage
	}

	return result
}

// Render produces the commented YAML written by `gltf-validator init`.
func Render(cfg domain.ProjectConfig) ([]byte, error) {
	body, err := yaml.Marshal(struct {
		Validator domain.ValidatorConfig `yaml:"validator"`
		FailOn    string                 `yaml:"fail_on"`
		Schema    bool                   `yaml:"schema_check"`
	}{cfg.Validator, cfg.FailOn, cfg.SchemaCheck})
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	header := "# gltf-validator configuration\n" +
		"# Reports are cached and recorded under .gltf-validator/.\n\n"
	footer := `
# history:
#   enabled: true
# cache:
#   enabled: true

# storage:
#   endpoint: localhost:9000
#   bucket: gltf-reports
#   prefix: ci
#   use_ssl: false
#   # credentials come from ` + EnvStorageAccessKey + ` / ` + EnvStorageSecretKey + `
`
	return append(append([]byte(header), body...), footer...), nil
}
