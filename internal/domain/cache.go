package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// CachedReport is a stored validator payload for one asset revision.
type CachedReport struct {
	Key              string          `json:"key"`
	AssetPath        string          `json:"asset_path"`
	AssetSHA256      string          `json:"asset_sha256"`
	ValidatorVersion string          `json:"validator_version"`
	ConfigHash       string          `json:"config_hash"`
	// Dependencies are the external files the validator read next to the asset.
	Dependencies     []FileDigest    `json:"dependencies,omitempty"`
	Payload          json.RawMessage `json:"payload"`
	CreatedAt        time.Time       `json:"created_at"`
}

// FileDigest pins the content of one file.
type FileDigest struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// CacheKey derives the cache key for an asset path and digest, a validator
// version and a config hash. Changing any of them invalidates prior entries.
func CacheKey(assetPath, assetSHA256, validatorVersion, configHash string) string {
	h := sha256.New()
	for _, part := range []string{assetPath, assetSHA256, validatorVersion, configHash} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Matches reports whether the entry was produced for the given inputs.
// Dependencies are checked separately since they need the filesystem.
func (c *CachedReport) Matches(assetPath, assetSHA256, validatorVersion, configHash string) bool {
	return c.AssetPath == assetPath &&
		c.AssetSHA256 == assetSHA256 &&
		c.ValidatorVersion == validatorVersion &&
		c.ConfigHash == configHash
}
