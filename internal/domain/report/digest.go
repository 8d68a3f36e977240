package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Digest returns the hex SHA-256 of the RFC 8785 canonical form of r.
// Reports that differ only in member order or whitespace share a digest.
func Digest(r *ValidationReport) (string, error) {
	data, err := Encode(r)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("canonicalizing report: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
