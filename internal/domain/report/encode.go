package report

import (
	"encoding/json"
	"fmt"
)

// Encode serializes r in the validator's wire format. Absent optional members
// stay absent. Encoding fails if an enumeration holds a value outside its set.
func Encode(r *ValidationReport) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// EncodeIndent is Encode with two-space indentation.
func EncodeIndent(r *ValidationReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}
