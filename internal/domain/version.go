package domain

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrVersionConstraint is returned when the validator that produced a report
// does not satisfy validator.version_constraint.
var ErrVersionConstraint = errors.New("validator version does not satisfy constraint")

// CheckValidatorVersion checks version against constraint. An empty
// constraint accepts everything. Prerelease versions such as 2.0.0-dev.3.8
// only match constraints that themselves carry a prerelease (">= 2.0.0-0").
func CheckValidatorVersion(version, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrVersionConstraint, version)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not match %s", ErrVersionConstraint, version, constraint)
	}
	return nil
}
