// Package runner executes the gltf_validator binary and captures its output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

const waitDelay = 2 * time.Second

// ErrAssetNotFound is returned when the asset path does not name a regular file.
var ErrAssetNotFound = domain.ErrAssetNotFound

// ExitError is returned when the validator fails without printing a report.
type ExitError struct {
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("validator exited with status %d and no output", e.ExitCode)
	}
	return fmt.Sprintf("validator exited with status %d: %s", e.ExitCode, msg)
}

// Runner implements domain.ValidatorRunner with os/exec.
type Runner struct {
	logger *slog.Logger
}

func New() *Runner {
	return &Runner{logger: slog.Default().With("component", "runner")}
}

// Args builds the validator command line for one asset.
func Args(assetPath string, opts domain.RunOptions) []string {
	args := []string{"-o"}
	if opts.MaxIssues > 0 {
		args = append(args, "--max-issues="+strconv.Itoa(opts.MaxIssues))
	}
	args = append(args, opts.ExtraArgs...)
	return append(args, assetPath)
}

// Run validates assetPath with binary. A non-zero exit status is only an
// error when the validator printed nothing to stdout.
func (r *Runner) Run(ctx context.Context, binary, assetPath string, opts domain.RunOptions) (*domain.RunOutput, error) {
	info, err := os.Stat(assetPath)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetPath)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := Args(assetPath, opts)
	r.logger.Debug("running validator", "binary", binary, "args", args)

	cmd := exec.CommandContext(ctx, binary, args...)
	// Children that inherit stdout must not hold Run open after a kill.
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	out := &domain.RunOutput{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("running validator on %s: %w", assetPath, ctxErr)
	}
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return nil, fmt.Errorf("starting validator %s: %w", binary, err)
		}
		out.ExitCode = ee.ExitCode()
	}

	r.logger.Debug("validator finished",
		"exit_code", out.ExitCode, "stdout_bytes", len(out.Stdout), "duration", out.Duration)

	if out.ExitCode != 0 && len(bytes.TrimSpace(out.Stdout)) == 0 {
		return nil, &ExitError{ExitCode: out.ExitCode, Stderr: string(out.Stderr)}
	}
	return out, nil
}
