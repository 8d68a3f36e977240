package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/cache"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/config"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/history"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/provision"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/runner"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/scanner"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/storage"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/tui"
	"github.com/abdidvp/gltf-validator/internal/application"
	"github.com/abdidvp/gltf-validator/internal/domain"
)

func newValidateCmd() *cobra.Command {
	var (
		jsonOutput  bool
		ciMode      bool
		failOn      string
		noCache     bool
		schema      bool
		upload      bool
		projectPath string
		jobs        int
	)

	cmd := &cobra.Command{
		Use:   "validate <asset|dir>",
		Short: "Validate a glTF or GLB asset, or every asset under a directory",
		Long: "Run the Khronos glTF-Validator on an asset, decode its report and classify it as pass, warn or fail. " +
			"A directory argument validates every .gltf and .glb file beneath it. " +
			"The validator is downloaded on first use unless validator.binary is configured.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc := application.NewValidateService(
				config.New(),
				provision.New(),
				runner.New(),
				cache.New(),
				history.New(),
				storage.New(),
				gitinfo.New(),
			)

			opts := application.ValidateOptions{
				ProjectPath: absPath,
				NoCache:     noCache,
				Schema:      schema,
				Upload:      upload,
				FailOn:      failOn,
			}

			if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
				batch, err := application.NewBatchService(scanner.New(), svc).ValidateTree(cmd.Context(), args[0], opts, jobs)
				if err != nil {
					return fmt.Errorf("validate failed: %w", err)
				}
				if err := writeOutput(cmd, jsonOutput, batch, tui.RenderBatch); err != nil {
					return err
				}
				if ciMode && batch.Status == domain.StatusFail {
					return fmt.Errorf("validation failed: %d of %d asset(s) failed",
						countFailed(batch), len(batch.Outcomes)+len(batch.Failures))
				}
				return nil
			}

			outcome, err := svc.Validate(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("validate failed: %w", err)
			}

			if err := writeOutput(cmd, jsonOutput, outcome, tui.RenderOutcome); err != nil {
				return err
			}

			if ciMode && outcome.Status == domain.StatusFail {
				is := outcome.Report.Issues
				return fmt.Errorf("validation failed: %d error(s), %d warning(s)", is.NumErrors, is.NumWarnings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the outcome as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 when the asset fails")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Lowest severity that fails (error, warning, info, hint, none)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore cached reports and run the validator")
	cmd.Flags().BoolVar(&schema, "schema", false, "Check validator output against the report JSON Schema")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the report to the configured storage")
	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory holding .gltf-validator.yaml")
	cmd.Flags().IntVar(&jobs, "jobs", application.DefaultJobs, "Assets validated in parallel when given a directory")

	return cmd
}

// writeOutput prints v as indented JSON or through render.
func writeOutput[T any](cmd *cobra.Command, jsonOutput bool, v T, render func(T) string) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Fprint(cmd.OutOrStdout(), render(v))
	return nil
}

func countFailed(b *domain.BatchOutcome) int {
	n := len(b.Failures)
	for _, o := range b.Outcomes {
		if o.Status == domain.StatusFail {
			n++
		}
	}
	return n
}
