package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/config"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/provision"
)

func newInstallCmd() *cobra.Command {
	var (
		force       bool
		projectPath string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the configured gltf_validator release",
		Long:  "Download and unpack the gltf_validator release named by validator.version into the bin dir.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := config.New().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			inst := provision.NewInstaller(provision.OptionsFromConfig(cfg.Validator), nil)
			if cfg.Validator.Binary != "" {
				p, err := inst.Ensure(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Using configured validator %s\n", p)
				return nil
			}

			if force {
				if err := inst.Remove(); err != nil {
					return err
				}
			}
			wasInstalled := inst.Installed()
			p, err := inst.Ensure(cmd.Context())
			if err != nil {
				return fmt.Errorf("install failed: %w", err)
			}

			verb := "Installed"
			if wasInstalled {
				verb = "Already installed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s gltf_validator %s at %s\n", verb, cfg.Validator.Version, p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-download even if the binary is present")
	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory holding "+config.FileName)

	return cmd
}
