package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/config"
	"github.com/abdidvp/gltf-validator/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		failOn string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a " + config.FileName + " configuration file",
		Long:  "Create a " + config.FileName + " pinned to the default validator release.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			cfg.FailOn = failOn
			if err := cfg.Validate(); err != nil {
				return err
			}

			content, err := config.Render(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, content, 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&failOn, "fail-on", "error", "Lowest severity that fails (error, warning, info, hint, none)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing "+config.FileName)

	return cmd
}
