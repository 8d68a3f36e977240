package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/history"
	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/tui"
	"github.com/abdidvp/gltf-validator/internal/application"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOutput  bool
		limit       int
		projectPath string
	)

	cmd := &cobra.Command{
		Use:   "history [asset]",
		Short: "Show recorded validation runs",
		Long:  "List validation runs recorded under .gltf-validator/history, oldest first.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			var asset string
			if len(args) > 0 {
				asset = args[0]
			}

			entries, err := application.NewHistoryService(history.New()).List(absPath, asset, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the most recent N runs")
	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory holding the history")

	return cmd
}
