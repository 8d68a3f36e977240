package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/tui"
	"github.com/abdidvp/gltf-validator/internal/application"
)

func newDecodeCmd() *cobra.Command {
	var (
		jsonOutput bool
		schema     bool
		failOn     string
	)

	cmd := &cobra.Command{
		Use:   "decode [file|-]",
		Short: "Decode a saved validator report",
		Long:  "Decode a JSON report produced by gltf_validator -o. Reads stdin when the file is omitted or \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc, err := application.NewDecodeService(failOn)
			if err != nil {
				return err
			}
			outcome, err := svc.Decode(data, schema)
			if err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(outcome)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(outcome.Report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the decoded report as JSON")
	cmd.Flags().BoolVar(&schema, "schema", false, "Check the payload against the report JSON Schema first")
	cmd.Flags().StringVar(&failOn, "fail-on", "error", "Lowest severity that fails (error, warning, info, hint, none)")

	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return data, nil
}
