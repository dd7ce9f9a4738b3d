package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/submission"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "render [vanilla|tui]",
		Short:     "Print the empty form with the named renderer",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"vanilla", "tui"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			registry, err := intake.NewRegistry()
			if err != nil {
				return fmt.Errorf("build renderers: %w", err)
			}

			out, _, err := intake.RenderSnapshot(cmd.Context(), registry, args[0], submission.Snapshot{Status: submission.StatusIdle}, render.RenderOptions{
				Theme: cfg.Theme.RendererConfig(),
			})
			if err != nil {
				return fmt.Errorf("render form: %w", err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
