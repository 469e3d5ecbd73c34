package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clapper/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List recently finished productions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg.Paths.CatalogPath)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			productions, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(productions) == 0 {
				fmt.Fprintln(out, "No finished productions recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(productions))
			for _, p := range productions {
				rows = append(rows, []string{
					fmt.Sprintf("%d", p.ID),
					p.ProjectName,
					p.Platform,
					formatSeconds(p.DurationSeconds),
					formatDisplayTime(p.CompletedAt),
					p.FinalPath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Platform", "Duration", "Completed", "Video"},
				rows,
				1, 4,
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of productions to list")
	return cmd
}
