package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clapper/internal/config"
	"clapper/internal/logging"
	"clapper/internal/pipeline"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset <project-dir>",
		Short: "Discard a project's checkpoint",
		Long: `Reset discards the production checkpoint for a project directory so the
next produce run regenerates every asset. Files already on disk are left
in place; only the bookkeeping is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve project directory: %w", err)
			}

			if !yes {
				return fmt.Errorf("reset discards the checkpoint for %s (re-run with --yes to proceed)", projectDir)
			}

			err = pipeline.Reset(projectDir, logging.NewNop())
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no production checkpoint in %s", projectDir)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Checkpoint reset for %s\n", projectDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm discarding the checkpoint")
	return cmd
}
