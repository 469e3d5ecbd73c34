package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clapper/internal/config"
	"clapper/internal/logging"
	"clapper/internal/manifest"
	"clapper/internal/pipeline"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project-dir>",
		Short: "Show checkpoint progress for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve project directory: %w", err)
			}

			report, err := pipeline.Progress(projectDir, logging.NewNop())
			switch {
			case errors.Is(err, os.ErrNotExist):
				return fmt.Errorf("no production checkpoint in %s (run `clapper produce` to start one)", projectDir)
			case errors.Is(err, manifest.ErrCorrupt):
				return fmt.Errorf("checkpoint in %s is unreadable; `clapper reset` replaces it: %w", projectDir, err)
			case err != nil:
				return err
			}

			printProgressReport(cmd, report)
			return nil
		},
	}
}

func printProgressReport(cmd *cobra.Command, report *pipeline.ProgressReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Project: %s\n", report.ProjectName)
	fmt.Fprintf(out, "Directory: %s\n", report.ProjectDir)
	fmt.Fprintf(out, "Created: %s\n", formatDisplayTime(report.CreatedAt))
	fmt.Fprintf(out, "Updated: %s\n", formatDisplayTime(report.UpdatedAt))

	rows := make([][]string, 0, len(manifest.StepOrder()))
	for _, step := range manifest.StepOrder() {
		row := []string{
			formatStepLabel(string(step)),
			formatStepLabel(report.StepStatus(step)),
			"-",
			"-",
		}
		if assetName, ok := manifest.StepAsset(step); ok {
			if rec, ok := report.Assets[assetName]; ok {
				if rec.Path != "" {
					row[2] = rec.Path
				}
				switch {
				case rec.Error != "":
					row[3] = rec.Error
				case rec.CreatedAt != nil:
					row[3] = formatDisplayTime(*rec.CreatedAt)
				}
			}
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable([]string{"Step", "State", "Asset", "Detail"}, rows))

	switch {
	case report.Finished():
		fmt.Fprintln(out, renderStatusLine("Production", statusOK, "Complete", colorize))
	case report.CurrentStep != nil:
		fmt.Fprintln(out, renderStatusLine("Production", statusWarn,
			fmt.Sprintf("Stopped during %s", formatStepLabel(string(*report.CurrentStep))), colorize))
	default:
		fmt.Fprintln(out, renderStatusLine("Production", statusInfo,
			fmt.Sprintf("Resumes at %s", formatStepLabel(string(*report.ResumePoint))), colorize))
	}
}
