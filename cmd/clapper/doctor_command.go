package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"clapper/internal/config"
	"clapper/internal/preflight"
	"clapper/internal/services"
	"clapper/internal/services/avatar"
	"clapper/internal/services/compositor"
	"clapper/internal/services/music"
	"clapper/internal/services/voice"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the host environment",
		Long: `Doctor verifies that the directories, disk space, and external tools a
production needs are in place, and reports whether each generator is ready.
It exits non-zero when a required check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			fmt.Fprintln(out, sectionHeader("Environment", colorize))
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out, sectionHeader("Tools", colorize))
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				kind := statusOK
				detail := status.Detail
				switch {
				case status.Available:
				case status.Optional:
					kind = statusWarn
					detail = fmt.Sprintf("%s (optional)", status.Detail)
				default:
					kind = statusError
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			fmt.Fprintln(out, sectionHeader("Generators", colorize))
			failures += printGeneratorHealth(cmd.Context(), out, cfg, colorize)

			if failures > 0 {
				return fmt.Errorf("%d required check(s) failed", failures)
			}
			fmt.Fprintln(out, renderStatusLine("Summary", statusOK, "Ready to produce", colorize))
			return nil
		},
	}
}

// printGeneratorHealth builds each generator client the way a production run
// would and renders its readiness. Returns the number of generators that are
// not ready.
func printGeneratorHealth(ctx context.Context, out io.Writer, cfg *config.Config, colorize bool) int {
	failures := 0
	report := func(name string, health services.Health) {
		if health.Ready {
			fmt.Fprintln(out, renderStatusLine(name, statusOK, "Ready", colorize))
			return
		}
		failures++
		fmt.Fprintln(out, renderStatusLine(name, statusError, health.Detail, colorize))
	}

	if client, err := voice.New(cfg.Voice.Binary, cfg.Voice.Rate, cfg.Voice.TimeoutSeconds); err != nil {
		report("Voiceover", services.Unhealthy("voice", err.Error()))
	} else {
		report("Voiceover", client.HealthCheck(ctx))
	}

	if client, err := avatar.New(cfg.Avatar.Binary, cfg.Avatar.ResultsDir, cfg.Avatar.TimeoutSeconds); err != nil {
		report("Avatar", services.Unhealthy("avatar", err.Error()))
	} else {
		report("Avatar", client.HealthCheck(ctx))
	}

	if !cfg.Music.Enabled {
		fmt.Fprintln(out, renderStatusLine("Music", statusInfo, "Disabled", colorize))
	} else if client, err := music.New(cfg.Music.Binary, cfg.Music.TimeoutSeconds); err != nil {
		report("Music", services.Unhealthy("music", err.Error()))
	} else {
		report("Music", client.HealthCheck(ctx))
	}

	if client, err := compositor.New(cfg.Composition.FFmpegBinary, cfg.Composition.FFprobeBinary, cfg.Composition.MusicVolume, cfg.Composition.TimeoutSeconds); err != nil {
		report("Composition", services.Unhealthy("composition", err.Error()))
	} else {
		report("Composition", client.HealthCheck(ctx))
	}

	return failures
}
