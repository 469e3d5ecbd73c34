package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clapper/internal/config"
	"clapper/internal/pipeline"
	"clapper/internal/platform"
	"clapper/internal/textutil"
)

func newProduceCommand(ctx *commandContext) *cobra.Command {
	var (
		scriptPath   string
		name         string
		platformName string
		voiceID      string
		imagePath    string
		preset       string
		musicStyle   string
		noMusic      bool
		forceRestart bool
	)

	cmd := &cobra.Command{
		Use:   "produce <project-dir>",
		Short: "Run the production pipeline for a project",
		Long: `Produce runs voiceover synthesis, avatar rendering, background music, and
final composition for one project directory. A checkpoint inside the
directory records every finished step, so rerunning the command resumes
from the first incomplete step and reuses assets that are still valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			projectDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve project directory: %w", err)
			}

			script, err := readScript(scriptPath)
			if err != nil {
				return err
			}

			content := cfg.NewContent()
			content.Script = script
			content.Name = strings.TrimSpace(name)
			if content.Name == "" {
				content.Name = textutil.TitleFromPath(projectDir)
			}
			if platformName != "" {
				content.Platform = platformName
			}
			if voiceID != "" {
				content.Voice = voiceID
			}
			if imagePath != "" {
				expanded, err := config.ExpandPath(imagePath)
				if err != nil {
					return fmt.Errorf("resolve avatar image: %w", err)
				}
				content.AvatarImage = expanded
			}
			if preset != "" {
				content.AvatarPreset = preset
			}
			if musicStyle != "" {
				content.MusicStyle = musicStyle
			}
			if noMusic {
				content.AddMusic = false
			}

			producer, cleanup, err := ctx.buildProducer()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := producer.Run(runCtx, projectDir, content, forceRestart)
			if err != nil {
				return err
			}

			printProduceResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to the script text file (required)")
	cmd.Flags().StringVar(&name, "name", "", "Production name (defaults to a title derived from the project directory)")
	cmd.Flags().StringVar(&platformName, "platform", "", fmt.Sprintf("Target platform (%s)", strings.Join(platform.Names(), ", ")))
	cmd.Flags().StringVar(&voiceID, "voice", "", "Text-to-speech voice identifier")
	cmd.Flags().StringVar(&imagePath, "image", "", "Avatar source image (required)")
	cmd.Flags().StringVar(&preset, "preset", "", "Avatar renderer preset")
	cmd.Flags().StringVar(&musicStyle, "music-style", "", "Background music style prompt")
	cmd.Flags().BoolVar(&noMusic, "no-music", false, "Skip background music for this production")
	cmd.Flags().BoolVar(&forceRestart, "force-restart", false, "Discard the checkpoint and regenerate every asset")
	_ = cmd.MarkFlagRequired("script")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func readScript(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	script := strings.TrimSpace(string(data))
	if script == "" {
		return "", fmt.Errorf("script file %s is empty", expanded)
	}
	return script, nil
}

func printProduceResult(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(result.Steps))
	for _, step := range result.Steps {
		asset := step.AssetPath
		if asset == "" {
			asset = "-"
		}
		rows = append(rows, []string{
			formatStepLabel(string(step.Step)),
			formatStepLabel(string(step.Outcome)),
			asset,
		})
	}

	fmt.Fprintf(out, "Production %q complete for %s\n", result.ProjectName, result.Platform)
	if result.ConfigChanged {
		fmt.Fprintln(out, renderStatusLine("Config", statusWarn,
			"Changed since the checkpoint; reused assets may be stale (use --force-restart to regenerate)",
			shouldColorize(out)))
	}
	fmt.Fprintln(out, renderTable([]string{"Step", "Outcome", "Asset"}, rows))
	fmt.Fprintf(out, "Final video: %s\n", result.FinalPath)
	if result.DurationSeconds > 0 {
		fmt.Fprintf(out, "Duration: %.1fs\n", result.DurationSeconds)
	}
	fmt.Fprintf(out, "Elapsed: %s\n", result.Elapsed.Round(time.Millisecond))
}
