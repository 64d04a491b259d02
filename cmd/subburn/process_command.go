package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subburn/internal/config"
	"subburn/internal/pipeline"
	"subburn/internal/preflight"
	"subburn/internal/queue"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var taskFlag string
	var languageFlag string
	var burnFlag bool
	var mp3Flag bool

	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Transcribe or translate a video, burn in subtitles, or extract audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, ok := queue.ParseTask(taskFlag)
			if !ok {
				return fmt.Errorf("unknown task %q (use transcribe or translate)", taskFlag)
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			env, err := ctx.buildEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			if err := runPreflight(cmd, env.cfg); err != nil {
				return err
			}

			req, err := pipeline.RequestFromConfig(env.cfg, task, languageFlag)
			if err != nil {
				return err
			}
			req.Burn = burnFlag
			req.ExtractMP3 = mp3Flag

			item, err := env.queue.NewFile(cmd.Context(), source, titleFromPath(source), task, languageFlag)
			if err != nil {
				return err
			}
			outcome, err := env.runner.RunRequest(cmd.Context(), item, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subtitles:  %s\n", outcome.SubtitlePath)
			fmt.Fprintf(out, "Transcript: %s\n", outcome.TranscriptPath)
			if req.ExtractMP3 {
				fmt.Fprintf(out, "Audio:      %s\n", outcome.AudioPath)
			}
			if req.Burn {
				fmt.Fprintf(out, "Render:     %s\n", outcome.RenderPath)
			}
			if outcome.CachedCaptions {
				fmt.Fprintln(out, "Captions served from cache")
			}
			if outcome.CachedAudio {
				fmt.Fprintln(out, "Audio served from cache")
			}
			if outcome.CachedRender {
				fmt.Fprintln(out, "Render served from cache")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskFlag, "task", "t", string(queue.TaskTranscribe), "Task: transcribe or translate")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language code or name (default: config / auto-detect)")
	cmd.Flags().BoolVar(&burnFlag, "burn", true, "Burn subtitles into a rendered copy of the video")
	cmd.Flags().BoolVar(&mp3Flag, "mp3", false, "Extract the audio track as MP3")
	return cmd
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runPreflight(cmd *cobra.Command, cfg *config.Config) error {
	results := preflight.RunAll(cfg)
	if preflight.AllPassed(results) {
		return nil
	}
	for _, result := range results {
		if !result.Passed {
			fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", result.Name, result.Detail)
		}
	}
	return fmt.Errorf("preflight checks failed")
}
