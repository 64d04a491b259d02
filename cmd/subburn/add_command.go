package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subburn/internal/config"
	"subburn/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var taskFlag string
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "add <video>...",
		Short: "Queue videos for processing by the watch loop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, ok := queue.ParseTask(taskFlag)
			if !ok {
				return fmt.Errorf("unknown task %q (use transcribe or translate)", taskFlag)
			}

			env, err := ctx.buildEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			for _, arg := range args {
				source, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				if _, err := os.Stat(source); err != nil {
					return fmt.Errorf("source %s: %w", source, err)
				}
				item, err := env.queue.NewFile(cmd.Context(), source, titleFromPath(source), task, languageFlag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued item %d: %s\n", item.ID, source)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskFlag, "task", "t", string(queue.TaskTranscribe), "Task: transcribe or translate")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language code or name (default: config / auto-detect)")
	return cmd
}
