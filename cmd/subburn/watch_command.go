package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"subburn/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the queue and process pending items until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.buildEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			if err := runPreflight(cmd, env.cfg); err != nil {
				return err
			}

			watcher, err := watch.New(env.cfg, env.runner, env.queue, env.logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watcher.Run(runCtx)
		},
	}
}
