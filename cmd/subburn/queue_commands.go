package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subburn/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the processing queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newQueueListCommand(ctx))
	cmd.AddCommand(newQueueStatusCommand(ctx))
	cmd.AddCommand(newQueueRetryCommand(ctx))
	cmd.AddCommand(newQueueClearCommand(ctx))
	return cmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.buildEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			var statuses []queue.Status
			if trimmed := strings.TrimSpace(statusFlag); trimmed != "" {
				statuses = append(statuses, queue.Status(strings.ToLower(trimmed)))
			}
			items, err := env.queue.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				title := item.Title
				if title == "" {
					title = filepath.Base(item.SourcePath)
				}
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					title,
					string(item.Task),
					item.Language,
					queue.StatusLabel(item.Status),
					formatDisplayTime(item.CreatedAt),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"ID", "Title", "Task", "Language", "Status", "Created"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statusFlag, "status", "s", "", "Filter by status")
	return cmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show aggregate queue counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.buildEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			health, err := env.queue.Health(cmd.Context())
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Pending", strconv.Itoa(health.Pending)},
				{"Processing", strconv.Itoa(health.Processing)},
				{"Completed", strconv.Itoa(health.Completed)},
				{"Failed", strconv.Itoa(health.Failed)},
				{"Total", strconv.Itoa(health.Total)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"State", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Reset failed items back to pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.buildEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			moved, err := env.queue.RetryFailed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d failed item(s) for retry\n", moved)
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var completedFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.buildEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			removed, err := env.queue.Clear(cmd.Context(), completedFlag)
			if err != nil {
				return err
			}
			label := "item(s)"
			if completedFlag {
				label = "completed item(s)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s\n", removed, label)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completedFlag, "completed", false, "Remove only completed items")
	return cmd
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
