package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"checkarr/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show what past runs checked and changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if runID != "" {
				events, err := store.RunEvents(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(events) == 0 {
					fmt.Fprintf(out, "No events recorded for run %s.\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(events))
				for _, event := range events {
					rows = append(rows, []string{
						event.OccurredAt.Local().Format("2006-01-02 15:04:05"),
						event.Instance,
						event.Entity,
						event.Path,
						event.Outcome,
						event.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Time", "Instance", "Entity", "Path", "Outcome", "Detail"}, rows))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatRunDuration(run),
					yesNo(run.DryRun),
					strconv.FormatInt(run.FilesChecked, 10),
					strconv.FormatInt(run.FilesFlagged, 10),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Duration", "Dry run", "Checked", "Flagged"},
				rows, 2, 4, 5))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the per-file events of one run")
	return cmd
}

func formatRunDuration(run history.Run) string {
	if run.FinishedAt.IsZero() {
		return "unfinished"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
