package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"checkarr/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that required external binaries are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			resolved, ffprobeErr := deps.FindFFprobe(cfg.Probe.FFprobePath)
			statuses := deps.CheckBinaries([]deps.Requirement{
				{Name: "ffprobe", Command: resolved, Description: "stream inspection"},
			})

			rows := make([][]string, 0, len(statuses))
			missing := false
			for _, status := range statuses {
				state := "ok"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
					if status.Name == "ffprobe" && ffprobeErr != nil {
						detail = ffprobeErr.Error()
					}
					if !status.Optional {
						missing = true
					}
				}
				rows = append(rows, []string{status.Name, status.Description, state, detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Binary", "Purpose", "Status", "Detail"}, rows))

			if missing {
				return fmt.Errorf("missing required binaries")
			}
			return nil
		},
	}
}
