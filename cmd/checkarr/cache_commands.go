package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"checkarr/internal/logging"
	"checkarr/internal/probe"
	"checkarr/internal/verifycache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the verification caches",
	}
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	var listPaths bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show cached verification results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache := verifycache.New(cfg.GoodCachePath(), cfg.SkippedCachePath(), logging.NewNop())
			probeCache := probe.NewCache(cfg.ProbeCachePath(),
				time.Duration(cfg.Probe.FailureTTLHours)*time.Hour, logging.NewNop())

			good, skipped := cache.Counts()
			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Verified good", strconv.Itoa(good)},
				{"Permanently skipped", strconv.Itoa(skipped)},
				{"Probe results", strconv.Itoa(probeCache.Count())},
			}
			fmt.Fprintln(out, renderTable([]string{"Cache", "Entries"}, rows, 1))

			if listPaths {
				for _, path := range cache.GoodPaths() {
					fmt.Fprintf(out, "good    %s\n", path)
				}
				for _, path := range cache.SkippedPaths() {
					fmt.Fprintf(out, "skipped %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listPaths, "paths", false, "List every cached file path")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var clearGood, clearSkipped, clearProbe bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear caches so files are re-checked on the next run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// No selector flags means clear everything.
			all := !clearGood && !clearSkipped && !clearProbe
			out := cmd.OutOrStdout()

			cache := verifycache.New(cfg.GoodCachePath(), cfg.SkippedCachePath(), logging.NewNop())
			if all || clearGood {
				if err := cache.ClearGood(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared the good-file cache.")
			}
			if all || clearSkipped {
				if err := cache.ClearSkipped(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared the skip list.")
			}
			if all || clearProbe {
				probeCache := probe.NewCache(cfg.ProbeCachePath(),
					time.Duration(cfg.Probe.FailureTTLHours)*time.Hour, logging.NewNop())
				if err := probeCache.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared the probe cache.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearGood, "good", false, "Clear only the good-file cache")
	cmd.Flags().BoolVar(&clearSkipped, "skipped", false, "Clear only the permanent skip list")
	cmd.Flags().BoolVar(&clearProbe, "probe", false, "Clear only the probe cache")
	return cmd
}
