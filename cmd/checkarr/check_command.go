package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"checkarr/internal/arr"
	"checkarr/internal/config"
	"checkarr/internal/deps"
	"checkarr/internal/history"
	"checkarr/internal/language"
	"checkarr/internal/logging"
	"checkarr/internal/policy"
	"checkarr/internal/probe"
	"checkarr/internal/scan"
	"checkarr/internal/verifycache"
)

func newCheckCommand(ctx *commandContext, dryRunFlag *bool) *cobra.Command {
	var unattended bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Scan all enabled instances and re-acquire files that fail the language policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			dryRun := cfg.Settings.DryRun || *dryRunFlag
			return runCheck(cmd, cfg, logger, dryRun, unattended)
		},
	}

	cmd.Flags().BoolVar(&unattended, "unattended", false, "Never prompt; trigger an automated search for every flagged file")
	return cmd
}

func runCheck(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, dryRun, unattended bool) error {
	ffprobeBinary, err := deps.FindFFprobe(cfg.Probe.FFprobePath)
	if err != nil {
		return fmt.Errorf("ffprobe is required: %w", err)
	}

	lock, err := scan.AcquireRunLock(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	probeCache := probe.NewCache(cfg.ProbeCachePath(),
		time.Duration(cfg.Probe.FailureTTLHours)*time.Hour,
		logging.NewComponentLogger(logger, "probe-cache"))
	inspector := probe.CommandInspector{
		Binary:  ffprobeBinary,
		Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
	}
	prober := probe.NewProber(inspector, probeCache, logging.NewComponentLogger(logger, "probe"))

	verification := verifycache.New(cfg.GoodCachePath(), cfg.SkippedCachePath(),
		logging.NewComponentLogger(logger, "verify-cache"))

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	libraries := buildLibraries(cfg, logger)
	if len(libraries) == 0 {
		return fmt.Errorf("no instances enabled in configuration")
	}

	out := cmd.OutOrStdout()
	var picker scan.Picker
	interactive := cfg.Settings.Interactive && !unattended
	if interactive && !stdinIsTerminal() {
		logger.Info("stdin is not a terminal, running unattended")
		interactive = false
	}
	if interactive {
		picker = newTerminalPicker(cmd.InOrStdin(), out, cfg.Policy.HighlightMissing, cfg.Policy.LanguageCodes)
	}

	if dryRun {
		fmt.Fprintln(out, "Dry run: nothing will be deleted, downloaded, or cached.")
	}

	runner := scan.NewRunner(scan.Options{
		RunID:  runID,
		DryRun: dryRun,
		Policy: policyFromConfig(cfg.Policy),
		Picker: picker,
	}, prober, verification, store, logger)

	summary, err := runner.Run(signalCtx, libraries)
	printRunSummary(out, summary)
	return err
}

func buildLibraries(cfg *config.Config, logger *slog.Logger) []arr.Library {
	var libraries []arr.Library
	if cfg.Sonarr.Enabled {
		client := arr.NewClient("sonarr", cfg.Sonarr, logging.NewComponentLogger(logger, "sonarr"))
		libraries = append(libraries, arr.NewSonarrLibrary(client))
	}
	if cfg.Radarr.Enabled {
		client := arr.NewClient("radarr", cfg.Radarr, logging.NewComponentLogger(logger, "radarr"))
		libraries = append(libraries, arr.NewRadarrLibrary(client))
	}
	return libraries
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func policyFromConfig(p config.Policy) policy.Policy {
	return policy.Policy{
		RequireAudio:     p.RequireAudio,
		RequireSubtitles: p.RequireSubtitles,
		Codes:            language.NewSet(p.LanguageCodes),
		HighlightMissing: p.HighlightMissing,
	}
}

func printRunSummary(out io.Writer, summary scan.Summary) {
	fmt.Fprintf(out, "\nChecked %d files, %d flagged.\n", summary.Checked, summary.Flagged)
	if len(summary.Outcomes) == 0 {
		return
	}
	outcomes := make([]string, 0, len(summary.Outcomes))
	for outcome := range summary.Outcomes {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		rows = append(rows, []string{outcome, strconv.Itoa(summary.Outcomes[scan.Outcome(outcome)])})
	}
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Files"}, rows, 1))
}
