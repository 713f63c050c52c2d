package scan

import (
	"context"
	"log/slog"

	"checkarr/internal/arr"
	"checkarr/internal/history"
	"checkarr/internal/logging"
	"checkarr/internal/media/ffprobe"
	"checkarr/internal/policy"
	"checkarr/internal/releases"
	"checkarr/internal/verifycache"
)

// Prober inspects one file and returns its stream summary. An empty
// summary means the file could not be read.
type Prober interface {
	Probe(ctx context.Context, path string) ffprobe.StreamSummary
}

// PickRequest carries everything the interactive layer needs to show a
// flagged file and its replacement candidates.
type PickRequest struct {
	Instance string
	Entity   arr.Entity
	File     arr.FileRecord
	Summary  ffprobe.StreamSummary
	Decision policy.Decision
	Releases []arr.Release
}

// PickResult is the user's verdict for one flagged file.
type PickResult struct {
	Resolution releases.Resolution
	// Release is set when Resolution is ResolutionSelected.
	Release arr.Release
}

// Picker resolves a flagged file, typically by prompting a human. A nil
// Picker puts the runner in unattended mode: every flagged file gets an
// automated search.
type Picker interface {
	Pick(ctx context.Context, req PickRequest) (PickResult, error)
}

// Options configure one run.
type Options struct {
	RunID  string
	DryRun bool
	Policy policy.Policy
	Picker Picker
}

// Summary totals one run.
type Summary struct {
	Checked  int64
	Flagged  int64
	Outcomes map[Outcome]int
}

// Runner walks libraries sequentially and processes one file at a time.
// Files are never handled concurrently; every mutation is acted on and
// flushed before the next file is touched.
type Runner struct {
	opts   Options
	prober Prober
	cache  *verifycache.Cache
	store  *history.Store
	logger *slog.Logger
}

// NewRunner assembles a runner. store may be nil to disable history.
func NewRunner(opts Options, prober Prober, cache *verifycache.Cache, store *history.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{opts: opts, prober: prober, cache: cache, store: store, logger: logger}
}

// Run processes every file of every library. It stops between files when
// ctx is cancelled; the file in flight is finished first so caches and
// the library are never left half-updated.
func (r *Runner) Run(ctx context.Context, libraries []arr.Library) (Summary, error) {
	summary := Summary{Outcomes: make(map[Outcome]int)}

	if r.store != nil {
		if err := r.store.BeginRun(ctx, r.opts.RunID, r.opts.DryRun); err != nil {
			return summary, err
		}
	}

	var runErr error
	for _, library := range libraries {
		if err := r.runLibrary(ctx, library, &summary); err != nil {
			runErr = err
			break
		}
	}

	if r.store != nil {
		if err := r.store.FinishRun(ctx, r.opts.RunID, summary.Checked, summary.Flagged); err != nil && runErr == nil {
			runErr = err
		}
	}
	return summary, runErr
}

func (r *Runner) runLibrary(ctx context.Context, library arr.Library, summary *Summary) error {
	logger := r.logger.With(logging.String(logging.FieldInstance, library.Name()))
	orchestrator := NewOrchestrator(library, r.opts.DryRun, logger)

	entities, err := library.Entities(ctx)
	if err != nil {
		// A dead instance should not kill the whole run.
		logger.Error("listing entities failed, skipping instance", logging.Error(err))
		return nil
	}

	for _, entity := range entities {
		if err := ctx.Err(); err != nil {
			return err
		}
		files, err := library.Files(ctx, entity)
		if err != nil {
			logger.Warn("listing files failed, skipping entity",
				logging.String(logging.FieldEntity, entity.Title), logging.Error(err))
			continue
		}
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome := r.processFile(ctx, library, orchestrator, entity, file, logger)
			summary.Checked++
			if outcome != "" {
				summary.Outcomes[outcome]++
			}
			switch outcome {
			case OutcomeVerified, OutcomeUserSkipped, "":
			default:
				summary.Flagged++
			}
		}
	}
	return nil
}

// processFile runs the full pipeline for one file. It never returns an
// error; problems are logged and the run moves on.
func (r *Runner) processFile(ctx context.Context, library arr.Library, orchestrator *Orchestrator,
	entity arr.Entity, file arr.FileRecord, logger *slog.Logger) Outcome {

	if r.cache.IsGood(file.Path) {
		logger.Debug("cached good", logging.String(logging.FieldPath, file.Path))
		return OutcomeVerified
	}
	if r.cache.IsSkipped(file.Path) {
		logger.Debug("on the permanent skip list", logging.String(logging.FieldPath, file.Path))
		r.record(ctx, library, entity, file, OutcomeUserSkipped, "remembered from an earlier run")
		return OutcomeUserSkipped
	}

	streams := r.prober.Probe(ctx, file.Path)
	if streams.Empty() {
		// An unreadable file judges the same as one with no qualifying
		// streams, so a required language drives it into re-acquisition.
		logger.Warn("probe returned no streams", logging.String(logging.FieldPath, file.Path))
	}

	decision := policy.Decide(streams, r.opts.Policy)
	if !decision.NeedsReacquisition {
		r.markGood(file.Path, logger)
		r.record(ctx, library, entity, file, OutcomeVerified, "")
		return OutcomeVerified
	}

	logger.Info("file fails language policy",
		logging.String(logging.FieldEntity, entity.Title),
		logging.String(logging.FieldPath, file.Path),
		logging.Bool("has_audio", decision.HasRequiredAudio),
		logging.Bool("has_subs", decision.HasRequiredSubs))

	outcome, detail := r.resolveFlagged(ctx, library, orchestrator, entity, file, streams, decision, logger)
	if outcome != "" {
		r.record(ctx, library, entity, file, outcome, detail)
	}
	return outcome
}

func (r *Runner) resolveFlagged(ctx context.Context, library arr.Library, orchestrator *Orchestrator,
	entity arr.Entity, file arr.FileRecord, streams ffprobe.StreamSummary,
	decision policy.Decision, logger *slog.Logger) (Outcome, string) {

	if r.opts.Picker == nil {
		outcome, err := orchestrator.Reacquire(ctx, entity, file)
		if err != nil {
			logger.Error("delete failed, file left in place",
				logging.String(logging.FieldPath, file.Path), logging.Error(err))
			return OutcomeKeptCurrent, "delete failed: " + err.Error()
		}
		return outcome, ""
	}

	candidates, err := library.Releases(ctx, entity, file)
	if err != nil {
		logger.Warn("release lookup failed, keeping current file",
			logging.String(logging.FieldPath, file.Path), logging.Error(err))
		candidates = nil
	}

	result, err := r.opts.Picker.Pick(ctx, PickRequest{
		Instance: library.Name(),
		Entity:   entity,
		File:     file,
		Summary:  streams,
		Decision: decision,
		Releases: candidates,
	})
	if err != nil {
		logger.Warn("prompt aborted, keeping current file", logging.Error(err))
		return OutcomeKeptCurrent, "prompt aborted"
	}

	switch result.Resolution {
	case releases.ResolutionSelected:
		outcome, err := orchestrator.Grab(ctx, entity, file, result.Release)
		if err != nil {
			logger.Error("delete failed, file left in place",
				logging.String(logging.FieldPath, file.Path), logging.Error(err))
			return OutcomeKeptCurrent, "delete failed: " + err.Error()
		}
		return outcome, result.Release.Title
	case releases.ResolutionSkipped:
		r.markSkipped(file.Path, logger)
		return OutcomeUserSkipped, ""
	default:
		return OutcomeKeptCurrent, ""
	}
}

// markGood and markSkipped flush after every change so a crash loses at
// most the file in flight. Dry-run writes nothing; only history rows
// document what a dry run saw.
func (r *Runner) markGood(path string, logger *slog.Logger) {
	if r.opts.DryRun {
		return
	}
	if r.cache.MarkGood(path) {
		r.flush(logger)
	}
}

func (r *Runner) markSkipped(path string, logger *slog.Logger) {
	if r.opts.DryRun {
		return
	}
	if r.cache.MarkSkipped(path) {
		r.flush(logger)
	}
}

func (r *Runner) flush(logger *slog.Logger) {
	if err := r.cache.Flush(); err != nil {
		// Unwritable cache degrades to re-checking next run.
		logger.Warn("cache flush failed", logging.Error(err))
	}
}

func (r *Runner) record(ctx context.Context, library arr.Library, entity arr.Entity,
	file arr.FileRecord, outcome Outcome, detail string) {
	if r.store == nil {
		return
	}
	err := r.store.Record(ctx, history.Event{
		RunID:    r.opts.RunID,
		Instance: library.Name(),
		Entity:   entity.Title,
		Path:     file.Path,
		Outcome:  string(outcome),
		Detail:   detail,
	})
	if err != nil {
		r.logger.Warn("history write failed", logging.Error(err))
	}
}
