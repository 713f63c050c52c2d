package scan

import (
	"context"
	"log/slog"

	"checkarr/internal/arr"
	"checkarr/internal/logging"
)

// Orchestrator performs the destructive half of the pipeline: delete the
// rejected file, then ask the instance to replace it. In dry-run mode it
// only reports what it would do and issues no API calls at all.
type Orchestrator struct {
	library arr.Library
	dryRun  bool
	logger  *slog.Logger
}

// NewOrchestrator wraps a library for one instance.
func NewOrchestrator(library arr.Library, dryRun bool, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{library: library, dryRun: dryRun, logger: logger}
}

// Reacquire deletes the file and triggers an automated search for its
// entity. A failure after the delete landed is not retried; a second
// trigger could double-grab if the first one actually went through.
func (o *Orchestrator) Reacquire(ctx context.Context, entity arr.Entity, file arr.FileRecord) (Outcome, error) {
	if o.dryRun {
		o.logger.Info("dry-run: would delete file and trigger search",
			logging.String(logging.FieldEntity, entity.Title),
			logging.String(logging.FieldPath, file.Path))
		return OutcomeWouldSearch, nil
	}
	if err := o.library.DeleteFile(ctx, file.ID); err != nil {
		return "", err
	}
	if err := o.library.TriggerSearch(ctx, entity, file); err != nil {
		o.logger.Error("file deleted but search trigger failed, search manually",
			logging.String(logging.FieldEntity, entity.Title),
			logging.String(logging.FieldPath, file.Path),
			logging.Error(err))
		return OutcomeNeedsManualSearch, nil
	}
	return OutcomeSearchTriggered, nil
}

// Grab deletes the file and sends a specific release to the download
// client. Same no-retry rule as Reacquire.
func (o *Orchestrator) Grab(ctx context.Context, entity arr.Entity, file arr.FileRecord, release arr.Release) (Outcome, error) {
	if o.dryRun {
		o.logger.Info("dry-run: would delete file and download release",
			logging.String(logging.FieldEntity, entity.Title),
			logging.String(logging.FieldPath, file.Path),
			logging.String("release", release.Title))
		return OutcomeWouldDownload, nil
	}
	if err := o.library.DeleteFile(ctx, file.ID); err != nil {
		return "", err
	}
	if err := o.library.Download(ctx, release); err != nil {
		o.logger.Error("file deleted but download request failed, search manually",
			logging.String(logging.FieldEntity, entity.Title),
			logging.String(logging.FieldPath, file.Path),
			logging.String("release", release.Title),
			logging.Error(err))
		return OutcomeNeedsManualSearch, nil
	}
	return OutcomeReleaseDownloaded, nil
}
