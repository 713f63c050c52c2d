package probe

import (
	"context"
	"log/slog"
	"os"
	"time"

	"checkarr/internal/logging"
	"checkarr/internal/media/ffprobe"
	"checkarr/internal/services"
)

// Inspector produces a stream summary for one media file. Implementations
// may fail; the caching layer above converts failures into empty summaries.
type Inspector interface {
	Inspect(ctx context.Context, path string) (ffprobe.StreamSummary, error)
}

// CommandInspector runs the external ffprobe binary with a bounded timeout.
type CommandInspector struct {
	Binary  string
	Timeout time.Duration
}

func (p CommandInspector) Inspect(ctx context.Context, path string) (ffprobe.StreamSummary, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		marker := services.ErrProbe
		if ctx.Err() != nil {
			marker = services.ErrTimeout
		}
		return ffprobe.StreamSummary{}, services.Wrap(marker, "probe", "inspect", path, err)
	}
	return ffprobe.Summarize(result), nil
}

// Prober is a caching front over an Inspector. A probe failure yields an
// empty summary, indistinguishable from "no qualifying streams found", and
// is cached with a short TTL so broken files are not hammered every run.
type Prober struct {
	inspector Inspector
	cache     *Cache
	logger    *slog.Logger
	stat      func(string) (os.FileInfo, error)
}

// NewProber wires an inspector to the persistent cache.
func NewProber(inspector Inspector, cache *Cache, logger *slog.Logger) *Prober {
	return &Prober{
		inspector: inspector,
		cache:     cache,
		logger:    logging.NewComponentLogger(logger, "probe"),
		stat:      os.Stat,
	}
}

// Probe returns the stream summary for path, from cache when the on-disk
// size matches the cached size. It never fails the caller: missing files,
// tool errors and timeouts all come back as an empty summary.
func (p *Prober) Probe(ctx context.Context, path string) ffprobe.StreamSummary {
	var sizeBytes int64
	info, statErr := p.stat(path)
	if statErr == nil {
		sizeBytes = info.Size()
	}

	if entry, ok := p.cache.Lookup(path, sizeBytes); ok {
		return entry.Summary
	}

	if statErr != nil {
		p.logger.Warn("file not accessible; treating as no streams",
			logging.String(logging.FieldPath, path),
			logging.Error(statErr))
		p.store(path, sizeBytes, ffprobe.StreamSummary{}, true)
		return ffprobe.StreamSummary{}
	}

	summary, err := p.inspector.Inspect(ctx, path)
	if err != nil {
		p.logger.Warn("probe failed; treating as no streams",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		p.store(path, sizeBytes, ffprobe.StreamSummary{}, true)
		return ffprobe.StreamSummary{}
	}

	p.store(path, sizeBytes, summary, false)
	return summary
}

func (p *Prober) store(path string, sizeBytes int64, summary ffprobe.StreamSummary, failed bool) {
	if err := p.cache.Store(path, sizeBytes, summary, failed); err != nil {
		p.logger.Warn("probe cache write failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
	}
}
