// Package policy decides whether a file's probed streams satisfy the
// configured language requirements.
package policy

import (
	"checkarr/internal/language"
	"checkarr/internal/media/ffprobe"
)

// Policy is the configured requirement set, immutable for the run.
type Policy struct {
	RequireAudio     bool
	RequireSubtitles bool
	Codes            language.Set
	// HighlightMissing is a presentation-only label; it never influences
	// the verdict.
	HighlightMissing string
}

// Decision is the per-file verdict.
type Decision struct {
	NeedsReacquisition bool
	HasRequiredAudio   bool
	HasRequiredSubs    bool
}

// Decide judges probed streams against the policy. Pure: no I/O, no side
// effects. With both requirement flags off the verdict is always negative.
func Decide(summary ffprobe.StreamSummary, pol Policy) Decision {
	decision := Decision{
		HasRequiredAudio: pol.Codes.ContainsAny(summary.AudioLanguages),
		HasRequiredSubs:  pol.Codes.ContainsAny(summary.SubtitleLanguages),
	}
	decision.NeedsReacquisition = (pol.RequireAudio && !decision.HasRequiredAudio) ||
		(pol.RequireSubtitles && !decision.HasRequiredSubs)
	return decision
}
