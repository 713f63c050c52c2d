package policy

import (
	"testing"

	"checkarr/internal/language"
	"checkarr/internal/media/ffprobe"
)

func englishPolicy(audio, subs bool) Policy {
	return Policy{
		RequireAudio:     audio,
		RequireSubtitles: subs,
		Codes:            language.NewSet([]string{"eng", "en"}),
	}
}

func TestDecideDeterministic(t *testing.T) {
	summary := ffprobe.StreamSummary{
		AudioLanguages:    []string{"eng", "jpn"},
		SubtitleLanguages: []string{"spa"},
	}
	pol := englishPolicy(true, true)

	first := Decide(summary, pol)
	second := Decide(summary, pol)
	if first != second {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
	if !first.HasRequiredAudio || first.HasRequiredSubs {
		t.Fatalf("unexpected decision %+v", first)
	}
	if !first.NeedsReacquisition {
		t.Fatal("missing subtitles should require re-acquisition")
	}
}

func TestDecideNoRequirementsNeverReacquires(t *testing.T) {
	pol := englishPolicy(false, false)
	summaries := []ffprobe.StreamSummary{
		{},
		{AudioLanguages: []string{"jpn"}},
		{AudioLanguages: []string{"eng"}, SubtitleLanguages: []string{"eng"}},
	}
	for _, summary := range summaries {
		if d := Decide(summary, pol); d.NeedsReacquisition {
			t.Fatalf("no requirements set, but got %+v for %+v", d, summary)
		}
	}
}

func TestDecideSpanishAudioNoSubs(t *testing.T) {
	summary := ffprobe.StreamSummary{AudioLanguages: []string{"spa"}}
	d := Decide(summary, englishPolicy(true, true))
	if !d.NeedsReacquisition {
		t.Fatal("expected re-acquisition")
	}
	if d.HasRequiredAudio {
		t.Fatal("spa must not satisfy [eng en]")
	}
	if d.HasRequiredSubs {
		t.Fatal("no subtitle streams present")
	}
}

func TestDecideEmptySummaryWithAudioRequirement(t *testing.T) {
	d := Decide(ffprobe.StreamSummary{}, englishPolicy(true, false))
	if !d.NeedsReacquisition {
		t.Fatal("probe failure (empty summary) must drive re-acquisition")
	}
}

func TestDecideDuplicateTags(t *testing.T) {
	summary := ffprobe.StreamSummary{
		AudioLanguages:    []string{"jpn", "eng", "eng"},
		SubtitleLanguages: []string{"eng", "eng"},
	}
	d := Decide(summary, englishPolicy(true, true))
	if d.NeedsReacquisition {
		t.Fatalf("duplicates still count as presence: %+v", d)
	}
}
