package releases

import (
	"testing"

	"checkarr/internal/arr"
)

func candidate(title string, qualityID int64, quality, indexer string, size int64) arr.Release {
	return arr.Release{
		GUID:      title,
		IndexerID: 1,
		Indexer:   indexer,
		Title:     title,
		SizeBytes: size,
		Quality:   arr.ReleaseQuality{Quality: arr.QualityTier{ID: qualityID, Name: quality}},
	}
}

func TestRankQualityThenSize(t *testing.T) {
	candidates := []arr.Release{
		candidate("a", 5, "WEBDL-1080p", "nyaa", 10),
		candidate("b", 5, "WEBDL-1080p", "nyaa", 20),
		candidate("c", 8, "Bluray-1080p", "nyaa", 1),
	}
	ranked := Rank(candidates)
	want := []string{"c", "b", "a"}
	for i, title := range want {
		if ranked[i].Title != title {
			t.Fatalf("rank[%d] = %q, want %q", i, ranked[i].Title, title)
		}
	}
	// Input order must survive.
	if candidates[0].Title != "a" {
		t.Fatalf("Rank mutated its input: %+v", candidates)
	}
}

func TestRankIsStableOnTies(t *testing.T) {
	candidates := []arr.Release{
		candidate("first", 3, "HDTV-720p", "nyaa", 100),
		candidate("second", 3, "HDTV-720p", "nyaa", 100),
	}
	ranked := Rank(candidates)
	if ranked[0].Title != "first" || ranked[1].Title != "second" {
		t.Fatalf("equal candidates reordered: %v, %v", ranked[0].Title, ranked[1].Title)
	}
}

func TestFilterComposesConjunctively(t *testing.T) {
	candidates := []arr.Release{
		candidate("Show.S01.WEB.x264-GRP", 5, "WEBDL-1080p", "alpha", 10),
		candidate("Show.S01.BluRay.x265-GRP", 8, "Bluray-1080p", "alpha", 30),
		candidate("Show.S01.WEB.x265-OTHER", 5, "WEBDL-1080p", "beta", 12),
	}

	got := Filter{Text: "x265"}.Apply(candidates)
	if len(got) != 2 {
		t.Fatalf("text filter kept %d, want 2", len(got))
	}

	got = Filter{Text: "x265", Indexer: "ALPHA"}.Apply(candidates)
	if len(got) != 1 || got[0].Title != "Show.S01.BluRay.x265-GRP" {
		t.Fatalf("conjunctive filter got %+v", got)
	}

	got = Filter{Quality: "webdl-1080p"}.Apply(candidates)
	if len(got) != 2 {
		t.Fatalf("quality filter is case-insensitive exact match, kept %d", len(got))
	}

	if got := (Filter{}).Apply(candidates); len(got) != len(candidates) {
		t.Fatalf("empty filter must pass everything, kept %d", len(got))
	}
}

func TestSessionSelectAgainstFilteredView(t *testing.T) {
	session := NewSession([]arr.Release{
		candidate("small-web", 5, "WEBDL-1080p", "alpha", 10),
		candidate("big-web", 5, "WEBDL-1080p", "alpha", 20),
		candidate("bluray", 8, "Bluray-1080p", "beta", 1),
	})

	session.SetFilter(Filter{Text: "web"})
	visible := session.Visible()
	if len(visible) != 2 || visible[0].Title != "big-web" {
		t.Fatalf("filtered view wrong: %+v", visible)
	}

	// Index 2 under the filter is the smaller web release, not the
	// second entry of the full ranked list.
	resolution, err := session.Choose(2)
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if resolution != ResolutionSelected || session.Selected().Title != "small-web" {
		t.Fatalf("got resolution %v selected %q", resolution, session.Selected().Title)
	}
}

func TestSessionClearFilterRestoresAll(t *testing.T) {
	session := NewSession([]arr.Release{
		candidate("one", 5, "WEBDL-1080p", "alpha", 10),
		candidate("two", 8, "Bluray-1080p", "beta", 1),
	})
	session.SetFilter(Filter{Text: "no-such-release"})
	if len(session.Visible()) != 0 {
		t.Fatalf("expected empty view under filter")
	}
	session.ClearFilter()
	if len(session.Visible()) != 2 || session.Filtered() {
		t.Fatalf("clear did not restore the full list")
	}
}

func TestSessionSpecialChoices(t *testing.T) {
	session := NewSession([]arr.Release{candidate("one", 5, "WEBDL-1080p", "alpha", 10)})
	if resolution, err := session.Choose(ChoiceSkipForever); err != nil || resolution != ResolutionSkipped {
		t.Fatalf("skip choice: resolution %v err %v", resolution, err)
	}

	session = NewSession(nil)
	if resolution, err := session.Choose(ChoiceKeepCurrent); err != nil || resolution != ResolutionKeptCurrent {
		t.Fatalf("keep choice: resolution %v err %v", resolution, err)
	}
}

func TestSessionOutOfRangeStaysOpen(t *testing.T) {
	session := NewSession([]arr.Release{candidate("one", 5, "WEBDL-1080p", "alpha", 10)})
	if _, err := session.Choose(5); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if session.Resolution() != ResolutionPending {
		t.Fatalf("out-of-range choice must leave the session open, got %v", session.Resolution())
	}
	if _, err := session.Choose(-3); err == nil {
		t.Fatal("expected error for negative index")
	}

	// A valid choice still works afterwards.
	if resolution, err := session.Choose(1); err != nil || resolution != ResolutionSelected {
		t.Fatalf("recovery choice: resolution %v err %v", resolution, err)
	}
	// And re-resolving is rejected.
	if _, err := session.Choose(1); err == nil {
		t.Fatal("expected error on resolved session")
	}
}
