package releases

import (
	"sort"
	"strings"

	"checkarr/internal/arr"
)

// Rank orders candidates best-first: higher quality tier wins, size breaks
// ties within a tier. The sort is stable, so candidates equal on both keys
// keep the order the instance returned them in.
func Rank(candidates []arr.Release) []arr.Release {
	ranked := make([]arr.Release, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].QualityID() != ranked[j].QualityID() {
			return ranked[i].QualityID() > ranked[j].QualityID()
		}
		return ranked[i].SizeBytes > ranked[j].SizeBytes
	})
	return ranked
}

// Filter narrows a candidate list. Zero-value fields match everything;
// set fields must all match for a release to pass.
type Filter struct {
	// Text matches case-insensitively against the release title.
	Text string
	// Quality matches the quality label exactly, case-insensitively.
	Quality string
	// Indexer matches the indexer name exactly, case-insensitively.
	Indexer string
}

// Empty reports whether the filter passes every release unchanged.
func (f Filter) Empty() bool {
	return f.Text == "" && f.Quality == "" && f.Indexer == ""
}

// Matches reports whether a single release passes the filter.
func (f Filter) Matches(release arr.Release) bool {
	if f.Text != "" && !strings.Contains(strings.ToLower(release.Title), strings.ToLower(f.Text)) {
		return false
	}
	if f.Quality != "" && !strings.EqualFold(release.QualityName(), f.Quality) {
		return false
	}
	if f.Indexer != "" && !strings.EqualFold(release.Indexer, f.Indexer) {
		return false
	}
	return true
}

// Apply returns the candidates that pass the filter, order preserved.
func (f Filter) Apply(candidates []arr.Release) []arr.Release {
	if f.Empty() {
		return candidates
	}
	var kept []arr.Release
	for _, release := range candidates {
		if f.Matches(release) {
			kept = append(kept, release)
		}
	}
	return kept
}
