package arr

import "strings"

// Series is one Sonarr series record; only the fields the pipeline reads.
type Series struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	QualityProfileID int64  `json:"qualityProfileId"`
}

// Episode links an episode to the file that currently backs it.
type Episode struct {
	ID            int64 `json:"id"`
	EpisodeFileID int64 `json:"episodeFileId"`
}

// EpisodeFile is one on-disk file record owned by Sonarr.
type EpisodeFile struct {
	ID        int64  `json:"id"`
	SeriesID  int64  `json:"seriesId"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size"`
}

// Movie is one Radarr movie record.
type Movie struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	QualityProfileID int64     `json:"qualityProfileId"`
	HasFile          bool      `json:"hasFile"`
	MovieFile        MovieFile `json:"movieFile"`
}

// MovieFile is the on-disk file record attached to a movie.
type MovieFile struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size"`
}

// Release is a candidate replacement download offered by an indexer.
// Fetched fresh per decision, never cached across runs.
type Release struct {
	GUID      string         `json:"guid"`
	IndexerID int64          `json:"indexerId"`
	Indexer   string         `json:"indexer"`
	Title     string         `json:"title"`
	SizeBytes int64          `json:"size"`
	AgeDays   int64          `json:"age"`
	Quality   ReleaseQuality `json:"quality"`
}

// ReleaseQuality mirrors the nested quality document the APIs return.
type ReleaseQuality struct {
	Quality QualityTier `json:"quality"`
}

// QualityTier identifies a quality level; higher IDs are better tiers.
type QualityTier struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// QualityID returns the release's quality tier identifier, 0 when absent.
func (r Release) QualityID() int64 { return r.Quality.Quality.ID }

// QualityName returns the human quality label, "Unknown" when absent.
func (r Release) QualityName() string {
	if name := strings.TrimSpace(r.Quality.Quality.Name); name != "" {
		return name
	}
	return "Unknown"
}

// Valid reports whether the release carries the identifiers a download
// request needs. Records missing them are treated as absent data.
func (r Release) Valid() bool {
	return strings.TrimSpace(r.GUID) != "" && r.IndexerID != 0
}

// downloadRequest is the POST body that asks an instance to grab a release.
type downloadRequest struct {
	GUID      string `json:"guid"`
	IndexerID int64  `json:"indexerId"`
}

// commandRequest triggers an automated search.
type commandRequest struct {
	Name       string  `json:"name"`
	EpisodeIDs []int64 `json:"episodeIds,omitempty"`
	MovieIDs   []int64 `json:"movieIds,omitempty"`
}
