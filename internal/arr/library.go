package arr

import "context"

// Entity is the library concept that owns files: a series for episodic
// media, a movie record otherwise.
type Entity struct {
	ID               int64
	Title            string
	QualityProfileID int64
}

// FileRecord is one media file the library tracks for an entity.
type FileRecord struct {
	ID        int64
	EntityID  int64
	Path      string
	SizeBytes int64
}

// Library is the capability set the verification pipeline needs from a
// library instance. Implemented once per concrete kind (Sonarr, Radarr);
// the probe/decide/acquire sequence is written against this interface only.
type Library interface {
	// Name identifies the instance ("sonarr", "radarr") for reports.
	Name() string
	// Entities lists the top-level records (series or movies with files).
	Entities(ctx context.Context) ([]Entity, error)
	// Files lists the file records currently attached to an entity.
	Files(ctx context.Context, entity Entity) ([]FileRecord, error)
	// Releases fetches candidate replacements for a file, hinted by the
	// entity's quality profile.
	Releases(ctx context.Context, entity Entity, file FileRecord) ([]Release, error)
	// DeleteFile removes a file record, which also deletes it on disk.
	DeleteFile(ctx context.Context, fileID int64) error
	// TriggerSearch requests a generic automated search for the entity
	// parts the file covered.
	TriggerSearch(ctx context.Context, entity Entity, file FileRecord) error
	// Download asks the instance to grab one specific release.
	Download(ctx context.Context, release Release) error
}
