package arr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"checkarr/internal/services"
)

// RadarrLibrary adapts a Radarr instance to the Library interface. Each
// movie carries at most one file, embedded in the movie record itself, so
// one movie listing feeds both Entities and Files for the whole run.
type RadarrLibrary struct {
	client *Client

	mu       sync.Mutex
	loaded   bool
	entities []Entity
	files    []FileRecord
}

// NewRadarrLibrary wraps a client configured for a Radarr instance.
func NewRadarrLibrary(client *Client) *RadarrLibrary {
	return &RadarrLibrary{client: client}
}

func (l *RadarrLibrary) Name() string { return l.client.Name() }

func (l *RadarrLibrary) Entities(ctx context.Context) ([]Entity, error) {
	entities, _, err := l.moviesWithFiles(ctx)
	return entities, err
}

func (l *RadarrLibrary) Files(ctx context.Context, entity Entity) ([]FileRecord, error) {
	_, files, err := l.moviesWithFiles(ctx)
	if err != nil {
		return nil, err
	}
	var records []FileRecord
	for _, file := range files {
		if file.EntityID == entity.ID {
			records = append(records, file)
		}
	}
	return records, nil
}

func (l *RadarrLibrary) Releases(ctx context.Context, entity Entity, _ FileRecord) ([]Release, error) {
	query := url.Values{"movieId": {strconv.FormatInt(entity.ID, 10)}}
	if entity.QualityProfileID != 0 {
		query.Set("qualityProfileId", strconv.FormatInt(entity.QualityProfileID, 10))
	}
	var releases []Release
	if err := l.client.get(ctx, "release", query, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

func (l *RadarrLibrary) DeleteFile(ctx context.Context, fileID int64) error {
	return l.client.del(ctx, fmt.Sprintf("moviefile/%d", fileID))
}

func (l *RadarrLibrary) TriggerSearch(ctx context.Context, entity Entity, _ FileRecord) error {
	return l.client.post(ctx, "command", commandRequest{Name: "MoviesSearch", MovieIDs: []int64{entity.ID}}, nil)
}

func (l *RadarrLibrary) Download(ctx context.Context, release Release) error {
	if !release.Valid() {
		return services.Wrap(services.ErrAPI, l.Name(), "release", "release lacks guid or indexer id", nil)
	}
	return l.client.post(ctx, "release", downloadRequest{GUID: release.GUID, IndexerID: release.IndexerID}, nil)
}

func (l *RadarrLibrary) moviesWithFiles(ctx context.Context) ([]Entity, []FileRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.entities, l.files, nil
	}

	var movies []Movie
	if err := l.client.get(ctx, "movie", nil, &movies); err != nil {
		return nil, nil, err
	}
	var entities []Entity
	var files []FileRecord
	for _, movie := range movies {
		if !movie.HasFile || movie.MovieFile.ID == 0 || movie.MovieFile.Path == "" {
			continue
		}
		entities = append(entities, Entity{ID: movie.ID, Title: movie.Title, QualityProfileID: movie.QualityProfileID})
		files = append(files, FileRecord{
			ID:        movie.MovieFile.ID,
			EntityID:  movie.ID,
			Path:      movie.MovieFile.Path,
			SizeBytes: movie.MovieFile.SizeBytes,
		})
	}
	l.entities, l.files, l.loaded = entities, files, true
	return entities, files, nil
}
