package arr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"checkarr/internal/services"
)

// SonarrLibrary adapts a Sonarr instance to the Library interface. Entities
// are series; one episode file may cover several episodes. The file-to-episode
// mapping is captured while listing files, because once the file is deleted
// the episodes no longer reference it and a late lookup would come up empty.
type SonarrLibrary struct {
	client *Client

	mu         sync.Mutex
	episodeIDs map[int64][]int64
}

// NewSonarrLibrary wraps a client configured for a Sonarr instance.
func NewSonarrLibrary(client *Client) *SonarrLibrary {
	return &SonarrLibrary{client: client, episodeIDs: make(map[int64][]int64)}
}

func (l *SonarrLibrary) Name() string { return l.client.Name() }

func (l *SonarrLibrary) Entities(ctx context.Context) ([]Entity, error) {
	var series []Series
	if err := l.client.get(ctx, "series", nil, &series); err != nil {
		return nil, err
	}
	entities := make([]Entity, 0, len(series))
	for _, s := range series {
		entities = append(entities, Entity{ID: s.ID, Title: s.Title, QualityProfileID: s.QualityProfileID})
	}
	return entities, nil
}

func (l *SonarrLibrary) Files(ctx context.Context, entity Entity) ([]FileRecord, error) {
	query := url.Values{"seriesId": {strconv.FormatInt(entity.ID, 10)}}
	var files []EpisodeFile
	if err := l.client.get(ctx, "episodefile", query, &files); err != nil {
		return nil, err
	}
	records := make([]FileRecord, 0, len(files))
	for _, f := range files {
		if f.ID == 0 || f.Path == "" {
			continue
		}
		records = append(records, FileRecord{ID: f.ID, EntityID: entity.ID, Path: f.Path, SizeBytes: f.SizeBytes})
	}
	if len(records) > 0 {
		if err := l.captureEpisodeIDs(ctx, entity); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (l *SonarrLibrary) Releases(ctx context.Context, entity Entity, file FileRecord) ([]Release, error) {
	episodeIDs, err := l.episodeIDsForFile(ctx, entity, file)
	if err != nil {
		return nil, err
	}
	if len(episodeIDs) == 0 {
		return nil, services.Wrap(services.ErrNotFound, l.Name(), "release",
			fmt.Sprintf("no episodes reference file %d", file.ID), nil)
	}

	// Multi-episode files share releases; the first episode stands in for all.
	query := url.Values{"episodeId": {strconv.FormatInt(episodeIDs[0], 10)}}
	if entity.QualityProfileID != 0 {
		query.Set("qualityProfileId", strconv.FormatInt(entity.QualityProfileID, 10))
	}
	var releases []Release
	if err := l.client.get(ctx, "release", query, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

func (l *SonarrLibrary) DeleteFile(ctx context.Context, fileID int64) error {
	return l.client.del(ctx, fmt.Sprintf("episodefile/%d", fileID))
}

func (l *SonarrLibrary) TriggerSearch(ctx context.Context, entity Entity, file FileRecord) error {
	episodeIDs, err := l.episodeIDsForFile(ctx, entity, file)
	if err != nil {
		return err
	}
	if len(episodeIDs) == 0 {
		return services.Wrap(services.ErrNotFound, l.Name(), "command",
			fmt.Sprintf("no episodes reference file %d", file.ID), nil)
	}
	return l.client.post(ctx, "command", commandRequest{Name: "EpisodeSearch", EpisodeIDs: episodeIDs}, nil)
}

func (l *SonarrLibrary) Download(ctx context.Context, release Release) error {
	if !release.Valid() {
		return services.Wrap(services.ErrAPI, l.Name(), "release", "release lacks guid or indexer id", nil)
	}
	return l.client.post(ctx, "release", downloadRequest{GUID: release.GUID, IndexerID: release.IndexerID}, nil)
}

// captureEpisodeIDs records which episodes each of the series' files covers.
// It runs at listing time, while the files still exist on the Sonarr side.
func (l *SonarrLibrary) captureEpisodeIDs(ctx context.Context, entity Entity) error {
	query := url.Values{"seriesId": {strconv.FormatInt(entity.ID, 10)}}
	var episodes []Episode
	if err := l.client.get(ctx, "episode", query, &episodes); err != nil {
		return err
	}
	fresh := make(map[int64][]int64)
	for _, ep := range episodes {
		if ep.EpisodeFileID != 0 {
			fresh[ep.EpisodeFileID] = append(fresh[ep.EpisodeFileID], ep.ID)
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for fileID, ids := range fresh {
		l.episodeIDs[fileID] = ids
	}
	return nil
}

func (l *SonarrLibrary) episodeIDsForFile(ctx context.Context, entity Entity, file FileRecord) ([]int64, error) {
	l.mu.Lock()
	ids, ok := l.episodeIDs[file.ID]
	l.mu.Unlock()
	if ok {
		return ids, nil
	}

	// Fallback for files never seen through Files. Only valid while the
	// file still exists; after a delete the mapping is gone server-side.
	query := url.Values{"seriesId": {strconv.FormatInt(entity.ID, 10)}}
	var episodes []Episode
	if err := l.client.get(ctx, "episode", query, &episodes); err != nil {
		return nil, err
	}
	for _, ep := range episodes {
		if ep.EpisodeFileID == file.ID {
			ids = append(ids, ep.ID)
		}
	}
	return ids, nil
}
