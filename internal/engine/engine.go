// Package engine drives one catalog instance through search, mapping,
// scoring and ranking.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/language"
	"github.com/sydlexius/vocasync/internal/mapper"
	"github.com/sydlexius/vocasync/internal/metadata"
	"github.com/sydlexius/vocasync/internal/scorer"
)

// Engine resolves local items against one catalog instance. It keeps no
// per-call state and is safe for concurrent use.
type Engine struct {
	client   catalog.Client
	mapper   *mapper.Mapper
	scorer   *scorer.Scorer
	instance catalog.Instance
	lang     string
	logger   *slog.Logger
}

// New creates an engine over client. A nil sim selects the default
// string distance.
func New(client catalog.Client, sim scorer.StringDistance, logger *slog.Logger) *Engine {
	inst := client.Instance()
	return &Engine{
		client:   client,
		mapper:   mapper.New(inst),
		scorer:   scorer.New(inst, sim),
		instance: inst,
		lang:     language.ContentLanguage(inst.Settings.Languages, inst.Settings.PreferRomaji),
		logger:   logger.With(slog.String("component", "engine"), slog.String("catalog", inst.Name)),
	}
}

// Instance returns the catalog instance the engine resolves against.
func (e *Engine) Instance() catalog.Instance { return e.instance }

// Mapper returns the engine's metadata mapper.
func (e *Engine) Mapper() *mapper.Mapper { return e.mapper }

// Scorer returns the engine's candidate scorer.
func (e *Engine) Scorer() *scorer.Scorer { return e.scorer }

func (e *Engine) searchLimit() int {
	if e.instance.Settings.SearchLimit < 1 {
		return 1
	}
	return e.instance.Settings.SearchLimit
}

// ItemCandidates searches for track candidates and returns them ranked by
// ascending distance, at most the search limit. Remote failures are
// returned as ErrRemoteUnavailable.
func (e *Engine) ItemCandidates(ctx context.Context, item metadata.LocalItem) ([]metadata.Candidate, error) {
	query := strings.TrimSpace(item.Title)
	if query == "" {
		return nil, nil
	}

	limit := e.searchLimit()
	songs, err := e.client.SearchSongs(ctx, catalog.SongQuery{Query: query, MaxResults: limit, Lang: e.lang})
	if err != nil {
		return nil, fmt.Errorf("searching songs: %w", err)
	}

	cands := make([]metadata.Candidate, 0, len(songs))
	for i := range songs {
		info, err := e.mapper.TrackInfo(&songs[i])
		if catalog.IsMalformed(err) {
			e.logger.Warn("skipping malformed song", slog.Int("id", songs[i].ID), slog.String("error", err.Error()))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("mapping song %d: %w", songs[i].ID, err)
		}
		cands = append(cands, e.scorer.TrackDistance(item, info))
	}

	ranked := rankAndTruncate(cands, limit)
	e.logger.Debug("item candidates",
		slog.String("query", query),
		slog.Int("results", len(songs)),
		slog.Int("candidates", len(ranked)))
	return ranked, nil
}

// AlbumCandidates searches for albums, fetches each hit with its tracks and
// returns them ranked. Only a remote failure aborts the call; albums whose
// fetch or mapping fails otherwise are skipped.
func (e *Engine) AlbumCandidates(ctx context.Context, album metadata.LocalAlbum) ([]metadata.Candidate, error) {
	query := strings.TrimSpace(album.Album)
	if query == "" {
		return nil, nil
	}

	limit := e.searchLimit()
	hits, err := e.client.SearchAlbums(ctx, catalog.AlbumQuery{Query: query, MaxResults: limit, Lang: e.lang})
	if err != nil {
		return nil, fmt.Errorf("searching albums: %w", err)
	}

	cands := make([]metadata.Candidate, 0, len(hits))
	for _, hit := range hits {
		full, err := e.client.GetAlbum(ctx, hit.ID, e.lang)
		switch {
		case err == nil:
		case catalog.IsRemoteUnavailable(err):
			return nil, fmt.Errorf("fetching album %d: %w", hit.ID, err)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case catalog.IsNotFound(err):
			e.logger.Warn("album vanished between search and fetch", slog.Int("id", hit.ID))
			continue
		default:
			e.logger.Warn("skipping album", slog.Int("id", hit.ID), slog.String("error", err.Error()))
			continue
		}
		info, err := e.mapper.AlbumInfo(full)
		if catalog.IsMalformed(err) {
			e.logger.Warn("skipping malformed album", slog.Int("id", hit.ID), slog.String("error", err.Error()))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("mapping album %d: %w", hit.ID, err)
		}
		cands = append(cands, e.scorer.AlbumDistance(album, info))
	}

	ranked := rankAndTruncate(cands, limit)
	e.logger.Debug("album candidates",
		slog.String("query", query),
		slog.Int("results", len(hits)),
		slog.Int("candidates", len(ranked)))
	return ranked, nil
}

// TrackForID fetches a track by catalog ID without scoring. Non-numeric IDs
// and unknown songs return ErrNotFound.
func (e *Engine) TrackForID(ctx context.Context, id string) (*metadata.TrackInfo, error) {
	n, ok := parseID(id)
	if !ok {
		e.logger.Debug("skipping non-numeric track id", slog.String("id", id))
		return nil, &catalog.ErrNotFound{Instance: e.instance.Name, Kind: catalog.KindSong, ID: id}
	}
	song, err := e.client.GetSong(ctx, n, e.lang)
	if err != nil {
		return nil, err
	}
	info, err := e.mapper.TrackInfo(song)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// AlbumForID fetches an album by catalog ID without scoring.
func (e *Engine) AlbumForID(ctx context.Context, id string) (*metadata.AlbumInfo, error) {
	n, ok := parseID(id)
	if !ok {
		e.logger.Debug("skipping non-numeric album id", slog.String("id", id))
		return nil, &catalog.ErrNotFound{Instance: e.instance.Name, Kind: catalog.KindAlbum, ID: id}
	}
	album, err := e.client.GetAlbum(ctx, n, e.lang)
	if err != nil {
		return nil, err
	}
	info, err := e.mapper.AlbumInfo(album)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func rankAndTruncate(cands []metadata.Candidate, limit int) []metadata.Candidate {
	scorer.Rank(cands)
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

func parseID(id string) (int, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
