// Package syncer refreshes library items and albums that were tagged from a
// catalog instance by re-fetching their records by ID.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/library"
	"github.com/sydlexius/vocasync/internal/metadata"
	"github.com/sydlexius/vocasync/internal/scorer"
)

// Store is the library storage a sync reads and writes.
type Store interface {
	ListItems(ctx context.Context, f library.Filter) ([]library.Item, error)
	ListAlbums(ctx context.Context, dataSource string) ([]library.Album, error)
	ItemsForAlbum(ctx context.Context, albumRef string) ([]library.Item, error)
	UpdateItem(ctx context.Context, it *library.Item) error
	UpdateAlbum(ctx context.Context, a *library.Album) error
}

// Resolver looks records up by catalog ID. *engine.Engine implements it.
type Resolver interface {
	Instance() catalog.Instance
	Scorer() *scorer.Scorer
	TrackForID(ctx context.Context, id string) (*metadata.TrackInfo, error)
	AlbumForID(ctx context.Context, id string) (*metadata.AlbumInfo, error)
}

// Options controls a sync run.
type Options struct {
	// Pretend reports changes without storing them.
	Pretend bool `json:"pretend"`
}

// Report summarizes a sync run. Checked, Updated, NotFound and Failed
// count singletons and albums; Updated counts every stored record.
type Report struct {
	RunID    string   `json:"run_id"`
	Pretend  bool     `json:"pretend"`
	Checked  int      `json:"checked"`
	Updated  int      `json:"updated"`
	NotFound int      `json:"not_found"`
	Failed   int      `json:"failed"`
	Changes  []Change `json:"changes"`
}

// Syncer syncs the records of one catalog instance.
type Syncer struct {
	store    Store
	resolver Resolver
	logger   *slog.Logger
}

// New creates a Syncer.
func New(store Store, resolver Resolver, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:    store,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "sync"), slog.String("catalog", resolver.Instance().Name)),
	}
}

// Run syncs singletons first, then albums. Only library and context
// failures abort the run; lookup failures are counted per record.
func (s *Syncer) Run(ctx context.Context, opts Options) (Report, error) {
	report := Report{RunID: uuid.New().String(), Pretend: opts.Pretend, Changes: []Change{}}
	logger := s.logger.With(slog.String("run_id", report.RunID))
	logger.Info("sync started", slog.Bool("pretend", opts.Pretend))

	if err := s.singletons(ctx, logger, opts, &report); err != nil {
		return report, err
	}
	if err := s.albums(ctx, logger, opts, &report); err != nil {
		return report, err
	}

	logger.Info("sync finished",
		slog.Int("checked", report.Checked),
		slog.Int("updated", report.Updated),
		slog.Int("not_found", report.NotFound),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *Syncer) singletons(ctx context.Context, logger *slog.Logger, opts Options, report *Report) error {
	source := s.resolver.Instance().DisplayName
	items, err := s.store.ListItems(ctx, library.Filter{DataSource: source, Singletons: true})
	if err != nil {
		return fmt.Errorf("listing singletons: %w", err)
	}

	for i := range items {
		it := &items[i]
		if it.TrackID == "" {
			logger.Debug("skipping singleton without track id", slog.String("item", it.ID))
			continue
		}
		report.Checked++

		info, err := s.resolver.TrackForID(ctx, it.TrackID)
		if err != nil {
			if stop := s.lookupFailed(ctx, logger, report, err, "track", it.TrackID); stop != nil {
				return stop
			}
			continue
		}

		changes := applyTrack(it, info)
		if len(changes) == 0 {
			continue
		}
		report.Changes = append(report.Changes, changes...)
		if opts.Pretend {
			continue
		}
		if err := s.store.UpdateItem(ctx, it); err != nil {
			return fmt.Errorf("storing item %s: %w", it.ID, err)
		}
		report.Updated++
	}
	return nil
}

func (s *Syncer) albums(ctx context.Context, logger *slog.Logger, opts Options, report *Report) error {
	source := s.resolver.Instance().DisplayName
	albums, err := s.store.ListAlbums(ctx, source)
	if err != nil {
		return fmt.Errorf("listing albums: %w", err)
	}

	for i := range albums {
		a := &albums[i]
		if a.AlbumID == "" {
			logger.Debug("skipping album without album id", slog.String("album", a.ID))
			continue
		}
		report.Checked++

		info, err := s.resolver.AlbumForID(ctx, a.AlbumID)
		if err != nil {
			if stop := s.lookupFailed(ctx, logger, report, err, "album", a.AlbumID); stop != nil {
				return stop
			}
			continue
		}

		items, err := s.store.ItemsForAlbum(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("listing items of album %s: %w", a.ID, err)
		}

		mapping := s.matchTracks(logger, a, items, info)
		var changed []*library.Item
		for j := range items {
			track, ok := mapping[items[j].ID]
			if !ok {
				continue
			}
			changes := applyAlbumTrack(&items[j], info, track)
			if len(changes) > 0 {
				report.Changes = append(report.Changes, changes...)
				changed = append(changed, &items[j])
			}
		}
		albumChanges := applyAlbum(a, info)
		report.Changes = append(report.Changes, albumChanges...)

		if opts.Pretend {
			continue
		}
		for _, it := range changed {
			if err := s.store.UpdateItem(ctx, it); err != nil {
				return fmt.Errorf("storing item %s: %w", it.ID, err)
			}
			report.Updated++
		}
		if len(albumChanges) > 0 {
			if err := s.store.UpdateAlbum(ctx, a); err != nil {
				return fmt.Errorf("storing album %s: %w", a.ID, err)
			}
			report.Updated++
		}
	}
	return nil
}

// matchTracks pairs album items with tracks of info by track ID. An item
// whose ID the album no longer lists is matched to the nearest track by
// distance.
func (s *Syncer) matchTracks(logger *slog.Logger, a *library.Album, items []library.Item, info *metadata.AlbumInfo) map[string]*metadata.TrackInfo {
	index := make(map[string]*metadata.TrackInfo, len(info.Tracks))
	for i := range info.Tracks {
		if id := info.Tracks[i].TrackID; id != "" {
			index[id] = &info.Tracks[i]
		}
	}

	mapping := make(map[string]*metadata.TrackInfo, len(items))
	for i := range items {
		it := &items[i]
		if track, ok := index[it.TrackID]; ok {
			mapping[it.ID] = track
			continue
		}

		var best *metadata.TrackInfo
		bestDist := 2.0
		for j := range info.Tracks {
			track := &info.Tracks[j]
			if track.TrackID == "" {
				continue
			}
			c := s.resolver.Scorer().TrackDistance(it.LocalItem(), track)
			if c.Distance < bestDist {
				best, bestDist = track, c.Distance
			}
		}
		if best == nil {
			continue
		}
		logger.Warn("track id missing from album, automatched",
			slog.String("album", a.Album),
			slog.String("old_track_id", it.TrackID),
			slog.String("new_track_id", best.TrackID))
		mapping[it.ID] = best
	}
	return mapping
}

// lookupFailed counts a failed lookup. It returns a non-nil error when
// the run must stop.
func (s *Syncer) lookupFailed(ctx context.Context, logger *slog.Logger, report *Report, err error, kind, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if catalog.IsNotFound(err) {
		report.NotFound++
		logger.Info(kind+" id not found", slog.String("id", id))
		return nil
	}
	report.Failed++
	logger.Error(kind+" lookup failed", slog.String("id", id), slog.String("error", err.Error()))
	return nil
}
