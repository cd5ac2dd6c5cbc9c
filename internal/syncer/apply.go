package syncer

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/sydlexius/vocasync/internal/credits"
	"github.com/sydlexius/vocasync/internal/library"
	"github.com/sydlexius/vocasync/internal/metadata"
)

// Change is one field rewritten by a sync.
type Change struct {
	Kind  string `json:"kind"` // "item" or "album"
	ID    string `json:"id"`
	Name  string `json:"name"`
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// diff records changes while assigning fields. Empty new values leave the
// stored field as it is.
type diff struct {
	kind, id, name string
	changes        []Change
}

func (d *diff) str(field string, dst *string, v string) {
	if v == "" || *dst == v {
		return
	}
	d.changes = append(d.changes, Change{Kind: d.kind, ID: d.id, Name: d.name, Field: field, Old: *dst, New: v})
	*dst = v
}

func (d *diff) num(field string, dst *int, v int) {
	if v == 0 || *dst == v {
		return
	}
	d.changes = append(d.changes, Change{
		Kind: d.kind, ID: d.id, Name: d.name, Field: field,
		Old: strconv.Itoa(*dst), New: strconv.Itoa(v),
	})
	*dst = v
}

func (d *diff) flag(field string, dst *bool, v bool) {
	if *dst == v {
		return
	}
	d.changes = append(d.changes, Change{
		Kind: d.kind, ID: d.id, Name: d.name, Field: field,
		Old: strconv.FormatBool(*dst), New: strconv.FormatBool(v),
	})
	*dst = v
}

// ids merges v into dst. Keys missing from v are kept.
func (d *diff) ids(field string, dst *metadata.ExternalIDs, v metadata.ExternalIDs) {
	merged := metadata.ExternalIDs{}
	maps.Copy(merged, *dst)
	for k, id := range v {
		if id != "" {
			merged[k] = id
		}
	}
	if maps.Equal(merged, *dst) {
		return
	}
	d.changes = append(d.changes, Change{
		Kind: d.kind, ID: d.id, Name: d.name, Field: field,
		Old: formatIDs(*dst), New: formatIDs(merged),
	})
	*dst = merged
}

func formatIDs(ids metadata.ExternalIDs) string {
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+ids[k])
	}
	return strings.Join(parts, ",")
}

// applyTrack copies track metadata onto a library item.
func applyTrack(it *library.Item, info *metadata.TrackInfo) []Change {
	d := &diff{kind: "item", id: it.ID, name: it.Title}
	d.str("title", &it.Title, info.Title)
	d.str("artist", &it.Artist, info.Artist)
	d.str("artists", &it.Artists, strings.Join(info.Artists, credits.Separator))
	d.str("composer", &it.Composer, info.Composer)
	d.str("arranger", &it.Arranger, info.Arranger)
	d.str("lyricist", &it.Lyricist, info.Lyricist)
	d.str("genre", &it.Genre, info.Genre)
	d.str("lyrics", &it.Lyrics, info.Lyrics)
	d.str("track_id", &it.TrackID, info.TrackID)
	d.str("data_source", &it.DataSource, info.DataSource)
	d.num("bpm", &it.BPM, info.BPM)
	d.num("original_year", &it.OriginalYear, info.OriginalDate.Year)
	d.num("original_month", &it.OriginalMonth, info.OriginalDate.Month)
	d.num("original_day", &it.OriginalDay, info.OriginalDate.Day)
	d.ids("external_ids", &it.ExternalIDs, info.ExternalIDs)
	return d.changes
}

// applyAlbumTrack copies track metadata and its album context onto an
// album member item.
func applyAlbumTrack(it *library.Item, album *metadata.AlbumInfo, info *metadata.TrackInfo) []Change {
	changes := applyTrack(it, info)
	d := &diff{kind: "item", id: it.ID, name: it.Title}
	d.str("album", &it.Album, album.Album)
	d.str("album_artist", &it.AlbumArtist, album.AlbumArtist)
	d.num("track", &it.Track, info.Index)
	d.num("disc", &it.Disc, info.Medium)
	return append(changes, d.changes...)
}

// applyAlbum copies album metadata onto a library album.
func applyAlbum(a *library.Album, info *metadata.AlbumInfo) []Change {
	d := &diff{kind: "album", id: a.ID, name: a.Album}
	d.str("album", &a.Album, info.Album)
	d.str("album_artist", &a.AlbumArtist, info.AlbumArtist)
	d.str("album_id", &a.AlbumID, info.AlbumID)
	d.str("data_source", &a.DataSource, info.DataSource)
	d.str("album_type", &a.AlbumType, info.AlbumType)
	d.str("label", &a.Label, info.Label)
	d.str("catalog_num", &a.CatalogNum, info.CatalogNum)
	d.str("asin", &a.ASIN, info.ASIN)
	d.str("genre", &a.Genre, info.Genre)
	d.str("language", &a.Language, info.Language)
	d.num("year", &a.Year, info.Date.Year)
	d.num("month", &a.Month, info.Date.Month)
	d.num("day", &a.Day, info.Date.Day)
	d.flag("comp", &a.Comp, info.VA)
	d.ids("external_ids", &a.ExternalIDs, info.ExternalIDs)
	return d.changes
}
