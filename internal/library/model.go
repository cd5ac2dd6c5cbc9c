package library

import (
	"time"

	"github.com/sydlexius/vocasync/internal/metadata"
)

// Album is an album row of the local library.
type Album struct {
	ID          string               `json:"id"`
	Album       string               `json:"album"`
	AlbumArtist string               `json:"album_artist"`
	AlbumID     string               `json:"album_id"` // catalog album ID
	DataSource  string               `json:"data_source"`
	AlbumType   string               `json:"album_type"`
	Label       string               `json:"label"`
	CatalogNum  string               `json:"catalog_num"`
	ASIN        string               `json:"asin"`
	Genre       string               `json:"genre"`
	Language    string               `json:"language"`
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	Day         int                  `json:"day"`
	Comp        bool                 `json:"comp"`
	ExternalIDs metadata.ExternalIDs `json:"external_ids"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Item is a track row of the local library. AlbumRef is empty for
// singletons.
type Item struct {
	ID            string               `json:"id"`
	AlbumRef      string               `json:"album_ref,omitempty"`
	Title         string               `json:"title"`
	Artist        string               `json:"artist"`
	AlbumArtist   string               `json:"album_artist"`
	Album         string               `json:"album"`
	Artists       string               `json:"artists"`
	Composer      string               `json:"composer"`
	Arranger      string               `json:"arranger"`
	Lyricist      string               `json:"lyricist"`
	Genre         string               `json:"genre"`
	Lyrics        string               `json:"lyrics"`
	TrackID       string               `json:"track_id"` // catalog song ID
	DataSource    string               `json:"data_source"`
	Length        time.Duration        `json:"length"`
	Track         int                  `json:"track"`
	Disc          int                  `json:"disc"`
	BPM           int                  `json:"bpm"`
	OriginalYear  int                  `json:"original_year"`
	OriginalMonth int                  `json:"original_month"`
	OriginalDay   int                  `json:"original_day"`
	ExternalIDs   metadata.ExternalIDs `json:"external_ids"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Singleton reports whether the item belongs to no album.
func (i *Item) Singleton() bool { return i.AlbumRef == "" }

// LocalItem returns the item as a resolution query.
func (i *Item) LocalItem() metadata.LocalItem {
	return metadata.LocalItem{
		Title:       i.Title,
		Artist:      i.Artist,
		Album:       i.Album,
		Length:      i.Length,
		DataSource:  i.DataSource,
		ExternalIDs: i.ExternalIDs,
	}
}

// Filter narrows ListItems. Zero values match everything.
type Filter struct {
	DataSource string
	Singletons bool
}
