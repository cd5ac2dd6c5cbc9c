// Package metadata defines the host-facing records produced by a
// resolution: canonical track and album info, local query items and
// scored candidates.
package metadata

import (
	"fmt"
	"time"
)

// Date is a release date with optional precision. Zero parts are unknown.
type Date struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// IsZero reports whether the date is entirely unknown.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// String renders the known parts as YYYY, YYYY-MM or YYYY-MM-DD.
func (d Date) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// ExternalIDs maps a provider key (e.g. "musicbrainz", "vocadb") to the
// record's identifier on that provider.
type ExternalIDs map[string]string

// Foreign provider keys recognized in catalog web links.
const (
	ProviderMusicBrainz = "musicbrainz"
	ProviderDiscogs     = "discogs"
	ProviderVGMdb       = "vgmdb"
	ProviderSpotify     = "spotify"
	ProviderAmazon      = "amazon"
)

// ForeignProviders lists every provider key a mapper can extract from web
// links.
var ForeignProviders = []string{
	ProviderMusicBrainz,
	ProviderDiscogs,
	ProviderVGMdb,
	ProviderSpotify,
	ProviderAmazon,
}

// TrackInfo is the canonical metadata for one track.
type TrackInfo struct {
	TrackID        string        `json:"track_id"`
	Title          string        `json:"title"`
	Artist         string        `json:"artist"`
	AlbumArtist    string        `json:"albumartist"`
	Artists        []string      `json:"artists,omitempty"`
	ArtistID       string        `json:"artist_id,omitempty"`
	ArtistIDs      []string      `json:"artist_ids,omitempty"`
	Composer       string        `json:"composer,omitempty"`
	Arranger       string        `json:"arranger,omitempty"`
	Lyricist       string        `json:"lyricist,omitempty"`
	Length         time.Duration `json:"length,omitempty"`
	Index          int           `json:"index,omitempty"`
	Medium         int           `json:"medium,omitempty"`
	MediumIndex    int           `json:"medium_index,omitempty"`
	MediumTotal    int           `json:"medium_total,omitempty"`
	Media          string        `json:"media,omitempty"`
	OriginalDate   Date          `json:"original_date"`
	Genre          string        `json:"genre,omitempty"`
	BPM            int           `json:"bpm,omitempty"`
	Lyrics         string        `json:"lyrics,omitempty"`
	LyricsLanguage string        `json:"lyrics_language,omitempty"`
	Script         string        `json:"script,omitempty"`
	Language       string        `json:"language,omitempty"`
	ExternalIDs    ExternalIDs   `json:"external_ids,omitempty"`
	DataSource     string        `json:"data_source"`
	DataURL        string        `json:"data_url"`
}

// AlbumInfo is the canonical metadata for one album and its tracks.
type AlbumInfo struct {
	AlbumID     string      `json:"album_id"`
	Album       string      `json:"album"`
	Artist      string      `json:"artist"`
	AlbumArtist string      `json:"albumartist"`
	Artists     []string    `json:"artists,omitempty"`
	ArtistID    string      `json:"artist_id,omitempty"`
	ArtistIDs   []string    `json:"artist_ids,omitempty"`
	AlbumType   string      `json:"albumtype,omitempty"`
	VA          bool        `json:"va"`
	Label       string      `json:"label,omitempty"`
	CatalogNum  string      `json:"catalognum,omitempty"`
	ASIN        string      `json:"asin,omitempty"`
	Date        Date        `json:"date"`
	Mediums     int         `json:"mediums"`
	Media       string      `json:"media,omitempty"`
	Genre       string      `json:"genre,omitempty"`
	Language    string      `json:"language,omitempty"`
	Tracks      []TrackInfo `json:"tracks"`
	ExternalIDs ExternalIDs `json:"external_ids,omitempty"`
	DataSource  string      `json:"data_source"`
	DataURL     string      `json:"data_url"`
}

// LocalItem is what the host already knows about one track.
type LocalItem struct {
	Title       string        `json:"title"`
	Artist      string        `json:"artist,omitempty"`
	Album       string        `json:"album,omitempty"`
	Length      time.Duration `json:"length,omitempty"`
	DataSource  string        `json:"data_source,omitempty"`
	ExternalIDs ExternalIDs   `json:"external_ids,omitempty"`
}

// LocalAlbum is what the host already knows about one album.
type LocalAlbum struct {
	Album       string      `json:"album"`
	Artist      string      `json:"artist,omitempty"`
	TrackCount  int         `json:"track_count,omitempty"`
	DataSource  string      `json:"data_source,omitempty"`
	ExternalIDs ExternalIDs `json:"external_ids,omitempty"`
	Items       []LocalItem `json:"items,omitempty"`
}

// Penalties breaks a candidate distance into its terms.
type Penalties struct {
	Base     float64 `json:"base"`
	Source   float64 `json:"source"`
	Mismatch float64 `json:"mismatch"`
}

// Candidate is a mapped record scored against a local item. Exactly one
// of Track and Album is set.
type Candidate struct {
	Track     *TrackInfo `json:"track,omitempty"`
	Album     *AlbumInfo `json:"album,omitempty"`
	Distance  float64    `json:"distance"`
	Penalties Penalties  `json:"penalties"`
}
