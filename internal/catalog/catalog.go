package catalog

import "context"

// Role is the normalized credit role of an artist on a record.
type Role string

// Artist roles.
const (
	RoleProducer Role = "producer"
	RoleComposer Role = "composer"
	RoleArranger Role = "arranger"
	RoleLyricist Role = "lyricist"
	RoleVocalist Role = "vocalist"
	RoleLabel    Role = "label"
	RoleOther    Role = "other"
)

// Names is the multilingual name bundle carried by every record.
type Names struct {
	Original  string `json:"original,omitempty"`
	Romanized string `json:"romanized,omitempty"`
	English   string `json:"english,omitempty"`
}

// Empty reports whether no variant is present.
func (n Names) Empty() bool {
	return n.Original == "" && n.Romanized == "" && n.English == ""
}

// ArtistRole is one credit of an artist in one role. A catalog credit with
// several roles is expanded into one ArtistRole per role, in catalog order.
type ArtistRole struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Featured bool   `json:"featured,omitempty"`
	Support  bool   `json:"support,omitempty"`
}

// Date is a possibly partial calendar date. Zero parts are unset.
type Date struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// IsZero reports whether no part of the date is known.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// WebLink is an external link attached to a record.
type WebLink struct {
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Category    string `json:"category,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// Translation types for lyrics entries.
const (
	TranslationOriginal    = "Original"
	TranslationRomanized   = "Romanized"
	TranslationTranslation = "Translation"
)

// Lyrics is one lyrics variant of a song.
type Lyrics struct {
	TranslationType string   `json:"translation_type"`
	CultureCodes    []string `json:"culture_codes,omitempty"`
	Value           string   `json:"value"`
	Source          string   `json:"source,omitempty"`
	URL             string   `json:"url,omitempty"`
}

// Tag is a user-applied tag with its vote count.
type Tag struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Count    int    `json:"count"`
}

// Song is a validated song record.
type Song struct {
	ID            int          `json:"id"`
	Names         Names        `json:"names"`
	SongType      string       `json:"song_type,omitempty"`
	Artists       []ArtistRole `json:"artists,omitempty"`
	PublishDate   Date         `json:"publish_date"`
	LengthSeconds int          `json:"length_seconds,omitempty"`
	MaxMilliBPM   int          `json:"max_milli_bpm,omitempty"`
	CultureCodes  []string     `json:"culture_codes,omitempty"`
	Lyrics        []Lyrics     `json:"lyrics,omitempty"`
	Tags          []Tag        `json:"tags,omitempty"`
	WebLinks      []WebLink    `json:"web_links,omitempty"`
}

// Disc describes one medium of an album.
type Disc struct {
	Number    int    `json:"number"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"media_type,omitempty"` // "Audio" or "Video"
}

// Track places a song on an album.
type Track struct {
	DiscNumber  int    `json:"disc_number"`
	TrackNumber int    `json:"track_number"`
	Name        string `json:"name,omitempty"`
	Song        *Song  `json:"song,omitempty"`
}

// Album is a validated album record. Search results carry no tracks.
type Album struct {
	ID            int          `json:"id"`
	Names         Names        `json:"names"`
	DiscType      string       `json:"disc_type,omitempty"`
	CatalogNumber string       `json:"catalog_number,omitempty"`
	Artists       []ArtistRole `json:"artists,omitempty"`
	ReleaseDate   Date         `json:"release_date"`
	Tags          []Tag        `json:"tags,omitempty"`
	WebLinks      []WebLink    `json:"web_links,omitempty"`
	Discs         []Disc       `json:"discs,omitempty"`
	Tracks        []Track      `json:"tracks,omitempty"`
}

// SongQuery is a free-text song search request.
type SongQuery struct {
	Query      string
	MaxResults int
	Lang       string
}

// AlbumQuery is a free-text album search request.
type AlbumQuery struct {
	Query      string
	MaxResults int
	Lang       string
}

// Client is the contract every catalog adapter implements. Each call
// issues exactly one remote request.
type Client interface {
	// Instance returns the descriptor the client talks to.
	Instance() Instance

	// SearchSongs returns up to q.MaxResults songs. Zero hits is not an error.
	SearchSongs(ctx context.Context, q SongQuery) ([]Song, error)

	// SearchAlbums returns up to q.MaxResults albums without track lists.
	SearchAlbums(ctx context.Context, q AlbumQuery) ([]Album, error)

	// GetSong fetches one song by its catalog ID.
	GetSong(ctx context.Context, id int, lang string) (*Song, error)

	// GetAlbum fetches one album with its discs and tracks.
	GetAlbum(ctx context.Context, id int, lang string) (*Album, error)
}
