package vocadb

// SongSearchResponse is the paged result of GET /songs.
type SongSearchResponse struct {
	Items      []APISong `json:"items"`
	TotalCount int       `json:"totalCount"`
	Term       string    `json:"term,omitempty"`
}

// AlbumSearchResponse is the paged result of GET /albums.
type AlbumSearchResponse struct {
	Items      []APIAlbum `json:"items"`
	TotalCount int        `json:"totalCount"`
	Term       string     `json:"term,omitempty"`
}

// APIName is one entry of a localized names list.
type APIName struct {
	Language string `json:"language"` // "Japanese", "Romaji", "English", "Unspecified"
	Value    string `json:"value"`
}

// APIArtist is the artist entity behind a credit.
type APIArtist struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	AdditionalNames string `json:"additionalNames,omitempty"`
	ArtistType      string `json:"artistType,omitempty"`
}

// APIArtistCredit is an artist credited on a song or album.
// Categories and roles are comma-separated flag lists.
type APIArtistCredit struct {
	Artist         *APIArtist `json:"artist,omitempty"`
	Name           string     `json:"name"`
	Categories     string     `json:"categories"`
	EffectiveRoles string     `json:"effectiveRoles"`
	Roles          string     `json:"roles"`
	IsSupport      bool       `json:"isSupport"`
	IsCustomName   bool       `json:"isCustomName,omitempty"`
}

// APILyrics is one lyrics variant.
type APILyrics struct {
	ID              int      `json:"id"`
	TranslationType string   `json:"translationType"`
	CultureCodes    []string `json:"cultureCodes,omitempty"`
	Value           string   `json:"value"`
	Source          string   `json:"source,omitempty"`
	URL             string   `json:"url,omitempty"`
}

// APITag is the tag entity inside a tag usage.
type APITag struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CategoryName string `json:"categoryName,omitempty"`
}

// APITagUsage is a tag applied to an entry with its vote count.
type APITagUsage struct {
	Count int    `json:"count"`
	Tag   APITag `json:"tag"`
}

// APIWebLink is an external link on an entry.
type APIWebLink struct {
	ID          int    `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Disabled    bool   `json:"disabled"`
}

// APISong mirrors SongForApiContract.
type APISong struct {
	ID                  int               `json:"id"`
	Name                string            `json:"name"`
	DefaultName         string            `json:"defaultName"`
	DefaultNameLanguage string            `json:"defaultNameLanguage"`
	Names               []APIName         `json:"names,omitempty"`
	SongType            string            `json:"songType"`
	ArtistString        string            `json:"artistString,omitempty"`
	Artists             []APIArtistCredit `json:"artists,omitempty"`
	LengthSeconds       int               `json:"lengthSeconds"`
	MaxMilliBPM         int               `json:"maxMilliBpm,omitempty"`
	MinMilliBPM         int               `json:"minMilliBpm,omitempty"`
	CultureCodes        []string          `json:"cultureCodes,omitempty"`
	PublishDate         string            `json:"publishDate,omitempty"`
	Lyrics              []APILyrics       `json:"lyrics,omitempty"`
	Tags                []APITagUsage     `json:"tags,omitempty"`
	WebLinks            []APIWebLink      `json:"webLinks,omitempty"`
}

// APIOptionalDate mirrors OptionalDateTimeContract.
type APIOptionalDate struct {
	IsEmpty bool `json:"isEmpty"`
	Year    int  `json:"year,omitempty"`
	Month   int  `json:"month,omitempty"`
	Day     int  `json:"day,omitempty"`
}

// APIDisc mirrors AlbumDiscPropertiesContract.
type APIDisc struct {
	ID         int    `json:"id"`
	DiscNumber int    `json:"discNumber"`
	MediaType  string `json:"mediaType"`
	Name       string `json:"name,omitempty"`
}

// APITrack mirrors SongInAlbumForApiContract.
type APITrack struct {
	ID          int      `json:"id"`
	DiscNumber  int      `json:"discNumber"`
	TrackNumber int      `json:"trackNumber"`
	Name        string   `json:"name,omitempty"`
	Song        *APISong `json:"song,omitempty"`
}

// APIAlbum mirrors AlbumForApiContract.
type APIAlbum struct {
	ID                  int               `json:"id"`
	Name                string            `json:"name"`
	DefaultName         string            `json:"defaultName"`
	DefaultNameLanguage string            `json:"defaultNameLanguage"`
	Names               []APIName         `json:"names,omitempty"`
	DiscType            string            `json:"discType"`
	CatalogNumber       string            `json:"catalogNumber,omitempty"`
	ArtistString        string            `json:"artistString,omitempty"`
	Artists             []APIArtistCredit `json:"artists,omitempty"`
	ReleaseDate         APIOptionalDate   `json:"releaseDate"`
	Discs               []APIDisc         `json:"discs,omitempty"`
	Tracks              []APITrack        `json:"tracks,omitempty"`
	Tags                []APITagUsage     `json:"tags,omitempty"`
	WebLinks            []APIWebLink      `json:"webLinks,omitempty"`
}
