package catalog

import (
	"strconv"
	"strings"
	"time"
)

// Known instance names.
const (
	NameVocaDB   = "vocadb"
	NameUtaiteDB = "utaitedb"
	NameTouhouDB = "touhoudb"
)

// Kind distinguishes the two record types a catalog serves.
type Kind string

// Record kinds.
const (
	KindSong  Kind = "song"
	KindAlbum Kind = "album"
)

// Settings holds the resolved per-instance tuning values. Every field is
// populated by the time an Instance is registered.
type Settings struct {
	Languages                   []string      `json:"languages"`
	SourceWeight                float64       `json:"source_weight"`
	MismatchPenalty             float64       `json:"data_source_mismatch_penalty"`
	SearchLimit                 int           `json:"search_limit"`
	PreferRomaji                bool          `json:"prefer_romaji"`
	TranslatedLyrics            bool          `json:"translated_lyrics"`
	ImportLyrics                bool          `json:"import_lyrics"`
	NoEmptyRoles                bool          `json:"no_empty_roles"`
	IncludeFeaturedAlbumArtists bool          `json:"include_featured_album_artists"`
	IgnoreVideoTracks           bool          `json:"ignore_video_tracks"`
	VariousArtists              string        `json:"va_string"`
	RequestsPerSecond           float64       `json:"requests_per_second"`
	Timeout                     time.Duration `json:"timeout"`
}

// Instance describes one deployment of the catalog software.
type Instance struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"display_name"`
	BaseURL          string   `json:"base_url"`
	APIURL           string   `json:"api_url"`
	SubcommandPrefix string   `json:"subcommand_prefix"`
	Settings         Settings `json:"settings"`
}

// DataURL returns the public web page for a record on this instance.
func (i Instance) DataURL(kind Kind, id int) string {
	base := i.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	switch kind {
	case KindAlbum:
		return base + "Al/" + strconv.Itoa(id)
	default:
		return base + "S/" + strconv.Itoa(id)
	}
}

// BuiltinInstances returns the descriptors of the public catalog
// deployments without settings applied.
func BuiltinInstances() []Instance {
	return []Instance{
		{
			Name:             NameVocaDB,
			DisplayName:      "VocaDB",
			BaseURL:          "https://vocadb.net/",
			APIURL:           "https://vocadb.net/api/",
			SubcommandPrefix: "vdb",
		},
		{
			Name:             NameUtaiteDB,
			DisplayName:      "UtaiteDB",
			BaseURL:          "https://utaitedb.net/",
			APIURL:           "https://utaitedb.net/api/",
			SubcommandPrefix: "udb",
		},
		{
			Name:             NameTouhouDB,
			DisplayName:      "TouhouDB",
			BaseURL:          "https://touhoudb.com/",
			APIURL:           "https://touhoudb.com/api/",
			SubcommandPrefix: "tdb",
		},
	}
}

// Builtin returns the built-in descriptor with the given name.
func Builtin(name string) (Instance, bool) {
	for _, inst := range BuiltinInstances() {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instance{}, false
}
