package vocadb

import (
	"strconv"
	"strings"
	"time"

	"github.com/sydlexius/vocasync/internal/catalog"
)

// convertSong validates a wire song into a raw catalog record.
func convertSong(s *APISong) catalog.Song {
	song := catalog.Song{
		ID:            s.ID,
		Names:         convertNames(s.Names, s.DefaultName, s.DefaultNameLanguage, s.Name),
		SongType:      s.SongType,
		Artists:       convertCredits(s.Artists),
		PublishDate:   parsePublishDate(s.PublishDate),
		LengthSeconds: s.LengthSeconds,
		MaxMilliBPM:   s.MaxMilliBPM,
		CultureCodes:  s.CultureCodes,
		Tags:          convertTags(s.Tags),
		WebLinks:      convertWebLinks(s.WebLinks),
	}
	for _, l := range s.Lyrics {
		if l.Value == "" {
			continue
		}
		song.Lyrics = append(song.Lyrics, catalog.Lyrics{
			TranslationType: l.TranslationType,
			CultureCodes:    l.CultureCodes,
			Value:           l.Value,
			Source:          l.Source,
			URL:             l.URL,
		})
	}
	return song
}

// convertAlbum validates a wire album into a raw catalog record.
func convertAlbum(al *APIAlbum) catalog.Album {
	album := catalog.Album{
		ID:            al.ID,
		Names:         convertNames(al.Names, al.DefaultName, al.DefaultNameLanguage, al.Name),
		DiscType:      al.DiscType,
		CatalogNumber: al.CatalogNumber,
		Artists:       convertCredits(al.Artists),
		Tags:          convertTags(al.Tags),
		WebLinks:      convertWebLinks(al.WebLinks),
	}
	if !al.ReleaseDate.IsEmpty {
		album.ReleaseDate = catalog.Date{
			Year:  al.ReleaseDate.Year,
			Month: al.ReleaseDate.Month,
			Day:   al.ReleaseDate.Day,
		}
	}
	for _, d := range al.Discs {
		album.Discs = append(album.Discs, catalog.Disc{
			Number:    d.DiscNumber,
			Name:      d.Name,
			MediaType: d.MediaType,
		})
	}
	for _, t := range al.Tracks {
		track := catalog.Track{
			DiscNumber:  t.DiscNumber,
			TrackNumber: t.TrackNumber,
			Name:        t.Name,
		}
		if t.Song != nil {
			song := convertSong(t.Song)
			track.Song = &song
		}
		album.Tracks = append(album.Tracks, track)
	}
	return album
}

// convertNames builds the name bundle from the localized names list,
// falling back to the default name when the list was not requested.
func convertNames(names []APIName, defaultName, defaultLanguage, name string) catalog.Names {
	var n catalog.Names
	for _, entry := range names {
		if entry.Value == "" {
			continue
		}
		switch entry.Language {
		case "Japanese":
			if n.Original == "" {
				n.Original = entry.Value
			}
		case "Romaji":
			if n.Romanized == "" {
				n.Romanized = entry.Value
			}
		case "English":
			if n.English == "" {
				n.English = entry.Value
			}
		}
	}
	if !n.Empty() {
		return n
	}

	if defaultName == "" {
		defaultName = name
	}
	switch defaultLanguage {
	case "Romaji":
		n.Romanized = defaultName
	case "English":
		n.English = defaultName
	default:
		n.Original = defaultName
	}
	return n
}

// convertCredits expands each catalog credit into one ArtistRole per role.
func convertCredits(credits []APIArtistCredit) []catalog.ArtistRole {
	var roles []catalog.ArtistRole
	for _, c := range credits {
		name, id := c.Name, ""
		if c.Artist != nil {
			name = c.Artist.Name
			id = strconv.Itoa(c.Artist.ID)
		}
		if name == "" {
			continue
		}

		categories := splitFlags(c.Categories)
		effective := splitFlags(c.EffectiveRoles)
		support := c.IsSupport || categories["Nothing"] || categories["Label"]

		base := catalog.ArtistRole{ID: id, Name: name, Support: support}
		emitted := 0
		emit := func(role catalog.Role, featured bool) {
			r := base
			r.Role = role
			r.Featured = featured
			roles = append(roles, r)
			emitted++
		}

		producer := categories["Producer"] || categories["Band"] || categories["Circle"]
		if producer {
			emit(catalog.RoleProducer, false)
		}
		defaults := producer && effective["Default"]
		if effective["Composer"] || defaults {
			emit(catalog.RoleComposer, false)
		}
		if effective["Arranger"] || defaults {
			emit(catalog.RoleArranger, false)
		}
		if effective["Lyricist"] || defaults {
			emit(catalog.RoleLyricist, false)
		}
		if categories["Vocalist"] || effective["Vocalist"] || effective["Chorus"] {
			emit(catalog.RoleVocalist, true)
		}
		if categories["Label"] {
			emit(catalog.RoleLabel, false)
		}
		if emitted == 0 {
			emit(catalog.RoleOther, false)
		}
	}
	return roles
}

func splitFlags(s string) map[string]bool {
	flags := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			flags[part] = true
		}
	}
	return flags
}

func convertTags(tags []APITagUsage) []catalog.Tag {
	var out []catalog.Tag
	for _, t := range tags {
		if t.Tag.Name == "" {
			continue
		}
		out = append(out, catalog.Tag{
			Name:     t.Tag.Name,
			Category: t.Tag.CategoryName,
			Count:    t.Count,
		})
	}
	return out
}

func convertWebLinks(links []APIWebLink) []catalog.WebLink {
	var out []catalog.WebLink
	for _, l := range links {
		if l.URL == "" {
			continue
		}
		out = append(out, catalog.WebLink{
			Description: l.Description,
			URL:         l.URL,
			Category:    l.Category,
			Disabled:    l.Disabled,
		})
	}
	return out
}

// parsePublishDate reads the date part of an ISO timestamp. Unparseable
// values leave the date unset.
func parsePublishDate(s string) catalog.Date {
	if len(s) < len("2006-01-02") {
		return catalog.Date{}
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return catalog.Date{}
	}
	return catalog.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
