// Package mapper converts raw catalog records into canonical track and
// album metadata.
package mapper

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/credits"
	"github.com/sydlexius/vocasync/internal/language"
	"github.com/sydlexius/vocasync/internal/metadata"
)

const (
	discTypeCompilation = "Compilation"
	mediaTypeVideo      = "Video"
	fallbackMedia       = "CD"
)

// Mapper maps records of one catalog instance. It holds only read-only
// configuration and is safe for concurrent use.
type Mapper struct {
	instance catalog.Instance
	settings catalog.Settings
	credits  credits.Aggregator
}

// New creates a mapper for inst using its resolved settings.
func New(inst catalog.Instance) *Mapper {
	s := inst.Settings
	return &Mapper{
		instance: inst,
		settings: s,
		credits: credits.Aggregator{
			IncludeFeatured: s.IncludeFeaturedAlbumArtists,
			NoEmptyRoles:    s.NoEmptyRoles,
			VariousArtists:  s.VariousArtists,
		},
	}
}

// VariousArtists returns the label used for collapsed artist strings.
func (m *Mapper) VariousArtists() string {
	if m.settings.VariousArtists == "" {
		return credits.DefaultVariousArtists
	}
	return m.settings.VariousArtists
}

// TrackInfo maps a song. It fails with ErrMalformedRecord when the song
// carries no usable name.
func (m *Mapper) TrackInfo(song *catalog.Song) (*metadata.TrackInfo, error) {
	if song.Names.Empty() {
		return nil, m.malformed(catalog.KindSong, song.ID, "no name in any language")
	}

	title, lang := language.ResolveWithCode(song.Names, m.settings.Languages, m.settings.PreferRomaji)
	c := m.credits.Track(song.Artists)
	id := strconv.Itoa(song.ID)

	info := &metadata.TrackInfo{
		TrackID:      id,
		Title:        title,
		Artist:       c.Artist,
		AlbumArtist:  c.AlbumArtist,
		Artists:      c.Artists,
		ArtistID:     c.PrimaryID,
		ArtistIDs:    c.ArtistIDs,
		Composer:     c.Composer,
		Arranger:     c.Arranger,
		Lyricist:     c.Lyricist,
		Length:       time.Duration(song.LengthSeconds) * time.Second,
		OriginalDate: metadata.Date(song.PublishDate),
		Genre:        genres(song.Tags),
		BPM:          bpm(song.MaxMilliBPM),
		Language:     lang,
		ExternalIDs:  externalIDs(song.WebLinks, m.instance.Name, id),
		DataSource:   m.instance.DisplayName,
		DataURL:      m.instance.DataURL(catalog.KindSong, song.ID),
	}

	if m.settings.ImportLyrics {
		lyrics := language.SelectLyrics(song.Lyrics, m.settings.TranslatedLyrics)
		info.Lyrics = lyrics.Text
		info.LyricsLanguage = lyrics.Language
		info.Script = lyrics.Script
	}
	return info, nil
}

// AlbumInfo maps an album with its tracks. Albums without names or
// without any mappable track fail with ErrMalformedRecord.
func (m *Mapper) AlbumInfo(album *catalog.Album) (*metadata.AlbumInfo, error) {
	if album.Names.Empty() {
		return nil, m.malformed(catalog.KindAlbum, album.ID, "no name in any language")
	}
	if len(album.Tracks) == 0 {
		return nil, m.malformed(catalog.KindAlbum, album.ID, "no tracks")
	}

	discs := discsByNumber(album)
	genre := genres(album.Tags)
	tracks := m.albumTracks(album, discs, genre)
	if len(tracks) == 0 {
		return nil, m.malformed(catalog.KindAlbum, album.ID, "no mappable tracks")
	}

	title, lang := language.ResolveWithCode(album.Names, m.settings.Languages, m.settings.PreferRomaji)
	c := m.credits.Album(album.Artists)
	va := album.DiscType == discTypeCompilation
	if va {
		c.AlbumArtist = m.VariousArtists()
	}
	if c.AlbumArtist == m.VariousArtists() {
		va = true
	}
	id := strconv.Itoa(album.ID)

	info := &metadata.AlbumInfo{
		AlbumID:     id,
		Album:       title,
		Artist:      c.Artist,
		AlbumArtist: c.AlbumArtist,
		Artists:     c.Artists,
		ArtistID:    c.PrimaryID,
		ArtistIDs:   c.ArtistIDs,
		AlbumType:   strings.ToLower(album.DiscType),
		VA:          va,
		Label:       c.Label,
		CatalogNum:  album.CatalogNumber,
		ASIN:        findASIN(album.WebLinks),
		Date:        metadata.Date(album.ReleaseDate),
		Mediums:     len(discs.order),
		Genre:       genre,
		Language:    lang,
		Tracks:      tracks,
		ExternalIDs: externalIDs(album.WebLinks, m.instance.Name, id),
		DataSource:  m.instance.DisplayName,
		DataURL:     m.instance.DataURL(catalog.KindAlbum, album.ID),
	}
	if len(discs.order) > 0 {
		info.Media = discs.byNumber[discs.order[0]].Name
	}
	return info, nil
}

func (m *Mapper) albumTracks(album *catalog.Album, discs discSet, albumGenre string) []metadata.TrackInfo {
	byDisc := make(map[int][]catalog.Track)
	for _, t := range album.Tracks {
		byDisc[t.DiscNumber] = append(byDisc[t.DiscNumber], t)
	}

	var tracks []metadata.TrackInfo
	index := 0
	for _, number := range discs.order {
		disc := discs.byNumber[number]
		discTracks := byDisc[number]
		if len(discTracks) == 0 {
			continue
		}
		if disc.MediaType == mediaTypeVideo && m.settings.IgnoreVideoTracks {
			continue
		}
		for _, t := range discTracks {
			if t.Song == nil {
				continue
			}
			info, err := m.TrackInfo(t.Song)
			if err != nil {
				continue
			}
			index++
			info.Index = index
			info.Medium = number
			info.MediumIndex = t.TrackNumber
			info.MediumTotal = len(discTracks)
			info.Media = disc.Name
			if info.Genre == "" {
				info.Genre = albumGenre
			}
			tracks = append(tracks, *info)
		}
	}
	return tracks
}

type discSet struct {
	byNumber map[int]catalog.Disc
	order    []int
}

// discsByNumber indexes the album's discs, adding an audio CD for every
// disc number a track references but the disc list lacks.
func discsByNumber(album *catalog.Album) discSet {
	set := discSet{byNumber: make(map[int]catalog.Disc)}
	for _, d := range album.Discs {
		set.byNumber[d.Number] = d
	}
	for _, t := range album.Tracks {
		if _, ok := set.byNumber[t.DiscNumber]; !ok {
			set.byNumber[t.DiscNumber] = catalog.Disc{Number: t.DiscNumber, Name: fallbackMedia, MediaType: "Audio"}
		}
	}
	for number := range set.byNumber {
		set.order = append(set.order, number)
	}
	sort.Ints(set.order)
	return set
}

func (m *Mapper) malformed(kind catalog.Kind, id int, reason string) error {
	return &catalog.ErrMalformedRecord{Instance: m.instance.Name, Kind: kind, ID: id, Reason: reason}
}
