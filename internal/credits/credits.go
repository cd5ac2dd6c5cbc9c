// Package credits turns ordered artist-role credits into the artist
// strings written to tags.
package credits

import (
	"strings"

	"github.com/sydlexius/vocasync/internal/catalog"
)

// Separator joins multiple names in one tag value.
const Separator = "; "

// DefaultVariousArtists is the label used when no single artist string
// can be produced.
const DefaultVariousArtists = "Various artists"

// Credits is the aggregated result for one record.
type Credits struct {
	Artist      string
	AlbumArtist string
	Artists     []string
	ArtistIDs   []string
	PrimaryName string
	PrimaryID   string
	Composer    string
	Arranger    string
	Lyricist    string
	Label       string
}

// Aggregator holds the credit policy of one catalog instance.
type Aggregator struct {
	IncludeFeatured bool
	NoEmptyRoles    bool
	VariousArtists  string
	// CollapseThreshold is the largest number of distinct non-featured
	// primary artists an album artist string may list. Zero means 1.
	CollapseThreshold int
}

// Aggregate applies the default policy in track context.
func Aggregate(roles []catalog.ArtistRole, includeFeaturedInAlbumArtists bool, variousArtistsLabel string) Credits {
	a := Aggregator{IncludeFeatured: includeFeaturedInAlbumArtists, VariousArtists: variousArtistsLabel}
	return a.Track(roles)
}

// Track aggregates credits of a single song.
func (a Aggregator) Track(roles []catalog.ArtistRole) Credits {
	return a.aggregate(roles, false)
}

// Album aggregates credits of an album. The album artist collapses to the
// various-artists label when too many primaries are credited.
func (a Aggregator) Album(roles []catalog.ArtistRole) Credits {
	return a.aggregate(roles, true)
}

func (a Aggregator) aggregate(roles []catalog.ArtistRole, album bool) Credits {
	va := a.VariousArtists
	if va == "" {
		va = DefaultVariousArtists
	}
	threshold := a.CollapseThreshold
	if threshold < 1 {
		threshold = 1
	}

	var c Credits
	var credited []catalog.ArtistRole
	for _, r := range roles {
		if r.Role == catalog.RoleLabel {
			if c.Label == "" {
				c.Label = r.Name
			}
			continue
		}
		if r.Support {
			continue
		}
		credited = append(credited, r)
	}

	primaries := filter(credited, func(r catalog.ArtistRole) bool {
		return r.Role == catalog.RoleProducer || r.Role == catalog.RoleVocalist
	})
	if len(primaries) == 0 {
		primaries = credited
	}

	trackNames := newNameSet()
	leading := newNameSet()
	for _, r := range primaries {
		trackNames.add(r.Name, r.ID)
		if !r.Featured {
			leading.add(r.Name, r.ID)
		}
	}

	albumNames := leading
	if a.IncludeFeatured {
		albumNames = trackNames
	}

	c.Artist = joinOr(trackNames.names, va)
	c.AlbumArtist = joinOr(albumNames.names, va)
	if album && len(leading.names) > threshold {
		c.AlbumArtist = va
	}

	switch {
	case len(leading.names) > 0:
		c.PrimaryName, c.PrimaryID = leading.names[0], leading.ids[0]
	case len(trackNames.names) > 0:
		c.PrimaryName, c.PrimaryID = trackNames.names[0], trackNames.ids[0]
	}

	all := newNameSet()
	for _, r := range credited {
		all.add(r.Name, r.ID)
	}
	c.Artists = all.names
	c.ArtistIDs = all.ids

	c.Composer = joinRole(credited, catalog.RoleComposer)
	c.Arranger = joinRole(credited, catalog.RoleArranger)
	c.Lyricist = joinRole(credited, catalog.RoleLyricist)

	if a.NoEmptyRoles {
		fallback := joinRole(credited, catalog.RoleProducer)
		if fallback == "" {
			fallback = strings.Join(trackNames.names, Separator)
		}
		for _, field := range []*string{&c.Composer, &c.Arranger, &c.Lyricist} {
			if *field == "" {
				*field = fallback
			}
		}
	}
	return c
}

type nameSet struct {
	seen  map[string]bool
	names []string
	ids   []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]bool)}
}

func (s *nameSet) add(name, id string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
	s.ids = append(s.ids, id)
}

func filter(roles []catalog.ArtistRole, keep func(catalog.ArtistRole) bool) []catalog.ArtistRole {
	var out []catalog.ArtistRole
	for _, r := range roles {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func joinRole(roles []catalog.ArtistRole, role catalog.Role) string {
	set := newNameSet()
	for _, r := range roles {
		if r.Role == role {
			set.add(r.Name, r.ID)
		}
	}
	return strings.Join(set.names, Separator)
}

func joinOr(names []string, fallback string) string {
	if len(names) == 0 {
		return fallback
	}
	return strings.Join(names, Separator)
}
