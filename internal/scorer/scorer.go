// Package scorer computes penalty-adjusted distances between local items
// and mapped catalog candidates.
package scorer

import (
	"sort"
	"time"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/metadata"
	"github.com/sydlexius/vocasync/internal/similarity"
)

// StringDistance compares two strings and returns a value in [0,1].
type StringDistance interface {
	Distance(a, b string) float64
}

// Component weights for the base distance.
const (
	weightTitle      = 3.0
	weightArtist     = 2.0
	weightLength     = 1.0
	weightTrackCount = 1.0
)

const (
	lengthTolerance = 30 * time.Second
	lengthMax       = 2 * time.Minute
)

// Scorer scores candidates of one catalog instance.
type Scorer struct {
	sim             StringDistance
	ownKey          string
	recognized      map[string]bool
	sourceWeight    float64
	mismatchPenalty float64
}

// New creates a scorer for inst. A nil sim uses similarity.Default.
func New(inst catalog.Instance, sim StringDistance) *Scorer {
	if sim == nil {
		sim = similarity.Default
	}
	recognized := make(map[string]bool)
	for _, key := range metadata.ForeignProviders {
		recognized[key] = true
	}
	for _, builtin := range catalog.BuiltinInstances() {
		recognized[builtin.Name] = true
	}
	return &Scorer{
		sim:             sim,
		ownKey:          inst.Name,
		recognized:      recognized,
		sourceWeight:    inst.Settings.SourceWeight,
		mismatchPenalty: inst.Settings.MismatchPenalty,
	}
}

// TrackDistance scores a track candidate against a local item.
func (s *Scorer) TrackDistance(local metadata.LocalItem, cand *metadata.TrackInfo) metadata.Candidate {
	var b base
	b.add(weightTitle, s.sim.Distance(local.Title, cand.Title))
	if local.Artist != "" {
		b.add(weightArtist, s.sim.Distance(local.Artist, cand.Artist))
	}
	if local.Length > 0 && cand.Length > 0 {
		b.add(weightLength, lengthDistance(local.Length, cand.Length))
	}

	c := metadata.Candidate{Track: cand}
	s.finish(&c, b.value(), local.ExternalIDs, cand.ExternalIDs)
	return c
}

// AlbumDistance scores an album candidate against a local album.
func (s *Scorer) AlbumDistance(local metadata.LocalAlbum, cand *metadata.AlbumInfo) metadata.Candidate {
	var b base
	b.add(weightTitle, s.sim.Distance(local.Album, cand.Album))
	if local.Artist != "" {
		b.add(weightArtist, s.sim.Distance(local.Artist, cand.AlbumArtist))
	}
	if local.TrackCount > 0 {
		b.add(weightTrackCount, countDistance(local.TrackCount, len(cand.Tracks)))
	}

	c := metadata.Candidate{Album: cand}
	s.finish(&c, b.value(), local.ExternalIDs, cand.ExternalIDs)
	return c
}

// finish adds the penalty terms and clamps the sum into [0,1].
func (s *Scorer) finish(c *metadata.Candidate, baseDist float64, local, cand metadata.ExternalIDs) {
	c.Penalties.Base = clamp(baseDist)
	c.Penalties.Source = s.sourceWeight
	if s.foreignMismatch(local, cand) {
		c.Penalties.Mismatch = s.mismatchPenalty
	}
	c.Distance = clamp(c.Penalties.Base + c.Penalties.Source + c.Penalties.Mismatch)
}

// foreignMismatch reports whether the local item carries an ID from a
// recognized provider other than this catalog that the candidate does not
// match. Unrecognized keys never count.
func (s *Scorer) foreignMismatch(local, cand metadata.ExternalIDs) bool {
	for key, id := range local {
		if key == s.ownKey || id == "" || !s.recognized[key] {
			continue
		}
		if cand[key] != id {
			return true
		}
	}
	return false
}

// Rank sorts candidates by ascending distance, keeping input order for ties.
func Rank(cands []metadata.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Distance < cands[j].Distance
	})
}

type base struct {
	sum, weight float64
}

func (b *base) add(weight, dist float64) {
	b.sum += weight * clamp(dist)
	b.weight += weight
}

func (b *base) value() float64 {
	if b.weight == 0 {
		return 0
	}
	return b.sum / b.weight
}

func lengthDistance(a, b time.Duration) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff <= lengthTolerance {
		return 0
	}
	if diff >= lengthMax {
		return 1
	}
	return float64(diff-lengthTolerance) / float64(lengthMax-lengthTolerance)
}

func countDistance(a, b int) float64 {
	if a == b {
		return 0
	}
	diff, larger := a-b, a
	if diff < 0 {
		diff = -diff
	}
	if b > larger {
		larger = b
	}
	return float64(diff) / float64(larger)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
