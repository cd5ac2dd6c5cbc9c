package scorer

import (
	"math"
	"testing"
	"time"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/metadata"
)

// fixedDistance returns the same distance for every pair.
type fixedDistance float64

func (f fixedDistance) Distance(string, string) float64 { return float64(f) }

func instance(sourceWeight, mismatch float64) catalog.Instance {
	inst, _ := catalog.Builtin(catalog.NameVocaDB)
	inst.Settings.SourceWeight = sourceWeight
	inst.Settings.MismatchPenalty = mismatch
	return inst
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTrackDistanceComposition(t *testing.T) {
	s := New(instance(0.1, 0.2), fixedDistance(0.3))
	local := metadata.LocalItem{Title: "Melt", Artist: "ryo"}
	cand := &metadata.TrackInfo{Title: "Melt", Artist: "ryo", ExternalIDs: metadata.ExternalIDs{"vocadb": "1501"}}

	c := s.TrackDistance(local, cand)
	if !almostEqual(c.Distance, 0.4) {
		t.Errorf("Distance = %v, want 0.4", c.Distance)
	}
	if !almostEqual(c.Penalties.Base, 0.3) || c.Penalties.Source != 0.1 || c.Penalties.Mismatch != 0 {
		t.Errorf("Penalties = %+v", c.Penalties)
	}
	if c.Track != cand {
		t.Error("candidate should reference the scored track")
	}
}

func TestMismatchPenalty(t *testing.T) {
	s := New(instance(0.1, 0.2), fixedDistance(0.3))
	cand := &metadata.TrackInfo{Title: "Melt", ExternalIDs: metadata.ExternalIDs{
		"vocadb":      "1501",
		"musicbrainz": "aaaa",
	}}

	tests := []struct {
		name     string
		local    metadata.ExternalIDs
		mismatch bool
	}{
		{"no ids", nil, false},
		{"own id only", metadata.ExternalIDs{"vocadb": "999"}, false},
		{"matching foreign id", metadata.ExternalIDs{"musicbrainz": "aaaa"}, false},
		{"different foreign id", metadata.ExternalIDs{"musicbrainz": "bbbb"}, true},
		{"foreign id absent from candidate", metadata.ExternalIDs{"discogs": "123"}, true},
		{"two foreign ids penalized once", metadata.ExternalIDs{"discogs": "1", "spotify": "2"}, true},
		{"empty value ignored", metadata.ExternalIDs{"discogs": ""}, false},
		{"unrecognized key ignored", metadata.ExternalIDs{"acoustid": "abc"}, false},
		{"custom tag ignored", metadata.ExternalIDs{"my_library_id": "42"}, false},
		{"other catalog id", metadata.ExternalIDs{"utaitedb": "77"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			without := s.TrackDistance(metadata.LocalItem{Title: "Melt"}, cand)
			with := s.TrackDistance(metadata.LocalItem{Title: "Melt", ExternalIDs: tt.local}, cand)
			if (with.Penalties.Mismatch > 0) != tt.mismatch {
				t.Errorf("mismatch applied = %v, want %v", with.Penalties.Mismatch > 0, tt.mismatch)
			}
			if with.Distance < without.Distance {
				t.Errorf("penalty decreased distance: %v < %v", with.Distance, without.Distance)
			}
			if tt.mismatch && !almostEqual(with.Distance, 0.6) {
				t.Errorf("Distance = %v, want 0.6", with.Distance)
			}
		})
	}
}

func TestUnrecognizedKeyAddsNoPenalty(t *testing.T) {
	s := New(instance(0.1, 0.5), fixedDistance(0))
	local := metadata.LocalItem{Title: "Melt", ExternalIDs: metadata.ExternalIDs{"acoustid": "abc"}}
	cand := &metadata.TrackInfo{Title: "Melt", ExternalIDs: metadata.ExternalIDs{"vocadb": "1501"}}

	c := s.TrackDistance(local, cand)
	if c.Penalties.Mismatch != 0 {
		t.Errorf("Mismatch = %v, want 0", c.Penalties.Mismatch)
	}
	if !almostEqual(c.Distance, 0.1) {
		t.Errorf("Distance = %v, want 0.1", c.Distance)
	}
}

func TestDistanceClamped(t *testing.T) {
	s := New(instance(0.5, 0.5), fixedDistance(0.9))
	c := s.TrackDistance(
		metadata.LocalItem{Title: "x", ExternalIDs: metadata.ExternalIDs{"discogs": "1"}},
		&metadata.TrackInfo{Title: "y"},
	)
	if c.Distance != 1 {
		t.Errorf("Distance = %v, want clamped to 1", c.Distance)
	}

	s = New(instance(0, 0), fixedDistance(-3))
	c = s.TrackDistance(metadata.LocalItem{Title: "x"}, &metadata.TrackInfo{Title: "y"})
	if c.Distance != 0 {
		t.Errorf("Distance = %v, want clamped to 0", c.Distance)
	}
}

func TestTrackDistanceDefaultSimilarity(t *testing.T) {
	s := New(instance(0, 0), nil)
	exact := s.TrackDistance(
		metadata.LocalItem{Title: "Melt", Artist: "ryo", Length: 261 * time.Second},
		&metadata.TrackInfo{Title: "Melt", Artist: "ryo", Length: 265 * time.Second},
	)
	if exact.Distance != 0 {
		t.Errorf("exact match distance = %v", exact.Distance)
	}

	far := s.TrackDistance(
		metadata.LocalItem{Title: "Melt", Artist: "ryo", Length: 261 * time.Second},
		&metadata.TrackInfo{Title: "World is Mine", Artist: "ryo", Length: 10 * time.Minute},
	)
	if far.Distance <= exact.Distance {
		t.Errorf("different title should be farther: %v", far.Distance)
	}
}

func TestAlbumDistance(t *testing.T) {
	s := New(instance(0.5, 0.5), nil)
	cand := &metadata.AlbumInfo{
		Album:       "supercell",
		AlbumArtist: "supercell",
		Tracks:      make([]metadata.TrackInfo, 12),
		ExternalIDs: metadata.ExternalIDs{"vocadb": "300", "vgmdb": "12345"},
	}

	c := s.AlbumDistance(metadata.LocalAlbum{Album: "supercell", Artist: "supercell", TrackCount: 12}, cand)
	if !almostEqual(c.Distance, 0.5) {
		t.Errorf("Distance = %v, want 0.5", c.Distance)
	}
	if c.Album != cand {
		t.Error("candidate should reference the scored album")
	}

	c = s.AlbumDistance(metadata.LocalAlbum{
		Album:       "supercell",
		ExternalIDs: metadata.ExternalIDs{"vgmdb": "999"},
	}, cand)
	if c.Distance != 1 {
		t.Errorf("mismatched album Distance = %v, want 1", c.Distance)
	}
}

func TestRankStable(t *testing.T) {
	a := &metadata.TrackInfo{TrackID: "a"}
	b := &metadata.TrackInfo{TrackID: "b"}
	c := &metadata.TrackInfo{TrackID: "c"}
	d := &metadata.TrackInfo{TrackID: "d"}
	cands := []metadata.Candidate{
		{Track: a, Distance: 0.7},
		{Track: b, Distance: 0.5},
		{Track: c, Distance: 0.7},
		{Track: d, Distance: 0.5},
	}
	Rank(cands)

	want := []string{"b", "d", "a", "c"}
	for i, id := range want {
		if cands[i].Track.TrackID != id {
			t.Errorf("position %d = %s, want %s", i, cands[i].Track.TrackID, id)
		}
	}
}

func TestLengthDistance(t *testing.T) {
	if d := lengthDistance(3*time.Minute, 3*time.Minute+20*time.Second); d != 0 {
		t.Errorf("within tolerance = %v", d)
	}
	if d := lengthDistance(0, 5*time.Minute); d != 1 {
		t.Errorf("far apart = %v", d)
	}
	if d := lengthDistance(0, 75*time.Second); !almostEqual(d, 0.5) {
		t.Errorf("halfway = %v", d)
	}
}
