package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type stubClient struct{ inst Instance }

func (s stubClient) Instance() Instance { return s.inst }
func (s stubClient) SearchSongs(context.Context, SongQuery) ([]Song, error) {
	return nil, nil
}
func (s stubClient) SearchAlbums(context.Context, AlbumQuery) ([]Album, error) {
	return nil, nil
}
func (s stubClient) GetSong(context.Context, int, string) (*Song, error)   { return nil, nil }
func (s stubClient) GetAlbum(context.Context, int, string) (*Album, error) { return nil, nil }

func TestDataURL(t *testing.T) {
	inst, ok := Builtin(NameVocaDB)
	if !ok {
		t.Fatal("vocadb should be a built-in instance")
	}
	if got := inst.DataURL(KindSong, 12345); got != "https://vocadb.net/S/12345" {
		t.Errorf("song DataURL = %q", got)
	}
	if got := inst.DataURL(KindAlbum, 42); got != "https://vocadb.net/Al/42" {
		t.Errorf("album DataURL = %q", got)
	}

	custom := Instance{BaseURL: "https://example.org"}
	if got := custom.DataURL(KindSong, 1); got != "https://example.org/S/1" {
		t.Errorf("DataURL without trailing slash = %q", got)
	}
}

func TestBuiltinInstances(t *testing.T) {
	want := map[string]string{
		NameVocaDB:   "https://vocadb.net/api/",
		NameUtaiteDB: "https://utaitedb.net/api/",
		NameTouhouDB: "https://touhoudb.com/api/",
	}
	for name, api := range want {
		inst, ok := Builtin(name)
		if !ok {
			t.Errorf("%s missing", name)
			continue
		}
		if inst.APIURL != api {
			t.Errorf("%s APIURL = %q, want %q", name, inst.APIURL, api)
		}
	}
	if _, ok := Builtin("nope"); ok {
		t.Error("unknown instance should not resolve")
	}
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(stubClient{Instance{Name: "b"}})
	r.Register(stubClient{Instance{Name: "a"}})
	r.Register(stubClient{Instance{Name: "b", DisplayName: "B2"}})

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(all))
	}
	if all[0].Instance().Name != "b" || all[1].Instance().Name != "a" {
		t.Errorf("unexpected order: %s, %s", all[0].Instance().Name, all[1].Instance().Name)
	}
	if r.Get("b").Instance().DisplayName != "B2" {
		t.Error("re-registration should replace the client")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered instance")
	}
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("connection refused")
	unavailable := fmt.Errorf("searching: %w", &ErrRemoteUnavailable{Instance: "vocadb", Cause: cause})
	if !IsRemoteUnavailable(unavailable) {
		t.Error("expected wrapped ErrRemoteUnavailable to be detected")
	}
	if !errors.Is(unavailable, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if IsNotFound(unavailable) {
		t.Error("unavailable is not not-found")
	}

	nf := &ErrNotFound{Instance: "vocadb", Kind: KindSong, ID: "abc"}
	if !IsNotFound(nf) {
		t.Error("expected ErrNotFound to be detected")
	}
	if nf.Error() != "catalog vocadb: song abc not found" {
		t.Errorf("unexpected message: %s", nf.Error())
	}

	mr := &ErrMalformedRecord{Instance: "vocadb", Kind: KindAlbum, ID: 7, Reason: "no names"}
	if !IsMalformed(mr) {
		t.Error("expected ErrMalformedRecord to be detected")
	}
}

func TestRateLimiterMapWait(t *testing.T) {
	m := NewRateLimiterMap()
	m.Set("vocadb", 1)

	ctx := context.Background()
	if err := m.Wait(ctx, "vocadb"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	// The burst is spent, so a short deadline must expire.
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := m.Wait(short, "vocadb"); err == nil {
		t.Error("expected second wait to fail under a short deadline")
	}

	if err := m.Wait(ctx, "unlimited"); err != nil {
		t.Errorf("unlimited instance should not block: %v", err)
	}

	canceled, cancel2 := context.WithCancel(ctx)
	cancel2()
	if err := m.Wait(canceled, "unlimited"); err == nil {
		t.Error("expected canceled context to be reported")
	}
}

func TestNamesEmpty(t *testing.T) {
	if !(Names{}).Empty() {
		t.Error("zero Names should be empty")
	}
	if (Names{Romanized: "x"}).Empty() {
		t.Error("Names with romanized should not be empty")
	}
}
