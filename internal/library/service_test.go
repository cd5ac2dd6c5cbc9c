package library

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sydlexius/vocasync/internal/database"
	"github.com/sydlexius/vocasync/internal/metadata"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCreateAndGetAlbum(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	a := &Album{
		Album:       "supercell",
		AlbumArtist: "supercell",
		AlbumID:     "300",
		DataSource:  "VocaDB",
		Year:        2009,
		Month:       3,
		Day:         4,
		Comp:        true,
		ExternalIDs: metadata.ExternalIDs{"vocadb": "300", "vgmdb": "12345"},
	}
	if err := svc.CreateAlbum(ctx, a); err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected ID to be set after CreateAlbum")
	}

	got, err := svc.GetAlbum(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAlbum: %v", err)
	}
	if got.Album != "supercell" || got.AlbumID != "300" || got.Year != 2009 || !got.Comp {
		t.Errorf("unexpected album: %+v", got)
	}
	if got.ExternalIDs["vgmdb"] != "12345" {
		t.Errorf("ExternalIDs = %v", got.ExternalIDs)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to round-trip")
	}
}

func TestCreateAlbumRequiresName(t *testing.T) {
	svc := NewService(setupTestDB(t))
	if err := svc.CreateAlbum(context.Background(), &Album{}); err == nil {
		t.Fatal("expected error for empty album name")
	}
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	if _, err := svc.GetAlbum(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAlbum: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetItem(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetItem: expected ErrNotFound, got %v", err)
	}
	if err := svc.UpdateItem(ctx, &Item{ID: "nonexistent", Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateItem: expected ErrNotFound, got %v", err)
	}
	if err := svc.UpdateAlbum(ctx, &Album{ID: "nonexistent", Album: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateAlbum: expected ErrNotFound, got %v", err)
	}
}

func TestCreateAndGetItem(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	it := &Item{
		Title:        "Melt",
		Artist:       "ryo; Hatsune Miku",
		TrackID:      "1501",
		DataSource:   "VocaDB",
		Length:       261 * time.Second,
		BPM:          156,
		OriginalYear: 2007,
	}
	if err := svc.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	got, err := svc.GetItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !got.Singleton() {
		t.Error("item without album should be a singleton")
	}
	if got.Length != 261*time.Second || got.BPM != 156 || got.TrackID != "1501" {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.ExternalIDs == nil {
		t.Error("ExternalIDs should decode to an empty map")
	}
}

func TestCreateItemRequiresTitle(t *testing.T) {
	svc := NewService(setupTestDB(t))
	if err := svc.CreateItem(context.Background(), &Item{}); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestCreateItemUnknownAlbum(t *testing.T) {
	svc := NewService(setupTestDB(t))
	err := svc.CreateItem(context.Background(), &Item{Title: "Melt", AlbumRef: "missing"})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestListItemsFilter(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	album := &Album{Album: "supercell", DataSource: "VocaDB"}
	if err := svc.CreateAlbum(ctx, album); err != nil {
		t.Fatal(err)
	}
	items := []*Item{
		{Title: "b single", DataSource: "VocaDB"},
		{Title: "a single", DataSource: "VocaDB"},
		{Title: "on album", DataSource: "VocaDB", AlbumRef: album.ID},
		{Title: "elsewhere", DataSource: "MusicBrainz"},
	}
	for _, it := range items {
		if err := svc.CreateItem(ctx, it); err != nil {
			t.Fatalf("CreateItem %q: %v", it.Title, err)
		}
	}

	all, err := svc.ListItems(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 items, got %d", len(all))
	}

	singles, err := svc.ListItems(ctx, Filter{DataSource: "VocaDB", Singletons: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(singles) != 2 {
		t.Fatalf("expected 2 singletons, got %d", len(singles))
	}
	if singles[0].Title != "a single" || singles[1].Title != "b single" {
		t.Errorf("expected title order, got %q, %q", singles[0].Title, singles[1].Title)
	}
}

func TestItemsForAlbumOrder(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	album := &Album{Album: "supercell"}
	if err := svc.CreateAlbum(ctx, album); err != nil {
		t.Fatal(err)
	}
	for _, it := range []*Item{
		{Title: "d2t1", Disc: 2, Track: 1, AlbumRef: album.ID},
		{Title: "d1t2", Disc: 1, Track: 2, AlbumRef: album.ID},
		{Title: "d1t1", Disc: 1, Track: 1, AlbumRef: album.ID},
	} {
		if err := svc.CreateItem(ctx, it); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.ItemsForAlbum(ctx, album.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"d1t1", "d1t2", "d2t1"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestUpdateItemAndAlbum(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	album := &Album{Album: "old"}
	if err := svc.CreateAlbum(ctx, album); err != nil {
		t.Fatal(err)
	}
	album.Album = "supercell"
	album.Label = "Sony Music Records"
	album.ExternalIDs = metadata.ExternalIDs{"amazon": "B001"}
	if err := svc.UpdateAlbum(ctx, album); err != nil {
		t.Fatalf("UpdateAlbum: %v", err)
	}
	gotAlbum, err := svc.GetAlbum(ctx, album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotAlbum.Album != "supercell" || gotAlbum.Label != "Sony Music Records" || gotAlbum.ExternalIDs["amazon"] != "B001" {
		t.Errorf("album not updated: %+v", gotAlbum)
	}

	it := &Item{Title: "old"}
	if err := svc.CreateItem(ctx, it); err != nil {
		t.Fatal(err)
	}
	it.Title = "Melt"
	it.AlbumRef = album.ID
	it.Composer = "ryo"
	if err := svc.UpdateItem(ctx, it); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	gotItem, err := svc.GetItem(ctx, it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotItem.Title != "Melt" || gotItem.Composer != "ryo" || gotItem.AlbumRef != album.ID {
		t.Errorf("item not updated: %+v", gotItem)
	}
}

func TestAlbumDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	album := &Album{Album: "supercell"}
	if err := svc.CreateAlbum(ctx, album); err != nil {
		t.Fatal(err)
	}
	it := &Item{Title: "Melt", AlbumRef: album.ID}
	if err := svc.CreateItem(ctx, it); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, album.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetItem(ctx, it.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected item to be deleted with its album, got %v", err)
	}
}
