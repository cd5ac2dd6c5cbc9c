// Package library stores the local albums and items that sync keeps
// aligned with a catalog.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/vocasync/internal/metadata"
)

const albumColumns = `id, album, album_artist, album_id, data_source, album_type, label,
	catalog_num, asin, genre, language, year, month, day, comp, external_ids, created_at, updated_at`

const itemColumns = `id, album_ref, title, artist, album_artist, album, artists, composer,
	arranger, lyricist, genre, lyrics, track_id, data_source, length_ms, track, disc, bpm,
	original_year, original_month, original_day, external_ids, created_at, updated_at`

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Service provides library data operations.
type Service struct {
	db *sql.DB
}

// NewService creates a library service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// CreateAlbum inserts a new album.
func (s *Service) CreateAlbum(ctx context.Context, a *Album) error {
	if a.Album == "" {
		return fmt.Errorf("album name is required")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	ids, err := encodeIDs(a.ExternalIDs)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO albums (`+albumColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.Album, a.AlbumArtist, a.AlbumID, a.DataSource, a.AlbumType, a.Label,
		a.CatalogNum, a.ASIN, a.Genre, a.Language, a.Year, a.Month, a.Day, boolToInt(a.Comp), ids,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating album: %w", err)
	}
	return nil
}

// GetAlbum retrieves an album by primary key.
func (s *Service) GetAlbum(ctx context.Context, id string) (*Album, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)
	a, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting album: %w", err)
	}
	return a, nil
}

// ListAlbums returns the albums whose data source matches dataSource, or
// every album when it is empty, ordered by album name.
func (s *Service) ListAlbums(ctx context.Context, dataSource string) ([]Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums`
	var args []any
	if dataSource != "" {
		query += ` WHERE data_source = ?`
		args = append(args, dataSource)
	}
	query += ` ORDER BY album, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var albums []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning album: %w", err)
		}
		albums = append(albums, *a)
	}
	return albums, rows.Err()
}

// UpdateAlbum writes every field of an existing album.
func (s *Service) UpdateAlbum(ctx context.Context, a *Album) error {
	if a.Album == "" {
		return fmt.Errorf("album name is required")
	}
	ids, err := encodeIDs(a.ExternalIDs)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx, `
		UPDATE albums SET album = ?, album_artist = ?, album_id = ?, data_source = ?,
			album_type = ?, label = ?, catalog_num = ?, asin = ?, genre = ?, language = ?,
			year = ?, month = ?, day = ?, comp = ?, external_ids = ?, updated_at = ?
		WHERE id = ?
	`,
		a.Album, a.AlbumArtist, a.AlbumID, a.DataSource,
		a.AlbumType, a.Label, a.CatalogNum, a.ASIN, a.Genre, a.Language,
		a.Year, a.Month, a.Day, boolToInt(a.Comp), ids, now.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating album: %w", err)
	}
	if err := requireOneRow(res, "album", a.ID); err != nil {
		return err
	}
	a.UpdatedAt = now
	return nil
}

// CreateItem inserts a new item.
func (s *Service) CreateItem(ctx context.Context, it *Item) error {
	if it.Title == "" {
		return fmt.Errorf("item title is required")
	}
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	ids, err := encodeIDs(it.ExternalIDs)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	it.CreatedAt = now
	it.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		it.ID, nullableString(it.AlbumRef), it.Title, it.Artist, it.AlbumArtist, it.Album,
		it.Artists, it.Composer, it.Arranger, it.Lyricist, it.Genre, it.Lyrics,
		it.TrackID, it.DataSource, it.Length.Milliseconds(), it.Track, it.Disc, it.BPM,
		it.OriginalYear, it.OriginalMonth, it.OriginalDay, ids,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by primary key.
func (s *Service) GetItem(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// ListItems returns the items matching f ordered by title.
func (s *Service) ListItems(ctx context.Context, f Filter) ([]Item, error) {
	var where []string
	var args []any
	if f.DataSource != "" {
		where = append(where, "data_source = ?")
		args = append(args, f.DataSource)
	}
	if f.Singletons {
		where = append(where, "album_ref IS NULL")
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY title, id`
	return s.queryItems(ctx, query, args...)
}

// ItemsForAlbum returns the items of an album in disc and track order.
func (s *Service) ItemsForAlbum(ctx context.Context, albumRef string) ([]Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE album_ref = ? ORDER BY disc, track, id`, albumRef)
}

func (s *Service) queryItems(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateItem writes every field of an existing item.
func (s *Service) UpdateItem(ctx context.Context, it *Item) error {
	if it.Title == "" {
		return fmt.Errorf("item title is required")
	}
	ids, err := encodeIDs(it.ExternalIDs)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx, `
		UPDATE items SET album_ref = ?, title = ?, artist = ?, album_artist = ?, album = ?,
			artists = ?, composer = ?, arranger = ?, lyricist = ?, genre = ?, lyrics = ?,
			track_id = ?, data_source = ?, length_ms = ?, track = ?, disc = ?, bpm = ?,
			original_year = ?, original_month = ?, original_day = ?, external_ids = ?, updated_at = ?
		WHERE id = ?
	`,
		nullableString(it.AlbumRef), it.Title, it.Artist, it.AlbumArtist, it.Album,
		it.Artists, it.Composer, it.Arranger, it.Lyricist, it.Genre, it.Lyrics,
		it.TrackID, it.DataSource, it.Length.Milliseconds(), it.Track, it.Disc, it.BPM,
		it.OriginalYear, it.OriginalMonth, it.OriginalDay, ids, now.Format(time.RFC3339),
		it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if err := requireOneRow(res, "item", it.ID); err != nil {
		return err
	}
	it.UpdatedAt = now
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAlbum(row scanner) (*Album, error) {
	var a Album
	var comp int
	var ids, createdAt, updatedAt string
	err := row.Scan(
		&a.ID, &a.Album, &a.AlbumArtist, &a.AlbumID, &a.DataSource, &a.AlbumType, &a.Label,
		&a.CatalogNum, &a.ASIN, &a.Genre, &a.Language, &a.Year, &a.Month, &a.Day, &comp, &ids,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Comp = comp != 0
	if a.ExternalIDs, err = decodeIDs(ids); err != nil {
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &a, nil
}

func scanItem(row scanner) (*Item, error) {
	var it Item
	var albumRef sql.NullString
	var lengthMS int64
	var ids, createdAt, updatedAt string
	err := row.Scan(
		&it.ID, &albumRef, &it.Title, &it.Artist, &it.AlbumArtist, &it.Album, &it.Artists,
		&it.Composer, &it.Arranger, &it.Lyricist, &it.Genre, &it.Lyrics, &it.TrackID,
		&it.DataSource, &lengthMS, &it.Track, &it.Disc, &it.BPM,
		&it.OriginalYear, &it.OriginalMonth, &it.OriginalDay, &ids, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.AlbumRef = albumRef.String
	it.Length = time.Duration(lengthMS) * time.Millisecond
	if it.ExternalIDs, err = decodeIDs(ids); err != nil {
		return nil, err
	}
	it.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	it.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &it, nil
}

func encodeIDs(ids metadata.ExternalIDs) (string, error) {
	if len(ids) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding external ids: %w", err)
	}
	return string(b), nil
}

func decodeIDs(s string) (metadata.ExternalIDs, error) {
	ids := metadata.ExternalIDs{}
	if s == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, fmt.Errorf("decoding external ids: %w", err)
	}
	return ids, nil
}

func requireOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
