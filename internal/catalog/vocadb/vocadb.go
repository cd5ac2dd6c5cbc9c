package vocadb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/version"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20

	songFields  = "Artists,Names,Lyrics,Tags,WebLinks,Bpm,CultureCodes"
	albumFields = "Artists,Discs,Names,Tags,Tracks,WebLinks"
)

// Adapter implements catalog.Client for any VocaDB-shaped deployment.
type Adapter struct {
	client   *http.Client
	limiter  *catalog.RateLimiterMap
	logger   *slog.Logger
	instance catalog.Instance
	apiURL   string
}

// New creates an adapter talking to inst.APIURL.
func New(inst catalog.Instance, limiter *catalog.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithAPIURL(inst, limiter, logger, inst.APIURL)
}

// NewWithAPIURL creates an adapter with a custom API URL (for testing).
func NewWithAPIURL(inst catalog.Instance, limiter *catalog.RateLimiterMap, logger *slog.Logger, apiURL string) *Adapter {
	timeout := inst.Settings.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if limiter == nil {
		limiter = catalog.NewRateLimiterMap()
	}
	return &Adapter{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:  limiter,
		logger:   logger.With(slog.String("catalog", inst.Name)),
		instance: inst,
		apiURL:   strings.TrimRight(apiURL, "/") + "/",
	}
}

// Instance returns the descriptor this adapter talks to.
func (a *Adapter) Instance() catalog.Instance { return a.instance }

// SearchSongs runs a free-text song search.
func (a *Adapter) SearchSongs(ctx context.Context, q catalog.SongQuery) ([]catalog.Song, error) {
	if q.MaxResults < 1 {
		return nil, fmt.Errorf("search songs: max results must be positive, got %d", q.MaxResults)
	}
	params := url.Values{
		"query":                 {q.Query},
		"maxResults":            {strconv.Itoa(q.MaxResults)},
		"nameMatchMode":         {"Auto"},
		"preferAccurateMatches": {"true"},
		"sort":                  {"SongType"},
		"fields":                {songFields},
		"lang":                  {langOrDefault(q.Lang)},
	}
	body, err := a.doRequest(ctx, a.apiURL+"songs?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp SongSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, a.unavailable(fmt.Errorf("parsing song search response: %w", err))
	}

	songs := make([]catalog.Song, 0, len(resp.Items))
	for i := range resp.Items {
		songs = append(songs, convertSong(&resp.Items[i]))
	}
	return songs, nil
}

// SearchAlbums runs a free-text album search. Results carry no tracks.
func (a *Adapter) SearchAlbums(ctx context.Context, q catalog.AlbumQuery) ([]catalog.Album, error) {
	if q.MaxResults < 1 {
		return nil, fmt.Errorf("search albums: max results must be positive, got %d", q.MaxResults)
	}
	params := url.Values{
		"query":         {q.Query},
		"maxResults":    {strconv.Itoa(q.MaxResults)},
		"nameMatchMode": {"Auto"},
		"fields":        {"Names"},
		"lang":          {langOrDefault(q.Lang)},
	}
	body, err := a.doRequest(ctx, a.apiURL+"albums?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp AlbumSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, a.unavailable(fmt.Errorf("parsing album search response: %w", err))
	}

	albums := make([]catalog.Album, 0, len(resp.Items))
	for i := range resp.Items {
		albums = append(albums, convertAlbum(&resp.Items[i]))
	}
	return albums, nil
}

// GetSong fetches a song by ID.
func (a *Adapter) GetSong(ctx context.Context, id int, lang string) (*catalog.Song, error) {
	params := url.Values{
		"fields": {songFields},
		"lang":   {langOrDefault(lang)},
	}
	reqURL := a.apiURL + "songs/" + strconv.Itoa(id) + "?" + params.Encode()
	nf := &catalog.ErrNotFound{Instance: a.instance.Name, Kind: catalog.KindSong, ID: strconv.Itoa(id)}

	body, err := a.doRequest(ctx, reqURL, nf)
	if err != nil {
		return nil, err
	}
	if isNull(body) {
		return nil, nf
	}

	var song APISong
	if err := json.Unmarshal(body, &song); err != nil {
		return nil, a.unavailable(fmt.Errorf("parsing song response: %w", err))
	}
	converted := convertSong(&song)
	return &converted, nil
}

// GetAlbum fetches an album with its discs and tracks.
func (a *Adapter) GetAlbum(ctx context.Context, id int, lang string) (*catalog.Album, error) {
	params := url.Values{
		"fields":     {albumFields},
		"songFields": {songFields},
		"lang":       {langOrDefault(lang)},
	}
	reqURL := a.apiURL + "albums/" + strconv.Itoa(id) + "?" + params.Encode()
	nf := &catalog.ErrNotFound{Instance: a.instance.Name, Kind: catalog.KindAlbum, ID: strconv.Itoa(id)}

	body, err := a.doRequest(ctx, reqURL, nf)
	if err != nil {
		return nil, err
	}
	if isNull(body) {
		return nil, nf
	}

	var album APIAlbum
	if err := json.Unmarshal(body, &album); err != nil {
		return nil, a.unavailable(fmt.Errorf("parsing album response: %w", err))
	}
	converted := convertAlbum(&album)
	return &converted, nil
}

// doRequest executes an HTTP GET with rate limiting and standard headers.
// A 404 becomes notFound when one is given; every other failure is
// reported as ErrRemoteUnavailable.
func (a *Adapter) doRequest(ctx context.Context, reqURL string, notFound *catalog.ErrNotFound) ([]byte, error) {
	if err := a.limiter.Wait(ctx, a.instance.Name); err != nil {
		return nil, a.unavailable(fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent())
	req.Header.Set("Accept", "application/json")

	a.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := a.client.Do(req) //nolint:gosec // URL built from configured API base
	if err != nil {
		return nil, a.unavailable(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, notFound
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, a.unavailable(fmt.Errorf("unexpected HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, a.unavailable(fmt.Errorf("reading body: %w", err))
	}
	return body, nil
}

func (a *Adapter) unavailable(cause error) error {
	return &catalog.ErrRemoteUnavailable{Instance: a.instance.Name, Cause: cause}
}

func isNull(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func langOrDefault(lang string) string {
	if lang == "" {
		return "Default"
	}
	return lang
}

func userAgent() string {
	return fmt.Sprintf("vocasync/%s (+https://github.com/sydlexius/vocasync)", version.Version)
}
