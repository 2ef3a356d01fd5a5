package shazam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"found-music-bot/models"

	"github.com/tidwall/gjson"
)

// at most this many bytes of a search response are read
const maxResponseSize = 4 << 20

// Client queries the Shazam web search api.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
}

// New creates a search client. Zero fields of cfg fall back to
// DefaultClientConfig.
func New(cfg ClientConfig) *Client {
	def := DefaultClientConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.Country == "" {
		cfg.Country = def.Country
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// Search returns up to limit songs matching query, best match first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.TrackResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	params := url.Values{}
	params.Set("term", query)
	params.Set("numResults", fmt.Sprint(limit))
	params.Set("offset", "0")
	params.Set("types", "songs")
	params.Set("limit", fmt.Sprint(limit))

	reqURL := fmt.Sprintf("%s/services/search/v4/%s/%s/web/search?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(c.cfg.Language),
		url.PathEscape(c.cfg.Country),
		params.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create shazam request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shazam search request failed: %w", err)
	}
	defer resp.Body.Close()

	// no match answers with an empty body
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("shazam search returned %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read shazam response: %w", err)
	}

	results := ParseSearchResponse(body)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ParseSearchResponse extracts songs from a search response body. Both the
// current layout (hits[].track.{title,subtitle,images.coverart}) and the
// legacy one (hits[].heading.{title,subtitle}, hits[].images.default) are
// understood. Hits without title or artist are skipped.
func ParseSearchResponse(body []byte) []models.TrackResult {
	if !gjson.ValidBytes(body) {
		return nil
	}

	hits := gjson.GetBytes(body, "tracks.hits")
	if !hits.IsArray() {
		return nil
	}

	var results []models.TrackResult
	hits.ForEach(func(_, hit gjson.Result) bool {
		if tr, ok := parseHit(hit); ok {
			results = append(results, tr)
		}
		return true
	})
	return results
}

func parseHit(hit gjson.Result) (models.TrackResult, bool) {
	node := hit
	if track := hit.Get("track"); track.IsObject() {
		node = track
	}

	title := firstString(node, "title", "heading.title")
	artist := firstString(node, "subtitle", "heading.subtitle")

	tr, err := models.NewTrackResult(title, artist, models.SourceSearch)
	if err != nil {
		return models.TrackResult{}, false
	}

	tr = tr.WithCoverArt(firstString(node, "images.coverart", "images.coverarthq", "images.default", "share.image"))
	tr = tr.WithExternalURL(firstString(node, "url", "share.href"))
	tr = tr.WithAlbum(node.Get(`sections.#(type=="SONG").metadata.#(title=="Album").text`).String())
	return tr, true
}

func firstString(node gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := node.Get(p); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}
