// Package audd recognizes music in audio files through the AudD api.
package audd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"found-music-bot/models"

	"github.com/buger/jsonparser"
)

const maxResponseSize = 1 << 20

// Client uploads audio samples to AudD.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// New creates a client. An empty token uses AudD's anonymous quota.
func New(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiURL:     "https://api.audd.io/",
		token:      token,
	}
}

// Recognize uploads the file at path. The boolean is false when the
// service ran but did not find a match.
func (c *Client) Recognize(ctx context.Context, path string) (models.TrackResult, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("failed to open sample: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if c.token != "" {
		if err := mw.WriteField("api_token", c.token); err != nil {
			return models.TrackResult{}, false, fmt.Errorf("failed to write api_token field: %w", err)
		}
	}
	if err := mw.WriteField("return", "apple_music,spotify"); err != nil {
		return models.TrackResult{}, false, fmt.Errorf("failed to write return field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return models.TrackResult{}, false, fmt.Errorf("failed to copy sample into form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.TrackResult{}, false, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("failed to create audd request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("audd request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("failed to read audd response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.TrackResult{}, false, fmt.Errorf("audd returned %d: %s", resp.StatusCode, truncate(data, 256))
	}

	return ParseResponse(data)
}

// ParseResponse turns an AudD response body into a track. A null or
// incomplete result is reported as not found; status "error" is an error.
func ParseResponse(data []byte) (models.TrackResult, bool, error) {
	status, err := jsonparser.GetString(data, "status")
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("malformed audd response: %w", err)
	}

	if status != "success" {
		code, _ := jsonparser.GetInt(data, "error", "error_code")
		msg, _ := jsonparser.GetString(data, "error", "error_message")
		if msg == "" {
			msg = "unknown error"
		}
		return models.TrackResult{}, false, fmt.Errorf("audd error %d: %s", code, msg)
	}

	result, dataType, _, err := jsonparser.Get(data, "result")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || dataType == jsonparser.Null {
		return models.TrackResult{}, false, nil
	}
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("malformed audd result: %w", err)
	}
	if dataType != jsonparser.Object {
		return models.TrackResult{}, false, nil
	}

	title, _ := jsonparser.GetString(result, "title")
	artist, _ := jsonparser.GetString(result, "artist")

	tr, err := models.NewTrackResult(title, artist, models.SourceRecognition)
	if err != nil {
		return models.TrackResult{}, false, nil
	}

	album, _ := jsonparser.GetString(result, "album")
	link, _ := jsonparser.GetString(result, "song_link")

	return tr.WithAlbum(album).WithExternalURL(link).WithCoverArt(coverArt(result)), true, nil
}

// coverArt prefers Apple Music artwork, then the first Spotify album image.
func coverArt(result []byte) string {
	if u, err := jsonparser.GetString(result, "apple_music", "artwork", "url"); err == nil && u != "" {
		u = strings.ReplaceAll(u, "{w}", "600")
		return strings.ReplaceAll(u, "{h}", "600")
	}
	if u, err := jsonparser.GetString(result, "spotify", "album", "images", "[0]", "url"); err == nil {
		return u
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
