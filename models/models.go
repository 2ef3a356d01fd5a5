package models

import (
	"errors"
	"strings"
	"time"
)

// Source tells where a TrackResult came from.
type Source int

const (
	SourceSearch Source = iota
	SourceRecognition
)

func (s Source) String() string {
	if s == SourceRecognition {
		return "recognition"
	}
	return "search"
}

// TrackResult is a normalized track identity returned by a search or a
// file recognition. Build it with NewTrackResult.
type TrackResult struct {
	Title       string
	Artist      string
	Album       string
	CoverArtURL string
	ExternalURL string
	YouTubeURL  string
	Source      Source
}

var errIncompleteTrack = errors.New("track result needs both title and artist")

// NewTrackResult validates the mandatory fields and trims every value.
// Optional fields may be empty.
func NewTrackResult(title, artist string, src Source) (TrackResult, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" || artist == "" {
		return TrackResult{}, errIncompleteTrack
	}
	return TrackResult{Title: title, Artist: artist, Source: src}, nil
}

// WithCoverArt returns a copy with the cover art url set when it looks
// like an absolute http(s) url.
func (t TrackResult) WithCoverArt(u string) TrackResult {
	t.CoverArtURL = cleanURL(u)
	return t
}

func (t TrackResult) WithExternalURL(u string) TrackResult {
	t.ExternalURL = cleanURL(u)
	return t
}

func (t TrackResult) WithYouTubeURL(u string) TrackResult {
	t.YouTubeURL = cleanURL(u)
	return t
}

func (t TrackResult) WithAlbum(album string) TrackResult {
	t.Album = strings.TrimSpace(album)
	return t
}

func cleanURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return ""
}

// PendingMedia is a scratch copy of user media owned by one handler call.
type PendingMedia struct {
	SourceFileID string
	LocalPath    string
	Extension    string
}

// FileRef describes a media attachment of an inbound event.
type FileRef struct {
	FileID   string
	FileName string
	MimeType string
	Size     int64
}

// Event is an inbound chat message stripped of transport specifics.
type Event struct {
	ChatID    int64
	MessageID int
	Text      string
	Voice     *FileRef
	Audio     *FileRef
	Video     *FileRef
	VideoNote *FileRef
	Document  *FileRef
}

// Lookup outcomes stored in the history.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Lookup is one handled request, kept only by the optional history store.
type Lookup struct {
	ChatID    int64     `bson:"chat_id"`
	Kind      string    `bson:"kind"`
	Input     string    `bson:"input"`
	Outcome   string    `bson:"outcome"`
	Title     string    `bson:"title,omitempty"`
	Artist    string    `bson:"artist,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// LookupStats aggregates lookups per outcome.
type LookupStats struct {
	Total    int
	Found    int
	NotFound int
	Failed   int
	Rejected int
}
