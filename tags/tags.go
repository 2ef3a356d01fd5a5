// Package tags reads the embedded title and artist of audio files.
package tags

import (
	"fmt"
	"strings"

	"go.senan.xyz/taglib"
)

// Tags holds the identifying fields of an audio file.
type Tags struct {
	Title  string
	Artist string
}

// Query returns a search query built from the tags, or "" when there is
// no title to search for.
func (t Tags) Query() string {
	if t.Title == "" {
		return ""
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " " + t.Title
}

// Read returns the tags of the audio file at path.
func Read(path string) (Tags, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	artist := first(raw, taglib.Artist)
	if artist == "" {
		artist = first(raw, taglib.AlbumArtist)
	}

	return Tags{
		Title:  first(raw, taglib.Title),
		Artist: artist,
	}, nil
}

func first(tags map[string][]string, key string) string {
	for _, v := range tags[key] {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
