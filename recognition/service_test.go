package recognition

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"found-music-bot/models"
	"found-music-bot/tags"
	"found-music-bot/utils"
)

type fakeSearcher struct {
	results []models.TrackResult
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]models.TrackResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	out := append([]models.TrackResult(nil), f.results...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRecognizer struct {
	result   models.TrackResult
	found    bool
	err      error
	uploaded string
}

func (f *fakeRecognizer) Recognize(_ context.Context, path string) (models.TrackResult, bool, error) {
	f.uploaded = path
	return f.result, f.found, f.err
}

type fakeVideos struct {
	url string
	err error
}

func (f fakeVideos) VideoURL(context.Context, string) (string, error) {
	return f.url, f.err
}

func track(t *testing.T, title, artist string, src models.Source) models.TrackResult {
	t.Helper()
	tr, err := models.NewTrackResult(title, artist, src)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func quietOptions() Options {
	return Options{Logger: utils.NewLogger(&bytes.Buffer{}, "text", "error")}
}

func TestSearchByTextEnriches(t *testing.T) {
	searcher := &fakeSearcher{results: []models.TrackResult{track(t, "Bohemian Rhapsody", "Queen", models.SourceSearch)}}
	opts := quietOptions()
	opts.Videos = fakeVideos{url: "https://www.youtube.com/watch?v=x"}

	s := New(searcher, &fakeRecognizer{}, opts)
	results, err := s.SearchByText(context.Background(), "Bohemian Rhapsody", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].YouTubeURL != "https://www.youtube.com/watch?v=x" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSearchByTextEnrichmentErrorIgnored(t *testing.T) {
	searcher := &fakeSearcher{results: []models.TrackResult{track(t, "Song", "Band", models.SourceSearch)}}
	opts := quietOptions()
	opts.Videos = fakeVideos{err: errors.New("quota")}

	s := New(searcher, &fakeRecognizer{}, opts)
	results, err := s.SearchByText(context.Background(), "Song", 1)
	if err != nil || len(results) != 1 || results[0].YouTubeURL != "" {
		t.Errorf("results = %+v, err = %v", results, err)
	}
}

func TestSearchByTextError(t *testing.T) {
	s := New(&fakeSearcher{err: errors.New("timeout")}, &fakeRecognizer{}, quietOptions())
	if _, err := s.SearchByText(context.Background(), "Song", 1); err == nil {
		t.Error("expected error")
	}
}

func TestRecognizeFileUsesSampleAndCleansUp(t *testing.T) {
	inputDir, scratchDir := t.TempDir(), t.TempDir()
	input := filepath.Join(inputDir, "song.mp3")
	os.WriteFile(input, []byte("ID3"), 0o644)
	// a file the user already had next to the input
	neighbour := filepath.Join(inputDir, "song.sample.wav")
	os.WriteFile(neighbour, []byte("mine"), 0o644)

	rec := &fakeRecognizer{result: track(t, "Song", "Band", models.SourceRecognition), found: true}
	opts := quietOptions()
	opts.ScratchDir = scratchDir
	s := New(&fakeSearcher{}, rec, opts)
	s.sampleSeconds = 20
	s.extractSample = func(_ context.Context, in, out string, seconds int) error {
		if in != input || seconds != 20 {
			t.Errorf("extract(%q, %d)", in, seconds)
		}
		return os.WriteFile(out, []byte("RIFF"), 0o644)
	}

	tr, found, err := s.RecognizeFile(context.Background(), input)
	if err != nil || !found || tr.Title != "Song" {
		t.Fatalf("RecognizeFile = %+v, %v, %v", tr, found, err)
	}
	if filepath.Dir(rec.uploaded) != scratchDir || !strings.HasSuffix(rec.uploaded, ".sample.wav") {
		t.Errorf("uploaded %q, want a sample in %s", rec.uploaded, scratchDir)
	}
	if utils.FileExists(rec.uploaded) {
		t.Error("sample file left behind")
	}
	if data, err := os.ReadFile(neighbour); err != nil || string(data) != "mine" {
		t.Errorf("file next to the input changed: %q, %v", data, err)
	}
	if entries, _ := os.ReadDir(inputDir); len(entries) != 2 {
		t.Errorf("input dir has %d entries, want 2", len(entries))
	}
}

func TestRecognizeFileSampleFailureUploadsOriginal(t *testing.T) {
	input := filepath.Join(t.TempDir(), "temp_abc123.mp4")
	os.WriteFile(input, []byte("ftyp"), 0o644)

	rec := &fakeRecognizer{}
	opts := quietOptions()
	opts.ScratchDir = t.TempDir()
	s := New(&fakeSearcher{}, rec, opts)
	s.sampleSeconds = 20
	s.extractSample = func(context.Context, string, string, int) error {
		return errors.New("ffmpeg exploded")
	}

	_, found, err := s.RecognizeFile(context.Background(), input)
	if err != nil || found {
		t.Fatalf("found = %v, err = %v", found, err)
	}
	if rec.uploaded != input {
		t.Errorf("uploaded %q, want original", rec.uploaded)
	}
}

func TestRecognizeFileTagFallback(t *testing.T) {
	searcher := &fakeSearcher{results: []models.TrackResult{track(t, "Bohemian Rhapsody", "Queen", models.SourceSearch)}}
	s := New(searcher, &fakeRecognizer{}, quietOptions())
	s.readTags = func(string) (tags.Tags, error) {
		return tags.Tags{Title: "Bohemian Rhapsody", Artist: "Queen"}, nil
	}

	tr, found, err := s.RecognizeFile(context.Background(), "tmp/temp_x.mp3")
	if err != nil || !found {
		t.Fatalf("found = %v, err = %v", found, err)
	}
	if tr.Source != models.SourceRecognition {
		t.Errorf("Source = %v, want recognition", tr.Source)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "Queen Bohemian Rhapsody" {
		t.Errorf("queries = %v", searcher.queries)
	}
}

func TestRecognizeFileEmptyWithoutTags(t *testing.T) {
	searcher := &fakeSearcher{}
	s := New(searcher, &fakeRecognizer{}, quietOptions())
	s.readTags = func(string) (tags.Tags, error) { return tags.Tags{}, errors.New("no tags") }

	_, found, err := s.RecognizeFile(context.Background(), "tmp/temp_x.ogg")
	if err != nil || found {
		t.Errorf("found = %v, err = %v", found, err)
	}
	if len(searcher.queries) != 0 {
		t.Errorf("unexpected search: %v", searcher.queries)
	}
}

func TestRecognizeFileError(t *testing.T) {
	s := New(&fakeSearcher{}, &fakeRecognizer{err: errors.New("503")}, quietOptions())
	if _, _, err := s.RecognizeFile(context.Background(), "tmp/temp_x.ogg"); err == nil {
		t.Error("expected error")
	}
}
