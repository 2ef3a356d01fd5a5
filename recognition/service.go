// Package recognition combines text search, file recognition and link
// enrichment into the service the bot talks to.
package recognition

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"found-music-bot/models"
	"found-music-bot/tags"
	"found-music-bot/utils"
	"found-music-bot/wav"

	"github.com/mdobak/go-xerrors"
)

// Searcher finds songs by free text.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.TrackResult, error)
}

// FileRecognizer identifies the song in an audio file.
type FileRecognizer interface {
	Recognize(ctx context.Context, path string) (models.TrackResult, bool, error)
}

// VideoFinder returns a video link for a query, "" when none matches.
type VideoFinder interface {
	VideoURL(ctx context.Context, query string) (string, error)
}

// Options holds the optional parts of a Service.
type Options struct {
	// Videos adds a YouTube link to every result when set.
	Videos VideoFinder
	// SampleSeconds > 0 trims uploads to that many seconds with ffmpeg,
	// when ffmpeg is installed.
	SampleSeconds int
	// ScratchDir receives the trimmed samples. Defaults to os.TempDir().
	ScratchDir string
	// TagFallback searches by embedded tags when recognition finds nothing.
	TagFallback bool
	Logger      *slog.Logger
}

// Service is the recognition collaborator of the bot.
type Service struct {
	searcher      Searcher
	recognizer    FileRecognizer
	videos        VideoFinder
	sampleSeconds int
	scratchDir    string
	log           *slog.Logger

	extractSample func(ctx context.Context, in, out string, seconds int) error
	readTags      func(path string) (tags.Tags, error)
}

func New(searcher Searcher, recognizer FileRecognizer, opts Options) *Service {
	s := &Service{
		searcher:      searcher,
		recognizer:    recognizer,
		videos:        opts.Videos,
		sampleSeconds: opts.SampleSeconds,
		scratchDir:    opts.ScratchDir,
		log:           opts.Logger,
	}
	if s.scratchDir == "" {
		s.scratchDir = os.TempDir()
	}
	if s.log == nil {
		s.log = utils.GetLogger()
	}
	if opts.SampleSeconds > 0 && wav.Available() {
		s.extractSample = wav.ExtractSample
	}
	if opts.TagFallback {
		s.readTags = tags.Read
	}
	return s
}

// SearchByText returns up to limit matches for query.
func (s *Service) SearchByText(ctx context.Context, query string, limit int) ([]models.TrackResult, error) {
	results, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("text search failed: %w", err)
	}
	for i := range results {
		results[i] = s.enrich(ctx, results[i])
	}
	return results, nil
}

// RecognizeFile identifies the song in the media file at path. Any
// intermediate sample it creates is removed before returning.
func (s *Service) RecognizeFile(ctx context.Context, path string) (models.TrackResult, bool, error) {
	upload := path
	if s.extractSample != nil {
		samplePath := wav.SamplePath(s.scratchDir, path)
		defer utils.DeleteFile(samplePath)

		if err := s.extractSample(ctx, path, samplePath, s.sampleSeconds); err != nil {
			s.log.WarnContext(ctx, "sample extraction failed, uploading original",
				slog.String("path", path), slog.Any("error", xerrors.New(err)))
		} else {
			upload = samplePath
		}
	}

	tr, found, err := s.recognizer.Recognize(ctx, upload)
	if err != nil {
		return models.TrackResult{}, false, fmt.Errorf("file recognition failed: %w", err)
	}
	if !found {
		tr, found = s.searchByTags(ctx, path)
		if !found {
			return models.TrackResult{}, false, nil
		}
	}

	return s.enrich(ctx, tr), true, nil
}

func (s *Service) searchByTags(ctx context.Context, path string) (models.TrackResult, bool) {
	if s.readTags == nil {
		return models.TrackResult{}, false
	}

	t, err := s.readTags(path)
	if err != nil || t.Query() == "" {
		return models.TrackResult{}, false
	}

	s.log.DebugContext(ctx, "recognition empty, searching by embedded tags", slog.String("query", t.Query()))
	results, err := s.searcher.Search(ctx, t.Query(), 1)
	if err != nil {
		s.log.WarnContext(ctx, "tag search failed", slog.Any("error", xerrors.New(err)))
		return models.TrackResult{}, false
	}
	if len(results) == 0 {
		return models.TrackResult{}, false
	}

	tr := results[0]
	tr.Source = models.SourceRecognition
	return tr, true
}

func (s *Service) enrich(ctx context.Context, tr models.TrackResult) models.TrackResult {
	if s.videos == nil || tr.YouTubeURL != "" {
		return tr
	}

	link, err := s.videos.VideoURL(ctx, tr.Artist+" "+tr.Title)
	if err != nil {
		s.log.WarnContext(ctx, "youtube lookup failed", slog.Any("error", xerrors.New(err)))
		return tr
	}
	return tr.WithYouTubeURL(link)
}
