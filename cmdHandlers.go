package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"found-music-bot/audd"
	"found-music-bot/bot"
	"found-music-bot/config"
	"found-music-bot/db"
	"found-music-bot/models"
	"found-music-bot/recognition"
	"found-music-bot/shazam"
	"found-music-bot/telegram"
	"found-music-bot/utils"
	"found-music-bot/wav"
	"found-music-bot/youtube"

	"github.com/mdobak/go-xerrors"
)

const searchLimit = 5

func run(cfg config.Config) {
	logger := utils.GetLogger()

	if err := cfg.ValidateBot(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}
	if cfg.AuddToken == "" {
		logger.Warn("AUDD_API_TOKEN is not set, file recognition will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := newRecognitionService(ctx, cfg)
	if err != nil {
		logger.Error("failed to set up recognition", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}

	history, err := db.NewHistoryClient(ctx, cfg.DBType, cfg.DBPath, cfg.MongoURI)
	if err != nil {
		logger.Error("failed to open lookup history", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}

	opts := bot.Options{
		ScratchDir:  cfg.ScratchDir,
		MaxFileSize: cfg.MaxFileSize,
		Messages:    cfg.Messages,
		Logger:      logger,
	}
	if history != nil {
		defer history.Close()
		opts.History = history
	}

	tg, err := telegram.New(cfg.BotToken)
	if err != nil {
		logger.Error("failed to connect to telegram", slog.Any("error", xerrors.New(err)))
		os.Exit(1)
	}
	if err := tg.RegisterCommands(bot.Commands); err != nil {
		logger.Warn("failed to register bot commands", slog.Any("error", xerrors.New(err)))
	}

	b := bot.New(tg, service, opts)

	logger.Info("bot started",
		slog.String("username", tg.UserName()),
		slog.String("scratch_dir", cfg.ScratchDir),
		slog.String("history", cfg.DBType))
	tg.Listen(ctx, b.Handle)
	logger.Info("bot stopped")
}

func find(cfg config.Config, filePath string) {
	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Println("error reading file:", err)
		return
	}
	if info.Size() > cfg.MaxFileSize {
		fmt.Printf("file is %s, the bot accepts at most %s\n",
			formatBytes(info.Size()), formatBytes(cfg.MaxFileSize))
	}

	ctx := context.Background()
	if wav.Available() {
		if dur, err := wav.GetAudioDuration(ctx, filePath); err == nil {
			fmt.Printf("duration: %.0f seconds\n", dur)
		}
	}

	service, err := newRecognitionService(ctx, cfg)
	if err != nil {
		fmt.Println("error setting up recognition:", err)
		return
	}

	start := time.Now()
	tr, found, err := service.RecognizeFile(ctx, filePath)
	if err != nil {
		fmt.Println("error recognizing file:", err)
		return
	}
	if !found {
		fmt.Println("\nno match found.")
		fmt.Printf("\nsearch took: %s\n", time.Since(start))
		return
	}

	fmt.Printf("\nsearch took: %s\n", time.Since(start))
	fmt.Printf("\nfinal prediction: %s by %s\n", tr.Title, tr.Artist)
	printTrack(tr)
}

func search(cfg config.Config, query string) {
	ctx := context.Background()
	service, err := newRecognitionService(ctx, cfg)
	if err != nil {
		fmt.Println("error setting up search:", err)
		return
	}

	results, err := service.SearchByText(ctx, query, searchLimit)
	if err != nil {
		fmt.Println("error searching:", err)
		return
	}
	if len(results) == 0 {
		fmt.Println("no results.")
		return
	}

	fmt.Println("matches:")
	for _, tr := range results {
		fmt.Printf("\t- %s by %s\n", tr.Title, tr.Artist)
	}
	fmt.Printf("\nbest match: %s by %s\n", results[0].Title, results[0].Artist)
	printTrack(results[0])
}

func stats(cfg config.Config, chatID int64) {
	if cfg.DBType == "" {
		fmt.Println("lookup history is disabled, set DB_TYPE to sqlite or mongo")
		os.Exit(1)
	}

	ctx := context.Background()
	history, err := db.NewHistoryClient(ctx, cfg.DBType, cfg.DBPath, cfg.MongoURI)
	if err != nil {
		fmt.Println("error opening lookup history:", err)
		os.Exit(1)
	}
	defer history.Close()

	s, err := history.Stats(ctx, chatID)
	if err != nil {
		fmt.Println("error reading lookup history:", err)
		return
	}

	if chatID != 0 {
		fmt.Printf("chat %d\n", chatID)
	}
	fmt.Printf("lookups:   %d\n", s.Total)
	fmt.Printf("found:     %d\n", s.Found)
	fmt.Printf("not found: %d\n", s.NotFound)
	fmt.Printf("failed:    %d\n", s.Failed)
	fmt.Printf("rejected:  %d\n", s.Rejected)
}

// newRecognitionService wires the search, recognition and video clients
// from cfg. YouTube enrichment is only added when a key is configured.
func newRecognitionService(ctx context.Context, cfg config.Config) (*recognition.Service, error) {
	shazamCfg := shazam.DefaultClientConfig()
	shazamCfg.Language = cfg.ShazamLanguage
	shazamCfg.Country = cfg.ShazamCountry

	opts := recognition.Options{
		SampleSeconds: cfg.SampleSeconds,
		ScratchDir:    cfg.ScratchDir,
		TagFallback:   true,
	}
	if cfg.YouTubeAPIKey != "" {
		videos, err := youtube.New(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create youtube client: %w", err)
		}
		opts.Videos = videos
	}

	return recognition.New(shazam.New(shazamCfg), audd.New(cfg.AuddToken), opts), nil
}

func printTrack(tr models.TrackResult) {
	if tr.Album != "" {
		fmt.Println("album:  ", tr.Album)
	}
	if tr.ExternalURL != "" {
		fmt.Println("link:   ", tr.ExternalURL)
	}
	if tr.YouTubeURL != "" {
		fmt.Println("youtube:", tr.YouTubeURL)
	}
	if tr.CoverArtURL != "" {
		fmt.Println("cover:  ", tr.CoverArtURL)
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
