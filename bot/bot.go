package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"found-music-bot/config"
	"found-music-bot/models"
	"found-music-bot/utils"

	"github.com/mdobak/go-xerrors"
)

// Options configures a Bot. Zero values fall back to config.DefaultConfig.
type Options struct {
	ScratchDir  string
	MaxFileSize int64
	Messages    config.Messages
	History     History
	Logger      *slog.Logger
}

// Bot handles inbound events. It holds no per-request state, so Handle
// may be called from many goroutines at once.
type Bot struct {
	transport   Transport
	recognizer  Recognizer
	history     History
	msgs        config.Messages
	scratchDir  string
	maxFileSize int64
	log         *slog.Logger
}

func New(transport Transport, recognizer Recognizer, opts Options) *Bot {
	def := config.DefaultConfig()
	if opts.ScratchDir == "" {
		opts.ScratchDir = def.ScratchDir
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = def.MaxFileSize
	}
	if opts.Messages == (config.Messages{}) {
		opts.Messages = def.Messages
	}
	if opts.Logger == nil {
		opts.Logger = utils.GetLogger()
	}

	return &Bot{
		transport:   transport,
		recognizer:  recognizer,
		history:     opts.History,
		msgs:        opts.Messages,
		scratchDir:  opts.ScratchDir,
		maxFileSize: opts.MaxFileSize,
		log:         opts.Logger,
	}
}

// Handle processes one event. Errors and panics are reported to the user
// as a generic failure and logged; they never escape.
func (b *Bot) Handle(ctx context.Context, ev models.Event) {
	c := Classify(ev)
	if c.Kind == KindIgnored {
		return
	}

	requestID := utils.GenerateRequestID()
	log := b.log.With(
		slog.String("request_id", requestID),
		slog.Int64("chat_id", ev.ChatID),
		slog.String("kind", c.Kind.String()),
	)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "handler panicked", slog.Any("error", xerrors.New(fmt.Errorf("panic: %v", r))))
			b.send(ctx, log, ev.ChatID, b.msgs.Failure)
		}
	}()

	switch c.Kind {
	case KindCommand:
		b.handleCommand(ctx, log, ev, c.Command)
	case KindVoice, KindAudio, KindVideo, KindMediaDocument:
		b.handleMedia(ctx, log, requestID, ev, c)
	case KindUnsupportedDocument:
		log.InfoContext(ctx, "rejected document", slog.String("mime_type", c.File.MimeType))
		b.send(ctx, log, ev.ChatID, b.msgs.NotMusicFile)
		b.record(ctx, log, ev.ChatID, c.Kind, c.File.FileID, models.OutcomeRejected, nil)
	case KindText:
		b.handleText(ctx, log, ev)
	}

	log.DebugContext(ctx, "event handled", slog.Duration("took", time.Since(start)))
}

func (b *Bot) handleCommand(ctx context.Context, log *slog.Logger, ev models.Event, cmd string) {
	switch cmd {
	case "start", "help":
		b.send(ctx, log, ev.ChatID, b.msgs.Start)
	case "stats":
		if b.history == nil {
			b.send(ctx, log, ev.ChatID, b.msgs.StatsOff)
			return
		}
		stats, err := b.history.Stats(ctx, ev.ChatID)
		if err != nil {
			log.ErrorContext(ctx, "failed to read stats", slog.Any("error", xerrors.New(err)))
			b.send(ctx, log, ev.ChatID, b.msgs.Failure)
			return
		}
		b.send(ctx, log, ev.ChatID, FormatStats(stats))
	}
}

// sendTrack sends tr as a photo when it has cover art, as text otherwise.
// A photo the platform refuses is retried as text.
func (b *Bot) sendTrack(ctx context.Context, log *slog.Logger, chatID int64, tr models.TrackResult) error {
	reply := FormatTrack(tr, b.msgs)

	if reply.ImageURL != "" {
		err := b.transport.SendPhoto(ctx, chatID, reply.ImageURL, reply.Caption)
		if err == nil {
			return nil
		}
		log.WarnContext(ctx, "failed to send photo, falling back to text",
			slog.String("image_url", reply.ImageURL), slog.Any("error", xerrors.New(err)))
	}

	if err := b.transport.SendText(ctx, chatID, reply.Caption); err != nil {
		return fmt.Errorf("failed to send result: %w", err)
	}
	return nil
}

// send delivers a notice; failures are only logged.
func (b *Bot) send(ctx context.Context, log *slog.Logger, chatID int64, text string) {
	if err := b.transport.SendText(ctx, chatID, text); err != nil {
		log.ErrorContext(ctx, "failed to send message", slog.Any("error", xerrors.New(err)))
	}
}

func (b *Bot) record(ctx context.Context, log *slog.Logger, chatID int64, kind Kind, input, outcome string, tr *models.TrackResult) {
	if b.history == nil {
		return
	}

	l := models.Lookup{
		ChatID:    chatID,
		Kind:      kind.String(),
		Input:     truncate(input, 256),
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
	if tr != nil {
		l.Title = tr.Title
		l.Artist = tr.Artist
	}

	if err := b.history.Record(ctx, l); err != nil {
		log.WarnContext(ctx, "failed to record lookup", slog.Any("error", xerrors.New(err)))
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
