package bot

import (
	"context"
	"log/slog"
	"strings"

	"found-music-bot/models"

	"github.com/mdobak/go-xerrors"
)

func (b *Bot) handleText(ctx context.Context, log *slog.Logger, ev models.Event) {
	query := strings.TrimSpace(ev.Text)
	b.send(ctx, log, ev.ChatID, fillQuery(b.msgs.Searching, query))

	results, err := b.recognizer.SearchByText(ctx, query, 1)
	if err != nil {
		log.ErrorContext(ctx, "text search failed", slog.String("query", query), slog.Any("error", xerrors.New(err)))
		b.send(ctx, log, ev.ChatID, b.msgs.Failure)
		b.record(ctx, log, ev.ChatID, KindText, query, models.OutcomeFailed, nil)
		return
	}

	if len(results) == 0 {
		log.InfoContext(ctx, "no search results", slog.String("query", query))
		b.send(ctx, log, ev.ChatID, b.msgs.NoResults)
		b.record(ctx, log, ev.ChatID, KindText, query, models.OutcomeNotFound, nil)
		return
	}

	best := results[0]
	if err := b.sendTrack(ctx, log, ev.ChatID, best); err != nil {
		log.ErrorContext(ctx, "failed to deliver search result", slog.Any("error", xerrors.New(err)))
		b.send(ctx, log, ev.ChatID, b.msgs.Failure)
		b.record(ctx, log, ev.ChatID, KindText, query, models.OutcomeFailed, nil)
		return
	}

	log.InfoContext(ctx, "search result sent", slog.String("title", best.Title), slog.String("artist", best.Artist))
	b.record(ctx, log, ev.ChatID, KindText, query, models.OutcomeFound, &best)
}
