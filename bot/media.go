package bot

import (
	"context"
	"fmt"
	"log/slog"

	"found-music-bot/models"

	"github.com/mdobak/go-xerrors"
)

// handleMedia downloads the event's file into a scratch path, recognizes
// it and replies. The scratch file is gone when it returns.
func (b *Bot) handleMedia(ctx context.Context, log *slog.Logger, requestID string, ev models.Event, c Classification) {
	file := c.File
	log = log.With(slog.String("file_id", file.FileID))

	if file.Size > b.maxFileSize {
		log.InfoContext(ctx, "file too large", slog.Int64("size", file.Size), slog.Int64("limit", b.maxFileSize))
		b.send(ctx, log, ev.ChatID, b.msgs.TooLarge)
		b.record(ctx, log, ev.ChatID, c.Kind, file.FileID, models.OutcomeRejected, nil)
		return
	}

	b.send(ctx, log, ev.ChatID, b.msgs.Listening)

	outcome := models.OutcomeFailed
	var found *models.TrackResult

	err := b.withScratch(log, file.FileID, requestID, c.Ext, func(pm models.PendingMedia) error {
		ref, err := b.transport.ResolveDownloadRef(ctx, pm.SourceFileID)
		if err != nil {
			return fmt.Errorf("failed to resolve file: %w", err)
		}
		if err := b.transport.DownloadTo(ctx, ref, pm.LocalPath, b.maxFileSize); err != nil {
			return fmt.Errorf("failed to download file: %w", err)
		}
		log.DebugContext(ctx, "media downloaded", slog.String("path", pm.LocalPath))

		tr, ok, err := b.recognizer.RecognizeFile(ctx, pm.LocalPath)
		if err != nil {
			return err
		}
		if !ok {
			outcome = models.OutcomeNotFound
			return b.transport.SendText(ctx, ev.ChatID, b.msgs.NotRecognized)
		}

		if err := b.sendTrack(ctx, log, ev.ChatID, tr); err != nil {
			return err
		}
		outcome = models.OutcomeFound
		found = &tr
		return nil
	})
	if err != nil {
		outcome = models.OutcomeFailed
		found = nil
		log.ErrorContext(ctx, "media recognition failed", slog.Any("error", xerrors.New(err)))
		b.send(ctx, log, ev.ChatID, b.msgs.Failure)
	} else if found != nil {
		log.InfoContext(ctx, "media recognized", slog.String("title", found.Title), slog.String("artist", found.Artist))
	} else {
		log.InfoContext(ctx, "media not recognized")
	}

	b.record(ctx, log, ev.ChatID, c.Kind, file.FileID, outcome, found)
}
