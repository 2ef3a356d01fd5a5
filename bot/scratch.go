package bot

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"path/filepath"
	"strings"

	"found-music-bot/models"
	"found-music-bot/utils"

	"github.com/mdobak/go-xerrors"
)

// ScratchPath returns the scratch location for fileID within request
// requestID. Distinct ids always give distinct paths; the request part
// keeps two requests for the same file apart.
func ScratchPath(dir, fileID, requestID, ext string) string {
	name := "temp_" + safeID(fileID)
	if requestID != "" {
		name += "_" + safeID(requestID)
	}
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(dir, name)
}

func safeID(id string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	if clean == id && id != "" {
		return id
	}
	// keep ids that differ only in replaced characters apart
	h := fnv.New32a()
	h.Write([]byte(id))
	return fmt.Sprintf("%s_%08x", clean, h.Sum32())
}

// withScratch runs body with a PendingMedia for fileID and removes its
// local file afterwards, whatever body returns or if it panics.
func (b *Bot) withScratch(log *slog.Logger, fileID, requestID, ext string, body func(models.PendingMedia) error) error {
	pm := models.PendingMedia{
		SourceFileID: fileID,
		Extension:    ext,
		LocalPath:    ScratchPath(b.scratchDir, fileID, requestID, ext),
	}

	defer func() {
		if err := utils.DeleteFile(pm.LocalPath); err != nil {
			log.Error("failed to remove scratch file",
				slog.String("path", pm.LocalPath), slog.Any("error", xerrors.New(err)))
		}
	}()

	if err := utils.CreateFolder(b.scratchDir); err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}

	return body(pm)
}
