package bot

import (
	"context"

	"found-music-bot/models"
)

// Transport is the chat platform as seen by the handlers.
type Transport interface {
	// ResolveDownloadRef turns a file id into something DownloadTo accepts.
	ResolveDownloadRef(ctx context.Context, fileID string) (string, error)
	// DownloadTo writes at most maxBytes of the referenced file to localPath.
	DownloadTo(ctx context.Context, ref, localPath string, maxBytes int64) error
	// SendText sends an HTML formatted message.
	SendText(ctx context.Context, chatID int64, text string) error
	// SendPhoto sends an image by url with an HTML formatted caption.
	SendPhoto(ctx context.Context, chatID int64, imageURL, caption string) error
}

// Recognizer identifies music from text or from a local media file.
type Recognizer interface {
	SearchByText(ctx context.Context, query string, limit int) ([]models.TrackResult, error)
	RecognizeFile(ctx context.Context, path string) (models.TrackResult, bool, error)
}

// History stores handled lookups. It is optional.
type History interface {
	Record(ctx context.Context, l models.Lookup) error
	Stats(ctx context.Context, chatID int64) (models.LookupStats, error)
}
