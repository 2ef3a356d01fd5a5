// Package telegram adapts the Telegram Bot API to the bot's transport
// interface and runs the long polling loop.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"found-music-bot/models"
	"found-music-bot/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mdobak/go-xerrors"
)

const (
	pollTimeout   = 60
	redactedToken = "<token>"
)

// Client wraps a Bot API connection.
type Client struct {
	api          *tgbotapi.BotAPI
	httpClient   *http.Client
	fileEndpoint string
	log          *slog.Logger
}

// New authorizes with token against the public Bot API.
func New(token string) (*Client, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint)
}

// NewWithEndpoint authorizes against a custom Bot API server, e.g. a
// local one. endpoint has the form "http://host/bot%s/%s"; files are then
// downloaded from "http://host/file/bot%s/%s".
func NewWithEndpoint(token, endpoint string) (*Client, error) {
	httpClient := &http.Client{Timeout: 2 * time.Minute}
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, redact(fmt.Errorf("failed to authorize bot: %w", err), token)
	}

	return &Client{
		api:          api,
		httpClient:   httpClient,
		fileEndpoint: fileEndpointFor(endpoint),
		log:          utils.GetLogger().With(slog.String("bot", api.Self.UserName)),
	}, nil
}

func fileEndpointFor(endpoint string) string {
	const apiSuffix = "/bot%s/%s"
	if endpoint == tgbotapi.APIEndpoint || !strings.HasSuffix(endpoint, apiSuffix) {
		return tgbotapi.FileEndpoint
	}
	return strings.TrimSuffix(endpoint, apiSuffix) + "/file" + apiSuffix
}

// redact removes token from the URL carried by a transport error. Bot API
// and file URLs both embed the token in their path.
func redact(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, token, redactedToken)
	}
	return err
}

func (c *Client) token() string {
	if c.api == nil {
		return ""
	}
	return c.api.Token
}

// UserName is the bot's @name.
func (c *Client) UserName() string {
	return c.api.Self.UserName
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func (c *Client) RegisterCommands(commands map[string]string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]tgbotapi.BotCommand, 0, len(names))
	for _, name := range names {
		list = append(list, tgbotapi.BotCommand{Command: name, Description: commands[name]})
	}

	if _, err := c.api.Request(tgbotapi.NewSetMyCommands(list...)); err != nil {
		return redact(fmt.Errorf("failed to register commands: %w", err), c.token())
	}
	return nil
}

// ResolveDownloadRef returns the download URL of fileID on the configured
// Bot API server. The URL contains the bot token.
func (c *Client) ResolveDownloadRef(_ context.Context, fileID string) (string, error) {
	file, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", redact(fmt.Errorf("getFile %s: %w", fileID, err), c.token())
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("getFile %s: no file path returned", fileID)
	}
	return fmt.Sprintf(c.fileEndpoint, c.api.Token, file.FilePath), nil
}

// DownloadTo streams ref into localPath, failing when the body exceeds
// maxBytes. A partial file may remain on error; the caller owns cleanup.
func (c *Client) DownloadTo(ctx context.Context, ref, localPath string, maxBytes int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", redact(err, c.token()))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return redact(fmt.Errorf("download request failed: %w", err), c.token())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %s", resp.Status)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	written, copyErr := io.Copy(out, io.LimitReader(resp.Body, maxBytes+1))
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", localPath, closeErr)
	}
	if written > maxBytes {
		return fmt.Errorf("file exceeds %d bytes", maxBytes)
	}
	return nil
}

func (c *Client) SendText(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := c.api.Send(msg); err != nil {
		return redact(fmt.Errorf("sendMessage to %d: %w", chatID, err), c.token())
	}
	return nil
}

func (c *Client) SendPhoto(_ context.Context, chatID int64, imageURL, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(imageURL))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if _, err := c.api.Send(photo); err != nil {
		return redact(fmt.Errorf("sendPhoto to %d: %w", chatID, err), c.token())
	}
	return nil
}

// Listen long-polls for updates and runs handle for every message in its
// own goroutine. When ctx is cancelled polling stops and Listen waits for
// running handlers, which keep a context that is not cancelled.
func (c *Client) Listen(ctx context.Context, handle func(context.Context, models.Event)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := c.api.GetUpdatesChan(u)

	handlerCtx := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("stopping updates, waiting for running handlers")
			c.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := ToEvent(update.Message)
			if !ok {
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						c.log.Error("update handler panicked",
							slog.Int("update_id", update.UpdateID),
							slog.Any("error", xerrors.New(fmt.Errorf("panic: %v", r))))
					}
				}()
				handle(handlerCtx, ev)
			}()
		}
	}
}

// ToEvent converts a Bot API message. It returns false for updates that
// carry no message.
func ToEvent(m *tgbotapi.Message) (models.Event, bool) {
	if m == nil || m.Chat == nil {
		return models.Event{}, false
	}

	ev := models.Event{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.Voice != nil {
		ev.Voice = &models.FileRef{FileID: m.Voice.FileID, MimeType: m.Voice.MimeType, Size: int64(m.Voice.FileSize)}
	}
	if m.Audio != nil {
		ev.Audio = &models.FileRef{FileID: m.Audio.FileID, FileName: m.Audio.FileName, MimeType: m.Audio.MimeType, Size: int64(m.Audio.FileSize)}
	}
	if m.Video != nil {
		ev.Video = &models.FileRef{FileID: m.Video.FileID, FileName: m.Video.FileName, MimeType: m.Video.MimeType, Size: int64(m.Video.FileSize)}
	}
	if m.VideoNote != nil {
		ev.VideoNote = &models.FileRef{FileID: m.VideoNote.FileID, Size: int64(m.VideoNote.FileSize)}
	}
	if m.Document != nil {
		ev.Document = &models.FileRef{FileID: m.Document.FileID, FileName: m.Document.FileName, MimeType: m.Document.MimeType, Size: int64(m.Document.FileSize)}
	}
	return ev, true
}
