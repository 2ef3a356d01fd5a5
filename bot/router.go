package bot

import (
	"path/filepath"
	"strings"

	"found-music-bot/models"
)

// Kind is the one-shot classification of an inbound event.
type Kind int

const (
	KindIgnored Kind = iota
	KindCommand
	KindVoice
	KindAudio
	KindVideo
	KindMediaDocument
	KindUnsupportedDocument
	KindText
)

var kindNames = map[Kind]string{
	KindIgnored:             "ignored",
	KindCommand:             "command",
	KindVoice:               "voice",
	KindAudio:               "audio",
	KindVideo:               "video",
	KindMediaDocument:       "document",
	KindUnsupportedDocument: "unsupported_document",
	KindText:                "text",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Commands handled by the bot, without the leading slash.
var Commands = map[string]string{
	"start": "How to use the bot",
	"help":  "How to use the bot",
	"stats": "Your lookup statistics",
}

// Classification is the routing decision for one event.
type Classification struct {
	Kind    Kind
	Command string
	File    *models.FileRef
	Ext     string
}

// Classify routes ev. Known commands win, then media by type, then any
// remaining text is searched.
func Classify(ev models.Event) Classification {
	if cmd, ok := parseCommand(ev.Text); ok {
		return Classification{Kind: KindCommand, Command: cmd}
	}

	switch {
	case ev.Voice != nil:
		return Classification{Kind: KindVoice, File: ev.Voice, Ext: "ogg"}
	case ev.Audio != nil:
		return Classification{Kind: KindAudio, File: ev.Audio, Ext: extension(ev.Audio, "mp3")}
	case ev.Video != nil:
		return Classification{Kind: KindVideo, File: ev.Video, Ext: extension(ev.Video, "mp4")}
	case ev.VideoNote != nil:
		return Classification{Kind: KindVideo, File: ev.VideoNote, Ext: "mp4"}
	case ev.Document != nil:
		return classifyDocument(ev.Document)
	}

	if strings.TrimSpace(ev.Text) != "" {
		return Classification{Kind: KindText}
	}
	return Classification{Kind: KindIgnored}
}

func classifyDocument(doc *models.FileRef) Classification {
	mt := strings.ToLower(doc.MimeType)
	switch {
	case strings.Contains(mt, "audio"):
		return Classification{Kind: KindMediaDocument, File: doc, Ext: extension(doc, "mp3")}
	case strings.Contains(mt, "video"):
		return Classification{Kind: KindMediaDocument, File: doc, Ext: extension(doc, "mp4")}
	default:
		return Classification{Kind: KindUnsupportedDocument, File: doc}
	}
}

// parseCommand recognizes "/name", "/name@bot" and "/name args" for the
// names in Commands.
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text[1:])
	if len(name) == 0 {
		return "", false
	}
	cmd, _, _ := strings.Cut(name[0], "@")
	cmd = strings.ToLower(cmd)
	if _, ok := Commands[cmd]; !ok {
		return "", false
	}
	return cmd, true
}

var mimeExtensions = map[string]string{
	"audio/mpeg":       "mp3",
	"audio/mp3":        "mp3",
	"audio/ogg":        "ogg",
	"audio/opus":       "opus",
	"audio/mp4":        "m4a",
	"audio/x-m4a":      "m4a",
	"audio/aac":        "aac",
	"audio/flac":       "flac",
	"audio/x-flac":     "flac",
	"audio/wav":        "wav",
	"audio/x-wav":      "wav",
	"video/mp4":        "mp4",
	"video/quicktime":  "mov",
	"video/webm":       "webm",
	"video/x-matroska": "mkv",
}

// extension picks the scratch extension from the file name, then the mime
// type, then fallback.
func extension(f *models.FileRef, fallback string) string {
	if ext := cleanExt(filepath.Ext(f.FileName)); ext != "" {
		return ext
	}
	mt, _, _ := strings.Cut(strings.ToLower(f.MimeType), ";")
	if ext, ok := mimeExtensions[strings.TrimSpace(mt)]; ok {
		return ext
	}
	return fallback
}

func cleanExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(ext) > 5 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
