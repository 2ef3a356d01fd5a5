package bot

import (
	"fmt"
	"html"
	"strings"

	"found-music-bot/config"
	"found-music-bot/models"
)

// A photo caption may carry 1024 visible characters, markup excluded. The
// heading and field limits plus the fixed labels stay below that.
const (
	maxCaptionRunes = 1024
	maxHeadingRunes = 100
	maxFieldRunes   = 250
)

// Reply is a formatted track ready to be sent.
type Reply struct {
	Caption     string
	ImageURL    string
	ExternalURL string
}

// FormatTrack renders tr as an HTML caption. Missing optional fields are
// left out, never replaced by placeholders.
func FormatTrack(tr models.TrackResult, msgs config.Messages) Reply {
	heading := msgs.FoundHeading
	if tr.Source == models.SourceRecognition {
		heading = msgs.RecognizedHeading
	}

	var b strings.Builder
	b.WriteString(clipEscaped(heading, maxHeadingRunes))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🎤 Artist: <b>%s</b>\n", escapeField(tr.Artist))
	fmt.Fprintf(&b, "🎼 Track: <b>%s</b>", escapeField(tr.Title))
	if tr.Album != "" {
		fmt.Fprintf(&b, "\n💿 Album: %s", escapeField(tr.Album))
	}

	if tr.ExternalURL != "" || tr.YouTubeURL != "" {
		b.WriteString("\n")
	}
	if tr.ExternalURL != "" {
		fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">Listen</a>", html.EscapeString(tr.ExternalURL))
	}
	if tr.YouTubeURL != "" {
		fmt.Fprintf(&b, "\n▶️ <a href=\"%s\">YouTube</a>", html.EscapeString(tr.YouTubeURL))
	}

	return Reply{
		Caption:     b.String(),
		ImageURL:    tr.CoverArtURL,
		ExternalURL: tr.ExternalURL,
	}
}

// FormatStats renders lookup totals for /stats.
func FormatStats(s models.LookupStats) string {
	return fmt.Sprintf("📊 Lookups: <b>%d</b>\n✅ Found: %d\n❔ Not found: %d\n⚠️ Failed: %d\n🚫 Rejected: %d",
		s.Total, s.Found, s.NotFound, s.Failed, s.Rejected)
}

func escapeField(s string) string {
	return clipEscaped(s, maxFieldRunes)
}

// clipEscaped cuts s to n runes before escaping, so entities are never
// split.
func clipEscaped(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		s = string(r[:n-1]) + "…"
	}
	return html.EscapeString(s)
}

// fillQuery puts the escaped query into a notice template containing %s.
func fillQuery(tmpl, query string) string {
	if !strings.Contains(tmpl, "%s") {
		return tmpl
	}
	return strings.Replace(tmpl, "%s", html.EscapeString(query), 1)
}
