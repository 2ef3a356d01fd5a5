package tags

import (
	"os"
	"path/filepath"
	"testing"
)

func TestQuery(t *testing.T) {
	tests := []struct {
		tags Tags
		want string
	}{
		{Tags{Title: "Bohemian Rhapsody", Artist: "Queen"}, "Queen Bohemian Rhapsody"},
		{Tags{Title: "Untitled"}, "Untitled"},
		{Tags{Artist: "Queen"}, ""},
		{Tags{}, ""},
	}
	for _, tt := range tests {
		if got := tt.tags.Query(); got != tt.want {
			t.Errorf("%+v.Query() = %q, want %q", tt.tags, got, tt.want)
		}
	}
}

func TestFirst(t *testing.T) {
	raw := map[string][]string{"TITLE": {"  ", " Song "}}
	if got := first(raw, "TITLE"); got != "Song" {
		t.Errorf("first = %q, want Song", got)
	}
	if got := first(raw, "ARTIST"); got != "" {
		t.Errorf("first(missing) = %q", got)
	}
}

func TestReadNotAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected error for non-audio file")
	}
}
