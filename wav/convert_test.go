package wav

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSamplePath(t *testing.T) {
	tests := map[string]string{
		"tmp/temp_abc123.ogg": "temp_abc123_",
		"/music/song.mp4":     "song_",
		"temp_noext":          "temp_noext_",
		"../other/a.b.c.flac": "a.b.c_",
	}
	for in, prefix := range tests {
		got := SamplePath("scratch", in)
		if filepath.Dir(got) != "scratch" {
			t.Errorf("SamplePath(%q) = %q, not in scratch dir", in, got)
		}
		name := filepath.Base(got)
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".sample.wav") {
			t.Errorf("SamplePath(%q) = %q, want %s*.sample.wav", in, got, prefix)
		}
	}

	if SamplePath("scratch", "song.mp3") == SamplePath("scratch", "song.mp3") {
		t.Error("two samples of one input share a path")
	}
}

func TestExtractSampleMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := ExtractSample(context.Background(), filepath.Join(dir, "missing.ogg"), filepath.Join(dir, "out.wav"), 20)
	if err == nil {
		t.Error("expected error for missing input")
	}
}

func TestExtractSampleInvalidDuration(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ogg")
	if err := writeFile(in); err != nil {
		t.Fatal(err)
	}
	if err := ExtractSample(context.Background(), in, filepath.Join(dir, "out.wav"), 0); err == nil {
		t.Error("expected error for zero duration")
	}
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("OggS"), 0o644)
}
