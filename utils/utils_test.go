package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mdobak/go-xerrors"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FOUND_TEST_VALUE", "set")
	t.Setenv("FOUND_TEST_BLANK", "   ")

	if got := GetEnv("FOUND_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("GetEnv(set) = %q", got)
	}
	if got := GetEnv("FOUND_TEST_BLANK", "fallback"); got != "fallback" {
		t.Errorf("GetEnv(blank) = %q, want fallback", got)
	}
	if got := GetEnv("FOUND_TEST_MISSING"); got != "" {
		t.Errorf("GetEnv(missing) = %q, want empty", got)
	}
}

func TestDeleteFileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp_x.ogg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := DeleteFile(path); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := DeleteFile(path); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if FileExists(path) {
		t.Error("file still exists")
	}
}

func TestJSONLoggerRendersErrorTrace(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "json", "debug")

	log.Error("download failed", "error", xerrors.New(errors.New("boom")))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	errGroup, ok := line["error"].(map[string]any)
	if !ok {
		t.Fatalf("error attr is not a group: %v", line["error"])
	}
	if errGroup["msg"] != "boom" {
		t.Errorf("msg = %v, want boom", errGroup["msg"])
	}
	if _, ok := errGroup["trace"]; !ok {
		t.Error("missing trace")
	}
}

func TestConsoleLoggerLevelFilter(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	var buf bytes.Buffer
	log := NewLogger(&buf, "text", "warn")

	log.Info("hidden")
	log.With("chat_id", 42).WithGroup("media").Warn("shown", "file_id", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked: %q", out)
	}
	for _, want := range []string{"shown", "chat_id=42", "media.file_id=abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
