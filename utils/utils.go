package utils

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
)

// GetEnv returns the value of key, or fallback when it is unset or blank.
func GetEnv(key string, fallback ...string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

func CreateFolder(folderPath string) error {
	return os.MkdirAll(folderPath, 0o755)
}

// DeleteFile removes path. A file that is already gone is not an error.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// GenerateRequestID returns a fresh id used to correlate log lines of one
// inbound event.
func GenerateRequestID() string {
	return uuid.NewString()
}
