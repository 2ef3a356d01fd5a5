package wav

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"found-music-bot/utils"
)

var (
	ffmpegOnce sync.Once
	ffmpegPath string
)

// Available reports whether ffmpeg can be found on PATH.
func Available() bool {
	ffmpegOnce.Do(func() {
		ffmpegPath, _ = exec.LookPath("ffmpeg")
	})
	return ffmpegPath != ""
}

// SamplePath returns a fresh path in dir for the trimmed sample of
// inputPath. The name keeps the input's stem for readability and adds a
// random part, so the input's own directory is never written to.
func SamplePath(dir, inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_"+utils.GenerateRequestID()+".sample.wav")
}

// ExtractSample uses ffmpeg to write the first durationSec seconds of any
// audio or video file as a 16-bit PCM mono WAV at outputPath. Video
// streams are dropped.
func ExtractSample(ctx context.Context, inputPath, outputPath string, durationSec int) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file does not exist: %w", err)
	}
	if durationSec <= 0 {
		return fmt.Errorf("invalid sample duration %d", durationSec)
	}

	cmd := exec.CommandContext(ctx,
		"ffmpeg", "-y",
		"-t", strconv.Itoa(durationSec),
		"-i", inputPath,
		"-vn",
		"-c:a", "pcm_s16le",
		"-ar", "44100",
		"-ac", "1",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg sample extraction failed: %w, output: %s", err, tail(output, 512))
	}

	return nil
}

// GetAudioDuration returns the duration in seconds of any media file
// by calling ffprobe.
func GetAudioDuration(ctx context.Context, inputPath string) (float64, error) {
	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration query failed: %w", err)
	}

	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

func tail(b []byte, n int) string {
	if len(b) > n {
		return string(b[len(b)-n:])
	}
	return string(b)
}
