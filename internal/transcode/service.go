// Package transcode converts downloaded audio streams to MP3 using ffmpeg.
package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ytget/ytgrab/internal/logging"
)

// FFmpeg constants for MP3 conversion
const (
	// Audio codec settings
	AudioCodec   = "libmp3lame"
	AudioQuality = "2"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	JobIDPrefix         = "mp3-"
	OutputExtensionMP3  = ".mp3"
)

// ErrFFmpegNotFound is returned when the ffmpeg executable cannot be located
var ErrFFmpegNotFound = errors.New("ffmpeg executable not found")

// Service runs ffmpeg conversions. It satisfies download.AudioTranscoder.
type Service struct {
	ffmpegPath  string
	ffprobePath string
	logger      *log.Logger

	mu         sync.Mutex
	active     map[string]string // input path -> job ID
	onProgress func(inputPath string, fraction float64)
}

// NewService creates a converter using ffmpegPath, or "ffmpeg" from PATH
// when empty. ffprobe is looked up next to it.
func NewService(ffmpegPath string, logger *log.Logger) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	ffprobePath := FFprobeCommand
	if dir := filepath.Dir(ffmpegPath); dir != "." {
		ffprobePath = filepath.Join(dir, FFprobeCommand+filepath.Ext(ffmpegPath))
	}
	return &Service{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logging.Component(logger, "transcode"),
		active:      make(map[string]string),
	}
}

// SetProgressCallback sets the function notified while ffmpeg runs
func (s *Service) SetProgressCallback(callback func(inputPath string, fraction float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onProgress = callback
}

// Available reports whether the ffmpeg executable can be found
func (s *Service) Available() bool {
	_, err := exec.LookPath(s.ffmpegPath)
	return err == nil
}

// ToMP3 converts inputPath into an MP3 at outputPath and blocks until
// ffmpeg exits. A failed or canceled conversion leaves no output behind.
func (s *Service) ToMP3(ctx context.Context, inputPath, outputPath string) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}
	if !s.Available() {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, s.ffmpegPath)
	}

	jobID, err := s.begin(inputPath)
	if err != nil {
		return err
	}
	defer s.end(inputPath)

	logger := s.logger.With("job", jobID)
	started := time.Now()

	duration, err := s.probeDuration(ctx, inputPath)
	if err != nil {
		// progress is only cosmetic, the conversion itself can proceed
		logger.Debug("duration probe failed", "input", inputPath, "err", err)
	}

	cmd := exec.CommandContext(ctx, s.ffmpegPath, BuildFFmpegArgs(inputPath, outputPath)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// stderr must be drained before Wait closes it
	s.monitorProgress(stderr, inputPath, duration)
	err = cmd.Wait()

	if ctx.Err() != nil {
		os.Remove(outputPath)
		return ctx.Err()
	}
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	logger.Info("converted to mp3", "output", outputPath, "took", time.Since(started).Round(time.Millisecond))
	return nil
}

func (s *Service) begin(inputPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[inputPath]; busy {
		return "", fmt.Errorf("conversion already in progress for file: %s", inputPath)
	}
	id := generateJobID()
	s.active[inputPath] = id
	return id, nil
}

func (s *Service) end(inputPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, inputPath)
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn",              // Drop any video track
		"-c:a", AudioCodec, // Audio codec
		"-q:a", AudioQuality, // VBR quality
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		outputPath,
	}
}

// MP3Path returns inputPath with its extension replaced by .mp3
func MP3Path(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + OutputExtensionMP3
}

// probeDuration gets the duration of a media file in seconds using ffprobe
func (s *Service) probeDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress reads ffmpeg progress output until the pipe closes
func (s *Service) monitorProgress(stderr io.Reader, inputPath string, totalDuration float64) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		fraction, ok := ParseProgressLine(scanner.Text(), totalDuration)
		if !ok {
			continue
		}
		s.mu.Lock()
		callback := s.onProgress
		s.mu.Unlock()
		if callback != nil {
			callback(inputPath, fraction)
		}
	}
}

// ParseProgressLine turns an "out_time_us=N" line into a fraction of
// totalDuration seconds, clamped to 1.
func ParseProgressLine(line string, totalDuration float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if totalDuration <= 0 || !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	return min(float64(us)/1e6/totalDuration, 1.0), true
}

// generateJobID uses UUID v7 so log lines sort chronologically by job
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
