// Package bootstrap wires the download pipeline from a loaded Config. The GUI
// and the CLI share it so both front ends run the same stack.
package bootstrap

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/platform"
	"github.com/ytget/ytgrab/internal/transcode"
)

// Services holds the long-lived collaborators of one process
type Services struct {
	Downloader *download.Service
	Extractor  *platform.YouTubeExtractor
	// Transcoder is nil when transcoding is off or ffmpeg is missing
	Transcoder *transcode.Service
}

// New builds the extractor and the download service described by cfg
func New(cfg *config.Config, logger *log.Logger) (*Services, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	extractor, err := platform.NewYouTubeExtractor(cfg.ExtractorConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	svc := download.NewService(extractor, logger)
	svc.SetChunkSize(cfg.Download.ChunkSize)

	s := &Services{Downloader: svc, Extractor: extractor}
	if cfg.Download.AudioTranscode {
		tc := transcode.NewService(cfg.Download.FFmpegPath, logger)
		if tc.Available() {
			svc.SetTranscoder(tc)
			s.Transcoder = tc
		} else {
			logger.Warn("ffmpeg not found, audio will be saved without conversion", "path", cfg.Download.FFmpegPath)
		}
	}

	return s, nil
}

// Close releases the metadata cache
func (s *Services) Close() {
	if s.Extractor != nil {
		s.Extractor.Close()
	}
}
