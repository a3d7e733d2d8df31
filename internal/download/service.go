package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

// Transfer constants
const (
	DefaultChunkSize = 256 * 1024
	PartialSuffix    = ".part"
	AudioExtension   = "mp3"
	DefaultFileMode  = 0o644
)

// Service drives downloads of resolved targets. Calls are synchronous: the
// observer is invoked on the caller's goroutine from inside the transfer.
type Service struct {
	extractor  Extractor
	resolver   *Resolver
	transcoder AudioTranscoder
	chunkSize  int
	logger     *log.Logger
}

// NewService creates a new download service
func NewService(extractor Extractor, logger *log.Logger) *Service {
	return &Service{
		extractor: extractor,
		resolver:  NewResolver(extractor, logger),
		chunkSize: DefaultChunkSize,
		logger:    logging.Component(logger, "download"),
	}
}

// SetTranscoder enables real MP3 conversion for audio downloads. Without a
// transcoder the audio stream is saved verbatim under an .mp3 name.
func (s *Service) SetTranscoder(t AudioTranscoder) {
	s.transcoder = t
}

// SetChunkSize sets the transfer buffer size, which is also the progress
// reporting granularity
func (s *Service) SetChunkSize(size int) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	s.chunkSize = size
}

// Resolve classifies and fetches a URL
func (s *Service) Resolve(ctx context.Context, rawURL string) (model.Target, error) {
	return s.resolver.Resolve(ctx, rawURL)
}

// Download transfers the target into dir. Every failure is surfaced once as
// a *DownloadError. When only the caption side-file fails, the returned
// result still lists the saved media file and has Partial set.
func (s *Service) Download(ctx context.Context, target model.Target, opts model.DownloadOptions, dir string, observer ProgressObserver) (model.DownloadResult, error) {
	if observer == nil {
		observer = ProgressFunc(nil)
	}
	if opts.Format == "" {
		opts.Format = model.FormatVideo
	}

	logger := s.logger.With("op", uuid.NewString()[:8])
	logger.Info("download started", "kind", target.Kind(), "title", target.Title(),
		"format", opts.Format, "resolution", opts.Resolution.String(), "dir", dir)

	var (
		result model.DownloadResult
		err    error
	)
	switch target.Kind() {
	case model.TargetVideo:
		result, err = s.downloadVideo(ctx, logger, target.Video, opts, dir, func(state model.ProgressState) {
			observer.OnProgress(model.Progress{
				Index:   0,
				Count:   1,
				Title:   target.Video.Title,
				Item:    state,
				Overall: state.Fraction(),
			})
		})
	case model.TargetPlaylist:
		result, err = s.downloadPlaylist(ctx, logger, target.Playlist, opts, dir, observer)
	default:
		err = ErrNoTarget
	}

	if err != nil {
		if result.Partial {
			logger.Warn("download finished without subtitles", "files", result.Files, "err", err)
		} else {
			logger.Error("download failed", "err", err)
		}
		return result, newDownloadError(err)
	}

	logger.Info("download completed", "files", len(result.Files), "subtitle", result.SubtitlePath)
	return result, nil
}

func (s *Service) downloadVideo(ctx context.Context, logger *log.Logger, video *model.SingleVideo, opts model.DownloadOptions, dir string, emit func(model.ProgressState)) (model.DownloadResult, error) {
	var result model.DownloadResult

	stream, err := SelectStream(video, opts.Format, opts.Resolution)
	if err != nil {
		return result, err
	}
	logger.Debug("stream selected", "video", video.ID, "stream", stream.String(), "size", stream.FileSize)

	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return result, fmt.Errorf("create download directory: %w", err)
	}
	ext := s.extensionFor(opts.Format, stream)
	exts := []string{ext}
	if opts.Format == model.FormatAudio && s.transcoder != nil {
		exts = append(exts, AudioExtension)
	}
	stem := availableStem(dir, video, exts...)

	path, err := s.saveStream(ctx, video, stream, filepath.Join(dir, stem+"."+ext), emit)
	if err != nil {
		return result, err
	}

	if opts.Format == model.FormatAudio && s.transcoder != nil {
		mp3Path := strings.TrimSuffix(path, filepath.Ext(path)) + "." + AudioExtension
		if err := s.transcoder.ToMP3(ctx, path, mp3Path); err != nil {
			result.Files = append(result.Files, path)
			return result, fmt.Errorf("convert to mp3: %w", err)
		}
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove transcoded source", "path", path, "err", err)
		}
		path = mp3Path
	}
	result.Files = append(result.Files, path)

	if !opts.WantsSubtitles() {
		return result, nil
	}

	srtPath, err := s.writeSubtitles(ctx, video, *opts.Subtitle, path)
	if err != nil {
		result.Partial = true
		result.SubtitleErr = err
		return result, &partialError{err: err}
	}
	result.SubtitlePath = srtPath
	return result, nil
}

func (s *Service) downloadPlaylist(ctx context.Context, logger *log.Logger, pl *model.Playlist, opts model.DownloadOptions, dir string, observer ProgressObserver) (model.DownloadResult, error) {
	var result model.DownloadResult
	total := pl.VideoCount()
	if total == 0 {
		return result, fmt.Errorf("playlist %q has no videos", pl.Title)
	}

	// captions are never written for playlist items
	itemOpts := model.DownloadOptions{Format: opts.Format, Resolution: opts.Resolution}

	index := 0
	for video, err := range s.resolver.Videos(ctx, pl) {
		if err != nil {
			return result, fmt.Errorf("video %d of %d: %w", index+1, total, err)
		}

		completed := index
		observer.OnProgress(model.Progress{
			Index:   completed,
			Count:   total,
			Title:   video.Title,
			Overall: model.PlaylistFraction(completed, 0, total),
		})
		logger.Debug("playlist item", "index", completed+1, "of", total, "title", video.Title)

		item, err := s.downloadVideo(ctx, logger, video, itemOpts, dir, func(state model.ProgressState) {
			observer.OnProgress(model.Progress{
				Index:   completed,
				Count:   total,
				Title:   video.Title,
				Item:    state,
				Overall: model.PlaylistFraction(completed, state.Fraction(), total),
			})
		})
		result.Files = append(result.Files, item.Files...)
		if err != nil {
			return result, fmt.Errorf("video %d of %d (%s): %w", completed+1, total, video.Title, err)
		}
		index++
	}
	return result, nil
}

func (s *Service) extensionFor(format model.FormatKind, stream model.StreamDescriptor) string {
	if format != model.FormatAudio {
		return stream.Container
	}
	if s.transcoder == nil {
		return AudioExtension
	}
	if stream.Container == FixedContainer {
		return "m4a"
	}
	return stream.Container
}

// availableStem returns the file name stem for video that does not clash
// with an existing file for any of exts. A taken title gets the video ID
// appended, then a counter.
func availableStem(dir string, video *model.SingleVideo, exts ...string) string {
	name := platform.SanitizeFilename(video.Title)
	id := platform.SanitizeFilename(video.ID)
	if name == "" {
		name = id
	}

	candidates := []string{name}
	if id != "" && id != name {
		candidates = append(candidates, fmt.Sprintf("%s (%s)", name, id))
	}
	for _, stem := range candidates {
		if !stemTaken(dir, stem, exts) {
			return stem
		}
	}
	base := candidates[len(candidates)-1]
	for n := 2; ; n++ {
		stem := fmt.Sprintf("%s (%d)", base, n)
		if !stemTaken(dir, stem, exts) {
			return stem
		}
	}
}

func stemTaken(dir, stem string, exts []string) bool {
	for _, ext := range exts {
		if _, err := os.Lstat(filepath.Join(dir, stem+"."+ext)); err == nil {
			return true
		}
	}
	return false
}

// saveStream copies one stream to finalPath chunk by chunk, reporting
// progress after every chunk and once more on completion.
func (s *Service) saveStream(ctx context.Context, video *model.SingleVideo, stream model.StreamDescriptor, finalPath string, emit func(model.ProgressState)) (string, error) {
	body, size, err := s.extractor.OpenStream(ctx, video, stream)
	if err != nil {
		return "", fmt.Errorf("open stream %s: %w", stream.String(), err)
	}
	defer body.Close()
	if size <= 0 {
		size = stream.FileSize
	}

	partPath := finalPath + PartialSuffix

	f, err := os.OpenFile(partPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, DefaultFileMode)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", partPath, err)
	}

	emit(model.ProgressState{BytesTotal: size, BytesRemaining: size})
	written, err := s.copyChunks(ctx, f, body, size, emit)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("transfer %s: %w", stream.String(), err)
	}

	if err := os.Rename(partPath, finalPath); err != nil {
		return "", fmt.Errorf("finalize %s: %w", finalPath, err)
	}

	if size < written {
		size = written
	}
	emit(model.ProgressState{BytesTotal: size, BytesRemaining: 0})
	return finalPath, nil
}

func (s *Service) copyChunks(ctx context.Context, dst io.Writer, src io.Reader, size int64, emit func(model.ProgressState)) (int64, error) {
	buf := make([]byte, s.chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			switch {
			case size <= 0:
				// unknown total stays at 0 until the transfer ends
				emit(model.ProgressState{})
			case written < size:
				emit(model.ProgressState{BytesTotal: size, BytesRemaining: size - written})
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

func (s *Service) writeSubtitles(ctx context.Context, video *model.SingleVideo, track model.CaptionTrack, mediaPath string) (string, error) {
	if _, ok := findCaption(video, track.LanguageCode); !ok {
		return "", &CaptionNotFoundError{VideoID: video.ID, LanguageCode: track.LanguageCode}
	}

	cues, err := s.extractor.Transcript(ctx, video, track.LanguageCode)
	if err != nil {
		return "", fmt.Errorf("fetch captions %s: %w", track.LanguageCode, err)
	}

	path := SubtitlePath(mediaPath, track.LanguageCode)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, DefaultFileMode)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSRT(f, cues); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
