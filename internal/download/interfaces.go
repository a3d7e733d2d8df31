package download

import (
	"context"
	"io"

	"github.com/ytget/ytgrab/internal/model"
)

// Extractor is the video-extraction collaborator the pipeline is built on.
type Extractor interface {
	// FetchVideo resolves a video URL into its metadata, streams and captions.
	FetchVideo(ctx context.Context, url string) (*model.SingleVideo, error)

	// FetchPlaylist resolves a playlist URL into its title and ordered entries.
	FetchPlaylist(ctx context.Context, url string) (*model.Playlist, error)

	// OpenStream starts the transfer of one stream. The returned size is the
	// content length reported by the source, or 0 when unknown.
	OpenStream(ctx context.Context, video *model.SingleVideo, stream model.StreamDescriptor) (io.ReadCloser, int64, error)

	// Transcript returns the timed captions for one language of a video.
	Transcript(ctx context.Context, video *model.SingleVideo, languageCode string) ([]model.Cue, error)
}

// ProgressObserver receives progress snapshots. It is called synchronously
// from inside the transfer and must return quickly.
type ProgressObserver interface {
	OnProgress(p model.Progress)
}

// ProgressFunc adapts a plain function to ProgressObserver
type ProgressFunc func(p model.Progress)

// OnProgress implements ProgressObserver
func (f ProgressFunc) OnProgress(p model.Progress) {
	if f != nil {
		f(p)
	}
}

// AudioTranscoder converts a downloaded audio stream into an MP3 file
type AudioTranscoder interface {
	ToMP3(ctx context.Context, inputPath, outputPath string) error
}

// Downloader defines the interface presentation layers use.
type Downloader interface {
	// Resolve classifies and fetches a URL.
	Resolve(ctx context.Context, url string) (model.Target, error)

	// Download transfers the resolved target into dir.
	Download(ctx context.Context, target model.Target, opts model.DownloadOptions, dir string, observer ProgressObserver) (model.DownloadResult, error)
}
