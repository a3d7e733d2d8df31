package download

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/model"
)

// PlaylistMarker is the literal substring that marks a URL as a playlist.
// The check is a heuristic, not a structural parse: a video URL carrying the
// word in a query artifact is classified as a playlist.
const PlaylistMarker = "playlist"

// Resolver turns URLs into Targets through the Extractor
type Resolver struct {
	extractor Extractor
	logger    *log.Logger
}

// NewResolver creates a new resolver
func NewResolver(extractor Extractor, logger *log.Logger) *Resolver {
	return &Resolver{
		extractor: extractor,
		logger:    logging.Component(logger, "resolve"),
	}
}

// IsPlaylistURL reports whether a URL is treated as a playlist
func IsPlaylistURL(rawURL string) bool {
	return strings.Contains(rawURL, PlaylistMarker)
}

// ValidateURL trims the input and checks it is an absolute http(s) URL
func ValidateURL(rawURL string) (string, error) {
	cleaned := strings.TrimSpace(rawURL)
	if cleaned == "" {
		return "", ErrEmptyURL
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: scheme must be http or https", ErrMalformedURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrMalformedURL)
	}
	return cleaned, nil
}

// Resolve classifies the URL and fetches its metadata. Any failure is
// reported as a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (model.Target, error) {
	cleaned, err := ValidateURL(rawURL)
	if err != nil {
		return model.Target{}, &ResolutionError{URL: strings.TrimSpace(rawURL), Err: err}
	}

	if IsPlaylistURL(cleaned) {
		r.logger.Debug("fetching playlist", "url", cleaned)
		pl, err := r.extractor.FetchPlaylist(ctx, cleaned)
		if err != nil {
			r.logger.Error("playlist fetch failed", "url", cleaned, "err", err)
			return model.Target{}, &ResolutionError{URL: cleaned, Err: err}
		}
		r.logger.Info("playlist resolved", "title", pl.Title, "videos", pl.VideoCount())
		return model.PlaylistTarget(pl), nil
	}

	video, err := r.resolveVideo(ctx, cleaned)
	if err != nil {
		return model.Target{}, err
	}
	r.logger.Info("video resolved", "title", video.Title,
		"streams", len(video.Streams),
		"progressive", len(ProgressiveStreams(video)),
		"captions", len(video.Captions))
	return model.VideoTarget(video), nil
}

// Videos yields the playlist's videos in source order, resolving each one
// only when the consumer asks for it.
func (r *Resolver) Videos(ctx context.Context, pl *model.Playlist) iter.Seq2[*model.SingleVideo, error] {
	return func(yield func(*model.SingleVideo, error) bool) {
		if pl == nil {
			return
		}
		for _, videoURL := range pl.VideoURLs {
			video, err := r.resolveVideo(ctx, videoURL)
			if !yield(video, err) {
				return
			}
		}
	}
}

func (r *Resolver) resolveVideo(ctx context.Context, videoURL string) (*model.SingleVideo, error) {
	r.logger.Debug("fetching video", "url", videoURL)
	video, err := r.extractor.FetchVideo(ctx, videoURL)
	if err != nil {
		r.logger.Error("video fetch failed", "url", videoURL, "err", err)
		return nil, &ResolutionError{URL: videoURL, Err: err}
	}
	if video.URL == "" {
		video.URL = videoURL
	}
	return video, nil
}
