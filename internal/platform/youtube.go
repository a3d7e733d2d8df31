package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/kkdai/youtube/v2"
	"github.com/ytget/ytdlp/v2/client"

	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/model"
)

// Network defaults
const (
	DefaultRequestTimeout = 60 * time.Second
	DefaultRetries        = 3
	DefaultUserAgent      = "ytgrab/1.0"
)

// Metadata cache defaults
const (
	DefaultCacheItems  = 256
	DefaultCacheTTL    = 30 * time.Minute
	cacheCounterFactor = 10
	cacheBufferItems   = 64
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	DefaultPlaylistName = "Unknown Playlist"
	MinPrefixLength     = 10
	PlaylistSuffix      = " Playlist"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
	TimeFormat       = "%02d"
)

// Caption code prefix used for automatically generated tracks.
const (
	AutoCaptionPrefix = "a."
	autoCaptionKind   = "asr"
)

// ErrUnavailable is returned for private, removed or region-blocked videos.
var ErrUnavailable = errors.New("video is unavailable")

// ExtractorConfig tunes the network client and the metadata cache.
type ExtractorConfig struct {
	Timeout    time.Duration
	Retries    int
	UserAgent  string
	CacheItems int64
	CacheTTL   time.Duration
}

// DefaultExtractorConfig returns the values used when nothing is configured.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Timeout:    DefaultRequestTimeout,
		Retries:    DefaultRetries,
		UserAgent:  DefaultUserAgent,
		CacheItems: DefaultCacheItems,
		CacheTTL:   DefaultCacheTTL,
	}
}

// YouTubeExtractor talks to YouTube and converts its metadata into model types.
// Fetched videos are cached by ID so that stream and transcript requests
// following a fetch do not hit the network for metadata again.
type YouTubeExtractor struct {
	client *youtube.Client
	cache  *ristretto.Cache[string, *youtube.Video]
	ttl    time.Duration
	logger *log.Logger
}

// NewYouTubeExtractor creates an extractor. Zero config fields fall back to defaults.
func NewYouTubeExtractor(cfg ExtractorConfig, logger *log.Logger) (*YouTubeExtractor, error) {
	defaults := DefaultExtractorConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaults.Retries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.CacheItems <= 0 {
		cfg.CacheItems = defaults.CacheItems
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *youtube.Video]{
		NumCounters: cfg.CacheItems * cacheCounterFactor,
		MaxCost:     cfg.CacheItems,
		BufferItems: cacheBufferItems,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create metadata cache: %w", err)
	}

	httpClient := client.NewWith(client.Config{
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		UserAgent: cfg.UserAgent,
	})

	return &YouTubeExtractor{
		client: &youtube.Client{HTTPClient: httpClient.HTTPClient},
		cache:  cache,
		ttl:    cfg.CacheTTL,
		logger: logging.Component(logger, "youtube"),
	}, nil
}

// Close releases the metadata cache.
func (e *YouTubeExtractor) Close() {
	e.cache.Close()
}

// FetchVideo loads metadata, streams and caption tracks of a single video.
func (e *YouTubeExtractor) FetchVideo(ctx context.Context, url string) (*model.SingleVideo, error) {
	v, err := e.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, classifyError(err)
	}
	e.remember(v)
	e.logger.Debug("fetched video", "id", v.ID, "formats", len(v.Formats), "captions", len(v.CaptionTracks))
	return convertVideo(v, url), nil
}

// FetchPlaylist loads a playlist and the watch URLs of its entries.
func (e *YouTubeExtractor) FetchPlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	p, err := e.client.GetPlaylistContext(ctx, url)
	if err != nil {
		return nil, classifyError(err)
	}

	pl := &model.Playlist{
		ID:     p.ID,
		URL:    url,
		Title:  p.Title,
		Author: p.Author,
	}
	if pl.ID == "" {
		pl.ID = extractPlaylistID(url)
	}

	titles := make([]string, 0, len(p.Videos))
	for _, entry := range p.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		pl.VideoURLs = append(pl.VideoURLs, fmt.Sprintf(YouTubeVideoURLTemplate, entry.ID))
		titles = append(titles, entry.Title)
	}
	if pl.Title == "" {
		pl.Title = playlistTitleFromEntries(titles)
	}

	e.logger.Debug("fetched playlist", "id", pl.ID, "videos", pl.VideoCount())
	return pl, nil
}

// OpenStream opens the media stream with the descriptor's itag.
func (e *YouTubeExtractor) OpenStream(ctx context.Context, video *model.SingleVideo, stream model.StreamDescriptor) (io.ReadCloser, int64, error) {
	v, err := e.lookup(ctx, video)
	if err != nil {
		return nil, 0, err
	}

	var format *youtube.Format
	for i := range v.Formats {
		if v.Formats[i].ItagNo == stream.Itag {
			format = &v.Formats[i]
			break
		}
	}
	if format == nil {
		return nil, 0, fmt.Errorf("itag %d is not offered for video %s", stream.Itag, v.ID)
	}

	rc, size, err := e.client.GetStreamContext(ctx, v, format)
	if err != nil {
		return nil, 0, classifyError(err)
	}
	if size <= 0 {
		size = stream.FileSize
	}
	return rc, size, nil
}

// Transcript fetches timed caption cues for a language code.
func (e *YouTubeExtractor) Transcript(ctx context.Context, video *model.SingleVideo, languageCode string) ([]model.Cue, error) {
	v, err := e.lookup(ctx, video)
	if err != nil {
		return nil, err
	}

	segments, err := e.client.GetTranscriptCtx(ctx, v, strings.TrimPrefix(languageCode, AutoCaptionPrefix))
	if err != nil {
		return nil, fmt.Errorf("fetch transcript %q: %w", languageCode, err)
	}

	cues := make([]model.Cue, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		cues = append(cues, model.Cue{
			StartMs:    int(seg.StartMs),
			DurationMs: int(seg.Duration),
			Text:       text,
		})
	}
	return cues, nil
}

func (e *YouTubeExtractor) lookup(ctx context.Context, video *model.SingleVideo) (*youtube.Video, error) {
	if video == nil {
		return nil, errors.New("no video provided")
	}
	if v, ok := e.cache.Get(video.ID); ok && v != nil {
		return v, nil
	}

	target := video.URL
	if target == "" {
		target = video.ID
	}
	v, err := e.client.GetVideoContext(ctx, target)
	if err != nil {
		return nil, classifyError(err)
	}
	e.remember(v)
	return v, nil
}

func (e *YouTubeExtractor) remember(v *youtube.Video) {
	if v == nil || v.ID == "" {
		return
	}
	e.cache.SetWithTTL(v.ID, v, 1, e.ttl)
	e.cache.Wait()
}

// classifyError marks errors that mean the video cannot be fetched at all.
func classifyError(err error) error {
	if errors.Is(err, youtube.ErrVideoPrivate) ||
		errors.Is(err, youtube.ErrLoginRequired) ||
		errors.Is(err, youtube.ErrNotPlayableInEmbed) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func convertVideo(v *youtube.Video, url string) *model.SingleVideo {
	sv := &model.SingleVideo{
		ID:       v.ID,
		URL:      url,
		Title:    v.Title,
		Author:   v.Author,
		Duration: v.Duration,
	}

	best := -1
	for i, thumb := range v.Thumbnails {
		if best < 0 || thumb.Width > v.Thumbnails[best].Width {
			best = i
		}
	}
	if best >= 0 {
		sv.ThumbnailURL = v.Thumbnails[best].URL
	}

	for _, f := range v.Formats {
		sv.Streams = append(sv.Streams, convertFormat(f))
	}

	seen := make(map[string]bool)
	for _, track := range v.CaptionTracks {
		ct := convertCaptionTrack(track)
		if ct.LanguageCode == "" || seen[ct.LanguageCode] {
			continue
		}
		seen[ct.LanguageCode] = true
		sv.Captions = append(sv.Captions, ct)
	}
	return sv
}

func convertFormat(f youtube.Format) model.StreamDescriptor {
	kind, container := mimeKind(f.MimeType)
	hasAudio := f.AudioChannels > 0
	return model.StreamDescriptor{
		Itag:        f.ItagNo,
		Resolution:  f.QualityLabel,
		Progressive: kind == "video" && hasAudio,
		AudioOnly:   kind == "audio",
		Container:   container,
		MimeType:    f.MimeType,
		FileSize:    int64(f.ContentLength),
		Bitrate:     f.Bitrate,
	}
}

func convertCaptionTrack(track youtube.CaptionTrack) model.CaptionTrack {
	code := track.LanguageCode
	if track.Kind == autoCaptionKind && code != "" {
		code = AutoCaptionPrefix + code
	}
	name := strings.TrimSpace(track.Name.SimpleText)
	if name == "" {
		name = track.LanguageCode
	}
	return model.CaptionTrack{LanguageCode: code, DisplayName: name}
}

// mimeKind splits "video/mp4; codecs=..." into ("video", "mp4").
func mimeKind(mimeType string) (string, string) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType, _, _ = strings.Cut(mimeType, ";")
		mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	}
	kind, subtype, ok := strings.Cut(mediaType, "/")
	if !ok {
		return "", ""
	}
	return kind, subtype
}

// extractPlaylistID extracts the playlist ID from various URL formats
func extractPlaylistID(url string) string {
	_, rest, ok := strings.Cut(url, PlaylistParam)
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, ParamSeparator)
	return id
}

// playlistTitleFromEntries guesses a title when the playlist has none.
func playlistTitleFromEntries(titles []string) string {
	if len(titles) == 0 {
		return DefaultPlaylistName
	}
	if len(titles) > 1 {
		prefix := findCommonPrefix(titles[0], titles[1])
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	return titles[0] + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}

// FormatDuration formats a duration as HH:MM:SS, or MM:SS below one hour.
func FormatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute
	if hours > 0 {
		return fmt.Sprintf(TimeFormat+":"+TimeFormat+":"+TimeFormat, hours, minutes, secs)
	}
	return fmt.Sprintf(TimeFormat+":"+TimeFormat, minutes, secs)
}
