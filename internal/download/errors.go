package download

import (
	"errors"
	"fmt"

	"github.com/ytget/ytgrab/internal/model"
)

var (
	ErrEmptyURL      = errors.New("URL is empty")
	ErrMalformedURL  = errors.New("malformed URL")
	ErrNoTarget      = errors.New("nothing has been fetched")
	ErrNoCaptionCues = errors.New("caption track has no cues")
)

// ResolutionError reports that a URL could not be turned into a Target
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("cannot resolve URL: %v", e.Err)
	}
	return fmt.Sprintf("cannot resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// StreamNotFoundError reports that no stream matches the requested format
type StreamNotFoundError struct {
	VideoID    string
	Format     model.FormatKind
	Resolution string
}

func (e *StreamNotFoundError) Error() string {
	if e.Format == model.FormatAudio {
		return fmt.Sprintf("no audio-only stream available for video %s", e.VideoID)
	}
	return fmt.Sprintf("no progressive mp4 stream with resolution %q for video %s", e.Resolution, e.VideoID)
}

// CaptionNotFoundError reports that a caption language is not offered
type CaptionNotFoundError struct {
	VideoID      string
	LanguageCode string
}

func (e *CaptionNotFoundError) Error() string {
	return fmt.Sprintf("caption track %q not found for video %s", e.LanguageCode, e.VideoID)
}

// DownloadError is the single error a Download call surfaces. The lower
// level cause stays reachable through errors.Is / errors.As.
type DownloadError struct {
	Message string
	Err     error
}

func (e *DownloadError) Error() string {
	return e.Message
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

func newDownloadError(err error) error {
	if err == nil {
		return nil
	}
	var de *DownloadError
	if errors.As(err, &de) {
		return err
	}
	return &DownloadError{Message: "download failed: " + err.Error(), Err: err}
}

// IsPartial reports whether err describes a download whose primary file was
// saved but whose caption side-file failed.
func IsPartial(err error) bool {
	var pe *partialError
	return errors.As(err, &pe)
}

type partialError struct {
	err error
}

func (e *partialError) Error() string {
	return "video saved, subtitles failed: " + e.err.Error()
}

func (e *partialError) Unwrap() error {
	return e.err
}
