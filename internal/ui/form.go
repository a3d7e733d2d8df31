package ui

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/model"
)

// NoticeLevel is the severity of a form message
type NoticeLevel int

const (
	NoticeNone NoticeLevel = iota
	NoticeInfo
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// Notice is a localizable message produced by a form action
type Notice struct {
	Level NoticeLevel
	Key   string
	Args  []any
}

func newNotice(level NoticeLevel, key string, args ...any) Notice {
	return Notice{Level: level, Key: key, Args: args}
}

// IsZero reports whether there is nothing to show
func (n Notice) IsZero() bool {
	return n.Key == ""
}

// Text renders the notice in the current language
func (n Notice) Text(l *Localization) string {
	if n.IsZero() {
		return ""
	}
	return l.Format(n.Key, n.Args...)
}

// FormController holds the form session and runs its actions. It has no
// widget dependencies; RootUI renders whatever Session() returns. Only one
// action runs at a time.
type FormController struct {
	svc    download.Downloader
	logger *log.Logger

	mu             sync.Mutex
	session        model.Session
	busy           bool
	subtitleWanted bool
}

// NewFormController creates a controller starting with format preselected
func NewFormController(svc download.Downloader, format model.FormatKind, logger *log.Logger) *FormController {
	s := model.NewSession()
	if format != "" {
		s.Selection.Format = format
	}
	return &FormController{
		svc:     svc,
		logger:  logging.Component(logger, "form"),
		session: s,
	}
}

// Session returns a snapshot of the current session
func (c *FormController) Session() model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Busy reports whether a fetch or download is running
func (c *FormController) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *FormController) begin(status model.TaskStatus) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	c.session = c.session.WithStatus(status, "")
	return true
}

// Fetch resolves rawURL and replaces the session target. It blocks.
func (c *FormController) Fetch(ctx context.Context, rawURL string) Notice {
	cleaned := strings.TrimSpace(rawURL)
	if cleaned == "" {
		return newNotice(NoticeError, KeyPleaseEnterURL)
	}
	if !c.begin(model.TaskStatusFetching) {
		return newNotice(NoticeError, KeyBusy)
	}

	target, err := c.svc.Resolve(ctx, cleaned)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.subtitleWanted = false

	if err != nil {
		c.logger.Warn("fetch failed", "url", cleaned, "err", err)
		c.session = c.session.Cleared(cleaned).WithStatus(model.TaskStatusError, err.Error())
		if errors.Is(err, download.ErrMalformedURL) {
			return newNotice(NoticeError, KeyInvalidURL, cleaned)
		}
		return newNotice(NoticeError, KeyFetchFailed, err.Error())
	}

	c.session = download.ApplyTarget(c.session, cleaned, target)
	return Notice{}
}

// SetFormat switches between video and audio downloads
func (c *FormController) SetFormat(format model.FormatKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := c.session.Selection
	opts.Format = format
	c.session = c.session.WithSelection(opts)
}

// SetResolution stores the resolution choice; it is ignored for audio
func (c *FormController) SetResolution(choice model.ResolutionChoice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := c.session.Selection
	opts.Resolution = choice
	c.session = c.session.WithSelection(opts)
}

// SetSubtitle enables or disables the caption side-file. label is one of the
// projected caption labels.
func (c *FormController) SetSubtitle(enabled bool, label string) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subtitleWanted = enabled
	opts := c.session.Selection
	opts.Subtitle = nil
	defer func() { c.session = c.session.WithSelection(opts) }()

	if !enabled {
		return Notice{}
	}
	if c.session.Target.Kind() != model.TargetVideo {
		return newNotice(NoticeInfo, KeyPlaylistNoSubs)
	}
	if len(c.session.Captions) == 0 {
		return newNotice(NoticeWarning, KeyNoSubtitles)
	}
	if label == "" {
		return newNotice(NoticeInfo, KeySelectSubtitle)
	}

	track, ok := download.CaptionByLabel(c.session.Target.Video, label)
	if !ok {
		return newNotice(NoticeWarning, KeySelectSubtitle)
	}
	opts.Subtitle = &track
	return Notice{}
}

// Download runs the download with the current selection into dir and
// returns the messages to show. It blocks.
func (c *FormController) Download(ctx context.Context, dir string, observer download.ProgressObserver) (model.DownloadResult, []Notice) {
	snapshot := c.Session()
	if snapshot.Target.IsZero() {
		return model.DownloadResult{}, []Notice{newNotice(NoticeError, KeyNothingFetched)}
	}
	if !c.begin(model.TaskStatusDownloading) {
		return model.DownloadResult{}, []Notice{newNotice(NoticeError, KeyBusy)}
	}

	c.mu.Lock()
	subtitleWanted := c.subtitleWanted
	c.mu.Unlock()

	opts := snapshot.Selection
	if snapshot.Target.Kind() != model.TargetVideo {
		opts.Subtitle = nil
	}

	result, err := c.svc.Download(ctx, snapshot.Target, opts, dir, observer)

	savedTo := result.Directory()
	if savedTo == "" {
		savedTo = dir
	}

	var notices []Notice
	status := model.TaskStatusCompleted
	switch {
	case err == nil || download.IsPartial(err):
		notices = append(notices, completionNotice(snapshot.Target.Kind(), opts.Format, savedTo))
		switch {
		case result.SubtitlePath != "":
			notices = append(notices, newNotice(NoticeSuccess, KeySubtitlesSaved, result.SubtitlePath))
		case result.Partial:
			reason := DashPlaceholder
			if result.SubtitleErr != nil {
				reason = result.SubtitleErr.Error()
			}
			notices = append(notices, newNotice(NoticeWarning, KeySubtitlesFailed, savedTo, reason))
		case subtitleWanted && opts.Format == model.FormatVideo && snapshot.Target.Kind() == model.TargetVideo && opts.Subtitle == nil:
			notices = append(notices, newNotice(NoticeWarning, KeyNoSubtitles))
		}
	default:
		status = model.TaskStatusError
		notices = append(notices, newNotice(NoticeError, KeyDownloadFailed, err.Error()))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	c.session = c.session.WithStatus(status, errMsg)
	return result, notices
}

func completionNotice(kind model.TargetKind, format model.FormatKind, dir string) Notice {
	switch {
	case kind == model.TargetPlaylist:
		return newNotice(NoticeSuccess, KeyListCompleted, dir)
	case format == model.FormatAudio:
		return newNotice(NoticeSuccess, KeyAudioCompleted, dir)
	default:
		return newNotice(NoticeSuccess, KeyVideoCompleted, dir)
	}
}
