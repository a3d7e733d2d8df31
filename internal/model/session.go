package model

// Session is the state carried across interactions of one form session. It
// is a value: every transition returns a new Session and leaves the receiver
// untouched. Choice lists are derived by the caller (see download.Project)
// and stored alongside the target they were derived from.
type Session struct {
	URL         string
	Target      Target
	Resolutions []string // ascending, single video only
	Captions    []string // "{code} - {name}", single video only
	Selection   DownloadOptions
	Status      TaskStatus
	LastError   string
}

// NewSession returns an empty session
func NewSession() Session {
	return Session{
		Status:    TaskStatusPending,
		Selection: DownloadOptions{Format: FormatVideo, Resolution: Highest},
	}
}

// WithTarget replaces the resolved target wholesale. The branch that is not
// set in target is cleared together with every choice derived from it, and
// the selection is reset to the defaults for the new target.
func (s Session) WithTarget(url string, target Target, resolutions, captions []string) Session {
	next := Session{
		URL:         url,
		Target:      target,
		Resolutions: append([]string(nil), resolutions...),
		Captions:    append([]string(nil), captions...),
		Status:      TaskStatusReady,
		Selection:   DownloadOptions{Format: s.Selection.Format, Resolution: Highest},
	}
	if next.Selection.Format == "" {
		next.Selection.Format = FormatVideo
	}
	if target.Kind() == TargetVideo && len(next.Resolutions) > 0 {
		next.Selection.Resolution = ExactResolution(next.Resolutions[len(next.Resolutions)-1])
	}
	return next
}

// WithSelection returns a copy with the user's download options replaced
func (s Session) WithSelection(opts DownloadOptions) Session {
	s.Selection = opts
	if opts.Subtitle != nil {
		track := *opts.Subtitle
		s.Selection.Subtitle = &track
	}
	return s
}

// WithStatus returns a copy in the given phase; errMsg is kept only for
// TaskStatusError.
func (s Session) WithStatus(status TaskStatus, errMsg string) Session {
	s.Status = status
	s.LastError = ""
	if status == TaskStatusError {
		s.LastError = errMsg
	}
	return s
}

// Cleared drops the resolved target, used when a fetch fails
func (s Session) Cleared(url string) Session {
	next := NewSession()
	next.URL = url
	if s.Selection.Format != "" {
		next.Selection.Format = s.Selection.Format
	}
	return next
}
