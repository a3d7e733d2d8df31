package model

import "strings"

// FormatKind selects between a muxed video download and an audio-only one
type FormatKind string

const (
	FormatVideo FormatKind = "video"
	FormatAudio FormatKind = "audio"
)

// String returns the string representation of FormatKind
func (f FormatKind) String() string {
	return string(f)
}

// ResolutionPolicy says how a resolution is picked for a video
type ResolutionPolicy string

const (
	// PolicyExact picks the stream whose label equals ResolutionChoice.Label
	PolicyExact ResolutionPolicy = "exact"
	// PolicyHighest picks the highest available resolution, per video
	PolicyHighest ResolutionPolicy = "highest"
	// PolicyLowest picks the lowest available resolution, per video
	PolicyLowest ResolutionPolicy = "lowest"
)

// ResolutionChoice is either an explicit resolution label or an extreme
type ResolutionChoice struct {
	Policy ResolutionPolicy
	Label  string
}

var (
	Highest = ResolutionChoice{Policy: PolicyHighest}
	Lowest  = ResolutionChoice{Policy: PolicyLowest}
)

// ExactResolution builds a choice for an explicit label such as "720p"
func ExactResolution(label string) ResolutionChoice {
	return ResolutionChoice{Policy: PolicyExact, Label: label}
}

// ParseResolutionChoice accepts "highest", "lowest" or an explicit label
func ParseResolutionChoice(s string) ResolutionChoice {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyHighest):
		return Highest
	case string(PolicyLowest):
		return Lowest
	default:
		return ExactResolution(strings.TrimSpace(s))
	}
}

// String returns the label or the policy name
func (r ResolutionChoice) String() string {
	if r.Policy == PolicyExact {
		return r.Label
	}
	return string(r.Policy)
}

// DownloadOptions carries the user's selections for one download.
// Resolution is ignored when Format is FormatAudio; Subtitle is only honoured
// for single-video downloads in FormatVideo.
type DownloadOptions struct {
	Format     FormatKind
	Resolution ResolutionChoice
	Subtitle   *CaptionTrack
}

// WantsSubtitles reports whether a caption side-file should be written
func (o DownloadOptions) WantsSubtitles() bool {
	return o.Format == FormatVideo && o.Subtitle != nil
}
