package download

import (
	"slices"
	"strings"

	"github.com/ytget/ytgrab/internal/model"
)

// FixedContainer is the only container offered for video downloads
const FixedContainer = "mp4"

// Choices is what the form offers for a resolved target
type Choices struct {
	Kind model.TargetKind

	// Single video
	Resolutions       []string // ascending
	DefaultResolution string   // last entry of Resolutions
	Captions          []string // "{code} - {name}" in extraction order

	// Playlist
	Policies []model.ResolutionChoice
}

// PlaylistPolicies is the fixed resolution choice offered for playlists
var PlaylistPolicies = []model.ResolutionChoice{model.Highest, model.Lowest}

// Project derives the user-facing choice sets from a resolved target
func Project(target model.Target) Choices {
	switch target.Kind() {
	case model.TargetVideo:
		c := Choices{Kind: model.TargetVideo}
		for _, s := range ProgressiveStreams(target.Video) {
			if !slices.Contains(c.Resolutions, s.Resolution) {
				c.Resolutions = append(c.Resolutions, s.Resolution)
			}
		}
		if n := len(c.Resolutions); n > 0 {
			c.DefaultResolution = c.Resolutions[n-1]
		}
		for _, track := range target.Video.Captions {
			c.Captions = append(c.Captions, track.Label())
		}
		return c
	case model.TargetPlaylist:
		return Choices{
			Kind:     model.TargetPlaylist,
			Policies: slices.Clone(PlaylistPolicies),
		}
	default:
		return Choices{}
	}
}

// ApplyTarget stores a freshly resolved target in the session together with
// the choices projected from it.
func ApplyTarget(s model.Session, rawURL string, target model.Target) model.Session {
	c := Project(target)
	return s.WithTarget(rawURL, target, c.Resolutions, c.Captions)
}

// ProgressiveStreams returns the muxed, fixed-container streams of a video
// sorted ascending by resolution.
func ProgressiveStreams(video *model.SingleVideo) []model.StreamDescriptor {
	if video == nil {
		return nil
	}
	var out []model.StreamDescriptor
	for _, s := range video.Streams {
		if s.Progressive && strings.EqualFold(s.Container, FixedContainer) && s.Resolution != "" {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b model.StreamDescriptor) int {
		if a.Height() != b.Height() {
			return a.Height() - b.Height()
		}
		return strings.Compare(a.Resolution, b.Resolution)
	})
	return out
}

// CaptionByLabel maps a projected caption label back to its track
func CaptionByLabel(video *model.SingleVideo, label string) (model.CaptionTrack, bool) {
	if video == nil {
		return model.CaptionTrack{}, false
	}
	code := model.CaptionCodeFromLabel(label)
	return findCaption(video, code)
}

// CaptionByCode looks a caption track up by its language code
func CaptionByCode(video *model.SingleVideo, code string) (model.CaptionTrack, bool) {
	if video == nil {
		return model.CaptionTrack{}, false
	}
	return findCaption(video, strings.TrimSpace(code))
}

func findCaption(video *model.SingleVideo, code string) (model.CaptionTrack, bool) {
	for _, track := range video.Captions {
		if track.LanguageCode == code {
			return track, true
		}
	}
	return model.CaptionTrack{}, false
}

// SelectStream picks the stream a download will transfer. Audio downloads
// ignore the resolution entirely.
func SelectStream(video *model.SingleVideo, format model.FormatKind, choice model.ResolutionChoice) (model.StreamDescriptor, error) {
	if format == model.FormatAudio {
		return selectAudio(video)
	}

	streams := ProgressiveStreams(video)
	notFound := &StreamNotFoundError{VideoID: video.ID, Format: model.FormatVideo, Resolution: choice.String()}
	if len(streams) == 0 {
		return model.StreamDescriptor{}, notFound
	}

	switch choice.Policy {
	case model.PolicyHighest:
		return streams[len(streams)-1], nil
	case model.PolicyLowest:
		return streams[0], nil
	default:
		for _, s := range streams {
			if s.Resolution == choice.Label {
				return s, nil
			}
		}
		return model.StreamDescriptor{}, notFound
	}
}

// selectAudio returns the best mp4 (m4a) audio-only stream. Other containers
// are considered only when the video has no mp4 audio.
func selectAudio(video *model.SingleVideo) (model.StreamDescriptor, error) {
	if best, ok := bestAudio(video.Streams, FixedContainer); ok {
		return best, nil
	}
	if best, ok := bestAudio(video.Streams, ""); ok {
		return best, nil
	}
	return model.StreamDescriptor{}, &StreamNotFoundError{VideoID: video.ID, Format: model.FormatAudio}
}

// bestAudio picks the highest-bitrate audio-only stream, restricted to
// container unless it is empty
func bestAudio(streams []model.StreamDescriptor, container string) (model.StreamDescriptor, bool) {
	var best model.StreamDescriptor
	found := false
	for _, s := range streams {
		if !s.AudioOnly || (container != "" && s.Container != container) {
			continue
		}
		if !found || s.Bitrate > best.Bitrate {
			best = s
			found = true
		}
	}
	return best, found
}
