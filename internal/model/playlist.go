package model

import "time"

// TargetKind distinguishes the two branches of a Target
type TargetKind string

const (
	TargetNone     TargetKind = ""
	TargetVideo    TargetKind = "video"
	TargetPlaylist TargetKind = "playlist"
)

// SingleVideo describes one resolved video and what can be downloaded from it
type SingleVideo struct {
	ID           string             `json:"id"`
	URL          string             `json:"url"`
	Title        string             `json:"title"`
	Author       string             `json:"author,omitempty"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	Duration     time.Duration      `json:"duration"`
	Streams      []StreamDescriptor `json:"streams"`
	Captions     []CaptionTrack     `json:"captions"`
}

// Playlist describes a resolved playlist. Videos are resolved lazily from
// VideoURLs, in order, when a download runs.
type Playlist struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Author    string   `json:"author,omitempty"`
	VideoURLs []string `json:"video_urls"`
}

// VideoCount returns the number of entries in the playlist
func (p *Playlist) VideoCount() int {
	if p == nil {
		return 0
	}
	return len(p.VideoURLs)
}

// Target is the result of resolving a URL. Exactly one of Video and Playlist
// is set on a resolved target; the zero value is "nothing fetched yet".
type Target struct {
	Video    *SingleVideo
	Playlist *Playlist
}

// VideoTarget wraps a single video into a Target
func VideoTarget(v *SingleVideo) Target {
	return Target{Video: v}
}

// PlaylistTarget wraps a playlist into a Target
func PlaylistTarget(p *Playlist) Target {
	return Target{Playlist: p}
}

// Kind reports which branch of the target is active
func (t Target) Kind() TargetKind {
	switch {
	case t.Video != nil:
		return TargetVideo
	case t.Playlist != nil:
		return TargetPlaylist
	default:
		return TargetNone
	}
}

// IsZero reports whether nothing has been resolved
func (t Target) IsZero() bool {
	return t.Kind() == TargetNone
}

// Title returns the title of whichever branch is active
func (t Target) Title() string {
	switch t.Kind() {
	case TargetVideo:
		return t.Video.Title
	case TargetPlaylist:
		return t.Playlist.Title
	default:
		return ""
	}
}
