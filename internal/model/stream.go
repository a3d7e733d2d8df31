package model

import (
	"fmt"
	"strconv"
	"strings"
)

// StreamDescriptor describes one selectable rendition of a video
type StreamDescriptor struct {
	Itag        int    `json:"itag"`
	Resolution  string `json:"resolution,omitempty"` // e.g. "720p"; empty for audio-only
	Progressive bool   `json:"progressive"`          // audio and video muxed together
	AudioOnly   bool   `json:"audio_only"`
	Container   string `json:"container"` // file extension without dot, e.g. "mp4"
	MimeType    string `json:"mime_type"`
	FileSize    int64  `json:"file_size"`
	Bitrate     int    `json:"bitrate"`
}

// Height returns the numeric part of the resolution label ("720p60" -> 720),
// or 0 when the label carries no number.
func (s StreamDescriptor) Height() int {
	label := s.Resolution
	end := 0
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	h, err := strconv.Atoi(label[:end])
	if err != nil {
		return 0
	}
	return h
}

// String returns a short human readable description used in logs
func (s StreamDescriptor) String() string {
	if s.AudioOnly {
		return fmt.Sprintf("itag %d audio/%s", s.Itag, s.Container)
	}
	return fmt.Sprintf("itag %d %s/%s", s.Itag, s.Resolution, s.Container)
}

// CaptionTrack identifies one caption language of a video
type CaptionTrack struct {
	LanguageCode string `json:"language_code"`
	DisplayName  string `json:"display_name"`
}

// CaptionLabelSeparator joins code and name in projected caption labels
const CaptionLabelSeparator = " - "

// Label returns the user-facing "{code} - {name}" form
func (c CaptionTrack) Label() string {
	return c.LanguageCode + CaptionLabelSeparator + c.DisplayName
}

// CaptionCodeFromLabel extracts the language code from a projected label
func CaptionCodeFromLabel(label string) string {
	code, _, _ := strings.Cut(label, CaptionLabelSeparator)
	return strings.TrimSpace(code)
}

// Cue is a single timed caption segment
type Cue struct {
	StartMs    int
	DurationMs int
	Text       string
}
