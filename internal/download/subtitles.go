package download

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/asticode/go-astisub"

	"github.com/ytget/ytgrab/internal/model"
)

// SubtitleExtension is the extension of caption side-files
const SubtitleExtension = ".srt"

// SubtitlePath returns "<stem>_<code>.srt" next to the media file
func SubtitlePath(mediaPath, languageCode string) string {
	stem := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	return stem + "_" + languageCode + SubtitleExtension
}

// WriteSRT renders cues in the SubRip text format
func WriteSRT(w io.Writer, cues []model.Cue) error {
	subs := astisub.NewSubtitles()
	for _, cue := range cues {
		text := strings.TrimSpace(cue.Text)
		if text == "" {
			continue
		}
		start := time.Duration(cue.StartMs) * time.Millisecond
		item := &astisub.Item{
			StartAt: start,
			EndAt:   start + time.Duration(cue.DurationMs)*time.Millisecond,
		}
		for _, line := range strings.Split(text, "\n") {
			item.Lines = append(item.Lines, astisub.Line{
				Items: []astisub.LineItem{{Text: strings.TrimSpace(line)}},
			})
		}
		subs.Items = append(subs.Items, item)
	}

	if len(subs.Items) == 0 {
		return ErrNoCaptionCues
	}
	if err := subs.WriteToSRT(w); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}
