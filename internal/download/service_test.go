package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/ytgrab/internal/model"
)

func newTestService(f *fakeExtractor) *Service {
	s := NewService(f, nil)
	s.SetChunkSize(7)
	return s
}

func assertMonotonic(t *testing.T, events []model.Progress) {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("expected progress events")
	}
	for i := 1; i < len(events); i++ {
		if events[i].Overall < events[i-1].Overall {
			t.Fatalf("progress went backwards at %d: %.3f -> %.3f", i, events[i-1].Overall, events[i].Overall)
		}
	}
	if last := events[len(events)-1].Overall; last != 1.0 {
		t.Fatalf("final progress = %.3f, want 1.0", last)
	}
}

func TestNewService(t *testing.T) {
	s := NewService(newFakeExtractor(), nil)

	if s.chunkSize != DefaultChunkSize {
		t.Errorf("chunkSize = %d, want %d", s.chunkSize, DefaultChunkSize)
	}
	if s.resolver == nil {
		t.Error("expected resolver")
	}

	s.SetChunkSize(0)
	if s.chunkSize != DefaultChunkSize {
		t.Errorf("non-positive chunk size should reset to default, got %d", s.chunkSize)
	}
}

func TestDownloadVideo(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "My Video: Part 1")
	f.addVideo(v)
	s := newTestService(f)
	dir := filepath.Join(t.TempDir(), "nested", "out")
	rec := &progressRecorder{}

	opts := model.DownloadOptions{Format: model.FormatVideo, Resolution: model.ExactResolution("720p")}
	result, err := s.Download(context.Background(), model.VideoTarget(v), opts, dir, rec)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got %v", result.Files)
	}
	want := filepath.Join(dir, "My Video Part 1.mp4")
	if result.Files[0] != want {
		t.Errorf("file = %q, want %q", result.Files[0], want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if string(data) != string(payloadFor("abc", 22)) {
		t.Error("saved content does not match the 720p stream")
	}
	if _, err := os.Stat(want + PartialSuffix); !os.IsNotExist(err) {
		t.Error("partial file should be renamed away")
	}

	assertMonotonic(t, rec.events)
	for _, e := range rec.events {
		if e.Count != 1 || e.Index != 0 {
			t.Fatalf("single video progress should be 0 of 1, got %d of %d", e.Index, e.Count)
		}
	}
	if len(rec.events) < 3 {
		t.Errorf("expected per-chunk events, got %d", len(rec.events))
	}
}

func TestDownloadUnknownSizeReachesOneOnlyAtEnd(t *testing.T) {
	f := newFakeExtractor()
	f.unknownSize = true
	v := sampleVideo("abc", "clip")
	for i := range v.Streams {
		v.Streams[i].FileSize = 0
	}
	s := newTestService(f)
	rec := &progressRecorder{}

	opts := model.DownloadOptions{Format: model.FormatVideo, Resolution: model.Highest}
	if _, err := s.Download(context.Background(), model.VideoTarget(v), opts, t.TempDir(), rec); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	assertMonotonic(t, rec.events)
	if len(rec.events) < 3 {
		t.Fatalf("expected per-chunk events, got %d", len(rec.events))
	}
	for i, e := range rec.events[:len(rec.events)-1] {
		if e.Overall != 0 {
			t.Errorf("event %d Overall = %.3f before the transfer ended", i, e.Overall)
		}
	}
	last := rec.events[len(rec.events)-1]
	if want := int64(len(payloadFor("abc", 22))); last.Item.BytesTotal != want || last.Item.BytesRemaining != 0 {
		t.Errorf("final state = %+v, want %d bytes done", last.Item, want)
	}
}

func TestDownloadVideoHighestAndLowest(t *testing.T) {
	tests := []struct {
		name   string
		choice model.ResolutionChoice
		itag   int
	}{
		{"highest", model.Highest, 22},
		{"lowest", model.Lowest, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeExtractor()
			v := sampleVideo("abc", "clip")
			s := newTestService(f)

			opts := model.DownloadOptions{Format: model.FormatVideo, Resolution: tt.choice}
			if _, err := s.Download(context.Background(), model.VideoTarget(v), opts, t.TempDir(), nil); err != nil {
				t.Fatalf("Download() error = %v", err)
			}
			if len(f.opened) != 1 || f.opened[0] != tt.itag {
				t.Errorf("opened = %v, want [%d]", f.opened, tt.itag)
			}
		})
	}
}

func TestDownloadAudioIgnoresResolution(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "song")
	s := newTestService(f)
	dir := t.TempDir()

	opts := model.DownloadOptions{Format: model.FormatAudio, Resolution: model.ExactResolution("9999p")}
	result, err := s.Download(context.Background(), model.VideoTarget(v), opts, dir, nil)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if got := result.Files[0]; got != filepath.Join(dir, "song.mp3") {
		t.Errorf("file = %q, want song.mp3", got)
	}
	if len(f.opened) != 1 || f.opened[0] != 140 {
		t.Errorf("opened = %v, want the m4a audio stream", f.opened)
	}
}

type fakeTranscoder struct {
	inputs []string
	err    error
}

func (tc *fakeTranscoder) ToMP3(_ context.Context, in, out string) error {
	tc.inputs = append(tc.inputs, in)
	if tc.err != nil {
		return tc.err
	}
	return os.WriteFile(out, []byte("ID3"), DefaultFileMode)
}

func TestDownloadAudioWithTranscoder(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "song")
	s := newTestService(f)
	tc := &fakeTranscoder{}
	s.SetTranscoder(tc)
	dir := t.TempDir()

	result, err := s.Download(context.Background(), model.VideoTarget(v), model.DownloadOptions{Format: model.FormatAudio}, dir, nil)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	source := filepath.Join(dir, "song.m4a")
	if len(tc.inputs) != 1 || tc.inputs[0] != source {
		t.Errorf("transcoder inputs = %v, want [%s]", tc.inputs, source)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Error("transcoded source should be removed")
	}
	if result.Files[0] != filepath.Join(dir, "song.mp3") {
		t.Errorf("file = %q", result.Files[0])
	}
}

func TestDownloadAbsentResolution(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "clip")
	s := newTestService(f)
	dir := t.TempDir()

	opts := model.DownloadOptions{Format: model.FormatVideo, Resolution: model.ExactResolution("1080p")}
	_, err := s.Download(context.Background(), model.VideoTarget(v), opts, dir, nil)

	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected *DownloadError, got %v", err)
	}
	var notFound *StreamNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *StreamNotFoundError cause, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should be created, found %d entries", len(entries))
	}
	if len(f.opened) != 0 {
		t.Error("no stream should be opened")
	}
}

func TestDownloadWithSubtitles(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "talk")
	f.cues["en"] = []model.Cue{
		{StartMs: 0, DurationMs: 1500, Text: "Hello"},
		{StartMs: 1500, DurationMs: 2000, Text: "World"},
	}
	s := newTestService(f)
	dir := t.TempDir()

	track := v.Captions[0]
	opts := model.DownloadOptions{Format: model.FormatVideo, Resolution: model.Highest, Subtitle: &track}
	result, err := s.Download(context.Background(), model.VideoTarget(v), opts, dir, nil)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	want := filepath.Join(dir, "talk_en.srt")
	if result.SubtitlePath != want {
		t.Errorf("SubtitlePath = %q, want %q", result.SubtitlePath, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if !strings.Contains(string(data), "Hello") || !strings.Contains(string(data), "World") {
		t.Errorf("srt missing cue text:\n%s", data)
	}
	if result.Partial {
		t.Error("result should not be partial")
	}
}

func TestDownloadAbsentCaptionKeepsVideo(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "talk")
	s := newTestService(f)
	dir := t.TempDir()

	opts := model.DownloadOptions{
		Format:     model.FormatVideo,
		Resolution: model.ExactResolution("360p"),
		Subtitle:   &model.CaptionTrack{LanguageCode: "fr", DisplayName: "French"},
	}
	result, err := s.Download(context.Background(), model.VideoTarget(v), opts, dir, nil)

	var captionErr *CaptionNotFoundError
	if !errors.As(err, &captionErr) {
		t.Fatalf("expected *CaptionNotFoundError, got %v", err)
	}
	if captionErr.LanguageCode != "fr" {
		t.Errorf("LanguageCode = %q", captionErr.LanguageCode)
	}
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Errorf("expected *DownloadError wrapper, got %T", err)
	}
	if !IsPartial(err) || !result.Partial {
		t.Error("expected partial success")
	}

	if len(result.Files) != 1 {
		t.Fatalf("expected the video file in the result, got %v", result.Files)
	}
	stream, err := SelectStream(v, model.FormatVideo, model.ExactResolution("360p"))
	if err != nil {
		t.Fatalf("SelectStream() error = %v", err)
	}
	info, statErr := os.Stat(result.Files[0])
	if statErr != nil {
		t.Fatalf("video should stay on disk: %v", statErr)
	}
	if stream.FileSize == 0 || info.Size() != stream.FileSize {
		t.Errorf("size = %d, want the stream's reported %d", info.Size(), stream.FileSize)
	}
	if _, err := os.Stat(filepath.Join(dir, "talk_fr.srt")); !os.IsNotExist(err) {
		t.Error("no srt should be written")
	}
}

func TestDownloadAudioSkipsSubtitles(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "song")
	s := newTestService(f)

	opts := model.DownloadOptions{
		Format:   model.FormatAudio,
		Subtitle: &model.CaptionTrack{LanguageCode: "fr"},
	}
	result, err := s.Download(context.Background(), model.VideoTarget(v), opts, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if result.SubtitlePath != "" {
		t.Errorf("audio download wrote subtitles: %q", result.SubtitlePath)
	}
}

func TestDownloadPlaylist(t *testing.T) {
	f := newFakeExtractor()
	pl := samplePlaylist(f, "https://www.youtube.com/playlist?list=PL1", "first", "second", "third")
	s := newTestService(f)
	dir := t.TempDir()
	rec := &progressRecorder{}

	opts := model.DownloadOptions{Format: model.FormatVideo, Resolution: model.Lowest}
	result, err := s.Download(context.Background(), model.PlaylistTarget(pl), opts, dir, rec)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	wantFiles := []string{
		filepath.Join(dir, "first.mp4"),
		filepath.Join(dir, "second.mp4"),
		filepath.Join(dir, "third.mp4"),
	}
	if len(result.Files) != len(wantFiles) {
		t.Fatalf("files = %v", result.Files)
	}
	for i, want := range wantFiles {
		if result.Files[i] != want {
			t.Errorf("file %d = %q, want %q", i, result.Files[i], want)
		}
	}

	assertMonotonic(t, rec.events)
	seen := map[int]bool{}
	lastIndex := 0
	for _, e := range rec.events {
		if e.Count != 3 {
			t.Fatalf("Count = %d, want 3", e.Count)
		}
		if e.Index < lastIndex {
			t.Fatalf("index went backwards: %d -> %d", lastIndex, e.Index)
		}
		lastIndex = e.Index
		if !seen[e.Index] {
			seen[e.Index] = true
			want := float64(e.Index) / 3
			if e.Overall != want {
				t.Errorf("item %d started at %.3f, want %.3f", e.Index, e.Overall, want)
			}
			if e.Title != []string{"first", "second", "third"}[e.Index] {
				t.Errorf("item %d title = %q", e.Index, e.Title)
			}
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected progress for 3 items, got %d", len(seen))
	}
}

func TestDownloadPlaylistDuplicateTitles(t *testing.T) {
	f := newFakeExtractor()
	pl := samplePlaylist(f, "https://www.youtube.com/playlist?list=PL1", "Same", "Same", "Same")
	s := newTestService(f)
	dir := t.TempDir()

	opts := model.DownloadOptions{Format: model.FormatVideo, Resolution: model.Highest}
	result, err := s.Download(context.Background(), model.PlaylistTarget(pl), opts, dir, nil)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	wantFiles := []string{
		filepath.Join(dir, "Same.mp4"),
		filepath.Join(dir, "Same (vid2).mp4"),
		filepath.Join(dir, "Same (vid3).mp4"),
	}
	if len(result.Files) != len(wantFiles) {
		t.Fatalf("files = %v", result.Files)
	}
	for i, want := range wantFiles {
		if result.Files[i] != want {
			t.Errorf("file %d = %q, want %q", i, result.Files[i], want)
		}
		data, err := os.ReadFile(want)
		if err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if id := fmt.Sprintf("vid%d", i+1); string(data) != string(payloadFor(id, 22)) {
			t.Errorf("%s does not hold the content of %s", want, id)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != len(wantFiles) {
		t.Errorf("expected %d files on disk, got %d", len(wantFiles), len(entries))
	}
}

func TestDownloadKeepsExistingFile(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "clip")
	s := newTestService(f)
	dir := t.TempDir()
	existing := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(existing, []byte("keep me"), DefaultFileMode); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clip (abc).mp4"), []byte("keep me too"), DefaultFileMode); err != nil {
		t.Fatal(err)
	}

	result, err := s.Download(context.Background(), model.VideoTarget(v), model.DownloadOptions{Resolution: model.Highest}, dir, nil)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if want := filepath.Join(dir, "clip (abc) (2).mp4"); result.Files[0] != want {
		t.Errorf("file = %q, want %q", result.Files[0], want)
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep me" {
		t.Error("existing file was overwritten")
	}
}

func TestDownloadPlaylistStopsOnFirstFailure(t *testing.T) {
	f := newFakeExtractor()
	pl := samplePlaylist(f, "https://www.youtube.com/playlist?list=PL1", "first", "second", "third")
	f.fetchErr[pl.VideoURLs[1]] = errors.New("video unavailable")
	s := newTestService(f)

	result, err := s.Download(context.Background(), model.PlaylistTarget(pl), model.DownloadOptions{Resolution: model.Highest}, t.TempDir(), nil)

	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected *DownloadError, got %v", err)
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.URL != pl.VideoURLs[1] {
		t.Errorf("expected resolution failure of the second video, got %v", err)
	}
	if len(result.Files) != 1 {
		t.Errorf("first video should be kept, files = %v", result.Files)
	}
	if f.wasFetched(pl.VideoURLs[2]) {
		t.Error("third video must not be attempted")
	}
}

func TestDownloadPlaylistIgnoresSubtitles(t *testing.T) {
	f := newFakeExtractor()
	pl := samplePlaylist(f, "https://www.youtube.com/playlist?list=PL1", "first")
	s := newTestService(f)

	opts := model.DownloadOptions{
		Format:     model.FormatVideo,
		Resolution: model.Highest,
		Subtitle:   &model.CaptionTrack{LanguageCode: "fr"},
	}
	result, err := s.Download(context.Background(), model.PlaylistTarget(pl), opts, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if result.SubtitlePath != "" || result.Partial {
		t.Error("playlist items never carry subtitles")
	}
}

func TestDownloadNoTarget(t *testing.T) {
	s := newTestService(newFakeExtractor())

	_, err := s.Download(context.Background(), model.Target{}, model.DownloadOptions{}, t.TempDir(), nil)
	if !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
}

func TestDownloadCanceled(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "clip")
	s := newTestService(f)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Download(ctx, model.VideoTarget(v), model.DownloadOptions{Resolution: model.Highest}, dir, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "clip.mp4")); !os.IsNotExist(err) {
		t.Error("canceled download should not produce a final file")
	}
}

func TestDownloadOpenStreamFailure(t *testing.T) {
	f := newFakeExtractor()
	f.openErr = errors.New("403 forbidden")
	v := sampleVideo("abc", "clip")
	s := newTestService(f)

	_, err := s.Download(context.Background(), model.VideoTarget(v), model.DownloadOptions{Resolution: model.Highest}, t.TempDir(), nil)
	if !errors.Is(err, f.openErr) {
		t.Fatalf("expected stream error to be wrapped, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "download failed: ") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestServiceResolve(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "clip")
	f.addVideo(v)
	s := newTestService(f)

	target, err := s.Resolve(context.Background(), v.URL)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Video != v {
		t.Error("expected resolved video")
	}
}
