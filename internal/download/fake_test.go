package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ytget/ytgrab/internal/model"
)

// fakeExtractor serves canned metadata and deterministic stream payloads.
type fakeExtractor struct {
	mu sync.Mutex

	videos    map[string]*model.SingleVideo
	playlists map[string]*model.Playlist
	cues      map[string][]model.Cue
	fetchErr  map[string]error
	openErr   error

	// OpenStream reports an unknown length
	unknownSize bool

	fetched []string
	opened  []int
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		videos:    make(map[string]*model.SingleVideo),
		playlists: make(map[string]*model.Playlist),
		cues:      make(map[string][]model.Cue),
		fetchErr:  make(map[string]error),
	}
}

func (f *fakeExtractor) addVideo(v *model.SingleVideo) {
	f.videos[v.URL] = v
}

func (f *fakeExtractor) FetchVideo(_ context.Context, url string) (*model.SingleVideo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, url)
	if err := f.fetchErr[url]; err != nil {
		return nil, err
	}
	v, ok := f.videos[url]
	if !ok {
		return nil, fmt.Errorf("video %s not found", url)
	}
	return v, nil
}

func (f *fakeExtractor) FetchPlaylist(_ context.Context, url string) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, url)
	if err := f.fetchErr[url]; err != nil {
		return nil, err
	}
	pl, ok := f.playlists[url]
	if !ok {
		return nil, fmt.Errorf("playlist %s not found", url)
	}
	return pl, nil
}

func (f *fakeExtractor) OpenStream(_ context.Context, video *model.SingleVideo, stream model.StreamDescriptor) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, 0, f.openErr
	}
	f.opened = append(f.opened, stream.Itag)
	data := payloadFor(video.ID, stream.Itag)
	if f.unknownSize {
		return io.NopCloser(bytes.NewReader(data)), -1, nil
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (f *fakeExtractor) Transcript(_ context.Context, video *model.SingleVideo, languageCode string) ([]model.Cue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cues, ok := f.cues[languageCode]
	if !ok {
		return nil, fmt.Errorf("no transcript %s for %s", languageCode, video.ID)
	}
	return cues, nil
}

func (f *fakeExtractor) wasFetched(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.fetched {
		if u == url {
			return true
		}
	}
	return false
}

func payloadFor(videoID string, itag int) []byte {
	return []byte(strings.Repeat(fmt.Sprintf("%s:%d;", videoID, itag), 16))
}

func sampleVideo(id, title string) *model.SingleVideo {
	v := &model.SingleVideo{
		ID:    id,
		URL:   "https://www.youtube.com/watch?v=" + id,
		Title: title,
		Streams: []model.StreamDescriptor{
			{Itag: 22, Resolution: "720p", Progressive: true, Container: "mp4"},
			{Itag: 18, Resolution: "360p", Progressive: true, Container: "mp4"},
			{Itag: 43, Resolution: "360p", Progressive: true, Container: "webm"},
			{Itag: 137, Resolution: "1080p", Container: "mp4"},
			{Itag: 140, AudioOnly: true, Container: "mp4", Bitrate: 128000},
			{Itag: 251, AudioOnly: true, Container: "webm", Bitrate: 160000},
		},
		Captions: []model.CaptionTrack{
			{LanguageCode: "en", DisplayName: "English"},
			{LanguageCode: "a.de", DisplayName: "German (auto-generated)"},
		},
	}
	for i := range v.Streams {
		v.Streams[i].FileSize = int64(len(payloadFor(id, v.Streams[i].Itag)))
	}
	return v
}

func samplePlaylist(f *fakeExtractor, url string, titles ...string) *model.Playlist {
	pl := &model.Playlist{ID: "PL1", URL: url, Title: "Sample playlist"}
	for i, title := range titles {
		v := sampleVideo(fmt.Sprintf("vid%d", i+1), title)
		f.addVideo(v)
		pl.VideoURLs = append(pl.VideoURLs, v.URL)
	}
	f.playlists[url] = pl
	return pl
}

type progressRecorder struct {
	events []model.Progress
}

func (r *progressRecorder) OnProgress(p model.Progress) {
	r.events = append(r.events, p)
}
