package download

import (
	"context"
	"errors"
	"testing"

	"github.com/ytget/ytgrab/internal/model"
)

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://youtu.be/abc", false},
		// the marker is matched anywhere, including query artifacts
		{"https://www.youtube.com/watch?v=abc&feature=playlist", true},
		{"https://www.youtube.com/watch?v=abc&list=PL123", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsPlaylistURL(tt.url); got != tt.expected {
				t.Errorf("IsPlaylistURL(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"valid", "https://youtu.be/abc", "https://youtu.be/abc", nil},
		{"surrounding whitespace", "  https://youtu.be/abc \n", "https://youtu.be/abc", nil},
		{"empty", "", "", ErrEmptyURL},
		{"blank", "   ", "", ErrEmptyURL},
		{"no scheme", "youtu.be/abc", "", ErrMalformedURL},
		{"wrong scheme", "ftp://youtu.be/abc", "", ErrMalformedURL},
		{"missing host", "https:///watch", "", ErrMalformedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateURL(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateURL(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveEmptyURL(t *testing.T) {
	f := newFakeExtractor()
	r := NewResolver(f, nil)

	_, err := r.Resolve(context.Background(), "")

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %v", err)
	}
	if !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL cause, got %v", err)
	}
	if len(f.fetched) != 0 {
		t.Errorf("extractor must not be called, got %v", f.fetched)
	}
}

func TestResolveVideo(t *testing.T) {
	f := newFakeExtractor()
	v := sampleVideo("abc", "A video")
	f.addVideo(v)
	r := NewResolver(f, nil)

	target, err := r.Resolve(context.Background(), " "+v.URL+" ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Kind() != model.TargetVideo {
		t.Fatalf("Kind() = %v, want video", target.Kind())
	}
	if target.Video != v {
		t.Error("expected the fetched video")
	}
	if target.Title() != "A video" {
		t.Errorf("Title() = %q", target.Title())
	}
}

func TestResolvePlaylist(t *testing.T) {
	f := newFakeExtractor()
	url := "https://www.youtube.com/playlist?list=PL1"
	samplePlaylist(f, url, "one", "two")
	r := NewResolver(f, nil)

	target, err := r.Resolve(context.Background(), url)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Kind() != model.TargetPlaylist {
		t.Fatalf("Kind() = %v, want playlist", target.Kind())
	}
	if target.Playlist.VideoCount() != 2 {
		t.Errorf("VideoCount() = %d, want 2", target.Playlist.VideoCount())
	}
	// entries are resolved lazily at download time
	if f.wasFetched("https://www.youtube.com/watch?v=vid1") {
		t.Error("playlist entries should not be fetched during resolution")
	}
}

func TestResolveExtractorFailure(t *testing.T) {
	f := newFakeExtractor()
	url := "https://www.youtube.com/watch?v=gone"
	cause := errors.New("video is private")
	f.fetchErr[url] = cause
	r := NewResolver(f, nil)

	_, err := r.Resolve(context.Background(), url)

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %v", err)
	}
	if resErr.URL != url {
		t.Errorf("URL = %q, want %q", resErr.URL, url)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
}

func TestResolverVideosStopsEarly(t *testing.T) {
	f := newFakeExtractor()
	pl := samplePlaylist(f, "https://www.youtube.com/playlist?list=PL1", "one", "two", "three")
	r := NewResolver(f, nil)

	var titles []string
	for v, err := range r.Videos(context.Background(), pl) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		titles = append(titles, v.Title)
		if len(titles) == 2 {
			break
		}
	}

	if len(titles) != 2 || titles[0] != "one" || titles[1] != "two" {
		t.Errorf("titles = %v", titles)
	}
	if f.wasFetched(pl.VideoURLs[2]) {
		t.Error("third entry should not be fetched after the consumer stopped")
	}
}
