package model

import (
	"path/filepath"
	"strings"
)

// DownloadResult describes what a download operation left on disk
type DownloadResult struct {
	Files        []string // primary media files, in download order
	SubtitlePath string   // written caption side-file, if any
	SubtitleErr  error    // caption failure after a successful primary download
	Partial      bool     // primary saved but the caption side-file was not
}

// Directory returns the directory of the first saved file
func (r DownloadResult) Directory() string {
	if len(r.Files) == 0 {
		return ""
	}
	return filepath.Dir(r.Files[0])
}

// GetDisplayName returns the first saved file name without extension
func (r DownloadResult) GetDisplayName() string {
	if len(r.Files) == 0 {
		return ""
	}
	name := filepath.Base(r.Files[0])
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
