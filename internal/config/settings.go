package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyLastFormat         = "last_format"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultFormat             = model.FormatVideo
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = false
	FallbackDownloadDirName   = "ytgrab-downloads"
)

// Settings manages the preferences the GUI remembers between runs
type Settings struct {
	app        fyne.App
	defaultDir string
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// SetDefaultDirectory overrides the directory used when none is stored,
// typically the one from the config file.
func (s *Settings) SetDefaultDirectory(dir string) {
	s.defaultDir = dir
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir != "" {
		return dir
	}

	dir = s.defaultDir
	if dir == "" {
		var err error
		dir, err = platform.GetHomeDownloadsDir()
		if err != nil {
			dir = filepath.Join(os.TempDir(), FallbackDownloadDirName)
		}
	}
	s.SetDownloadDirectory(dir)
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetLastFormat returns the format chosen in the previous session
func (s *Settings) GetLastFormat() model.FormatKind {
	switch f := model.FormatKind(s.app.Preferences().String(KeyLastFormat)); f {
	case model.FormatVideo, model.FormatAudio:
		return f
	default:
		return DefaultFormat
	}
}

// SetLastFormat remembers the chosen format
func (s *Settings) SetLastFormat(format model.FormatKind) {
	s.app.Preferences().SetString(KeyLastFormat, string(format))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to open the folder after a download
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to open the folder after a download
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
