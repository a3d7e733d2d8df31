package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconVideo    = "🎬"
	IconMusic    = "🎵"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	WindowWidth  float32 = 640
	WindowHeight float32 = 560

	ThumbnailWidth  float32 = 320
	ThumbnailHeight float32 = 180

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 300

	// Touch target minimum sizes (iOS/Android guidelines)
	MinTouchTargetSize float32 = 44
)

// Debounce durations
const (
	ProgressRefreshInterval = 100 * time.Millisecond
)
