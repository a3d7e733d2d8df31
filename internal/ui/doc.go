// Package ui contains the Fyne single-page form: URL entry, fetched metadata,
// format and resolution choices, optional subtitles, and download progress.
// Form state lives in FormController so it can be exercised without a window;
// RootUI only renders it. All UI strings are localized via Localization.
package ui
