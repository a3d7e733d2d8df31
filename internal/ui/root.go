package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

// RootUI is the single-page download form
type RootUI struct {
	ctx          context.Context
	window       fyne.Window
	app          fyne.App
	ctrl         *FormController
	settings     *config.Settings
	localization *Localization
	logger       *log.Logger

	urlEntry    *widget.Entry
	fetchBtn    *widget.Button
	settingsBtn *widget.Button

	infoBox     *fyne.Container
	titleLabel  *widget.Label
	detailLabel *widget.Label
	thumbnail   *canvas.Image

	optionsBox       *fyne.Container
	formatRadio      *widget.RadioGroup
	resolutionBox    *fyne.Container
	resolutionLabel  *widget.Label
	resolutionSelect *widget.Select
	subtitleBox      *fyne.Container
	subtitleCheck    *widget.Check
	subtitleSelect   *widget.Select
	downloadBtn      *widget.Button

	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
	noticeBox     *fyne.Container
	openFolderBtn *widget.Button

	// set while widgets are synced from the session so their change
	// callbacks don't write back
	rendering bool
	pending   bool
	notices   []Notice

	lastResult   model.DownloadResult
	lastProgress time.Time
	lastIndex    int
}

// NewRootUI creates the form and sets it as the window content
func NewRootUI(ctx context.Context, window fyne.Window, app fyne.App, svc download.Downloader, settings *config.Settings, logger *log.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		ctx:          ctx,
		window:       window,
		app:          app,
		ctrl:         NewFormController(svc, settings.GetLastFormat(), logger),
		settings:     settings,
		localization: localization,
		logger:       logging.Component(logger, "ui"),
		thumbnail:    canvas.NewImageFromResource(nil),
	}

	ui.thumbnail.FillMode = canvas.ImageFillContain
	ui.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))

	ui.setupUI()
	return ui
}

// Controller exposes the form state, mostly for tests
func (ui *RootUI) Controller() *FormController {
	return ui.ctrl
}

func (ui *RootUI) setupUI() {
	t := ui.localization.GetText
	ui.window.SetTitle(t(KeyAppTitle))
	ui.createMenu()

	text := ""
	if ui.urlEntry != nil {
		text = ui.urlEntry.Text
	}
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(t(KeyEnterURL))
	ui.urlEntry.SetText(text)
	ui.urlEntry.OnSubmitted = func(string) { ui.onFetchClick() }

	ui.fetchBtn = widget.NewButton(t(KeyFetch), ui.onFetchClick)
	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	top := container.NewBorder(nil, nil, ui.settingsBtn, ui.fetchBtn, ui.urlEntry)

	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.detailLabel = widget.NewLabel("")
	ui.infoBox = container.NewVBox(ui.titleLabel, ui.detailLabel, container.NewCenter(ui.thumbnail))

	ui.formatRadio = widget.NewRadioGroup([]string{
		IconVideo + " " + t(KeyFormatVideo),
		IconMusic + " " + t(KeyFormatAudio),
	}, ui.onFormatChanged)
	ui.formatRadio.Horizontal = true
	ui.formatRadio.Required = true
	formatColumn := container.NewVBox(widget.NewLabel(t(KeyDownloadOption)), ui.formatRadio)

	ui.resolutionLabel = widget.NewLabel(t(KeyResolution))
	ui.resolutionSelect = widget.NewSelect(nil, ui.onResolutionChanged)
	ui.resolutionBox = container.NewVBox(ui.resolutionLabel, ui.resolutionSelect)

	ui.subtitleCheck = widget.NewCheck(t(KeyWithSubtitles), ui.onSubtitleToggled)
	ui.subtitleSelect = widget.NewSelect(nil, ui.onSubtitleChosen)
	ui.subtitleSelect.PlaceHolder = t(KeySubtitleLang)
	ui.subtitleBox = container.NewVBox(ui.subtitleCheck, ui.subtitleSelect)

	ui.downloadBtn = newActionButton(t(KeyDownload), ui.onDownloadClick)
	ui.optionsBox = container.NewVBox(
		optionsRow(formatColumn, ui.resolutionBox),
		ui.subtitleBox,
		touchSized(ui.downloadBtn),
	)

	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.TextFormatter = func() string {
		return fmt.Sprintf(ProgressLabelFormat, int(ui.progressBar.Value*100+0.5))
	}
	ui.progressLabel = widget.NewLabel("")
	ui.progressLabel.Truncation = fyne.TextTruncateEllipsis
	ui.noticeBox = container.NewVBox()
	ui.openFolderBtn = widget.NewButton(IconFolder+" "+t(KeyOpenFolder), ui.onOpenFolder)
	ui.openFolderBtn.Hide()

	content := container.NewVBox(
		top,
		widget.NewSeparator(),
		ui.infoBox,
		ui.optionsBox,
		widget.NewSeparator(),
		ui.progressBar,
		ui.progressLabel,
		ui.noticeBox,
		ui.openFolderBtn,
	)
	ui.window.SetContent(container.NewVScroll(content))

	ui.render()
	ui.showNotices(ui.notices...)
	if len(ui.lastResult.Files) > 0 {
		ui.openFolderBtn.Show()
	}
}

func (ui *RootUI) createMenu() {
	t := ui.localization.GetText
	settingsItem := fyne.NewMenuItem(t(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		item := fyne.NewMenuItem(name, func() { ui.onLanguageChange(langCode) })
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(t(KeyFile), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
}

// refreshUITexts rebuilds the widgets in the current language. Session
// state lives in the controller so nothing is lost.
func (ui *RootUI) refreshUITexts() {
	ui.setupUI()
}

// render syncs every widget with the controller's session
func (ui *RootUI) render() {
	ui.rendering = true
	defer func() { ui.rendering = false }()

	s := ui.ctrl.Session()
	busy := ui.pending || ui.ctrl.Busy()

	switch s.Target.Kind() {
	case model.TargetVideo:
		v := s.Target.Video
		ui.titleLabel.SetText(ui.localization.Format(KeyTitle, v.Title))
		ui.detailLabel.SetText(ui.localization.Format(KeyDuration, platform.FormatDuration(v.Duration)))
		if ui.thumbnail.Resource != nil {
			ui.thumbnail.Show()
		} else {
			ui.thumbnail.Hide()
		}
		ui.infoBox.Show()
		ui.optionsBox.Show()
	case model.TargetPlaylist:
		p := s.Target.Playlist
		ui.titleLabel.SetText(ui.localization.Format(KeyPlaylistTitle, p.Title))
		ui.detailLabel.SetText(ui.localization.Format(KeyVideoCount, p.VideoCount()))
		ui.thumbnail.Hide()
		ui.infoBox.Show()
		ui.optionsBox.Show()
	default:
		ui.infoBox.Hide()
		ui.optionsBox.Hide()
	}

	if s.Selection.Format == model.FormatAudio {
		ui.formatRadio.SetSelected(ui.formatRadio.Options[1])
	} else {
		ui.formatRadio.SetSelected(ui.formatRadio.Options[0])
	}

	ui.renderResolution(s)
	ui.renderSubtitles(s)

	if busy {
		ui.fetchBtn.Disable()
		ui.downloadBtn.Disable()
	} else {
		ui.fetchBtn.Enable()
		if s.Target.IsZero() {
			ui.downloadBtn.Disable()
		} else {
			ui.downloadBtn.Enable()
		}
	}
}

func (ui *RootUI) renderResolution(s model.Session) {
	if s.Selection.Format == model.FormatAudio || s.Target.IsZero() {
		ui.resolutionBox.Hide()
		return
	}
	ui.resolutionBox.Show()

	if s.Target.Kind() == model.TargetPlaylist {
		ui.resolutionLabel.SetText(ui.localization.GetText(KeyResolutionMode))
		ui.resolutionSelect.SetOptions([]string{
			ui.localization.GetText(KeyHighest),
			ui.localization.GetText(KeyLowest),
		})
		if s.Selection.Resolution.Policy == model.PolicyLowest {
			ui.resolutionSelect.SetSelected(ui.resolutionSelect.Options[1])
		} else {
			ui.resolutionSelect.SetSelected(ui.resolutionSelect.Options[0])
		}
		return
	}

	ui.resolutionLabel.SetText(ui.localization.GetText(KeyResolution))
	ui.resolutionSelect.SetOptions(s.Resolutions)
	if s.Selection.Resolution.Policy == model.PolicyExact {
		ui.resolutionSelect.SetSelected(s.Selection.Resolution.Label)
	} else {
		ui.resolutionSelect.ClearSelected()
	}
}

func (ui *RootUI) renderSubtitles(s model.Session) {
	if s.Target.Kind() != model.TargetVideo || s.Selection.Format != model.FormatVideo {
		ui.subtitleBox.Hide()
		return
	}
	ui.subtitleBox.Show()
	ui.subtitleSelect.SetOptions(s.Captions)
	if s.Selection.Subtitle != nil {
		ui.subtitleSelect.SetSelected(s.Selection.Subtitle.Label())
	} else {
		ui.subtitleSelect.ClearSelected()
	}
	if ui.subtitleCheck.Checked && len(s.Captions) > 0 {
		ui.subtitleSelect.Show()
	} else {
		ui.subtitleSelect.Hide()
	}
}

func (ui *RootUI) onFormatChanged(selected string) {
	if ui.rendering || selected == "" {
		return
	}
	format := model.FormatVideo
	if selected == ui.formatRadio.Options[1] {
		format = model.FormatAudio
	}
	ui.ctrl.SetFormat(format)
	ui.settings.SetLastFormat(format)
	ui.render()
}

func (ui *RootUI) onResolutionChanged(selected string) {
	if ui.rendering || selected == "" {
		return
	}
	switch {
	case ui.ctrl.Session().Target.Kind() != model.TargetPlaylist:
		ui.ctrl.SetResolution(model.ExactResolution(selected))
	case selected == ui.localization.GetText(KeyLowest):
		ui.ctrl.SetResolution(model.Lowest)
	default:
		ui.ctrl.SetResolution(model.Highest)
	}
}

func (ui *RootUI) onSubtitleToggled(checked bool) {
	if ui.rendering {
		return
	}
	label := ""
	if checked {
		label = ui.subtitleSelect.Selected
	}
	if notice := ui.ctrl.SetSubtitle(checked, label); !notice.IsZero() {
		ui.showNotices(notice)
	}
	ui.render()
}

func (ui *RootUI) onSubtitleChosen(label string) {
	if ui.rendering || label == "" {
		return
	}
	if notice := ui.ctrl.SetSubtitle(true, label); !notice.IsZero() {
		ui.showNotices(notice)
	}
}

func (ui *RootUI) onFetchClick() {
	if ui.pending {
		return
	}
	url := ui.urlEntry.Text
	ui.pending = true
	ui.lastResult = model.DownloadResult{}
	ui.openFolderBtn.Hide()
	ui.progressBar.SetValue(0)
	ui.progressLabel.SetText("")
	ui.showNotices(newNotice(NoticeInfo, KeyFetching))
	ui.render()

	go func() {
		notice := ui.ctrl.Fetch(ui.ctx, url)
		thumb := ui.loadThumbnail(ui.ctrl.Session())

		fyne.Do(func() {
			ui.pending = false
			ui.thumbnail.Resource = thumb
			ui.thumbnail.Refresh()

			ui.rendering = true
			ui.subtitleCheck.SetChecked(false)
			ui.rendering = false

			ui.showNotices(notice)
			ui.render()
		})
	}()
}

// loadThumbnail fetches the preview image; failures only lose the preview
func (ui *RootUI) loadThumbnail(s model.Session) fyne.Resource {
	if s.Target.Video == nil || s.Target.Video.ThumbnailURL == "" {
		return nil
	}
	res, err := fyne.LoadResourceFromURLString(s.Target.Video.ThumbnailURL)
	if err != nil {
		ui.logger.Debug("thumbnail unavailable", "url", s.Target.Video.ThumbnailURL, "err", err)
		return nil
	}
	return res
}

func (ui *RootUI) onDownloadClick() {
	if ui.pending {
		return
	}
	dir := ui.settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.showNotices(newNotice(NoticeError, KeyDownloadFailed, err.Error()))
		return
	}

	ui.pending = true
	ui.lastIndex = -1
	ui.lastProgress = time.Time{}
	ui.openFolderBtn.Hide()
	ui.progressBar.SetValue(0)
	ui.progressLabel.SetText(ui.localization.GetText(KeyDownloading))
	ui.showNotices(newNotice(NoticeInfo, KeyDownloading))
	ui.render()

	go func() {
		observer := download.ProgressFunc(ui.onProgress)
		result, notices := ui.ctrl.Download(ui.ctx, dir, observer)

		fyne.Do(func() {
			ui.pending = false
			ui.lastResult = result
			ui.showNotices(notices...)
			ui.render()

			if len(result.Files) == 0 {
				return
			}
			ui.openFolderBtn.Show()
			ui.sendCompletionNotification(result, notices)
			if ui.settings.GetAutoRevealOnComplete() {
				ui.onOpenFolder()
			}
		})
	}()
}

// onProgress runs on the download goroutine and throttles widget updates
func (ui *RootUI) onProgress(p model.Progress) {
	now := time.Now()
	if p.Index == ui.lastIndex && p.Overall < 1 && now.Sub(ui.lastProgress) < ProgressRefreshInterval {
		return
	}
	ui.lastIndex = p.Index
	ui.lastProgress = now

	text := ui.progressText(p)
	fyne.Do(func() {
		ui.progressBar.SetValue(p.Overall)
		ui.progressLabel.SetText(text)
	})
}

func (ui *RootUI) progressText(p model.Progress) string {
	bytes := DashPlaceholder
	if p.Item.BytesTotal > 0 {
		done := p.Item.BytesTotal - p.Item.BytesRemaining
		bytes = ui.localization.Format(KeyProgressBytes,
			humanize.Bytes(uint64(max(done, 0))),
			humanize.Bytes(uint64(p.Item.BytesTotal)))
	}
	if p.Count > 1 {
		return ui.localization.Format(KeyProgressItem, p.Index+1, p.Count, p.Title) + MiddleDotSeparator + bytes
	}
	return p.Title + MiddleDotSeparator + bytes
}

// showNotices replaces the message area
func (ui *RootUI) showNotices(notices ...Notice) {
	kept := make([]Notice, 0, len(notices))
	ui.noticeBox.RemoveAll()
	for _, n := range notices {
		if n.IsZero() {
			continue
		}
		kept = append(kept, n)
		label := widget.NewLabel(n.Text(ui.localization))
		label.Wrapping = fyne.TextWrapWord
		label.Importance = noticeImportance(n.Level)
		ui.noticeBox.Add(label)
	}
	ui.notices = kept
	ui.noticeBox.Refresh()
}

func noticeImportance(level NoticeLevel) widget.Importance {
	switch level {
	case NoticeSuccess:
		return widget.SuccessImportance
	case NoticeWarning:
		return widget.WarningImportance
	case NoticeError:
		return widget.DangerImportance
	default:
		return widget.MediumImportance
	}
}

func (ui *RootUI) sendCompletionNotification(result model.DownloadResult, notices []Notice) {
	if len(notices) == 0 || notices[0].Level != NoticeSuccess {
		return
	}
	ui.app.SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyAppTitle),
		Content: result.GetDisplayName(),
	})
}

func (ui *RootUI) onOpenFolder() {
	path := ui.lastResult.Directory()
	if len(ui.lastResult.Files) == 1 {
		path = ui.lastResult.Files[0]
	}
	if path == "" {
		path = ui.settings.GetDownloadDirectory()
	}
	if err := platform.OpenFileInManager(path); err != nil {
		ui.logger.Error("reveal failed", "path", path, "err", err)
		ui.showNotices(append(ui.notices, newNotice(NoticeError, KeyErrorOpening, err.Error()))...)
	}
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
			ui.localization.SetLanguage(lang)
			ui.refreshUITexts()
		}
		ui.showNotices(append(ui.notices, newNotice(NoticeInfo, KeySettingsSaved))...)
	})
}
