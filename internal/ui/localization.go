package ui

import "fmt"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyEnterURL          = "enter_url"
	KeyFetch             = "fetch"
	KeyDownload          = "download"
	KeyOpenFolder        = "open_folder"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"

	KeyTitle           = "title"
	KeyPlaylistTitle   = "playlist_title"
	KeyVideoCount      = "video_count"
	KeyDuration        = "duration"
	KeyDownloadOption  = "download_option"
	KeyFormatVideo     = "format_video"
	KeyFormatAudio     = "format_audio"
	KeyResolution      = "resolution"
	KeyResolutionMode  = "resolution_mode"
	KeyHighest         = "highest_resolution"
	KeyLowest          = "lowest_resolution"
	KeyWithSubtitles   = "with_subtitles"
	KeySubtitleLang    = "subtitle_language"
	KeyProgressItem    = "progress_item"
	KeyProgressBytes   = "progress_bytes"
	KeyPlaylistNoSubs  = "playlist_no_subtitles"
	KeyPleaseEnterURL  = "please_enter_url"
	KeyInvalidURL      = "invalid_url"
	KeyFetching        = "fetching"
	KeyFetchFailed     = "fetch_failed"
	KeyNothingFetched  = "nothing_fetched"
	KeyBusy            = "busy"
	KeyNoSubtitles     = "no_subtitles"
	KeySelectSubtitle  = "select_subtitle"
	KeyDownloading     = "downloading"
	KeyVideoCompleted  = "video_completed"
	KeyAudioCompleted  = "audio_completed"
	KeyListCompleted   = "playlist_completed"
	KeySubtitlesSaved  = "subtitles_saved"
	KeySubtitlesFailed = "subtitles_failed"
	KeyDownloadFailed  = "download_failed"
	KeyErrorOpening    = "error_opening_folder"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Format returns the localized text for key with args applied
func (l *Localization) Format(key string, args ...any) string {
	if len(args) == 0 {
		return l.GetText(key)
	}
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Grab",
		KeyEnterURL:          "Enter YouTube video or playlist URL",
		KeyFetch:             "Fetch Info",
		KeyDownload:          "Download",
		KeyOpenFolder:        "Open folder",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyAutoReveal:        "Open folder when a download finishes",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",

		KeyTitle:           "Title: %s",
		KeyPlaylistTitle:   "Playlist Title: %s",
		KeyVideoCount:      "Number of Videos: %d",
		KeyDuration:        "Duration: %s",
		KeyDownloadOption:  "Select Download Option",
		KeyFormatVideo:     "Video",
		KeyFormatAudio:     "MP3 Audio",
		KeyResolution:      "Select Resolution",
		KeyResolutionMode:  "Select Resolution Option",
		KeyHighest:         "Highest Resolution",
		KeyLowest:          "Lowest Resolution",
		KeyWithSubtitles:   "Download Subtitles with Video (if available)",
		KeySubtitleLang:    "Select Subtitle Language for Video",
		KeyProgressItem:    "%d of %d: %s",
		KeyProgressBytes:   "%s of %s",
		KeyPlaylistNoSubs:  "Subtitles are not offered for playlists",
		KeyPleaseEnterURL:  "Please enter a valid YouTube URL.",
		KeyInvalidURL:      "Invalid URL: %s",
		KeyFetching:        "Fetching info...",
		KeyFetchFailed:     "An error occurred: %s",
		KeyNothingFetched:  "Fetch a video or playlist first.",
		KeyBusy:            "Another operation is still running.",
		KeyNoSubtitles:     "No subtitles available for this video.",
		KeySelectSubtitle:  "Please select a subtitle language.",
		KeyDownloading:     "Downloading...",
		KeyVideoCompleted:  "Video download completed! File saved to %s",
		KeyAudioCompleted:  "MP3 download completed! File saved to %s",
		KeyListCompleted:   "Playlist download completed! Files saved to %s",
		KeySubtitlesSaved:  "Subtitles downloaded and saved to %s",
		KeySubtitlesFailed: "Video saved to %s, but subtitles failed: %s",
		KeyDownloadFailed:  "An error occurred during download: %s",
		KeyErrorOpening:    "Error opening folder: %s",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Grab",
		KeyEnterURL:          "Введите URL видео или плейлиста YouTube",
		KeyFetch:             "Получить информацию",
		KeyDownload:          "Скачать",
		KeyOpenFolder:        "Открыть папку",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyAutoReveal:        "Открывать папку после загрузки",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",

		KeyTitle:           "Название: %s",
		KeyPlaylistTitle:   "Плейлист: %s",
		KeyVideoCount:      "Количество видео: %d",
		KeyDuration:        "Длительность: %s",
		KeyDownloadOption:  "Вариант загрузки",
		KeyFormatVideo:     "Видео",
		KeyFormatAudio:     "Аудио MP3",
		KeyResolution:      "Разрешение",
		KeyResolutionMode:  "Режим разрешения",
		KeyHighest:         "Максимальное разрешение",
		KeyLowest:          "Минимальное разрешение",
		KeyWithSubtitles:   "Скачать субтитры вместе с видео (если есть)",
		KeySubtitleLang:    "Язык субтитров",
		KeyProgressItem:    "%d из %d: %s",
		KeyProgressBytes:   "%s из %s",
		KeyPlaylistNoSubs:  "Субтитры для плейлистов недоступны",
		KeyPleaseEnterURL:  "Пожалуйста, введите корректный URL YouTube.",
		KeyInvalidURL:      "Неверный URL: %s",
		KeyFetching:        "Получение информации...",
		KeyFetchFailed:     "Произошла ошибка: %s",
		KeyNothingFetched:  "Сначала получите информацию о видео или плейлисте.",
		KeyBusy:            "Другая операция ещё выполняется.",
		KeyNoSubtitles:     "Для этого видео нет субтитров.",
		KeySelectSubtitle:  "Пожалуйста, выберите язык субтитров.",
		KeyDownloading:     "Загрузка...",
		KeyVideoCompleted:  "Видео загружено! Файл сохранён в %s",
		KeyAudioCompleted:  "MP3 загружен! Файл сохранён в %s",
		KeyListCompleted:   "Плейлист загружен! Файлы сохранены в %s",
		KeySubtitlesSaved:  "Субтитры сохранены в %s",
		KeySubtitlesFailed: "Видео сохранено в %s, но субтитры не удалось получить: %s",
		KeyDownloadFailed:  "Ошибка при загрузке: %s",
		KeyErrorOpening:    "Ошибка открытия папки: %s",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "YT Grab",
		KeyEnterURL:          "Digite a URL do vídeo ou playlist do YouTube",
		KeyFetch:             "Buscar informações",
		KeyDownload:          "Baixar",
		KeyOpenFolder:        "Abrir pasta",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyDownloadDirectory: "Diretório de Download",
		KeyAutoReveal:        "Abrir a pasta ao concluir o download",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",

		KeyTitle:           "Título: %s",
		KeyPlaylistTitle:   "Playlist: %s",
		KeyVideoCount:      "Número de vídeos: %d",
		KeyDuration:        "Duração: %s",
		KeyDownloadOption:  "Opção de download",
		KeyFormatVideo:     "Vídeo",
		KeyFormatAudio:     "Áudio MP3",
		KeyResolution:      "Resolução",
		KeyResolutionMode:  "Opção de resolução",
		KeyHighest:         "Maior resolução",
		KeyLowest:          "Menor resolução",
		KeyWithSubtitles:   "Baixar legendas com o vídeo (se disponíveis)",
		KeySubtitleLang:    "Idioma da legenda",
		KeyProgressItem:    "%d de %d: %s",
		KeyProgressBytes:   "%s de %s",
		KeyPlaylistNoSubs:  "Legendas não são oferecidas para playlists",
		KeyPleaseEnterURL:  "Por favor, digite uma URL válida do YouTube.",
		KeyInvalidURL:      "URL inválida: %s",
		KeyFetching:        "Buscando informações...",
		KeyFetchFailed:     "Ocorreu um erro: %s",
		KeyNothingFetched:  "Busque um vídeo ou playlist primeiro.",
		KeyBusy:            "Outra operação ainda está em andamento.",
		KeyNoSubtitles:     "Nenhuma legenda disponível para este vídeo.",
		KeySelectSubtitle:  "Por favor, selecione o idioma da legenda.",
		KeyDownloading:     "Baixando...",
		KeyVideoCompleted:  "Download do vídeo concluído! Arquivo salvo em %s",
		KeyAudioCompleted:  "Download do MP3 concluído! Arquivo salvo em %s",
		KeyListCompleted:   "Download da playlist concluído! Arquivos salvos em %s",
		KeySubtitlesSaved:  "Legendas salvas em %s",
		KeySubtitlesFailed: "Vídeo salvo em %s, mas as legendas falharam: %s",
		KeyDownloadFailed:  "Ocorreu um erro durante o download: %s",
		KeyErrorOpening:    "Erro ao abrir a pasta: %s",
	}
}
