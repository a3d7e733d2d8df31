package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/ytget/ytgrab/internal/bootstrap"
	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/download"
	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/model"
	"github.com/ytget/ytgrab/internal/platform"
)

// RunnerConfig holds the runner's writers and optional collaborators
type RunnerConfig struct {
	Out    io.Writer
	Err    io.Writer
	Logger *log.Logger
	// Downloader replaces the configured pipeline, used by tests
	Downloader download.Downloader
}

// Runner holds the state shared by command actions
type Runner struct {
	out        io.Writer
	errOut     io.Writer
	logger     *log.Logger
	cfg        *config.Config
	configPath string
	svc        download.Downloader
	services   *bootstrap.Services
}

// NewRunner creates a runner; nil writers default to stdout / stderr
func NewRunner(rc RunnerConfig) *Runner {
	if rc.Out == nil {
		rc.Out = os.Stdout
	}
	if rc.Err == nil {
		rc.Err = os.Stderr
	}
	return &Runner{
		out:    rc.Out,
		errOut: rc.Err,
		logger: rc.Logger,
		svc:    rc.Downloader,
	}
}

// Setup loads the configuration before any command runs
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")
	cfg, err := config.LoadOrDefault(r.configPath)
	if err != nil {
		return ctx, err
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	r.cfg = cfg
	if r.logger == nil {
		r.logger = logging.New(r.errOut, cfg.Log.Level)
	}
	return ctx, nil
}

// Teardown releases whatever the commands built
func (r *Runner) Teardown(ctx context.Context, cmd *cli.Command) error {
	if r.services != nil {
		r.services.Close()
	}
	return nil
}

func (r *Runner) downloader() (download.Downloader, error) {
	if r.svc != nil {
		return r.svc, nil
	}
	services, err := bootstrap.New(r.cfg, r.logger)
	if err != nil {
		return nil, err
	}
	r.services = services
	r.svc = services.Downloader
	return r.svc, nil
}

func urlArg(cmd *cli.Command) (string, error) {
	rawURL := strings.TrimSpace(cmd.StringArg("url"))
	if rawURL == "" {
		return "", fmt.Errorf("%w: usage: ytgrab %s <url>", download.ErrEmptyURL, cmd.Name)
	}
	return rawURL, nil
}

// Info resolves a URL and prints what could be downloaded from it
func (r *Runner) Info(ctx context.Context, cmd *cli.Command) error {
	rawURL, err := urlArg(cmd)
	if err != nil {
		return err
	}
	svc, err := r.downloader()
	if err != nil {
		return err
	}

	target, err := svc.Resolve(ctx, rawURL)
	if err != nil {
		return err
	}
	r.printTarget(target)
	return nil
}

func (r *Runner) printTarget(target model.Target) {
	w := r.out
	fmt.Fprintln(w, styles.Title(target.Title()))

	switch target.Kind() {
	case model.TargetVideo:
		v := target.Video
		if v.Author != "" {
			fmt.Fprintf(w, "%s %s\n", styles.Label("Author:"), v.Author)
		}
		fmt.Fprintf(w, "%s %s\n", styles.Label("Duration:"), platform.FormatDuration(v.Duration))

		fmt.Fprintln(w, styles.Label("Video:"))
		streams := download.ProgressiveStreams(v)
		if len(streams) == 0 {
			fmt.Fprintln(w, "  "+styles.Help("none"))
		}
		for _, s := range streams {
			fmt.Fprintf(w, "  %-6s %-4s %s\n", s.Resolution, s.Container, sizeOf(s))
		}

		fmt.Fprintln(w, styles.Label("Audio:"))
		for _, s := range v.Streams {
			if s.AudioOnly {
				fmt.Fprintf(w, "  %-6s %-4s %s\n", fmt.Sprintf("%dk", s.Bitrate/1000), s.Container, sizeOf(s))
			}
		}

		fmt.Fprintln(w, styles.Label("Subtitles:"))
		captions := download.Project(target).Captions
		if len(captions) == 0 {
			fmt.Fprintln(w, "  "+styles.Help("none"))
		}
		for _, c := range captions {
			fmt.Fprintln(w, "  "+c)
		}
	case model.TargetPlaylist:
		p := target.Playlist
		fmt.Fprintf(w, "%s %d\n", styles.Label("Videos:"), p.VideoCount())
		for i, u := range p.VideoURLs {
			fmt.Fprintf(w, "  %3d. %s\n", i+1, u)
		}
	}
}

func sizeOf(s model.StreamDescriptor) string {
	if s.FileSize <= 0 {
		return styles.Help("size unknown")
	}
	return humanize.Bytes(uint64(s.FileSize))
}

// Download resolves a URL and downloads it with the chosen options
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	rawURL, err := urlArg(cmd)
	if err != nil {
		return err
	}
	svc, err := r.downloader()
	if err != nil {
		return err
	}

	dir := cmd.String("dir")
	if dir == "" {
		if dir, err = r.cfg.DownloadDirectory(); err != nil {
			return fmt.Errorf("cannot determine download directory: %w", err)
		}
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return err
	}

	fmt.Fprintln(r.errOut, styles.Help("Fetching "+rawURL))
	target, err := svc.Resolve(ctx, rawURL)
	if err != nil {
		return err
	}

	opts, warning := buildOptions(target, cmd.Bool("audio"), cmd.String("resolution"), cmd.String("subtitle"))
	if warning != "" {
		fmt.Fprintln(r.errOut, styles.Warn(warning))
	}
	fmt.Fprintln(r.out, styles.Title(target.Title()))

	bar := newProgressLine(r.errOut)
	result, err := svc.Download(ctx, target, opts, dir, bar)
	bar.Finish()
	if err != nil && !download.IsPartial(err) {
		return err
	}

	for _, f := range result.Files {
		fmt.Fprintf(r.out, "%s %s\n", styles.OK("saved"), f)
	}
	if result.SubtitlePath != "" {
		fmt.Fprintf(r.out, "%s %s\n", styles.OK("subtitles"), result.SubtitlePath)
	}
	if result.Partial && result.SubtitleErr != nil {
		fmt.Fprintln(r.errOut, styles.Warn("subtitles not saved: "+result.SubtitleErr.Error()))
	}
	return nil
}

// buildOptions turns flag values into download options. The returned
// warning explains a subtitle request that will be ignored.
func buildOptions(target model.Target, audio bool, resolution, subtitle string) (model.DownloadOptions, string) {
	opts := model.DownloadOptions{
		Format:     model.FormatVideo,
		Resolution: model.ParseResolutionChoice(resolution),
	}
	if audio {
		opts.Format = model.FormatAudio
	}

	code := strings.TrimSpace(subtitle)
	switch {
	case code == "":
		return opts, ""
	case target.Kind() != model.TargetVideo:
		return opts, "subtitles are not offered for playlists"
	case audio:
		return opts, "subtitles are only saved with video downloads"
	}

	track, ok := download.CaptionByCode(target.Video, code)
	if !ok {
		// the download reports the missing track after the video is saved
		track = model.CaptionTrack{LanguageCode: code}
	}
	opts.Subtitle = &track
	return opts, ""
}

// ConfigInit writes the default configuration file
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path, err := r.resolvedConfigPath()
	if err != nil {
		return err
	}
	if err := config.CreateConfigFile(path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s %s\n", styles.OK("created"), path)
	return nil
}

// ConfigPath prints where the configuration is read from
func (r *Runner) ConfigPath(ctx context.Context, cmd *cli.Command) error {
	path, err := r.resolvedConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, path)
	return nil
}

func (r *Runner) resolvedConfigPath() (string, error) {
	if r.configPath != "" {
		return r.configPath, nil
	}
	return config.DefaultConfigPath()
}
