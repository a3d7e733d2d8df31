package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/urfave/cli/v3"

	"github.com/ytget/ytgrab/internal/bootstrap"
	"github.com/ytget/ytgrab/internal/config"
	"github.com/ytget/ytgrab/internal/logging"
	"github.com/ytget/ytgrab/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.ytgrab"
	AppName = "YT Grab"
)

func main() {
	cmd := &cli.Command{
		Name:    "ytgrab-gui",
		Usage:   "Desktop form for downloading YouTube videos, playlists and audio",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Sources: cli.EnvVars("YTGRAB_CONFIG"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// run must stay on the main goroutine, Fyne's event loop requires it
func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Log.Level)
	logger.Info("starting", "app", AppName, "version", version)

	services, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewFormTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(myApp)
	if dir, err := cfg.DownloadDirectory(); err == nil {
		settings.SetDefaultDirectory(dir)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	myWindow.SetOnClosed(cancel)

	ui.NewRootUI(ctx, myWindow, myApp, services.Downloader, settings, logger)

	myWindow.ShowAndRun()
	return nil
}
