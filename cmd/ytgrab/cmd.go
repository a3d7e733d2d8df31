package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		infoCommand(r),
		downloadCommand(r),
		configCommand(r),
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (default: user config dir)",
			Sources: cli.EnvVars("YTGRAB_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars("YTGRAB_LOG_LEVEL"),
		},
	}
}

// infoCommand prints what a URL resolves to
func infoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show title, resolutions and subtitles of a video or playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Action: r.Info,
	}
}

// downloadCommand fetches and downloads a URL in one go
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "download",
		Aliases: []string{"dl", "get"},
		Usage:   "Download a video or playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "audio",
				Aliases: []string{"a"},
				Usage:   "Download MP3 audio instead of video",
				Sources: cli.EnvVars("YTGRAB_AUDIO"),
			},
			&cli.StringFlag{
				Name:    "resolution",
				Aliases: []string{"r"},
				Usage:   "Resolution label such as 720p, or highest / lowest",
				Value:   "highest",
				Sources: cli.EnvVars("YTGRAB_RESOLUTION"),
			},
			&cli.StringFlag{
				Name:    "subtitle",
				Aliases: []string{"s"},
				Usage:   "Caption language code to save as .srt (single videos only)",
				Sources: cli.EnvVars("YTGRAB_SUBTITLE"),
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: configured or Downloads)",
				Sources: cli.EnvVars("YTGRAB_DIR"),
			},
		},
		Action: r.Download,
	}
}

// configCommand manages the TOML config file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the default configuration file",
				Action: r.ConfigInit,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file location",
				Action: r.ConfigPath,
			},
		},
	}
}
