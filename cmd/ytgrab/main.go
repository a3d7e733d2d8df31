package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerConfig{Out: os.Stdout, Err: os.Stderr})

	app := &cli.Command{
		Name:     "ytgrab",
		Usage:    "Download YouTube videos, playlists and MP3 audio",
		Version:  version,
		Flags:    globalFlags(),
		Before:   runner.Setup,
		After:    runner.Teardown,
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error(err.Error()))
		os.Exit(1)
	}
}
