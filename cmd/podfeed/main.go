package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"podfeed/internal/config"
	"podfeed/internal/feed"
	"podfeed/internal/fetch"
	"podfeed/internal/service"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "podfeed",
		Usage: "Generate a podcast RSS feed from a page of MP3 links",
		Description: `Fetches a web page, collects the MP3 hyperlinks on it and prints a
podcast RSS 2.0 feed for them on standard output. Logs go to standard
error, so the output can be redirected straight into a file:

   podfeed > paradise.xml
   podfeed --page https://voiceofvashon.org/audio/Paradise/ > paradise.xml

Flags can generally be set via environment variables, e.g.:

   --page  => PODFEED_PAGE=https://example.com/audio/
   --limit => PODFEED_LIMIT=20
`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "page",
				Aliases: []string{"p"},
				Value:   config.DefaultPage,
				Usage:   "web page URL that contains MP3 links",
				EnvVars: []string{"PODFEED_PAGE"},
			},
			&cli.StringFlag{
				Name:    "site",
				Value:   config.DefaultSite,
				Usage:   "channel <link> value (home/site URL)",
				EnvVars: []string{"PODFEED_SITE"},
			},
			&cli.StringFlag{
				Name:    "title",
				Value:   config.DefaultTitle,
				Usage:   "podcast title",
				EnvVars: []string{"PODFEED_TITLE"},
			},
			&cli.StringFlag{
				Name:    "desc",
				Value:   config.DefaultDescription,
				Usage:   "podcast description",
				EnvVars: []string{"PODFEED_DESC"},
			},
			&cli.StringFlag{
				Name:    "image",
				Value:   config.DefaultImage,
				Usage:   "artwork image URL, empty disables the artwork element",
				EnvVars: []string{"PODFEED_IMAGE"},
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "limit the number of episodes in the feed, 0 keeps all",
				EnvVars: []string{"PODFEED_LIMIT"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   30 * time.Second,
				Usage:   "HTTP timeout for fetching the page",
				EnvVars: []string{"PODFEED_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to an optional YAML config file",
				EnvVars: []string{"PODFEED_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level: debug, info, warn or error",
				EnvVars: []string{"PODFEED_LOG_LEVEL"},
			},
		},
		Action: run,
	}
}

func run(cCtx *cli.Context) error {
	cfg, err := config.Load(cCtx.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("ERROR: %v", err), 1)
	}

	applyFlags(cCtx, cfg)

	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("ERROR: %v", err), 1)
	}

	logger := setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := fetch.New(fetch.Config{
		Timeout: cCtx.Duration("timeout"),
	}, logger)

	generator := service.NewGenerator(fetcher, feed.Config{
		Title:       cfg.Title,
		Description: cfg.Description,
		SiteURL:     cfg.Site,
		ImageURL:    cfg.Image,
		Limit:       cfg.Limit,
	}, logger)

	doc, stats, err := generator.Generate(ctx, cfg.Page)
	if err != nil {
		var noLinks *service.NoLinksError
		if errors.As(err, &noLinks) {
			return cli.Exit(fmt.Sprintf("ERROR: No .mp3 links found on %s", noLinks.PageURL), 2)
		}
		return cli.Exit(fmt.Sprintf("ERROR: %v", err), 1)
	}

	logger.Debug("writing feed", "episodes", stats.Rendered)

	fmt.Fprint(cCtx.App.Writer, doc)

	return nil
}

// applyFlags lets explicitly set flags and environment variables win over
// values from the config file.
func applyFlags(cCtx *cli.Context, cfg *config.Config) {
	if cCtx.IsSet("page") {
		cfg.Page = cCtx.String("page")
	}
	if cCtx.IsSet("site") {
		cfg.Site = cCtx.String("site")
	}
	if cCtx.IsSet("title") {
		cfg.Title = cCtx.String("title")
	}
	if cCtx.IsSet("desc") {
		cfg.Description = cCtx.String("desc")
	}
	if cCtx.IsSet("image") {
		cfg.Image = cCtx.String("image")
	}
	if cCtx.IsSet("limit") {
		cfg.Limit = cCtx.Int("limit")
	}
	if cCtx.IsSet("log-level") {
		cfg.LogLevel = cCtx.String("log-level")
	}
}

// setupLogger writes to stderr; stdout carries only the feed document.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
