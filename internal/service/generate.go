package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"podfeed/internal/domain"
	"podfeed/internal/episode"
	"podfeed/internal/extract"
	"podfeed/internal/feed"
)

// NoLinksError reports a page that contains no MP3 hyperlinks.
type NoLinksError struct {
	PageURL string
}

func (e *NoLinksError) Error() string {
	return fmt.Sprintf("no .mp3 links found on %s", e.PageURL)
}

// Generator builds a podcast feed document from one archive page.
type Generator struct {
	fetcher PageFetcher
	feedCfg feed.Config
	logger  *slog.Logger
}

func NewGenerator(fetcher PageFetcher, feedCfg feed.Config, logger *slog.Logger) *Generator {
	return &Generator{
		fetcher: fetcher,
		feedCfg: feedCfg,
		logger:  logger.With("component", "generator"),
	}
}

// Generate fetches pageURL, derives an episode per MP3 link found there and
// renders the feed. The document is returned whole; nothing is emitted for a
// failed build.
func (g *Generator) Generate(ctx context.Context, pageURL string) (string, *domain.BuildStats, error) {
	startTime := time.Now()
	g.logger.Info("starting feed build", "page", pageURL)

	page, err := g.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", nil, fmt.Errorf("fetch page: %w", err)
	}

	links := extract.MP3Links(page, pageURL)
	if len(links) == 0 {
		return "", nil, &NoLinksError{PageURL: pageURL}
	}

	g.logger.Info("extracted mp3 links", "count", len(links))

	episodes := lo.Map(links, func(link string, _ int) domain.Episode {
		return episode.FromURL(link)
	})

	stats := &domain.BuildStats{
		PageURL:    pageURL,
		LinksFound: len(links),
	}
	for _, ep := range episodes {
		if !ep.PublishedAt.IsZero() {
			stats.WithDate++
		}
		if ep.Number != nil {
			stats.WithNumber++
		}
	}

	doc, err := feed.Render(episodes, g.feedCfg)
	if err != nil {
		return "", nil, fmt.Errorf("render feed: %w", err)
	}

	stats.Rendered = len(episodes)
	if g.feedCfg.Limit > 0 && stats.Rendered > g.feedCfg.Limit {
		stats.Rendered = g.feedCfg.Limit
	}
	stats.Duration = time.Since(startTime)

	g.logger.Info("feed build completed",
		"links", stats.LinksFound,
		"with_date", stats.WithDate,
		"with_number", stats.WithNumber,
		"rendered", stats.Rendered,
		"duration", stats.Duration,
	)

	return doc, stats, nil
}
