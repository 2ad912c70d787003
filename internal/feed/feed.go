package feed

import (
	"encoding/xml"
	"fmt"
	"slices"
	"sort"
	"time"

	"podfeed/internal/domain"
)

const (
	language  = "en-us"
	generator = "podfeed"
	itunesNS  = "http://www.itunes.com/dtds/podcast-1.0.dtd"
)

// Config holds the channel-level feed parameters.
type Config struct {
	Title       string
	Description string
	SiteURL     string
	ImageURL    string // empty means no artwork element
	Limit       int    // <= 0 means no limit
}

type rssDoc struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	ItunesNS string     `xml:"xmlns:itunes,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string       `xml:"title"`
	Link          string       `xml:"link"`
	Description   string       `xml:"description"`
	Language      string       `xml:"language"`
	Generator     string       `xml:"generator"`
	LastBuildDate string       `xml:"lastBuildDate"`
	Explicit      string       `xml:"itunes:explicit"`
	Type          string       `xml:"itunes:type"`
	Image         *itunesImage `xml:"itunes:image,omitempty"`
	Items         []rssItem    `xml:"item"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	Link        string       `xml:"link"`
	GUID        string       `xml:"guid"`
	Description string       `xml:"description"`
	PubDate     string       `xml:"pubDate,omitempty"`
	Enclosure   rssEnclosure `xml:"enclosure"`
	Episode     *int         `xml:"itunes:episode,omitempty"`
	EpisodeType string       `xml:"itunes:episodeType"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// Render produces the complete RSS 2.0 document for the given episodes,
// newest first. Episodes without a publish date sort last and carry no
// pubDate element.
func Render(episodes []domain.Episode, cfg Config) (string, error) {
	sorted := slices.Clone(episodes)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].PublishedAt.Equal(sorted[j].PublishedAt) {
			return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
		}
		return sorted[i].URL > sorted[j].URL
	})

	if cfg.Limit > 0 && len(sorted) > cfg.Limit {
		sorted = sorted[:cfg.Limit]
	}

	doc := rssDoc{
		Version:  "2.0",
		ItunesNS: itunesNS,
		Channel: rssChannel{
			Title:         cfg.Title,
			Link:          cfg.SiteURL,
			Description:   cfg.Description,
			Language:      language,
			Generator:     generator,
			LastBuildDate: time.Now().UTC().Format(time.RFC1123Z),
			Explicit:      "no",
			Type:          "episodic",
			Items:         make([]rssItem, 0, len(sorted)),
		},
	}

	if cfg.ImageURL != "" {
		doc.Channel.Image = &itunesImage{Href: cfg.ImageURL}
	}

	for _, ep := range sorted {
		item := rssItem{
			Title:       ep.Title,
			Link:        ep.URL,
			GUID:        ep.URL,
			Description: ep.Description,
			Enclosure:   rssEnclosure{URL: ep.URL, Type: "audio/mpeg"},
			Episode:     ep.Number,
			EpisodeType: "full",
		}
		if !ep.PublishedAt.IsZero() {
			item.PubDate = ep.PublishedAt.Format(time.RFC1123Z)
		}

		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal feed: %w", err)
	}

	return xml.Header + string(out) + "\n", nil
}
