package feed

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podfeed/internal/domain"
)

type parsedFeed struct {
	Channel struct {
		Title       string       `xml:"title"`
		Link        string       `xml:"link"`
		Description string       `xml:"description"`
		Language    string       `xml:"language"`
		Generator   string       `xml:"generator"`
		Items       []parsedItem `xml:"item"`
	} `xml:"channel"`
}

type parsedItem struct {
	Title     string `xml:"title"`
	Link      string `xml:"link"`
	GUID      string `xml:"guid"`
	PubDate   string `xml:"pubDate"`
	Enclosure struct {
		URL  string `xml:"url,attr"`
		Type string `xml:"type,attr"`
	} `xml:"enclosure"`
}

func parse(t *testing.T, doc string) parsedFeed {
	t.Helper()

	var parsed parsedFeed
	require.NoError(t, xml.Unmarshal([]byte(doc), &parsed))
	return parsed
}

func testConfig() Config {
	return Config{
		Title:       "Test Show",
		Description: "A test show.",
		SiteURL:     "https://example.com",
	}
}

func dated(url string, y int, m time.Month, d int) domain.Episode {
	return domain.Episode{
		URL:         url,
		Title:       url,
		Description: "Audio: " + url,
		PublishedAt: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func undated(url string) domain.Episode {
	return domain.Episode{
		URL:         url,
		Title:       url,
		Description: "Audio: " + url,
	}
}

func TestRender_SortsNewestFirst(t *testing.T) {
	episodes := []domain.Episode{
		undated("https://example.com/audio/z_bonus.mp3"),
		dated("https://example.com/audio/ep11.mp3", 2023, 12, 29),
		dated("https://example.com/audio/ep12.mp3", 2024, 1, 5),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	parsed := parse(t, doc)
	require.Len(t, parsed.Channel.Items, 3)
	assert.Equal(t, "https://example.com/audio/ep12.mp3", parsed.Channel.Items[0].GUID)
	assert.Equal(t, "https://example.com/audio/ep11.mp3", parsed.Channel.Items[1].GUID)
	assert.Equal(t, "https://example.com/audio/z_bonus.mp3", parsed.Channel.Items[2].GUID)
}

func TestRender_TieBreaksOnURLDescending(t *testing.T) {
	episodes := []domain.Episode{
		dated("https://example.com/audio/a.mp3", 2024, 1, 5),
		dated("https://example.com/audio/b.mp3", 2024, 1, 5),
		undated("https://example.com/audio/x.mp3"),
		undated("https://example.com/audio/y.mp3"),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	parsed := parse(t, doc)
	require.Len(t, parsed.Channel.Items, 4)
	assert.Equal(t, "https://example.com/audio/b.mp3", parsed.Channel.Items[0].GUID)
	assert.Equal(t, "https://example.com/audio/a.mp3", parsed.Channel.Items[1].GUID)
	assert.Equal(t, "https://example.com/audio/y.mp3", parsed.Channel.Items[2].GUID)
	assert.Equal(t, "https://example.com/audio/x.mp3", parsed.Channel.Items[3].GUID)
}

func TestRender_InputOrderDoesNotMatter(t *testing.T) {
	a := []domain.Episode{
		dated("https://example.com/audio/ep12.mp3", 2024, 1, 5),
		dated("https://example.com/audio/ep11.mp3", 2023, 12, 29),
	}
	b := []domain.Episode{a[1], a[0]}

	docA, err := Render(a, testConfig())
	require.NoError(t, err)
	docB, err := Render(b, testConfig())
	require.NoError(t, err)

	parsedA := parse(t, docA)
	parsedB := parse(t, docB)
	assert.Equal(t, parsedA.Channel.Items, parsedB.Channel.Items)
}

func TestRender_AppliesLimit(t *testing.T) {
	episodes := []domain.Episode{
		dated("https://example.com/audio/ep10.mp3", 2023, 12, 22),
		dated("https://example.com/audio/ep12.mp3", 2024, 1, 5),
		dated("https://example.com/audio/ep11.mp3", 2023, 12, 29),
	}

	cfg := testConfig()
	cfg.Limit = 1

	doc, err := Render(episodes, cfg)
	require.NoError(t, err)

	parsed := parse(t, doc)
	require.Len(t, parsed.Channel.Items, 1)
	assert.Equal(t, "https://example.com/audio/ep12.mp3", parsed.Channel.Items[0].GUID)
}

func TestRender_ZeroLimitKeepsEverything(t *testing.T) {
	episodes := []domain.Episode{
		dated("https://example.com/audio/ep12.mp3", 2024, 1, 5),
		dated("https://example.com/audio/ep11.mp3", 2023, 12, 29),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	parsed := parse(t, doc)
	assert.Len(t, parsed.Channel.Items, 2)
}

func TestRender_PubDateFormat(t *testing.T) {
	episodes := []domain.Episode{
		dated("https://example.com/audio/ep12.mp3", 2024, 1, 5),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	parsed := parse(t, doc)
	require.Len(t, parsed.Channel.Items, 1)
	assert.Equal(t, "Fri, 05 Jan 2024 00:00:00 +0000", parsed.Channel.Items[0].PubDate)
}

func TestRender_OmitsPubDateWhenUnknown(t *testing.T) {
	episodes := []domain.Episode{
		undated("https://example.com/audio/bonus.mp3"),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	assert.NotContains(t, doc, "<pubDate>")
}

func TestRender_ItunesEpisodeOnlyWhenNumbered(t *testing.T) {
	twelve := 12
	episodes := []domain.Episode{
		{
			URL:         "https://example.com/audio/ep12.mp3",
			Title:       "Ep. 12 — Jan 05, 2024",
			Number:      &twelve,
			PublishedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		undated("https://example.com/audio/bonus.mp3"),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	assert.Contains(t, doc, "<itunes:episode>12</itunes:episode>")
	assert.Equal(t, 1, strings.Count(doc, "<itunes:episode>"))
	assert.Equal(t, 2, strings.Count(doc, "<itunes:episodeType>full</itunes:episodeType>"))
}

func TestRender_EnclosureMatchesLink(t *testing.T) {
	episodes := []domain.Episode{
		dated("https://example.com/audio/ep12.mp3", 2024, 1, 5),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	parsed := parse(t, doc)
	require.Len(t, parsed.Channel.Items, 1)

	item := parsed.Channel.Items[0]
	assert.Equal(t, "https://example.com/audio/ep12.mp3", item.Enclosure.URL)
	assert.Equal(t, "audio/mpeg", item.Enclosure.Type)
	assert.Equal(t, item.Enclosure.URL, item.Link)
	assert.Equal(t, item.Enclosure.URL, item.GUID)
}

func TestRender_ChannelMetadata(t *testing.T) {
	cfg := testConfig()
	cfg.ImageURL = "https://example.com/artwork.jpg"

	doc, err := Render([]domain.Episode{undated("https://example.com/a.mp3")}, cfg)
	require.NoError(t, err)

	parsed := parse(t, doc)
	assert.Equal(t, "Test Show", parsed.Channel.Title)
	assert.Equal(t, "https://example.com", parsed.Channel.Link)
	assert.Equal(t, "A test show.", parsed.Channel.Description)
	assert.Equal(t, "en-us", parsed.Channel.Language)
	assert.Equal(t, "podfeed", parsed.Channel.Generator)

	assert.Contains(t, doc, "<itunes:explicit>no</itunes:explicit>")
	assert.Contains(t, doc, "<itunes:type>episodic</itunes:type>")
	assert.Contains(t, doc, `<itunes:image href="https://example.com/artwork.jpg">`)
	assert.Contains(t, doc, "<lastBuildDate>")
	assert.Contains(t, doc, `xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"`)
}

func TestRender_NoImageWhenUnset(t *testing.T) {
	doc, err := Render([]domain.Episode{undated("https://example.com/a.mp3")}, testConfig())
	require.NoError(t, err)

	assert.NotContains(t, doc, "<itunes:image")
}

func TestRender_StartsWithXMLDeclaration(t *testing.T) {
	doc, err := Render(nil, testConfig())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `<rss version="2.0"`)
}

func TestRender_EscapesAmpersands(t *testing.T) {
	episodes := []domain.Episode{
		undated("https://example.com/audio/one&two.mp3"),
	}

	doc, err := Render(episodes, testConfig())
	require.NoError(t, err)

	assert.Contains(t, doc, "one&amp;two.mp3")
	assert.NotContains(t, doc, "one&two.mp3")

	parsed := parse(t, doc)
	require.Len(t, parsed.Channel.Items, 1)
	assert.Equal(t, "https://example.com/audio/one&two.mp3", parsed.Channel.Items[0].GUID)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	episodes := []domain.Episode{
		dated("https://example.com/audio/ep11.mp3", 2023, 12, 29),
		dated("https://example.com/audio/ep12.mp3", 2024, 1, 5),
	}

	_, err := Render(episodes, testConfig())
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/audio/ep11.mp3", episodes[0].URL)
	assert.Equal(t, "https://example.com/audio/ep12.mp3", episodes[1].URL)
}
