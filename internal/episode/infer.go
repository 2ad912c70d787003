package episode

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"podfeed/internal/domain"
)

const (
	showName      = "Paradise Valley Music Hour"
	publisherName = "Voice of Vashon"
)

var (
	datedEpisodeRe = regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2}).*?Ep(\d+)`)
	dateInNameRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// FromURL derives an episode from a single MP3 URL. File names shaped like
// 2024-01-05_Paradise_Ep12.mp3 yield a dated, numbered episode; anything
// else falls back to a cleaned-up file name title.
func FromURL(mp3URL string) domain.Episode {
	base := baseName(mp3URL)

	if m := datedEpisodeRe.FindStringSubmatch(base); m != nil {
		aired, dateErr := time.Parse("2006-01-02", m[1])
		number, numErr := strconv.Atoi(m[2])
		if dateErr == nil && numErr == nil {
			return domain.Episode{
				URL:   mp3URL,
				Title: fmt.Sprintf("Ep. %d — %s", number, aired.Format("Jan 02, 2006")),
				Description: fmt.Sprintf("%s.\nOriginally aired %s on %s.",
					showName, aired.Format("January 02, 2006"), publisherName),
				Number:      &number,
				PublishedAt: aired,
			}
		}
	}

	title := strings.ReplaceAll(base, "_", " ")
	title = strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))

	return domain.Episode{
		URL:         mp3URL,
		Title:       title,
		Description: "Audio: " + mp3URL,
		PublishedAt: GuessPublishDate(mp3URL),
	}
}

// GuessPublishDate looks for a YYYY-MM-DD substring in the URL's file name
// and returns it as midnight UTC. The zero time means no usable date.
func GuessPublishDate(mp3URL string) time.Time {
	name := fileName(mp3URL)

	match := dateInNameRe.FindString(name)
	if match == "" {
		return time.Time{}
	}

	t, err := time.Parse("2006-01-02", match)
	if err != nil {
		return time.Time{}
	}

	return t
}

// fileName returns the last segment of the URL path, ignoring query and
// fragment.
func fileName(mp3URL string) string {
	path := mp3URL
	if u, err := url.Parse(mp3URL); err == nil {
		path = u.Path
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

func baseName(mp3URL string) string {
	name := fileName(mp3URL)
	if strings.HasSuffix(strings.ToLower(name), ".mp3") {
		name = name[:len(name)-len(".mp3")]
	}
	return name
}
