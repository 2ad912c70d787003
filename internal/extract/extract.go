package extract

import (
	"html"
	"net/url"
	"regexp"

	"github.com/samber/lo"
)

var mp3HrefRe = regexp.MustCompile(`(?i)href=["']([^"']+\.mp3)["']`)

// MP3Links returns the absolute URL of every MP3 hyperlink on the page, in
// document order, deduplicated by first occurrence. Relative links are
// resolved against pageURL; anything that does not resolve to http or https
// is dropped.
func MP3Links(pageHTML, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	for _, m := range mp3HrefRe.FindAllStringSubmatch(pageHTML, -1) {
		href := html.UnescapeString(m[1])

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}

		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}

		links = append(links, abs.String())
	}

	return lo.Uniq(links)
}
