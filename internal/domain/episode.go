package domain

import "time"

// Episode is one feed item derived from a single MP3 link.
type Episode struct {
	URL         string // absolute link, doubles as the item GUID
	Title       string
	Description string
	Number      *int      // nil when the file name carries no episode number
	PublishedAt time.Time // zero when the file name carries no date
}
