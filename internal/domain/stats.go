package domain

import "time"

// BuildStats holds statistics about one feed build.
type BuildStats struct {
	PageURL    string
	LinksFound int
	WithDate   int
	WithNumber int
	Rendered   int
	Duration   time.Duration
}
