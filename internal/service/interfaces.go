package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
)

type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}
