package recon

import (
	"context"

	"instarecon/pkg/instagram"
)

// Fetcher defines the Instagram operations the pipeline needs
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*instagram.Profile, error)
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}
