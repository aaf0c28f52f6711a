package linkpreview

import (
	"context"
	"log/slog"
)

// ImageFetcher yields the preview image for a page, soft-failing to
// ("", false) when none can be found.
type ImageFetcher interface {
	FetchImage(ctx context.Context, pageURL string) (string, bool)
}

// MovieStore is the persistent cache tier: the preview_image_url column on
// movie rows, shared across every user holding the same link.
type MovieStore interface {
	FirstPreviewImageByLink(ctx context.Context, link string) (string, error)
	FillMissingPreviewImage(ctx context.Context, link, imageURL string) (int64, error)
}

// Service resolves preview images with the store as the authoritative cache
// in front of the network fetch.
type Service struct {
	store   MovieStore
	fetcher ImageFetcher
}

func NewService(store MovieStore, fetcher ImageFetcher) *Service {
	return &Service{store: store, fetcher: fetcher}
}

// Resolve returns the preview image URL for link, or nil when none exists.
//
// The store is consulted first: any movie sharing the link with a known
// image short-circuits the outbound fetch entirely. On a store miss the page
// is fetched, and a found image is written back to every movie sharing the
// link that still lacks one. Negative fetch results are not persisted, so a
// later caller can retry once the remote page becomes available.
//
// A nil result is not an error; only a store failure is.
func (s *Service) Resolve(ctx context.Context, link string) (*string, error) {
	cached, err := s.store.FirstPreviewImageByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	if cached != "" {
		return &cached, nil
	}

	image, ok := s.fetcher.FetchImage(ctx, link)
	if !ok {
		return nil, nil
	}

	filled, err := s.store.FillMissingPreviewImage(ctx, link, image)
	if err != nil {
		return nil, err
	}
	if filled > 0 {
		slog.Debug("backfilled preview image", "link", link, "movies", filled)
	}

	return &image, nil
}
