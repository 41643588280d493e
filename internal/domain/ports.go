package domain

import "context"

type HotelRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h SanitizedHotel) error

	// Read paths
	GetHotel(ctx context.Context, id string) (SanitizedHotel, error)
	ListHotels(ctx context.Context, q HotelsQuery) (HotelsPage, error)
}

// FeedClient fetches raw scraper exports over HTTP.
type FeedClient interface {
	GetHotels(ctx context.Context, url string) ([]RawHotel, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Publisher emits catalog change events.
type Publisher interface {
	Publish(ctx context.Context, event string, payload []byte) error
}

type HotelsQuery struct {
	City     *string
	Category *string
	Limit    int
}

type HotelsPage struct {
	Items []SanitizedHotel `json:"hotels"`
}
