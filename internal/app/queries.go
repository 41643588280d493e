package app

import (
	"context"
	"slices"
	"time"

	"hotel_catalog/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.SanitizedHotel, error) {
	key := hotelCacheKey(id)
	var h domain.SanitizedHotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.SanitizedHotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, deepCopyHotel(h), int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

// ListHotels is served from the store; lists are not cached because a single
// upsert would invalidate every filter combination.
func (s *QueryService) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	return s.repo.ListHotels(ctx, q)
}

// deepCopyHotel detaches slices from the repo's backing arrays before caching.
func deepCopyHotel(in domain.SanitizedHotel) domain.SanitizedHotel {
	out := in
	out.Gallery = slices.Clone(in.Gallery)
	out.Service = slices.Clone(in.Service)
	if in.Rooms != nil {
		out.Rooms = make([]domain.SanitizedRoom, len(in.Rooms))
		for i, r := range in.Rooms {
			r.Gallery = slices.Clone(r.Gallery)
			r.Service = slices.Clone(r.Service)
			out.Rooms[i] = r
		}
	}
	return out
}
