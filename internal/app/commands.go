package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_catalog/internal/adapters/observability"
	"hotel_catalog/internal/domain"
)

const EventHotelSanitized = "hotel.sanitized"

type IngestionService struct {
	sanitizer *Sanitizer
	repo      domain.HotelRepository
	cache     domain.Cache
	pub       domain.Publisher
}

// NewIngestionService wires the write path. cache and pub may be nil.
func NewIngestionService(s *Sanitizer, r domain.HotelRepository, cache domain.Cache, pub domain.Publisher) *IngestionService {
	return &IngestionService{sanitizer: s, repo: r, cache: cache, pub: pub}
}

// IngestHotel sanitizes one raw hotel, stores it, evicts its cached view and
// announces the change.
func (s *IngestionService) IngestHotel(ctx context.Context, raw domain.RawHotel) (domain.SanitizedHotel, error) {
	h := s.sanitizer.Sanitize(raw)

	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return h, fmt.Errorf("upsert hotel %s: %w", h.ID, err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelCacheKey(h.ID))
	}

	// Event delivery is best-effort; the row is already committed.
	if s.pub != nil {
		body, err := json.Marshal(h)
		if err != nil {
			log.Error().Err(err).Str("context", "IngestHotel").Msg("marshal event failed")
		} else if err := s.pub.Publish(ctx, EventHotelSanitized, body); err != nil {
			log.Warn().Err(err).Str("id", h.ID).Msg("publish failed")
		}
	}
	return h, nil
}

type IngestReport struct {
	Total  int
	Stored int
	Failed int
}

// IngestAll runs IngestHotel for every raw hotel with at most workers in
// flight. Per-hotel failures are logged and counted; only a cancelled
// context aborts the run.
func (s *IngestionService) IngestAll(ctx context.Context, raws []domain.RawHotel, workers int) (IngestReport, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var stored, failed atomic.Int64

	var runErr error
	for i, raw := range raws {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			runErr = err
			break
		}

		wg.Add(1)
		go func(idx int, raw domain.RawHotel) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := s.IngestHotel(ctx, raw)
			if err != nil {
				failed.Add(1)
				observability.ObserveIngest("failed")
				log.Warn().Int("row", idx).Str("id", h.ID).Err(err).Msg("ingest failed")
				return
			}
			stored.Add(1)
			observability.ObserveIngest("stored")
			log.Debug().Int("row", idx).Str("id", h.ID).Msg("ingest ok")
		}(i, raw)
	}

	wg.Wait()
	return IngestReport{
		Total:  len(raws),
		Stored: int(stored.Load()),
		Failed: int(failed.Load()),
	}, runErr
}

func hotelCacheKey(id string) string {
	return "hotel:" + id
}
