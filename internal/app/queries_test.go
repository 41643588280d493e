package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_catalog/internal/app"
	"hotel_catalog/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestGetHotel_CacheMissThenHit(t *testing.T) {
	repo := newFakeRepo()
	repo.hotels["abc"] = domain.SanitizedHotel{
		ID: "abc", Title: "Hotel Rustaveli", City: "თბილისი",
		Gallery: []string{"https://img/1.jpg"}, Service: []string{}, Rooms: []domain.SanitizedRoom{},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	h, err := q.GetHotel(context.Background(), "abc")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Title != "Hotel Rustaveli" || h.City != "თბილისი" {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if _, ok := cache.store["hotel:abc"]; !ok {
		t.Fatalf("expected cache to be populated")
	}

	// Hit: the repo must not be consulted again
	h2, err := q.GetHotel(context.Background(), "abc")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.gets != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.gets)
	}
	if h2.Title != h.Title || len(h2.Gallery) != 1 || h2.Rooms == nil {
		t.Fatalf("cached copy differs: %+v", h2)
	}
}

func TestGetHotel_NotFoundIsNotCached(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	_, err := q.GetHotel(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(cache.store) != 0 {
		t.Fatalf("misses must not be cached")
	}
}

func TestGetHotel_NilCache(t *testing.T) {
	repo := newFakeRepo()
	repo.hotels["x"] = domain.SanitizedHotel{ID: "x"}
	q := app.NewQueryService(repo, nil, time.Minute)
	if _, err := q.GetHotel(context.Background(), "x"); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestListHotels_LimitClamp(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 50},
		{-3, 50},
		{10, 10},
		{200, 200},
		{500, 200},
	}
	for _, tc := range cases {
		repo := newFakeRepo()
		q := app.NewQueryService(repo, nil, time.Minute)
		if _, err := q.ListHotels(context.Background(), domain.HotelsQuery{City: ptr("Batumi"), Limit: tc.in}); err != nil {
			t.Fatalf("err: %v", err)
		}
		if repo.lastQ.Limit != tc.want {
			t.Fatalf("limit %d: want %d, got %d", tc.in, tc.want, repo.lastQ.Limit)
		}
		if repo.lastQ.City == nil || *repo.lastQ.City != "Batumi" {
			t.Fatalf("filter lost: %+v", repo.lastQ)
		}
	}
}
