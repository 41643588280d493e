package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "hotel_catalog/internal/adapters/redis"
	"hotel_catalog/internal/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCache_SetGetDel(t *testing.T) {
	mr, rc := newClient(t)
	c := redisad.NewWithClient(rc)
	ctx := context.Background()

	var h domain.SanitizedHotel
	ok, err := c.Get(ctx, "hotel:1", &h)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := domain.SanitizedHotel{ID: "1", Title: "Hotel Iveria", Rooms: []domain.SanitizedRoom{{Name: "Suite"}}}
	if err := c.Set(ctx, "hotel:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("catalog:hotel:1") {
		t.Fatalf("expected prefixed key in redis")
	}

	ok, err = c.Get(ctx, "hotel:1", &h)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if h.Title != "Hotel Iveria" || len(h.Rooms) != 1 {
		t.Fatalf("unexpected cached hotel: %+v", h)
	}

	mr.FastForward(2 * time.Minute)
	if ok, _ := c.Get(ctx, "hotel:1", &h); ok {
		t.Fatalf("expected entry to expire")
	}

	_ = c.Set(ctx, "hotel:1", in, 60)
	if err := c.Del(ctx, "hotel:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("catalog:hotel:1") {
		t.Fatalf("expected key deleted")
	}
}

func TestPublisher_XAdd(t *testing.T) {
	_, rc := newClient(t)
	p := redisad.NewPublisher(rc, "catalog:events", 100)
	ctx := context.Background()

	if err := p.Publish(ctx, "hotel.sanitized", []byte(`{"id":"abc"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msgs, err := rc.XRange(ctx, "catalog:events", "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Values["event"] != "hotel.sanitized" || msgs[0].Values["payload"] != `{"id":"abc"}` {
		t.Fatalf("unexpected values: %+v", msgs[0].Values)
	}
}
