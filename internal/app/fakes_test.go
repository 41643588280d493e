package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"hotel_catalog/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu       sync.Mutex
	hotels   map[string]domain.SanitizedHotel
	gets     int
	lastQ    domain.HotelsQuery
	failFor  string // title whose upsert fails
	upserted []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{hotels: map[string]domain.SanitizedHotel{}}
}

func (f *fakeRepo) UpsertHotel(_ context.Context, h domain.SanitizedHotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != "" && h.Title == f.failFor {
		return errors.New("db down")
	}
	f.hotels[h.ID] = h
	f.upserted = append(f.upserted, h.ID)
	return nil
}

func (f *fakeRepo) GetHotel(_ context.Context, id string) (domain.SanitizedHotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	h, ok := f.hotels[id]
	if !ok {
		return domain.SanitizedHotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeRepo) ListHotels(_ context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	return domain.HotelsPage{Items: []domain.SanitizedHotel{}}, nil
}

// fakeCache stores JSON like the real adapters do.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type event struct {
	name    string
	payload []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, name string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event{name: name, payload: payload})
	return nil
}
