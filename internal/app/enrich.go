package app

import (
	"math/rand/v2"

	"hotel_catalog/internal/domain"
)

// DefaultRoomServices is the pool sampled for rooms scraped without highlights.
var DefaultRoomServices = []string{
	"Toilet",
	"Bathtub or shower",
	"Towels",
	"Linens",
	"Socket near the bed",
	"Tile/Marble floor",
	"TV",
	"Heating",
	"Carpeted",
	"Cable channels",
	"Wake-up service",
	"Upper floors accessible by elevator",
	"Upper floors accessible by stairs only",
	"Clothes rack",
	"Toilet paper",
	"Board games/puzzles",
	"Single-room AC for guest accommodation",
	"Inner courtyard view",
	"Air conditioning",
	"Attached bathroom",
	"Flat-screen TV",
	"Soundproof",
	"Free Wifi",
	"Private bathroom",
	"Hair dryer",
	"Free toiletries",
	"Shampoo",
	"Toiletries",
	"Bathroom",
}

const (
	minFilledServices = 6
	maxFilledServices = 14
)

// ServiceFiller gives rooms without services a random sample from a pool.
type ServiceFiller struct {
	pool []string
	rng  *rand.Rand
}

func NewServiceFiller(pool []string, rng *rand.Rand) *ServiceFiller {
	if len(pool) == 0 {
		pool = DefaultRoomServices
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ServiceFiller{pool: pool, rng: rng}
}

// Fill updates the catalog in place and returns how many rooms were filled.
// Rooms that already list services are left alone.
func (f *ServiceFiller) Fill(c *domain.Catalog) int {
	hi := min(maxFilledServices, len(f.pool))
	lo := min(minFilledServices, hi)

	filled := 0
	for h := range c.Hotels {
		rooms := c.Hotels[h].Rooms
		for ri := range rooms {
			if len(rooms[ri].Service) > 0 {
				continue
			}
			rooms[ri].Service = f.sample(lo, hi)
			filled++
		}
	}
	return filled
}

func (f *ServiceFiller) sample(lo, hi int) []string {
	k := lo + f.rng.IntN(hi-lo+1)
	perm := f.rng.Perm(len(f.pool))
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = f.pool[perm[i]]
	}
	return out
}
