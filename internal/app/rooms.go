package app

import (
	"strings"

	"hotel_catalog/internal/domain"
	"hotel_catalog/internal/pricing"
)

const (
	defaultRoomGalleryLimit = 6
	defaultRoomServiceLimit = 6
)

// imageLedger remembers every image already handed to a room of one hotel.
// A fresh ledger is created per Sanitize call.
type imageLedger struct {
	used map[string]struct{}
}

func newImageLedger() *imageLedger {
	return &imageLedger{used: make(map[string]struct{})}
}

// claim takes up to limit images from candidates that no earlier room owns,
// in order, and marks them used.
func (l *imageLedger) claim(candidates []string, limit int) []string {
	out := make([]string, 0, limit)
	for _, img := range candidates {
		if len(out) == limit {
			break
		}
		if _, taken := l.used[img]; taken {
			continue
		}
		l.used[img] = struct{}{}
		out = append(out, img)
	}
	return out
}

func inferRoomType(name string) string {
	lowered := strings.ToLower(name)
	switch {
	case strings.Contains(lowered, "suite"):
		return domain.RoomTypeSuite
	case strings.Contains(lowered, "apartment"):
		return domain.RoomTypeApartment
	case strings.Contains(lowered, "studio"):
		return domain.RoomTypeStudio
	case strings.Contains(lowered, "king"),
		strings.Contains(lowered, "queen"),
		strings.Contains(lowered, "double"):
		return domain.RoomTypeStandard
	}
	return domain.RoomTypeRoom
}

// roomQuantity is the largest number found in the "rooms left" selector
// options, at least 1.
func roomQuantity(availability any) int {
	opts, ok := availability.([]any)
	if !ok {
		return 1
	}
	best := 1
	for _, o := range opts {
		opt, ok := o.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"value", "label"} {
			v, present := opt[key]
			if !present {
				continue
			}
			s, ok := scalarString(v)
			if !ok {
				continue
			}
			if n, ok := firstInt(s); ok && n > best {
				best = n
			}
		}
	}
	return best
}

// roomPrice: price_amount, then price, then the parsed display string.
// A zero amount counts as missing.
func roomPrice(item map[string]any) float64 {
	if v, ok := toFloat(item["price_amount"]); ok && v != 0 {
		return round2(v)
	}
	if v, ok := toFloat(item["price"]); ok {
		return round2(v)
	}
	if s, ok := item["price_display"].(string); ok {
		if p := pricing.Parse(s); p.AmountValue != nil {
			return round2(*p.AmountValue)
		}
	}
	if v, ok := toFloat(item["price_amount"]); ok {
		return round2(v)
	}
	return 0
}

// parseRooms keeps named rooms only; nameless entries are pricing variants of
// a room already listed. Rooms are processed in input order so image
// assignment is deterministic.
func (s *Sanitizer) parseRooms(roomsRaw any, hotelGallery []string) (rooms []domain.SanitizedRoom, dropped int) {
	rooms = []domain.SanitizedRoom{}
	list, ok := roomsRaw.([]any)
	if !ok {
		return rooms, 0
	}

	ledger := newImageLedger()
	for _, it := range list {
		item, ok := it.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		name, _ := item["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			dropped++
			continue
		}

		services := cleanServices(item["highlights"])
		if len(services) > s.opts.RoomServiceLimit {
			services = services[:s.opts.RoomServiceLimit]
		}

		imagesRaw := item["gallery"]
		if l, ok := imagesRaw.([]any); !ok || len(l) == 0 {
			imagesRaw = item["images"]
		}
		gallery := ledger.claim(scalarList(imagesRaw), s.opts.RoomGalleryLimit)
		if len(gallery) == 0 {
			gallery = ledger.claim(hotelGallery, s.opts.RoomGalleryLimit)
		}

		description, _ := item["description"].(string)

		rooms = append(rooms, domain.SanitizedRoom{
			Type:        inferRoomType(name),
			Name:        name,
			Image:       firstNonEmpty(gallery),
			Price:       roomPrice(item),
			Quantity:    roomQuantity(item["availability"]),
			Information: plainText(description),
			Gallery:     gallery,
			Service:     services,
		})
	}
	return rooms, dropped
}
