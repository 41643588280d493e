package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_catalog/internal/adapters/observability"
	"hotel_catalog/internal/domain"
	"hotel_catalog/internal/pricing"
)

type SanitizerOptions struct {
	Country string
	// Reference enables distance computation when set.
	Reference        *domain.Coords
	RoomGalleryLimit int
	RoomServiceLimit int
}

// Sanitizer turns raw scraped hotels into catalog records. It holds no
// per-hotel state and is safe for concurrent use.
type Sanitizer struct {
	opts SanitizerOptions
	log  zerolog.Logger
}

func NewSanitizer(opts SanitizerOptions) *Sanitizer {
	if opts.RoomGalleryLimit <= 0 {
		opts.RoomGalleryLimit = defaultRoomGalleryLimit
	}
	if opts.RoomServiceLimit <= 0 {
		opts.RoomServiceLimit = defaultRoomServiceLimit
	}
	return &Sanitizer{
		opts: opts,
		log:  log.Logger.With().Str("component", "sanitizer").Logger(),
	}
}

// WithCountry returns a copy labelling hotels with another country.
func (s *Sanitizer) WithCountry(country string) *Sanitizer {
	cp := *s
	cp.opts.Country = country
	return &cp
}

func (s *Sanitizer) Options() SanitizerOptions { return s.opts }

// SanitizeAll sanitizes hotels in input order.
func (s *Sanitizer) SanitizeAll(raws []domain.RawHotel) domain.Catalog {
	out := domain.Catalog{Hotels: make([]domain.SanitizedHotel, 0, len(raws))}
	for _, r := range raws {
		out.Hotels = append(out.Hotels, s.Sanitize(r))
	}
	return out
}

// Sanitize builds one catalog record. Unreadable fields fall back to empty
// values; it never fails.
func (s *Sanitizer) Sanitize(raw domain.RawHotel) domain.SanitizedHotel {
	title := lookupStr(raw, "title")
	description := plainText(lookupStr(raw, "description"))
	url := lookupStr(raw, "url")
	city := lookupStr(raw, "city")
	location := lookupStr(raw, "location")
	if location == "" {
		location = city
	}

	l := s.log.With().Str("url", url).Str("title", title).Logger()

	facilities := s.field(l, raw, "facilities")
	services := cleanServices(facilities)

	gallery := scalarList(s.field(l, raw, "gallery"))

	lat, latOK := toFloat(raw["latitude"])
	lon, lonOK := toFloat(raw["longitude"])

	// rooms sometimes land in the unnamed CSV column
	roomsRaw := s.field(l, raw, "rooms")
	if roomsRaw == nil {
		roomsRaw = s.field(l, raw, "")
	}
	rooms, dropped := s.parseRooms(roomsRaw, gallery)

	price := derivePrice(s.field(l, raw, "search_pricing"), rooms)

	var rating float64
	if r, ok := toFloatFlexible(raw["rating"]); ok {
		rating = r / 2.0
	} else {
		rating = ratingFromServices(len(services))
	}

	distance := 0.0
	if s.opts.Reference != nil && latOK && lonOK {
		distance = round2(haversineKm(lat, lon, s.opts.Reference.Lat, s.opts.Reference.Lon))
	}

	categoryBasis := title
	if categoryBasis == "" {
		categoryBasis = description
	}

	if description == "" && title != "" {
		description = "Stay at " + title
	}
	if title == "" {
		title = "Untitled"
	}

	observability.ObserveSanitized(len(rooms), dropped)
	l.Debug().Int("rooms", len(rooms)).Int("rooms_dropped", dropped).Msg("hotel sanitized")

	return domain.SanitizedHotel{
		ID:          hotelID(url, lookupStr(raw, "title"), lookupStr(raw, "description")),
		Title:       title,
		Category:    deriveCategory(categoryBasis),
		Description: description,
		Image:       firstNonEmpty(gallery),
		Gallery:     gallery,
		Location:    location,
		City:        city,
		Country:     s.opts.Country,
		Latitude:    lat,
		Longitude:   lon,
		Price:       price,
		Rating:      rating,
		Status:      domain.StatusActive,
		Service:     services,
		Distance:    distance,
		Rooms:       rooms,
	}
}

// field decodes an embedded JSON column, logging (not failing) when it is malformed.
func (s *Sanitizer) field(l zerolog.Logger, raw domain.RawHotel, key string) any {
	v, ok := embedded(raw, key)
	if !ok {
		l.Debug().Str("field", key).Msg("unreadable embedded JSON, treated as absent")
		observability.ObserveMalformed(key)
	}
	return v
}

// hotelID is content addressed: the same url/title/description always
// yields the same id.
func hotelID(url, title, description string) string {
	basis := url
	if basis == "" {
		basis = title
	}
	if basis == "" {
		b, _ := json.Marshal([]string{title, description})
		basis = string(b)
	}
	sum := sha1.Sum([]byte(basis))
	return hex.EncodeToString(sum[:])[:16]
}

func deriveCategory(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "apartment"),
		strings.Contains(lowered, "suite"),
		strings.Contains(lowered, "studio"):
		return domain.CategoryApartment
	case strings.Contains(lowered, "guest house"), strings.Contains(lowered, "guesthouse"):
		return domain.CategoryGuesthouse
	case strings.Contains(lowered, "hostel"):
		return domain.CategoryHostel
	case strings.Contains(lowered, "resort"):
		return domain.CategoryResort
	}
	return domain.CategoryHotel
}

// derivePrice: list-page price, then the first priced room, else 0.
func derivePrice(searchPricing any, rooms []domain.SanitizedRoom) float64 {
	if sp, ok := searchPricing.(map[string]any); ok {
		if v, ok := toFloat(sp["current_price_amount"]); ok {
			return round2(v)
		}
		if display, ok := sp["current_price_display"].(string); ok {
			if p := pricing.Parse(display); p.AmountValue != nil {
				return round2(*p.AmountValue)
			}
		}
	}
	for _, r := range rooms {
		if r.Price > 0 {
			return round2(r.Price)
		}
	}
	return 0
}

// ratingFromServices is a filler score for hotels without a real rating:
// 3.5 growing with the facility count, capped at 5.0.
func ratingFromServices(n int) float64 {
	if n == 0 {
		return 4.0
	}
	return round2(3.5 + math.Min(1.5, float64(n)/50.0*1.5))
}
