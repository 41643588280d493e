package domain

// RawHotel is one scraped hotel row. CSV rows carry plain strings (some of them
// JSON-encoded lists/objects); JSON exports carry native values.
type RawHotel map[string]any

// Room types.
const (
	RoomTypeRoom      = "Room"
	RoomTypeSuite     = "Suite"
	RoomTypeApartment = "Apartment"
	RoomTypeStudio    = "Studio"
	RoomTypeStandard  = "Standard"
)

// Hotel categories.
const (
	CategoryApartment  = "Apartment"
	CategoryGuesthouse = "Guesthouse"
	CategoryHostel     = "Hostel"
	CategoryResort     = "Resort"
	CategoryHotel      = "Hotel"
)

const StatusActive = "active"

type SanitizedRoom struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Information string   `json:"information"`
	Gallery     []string `json:"gallery"`
	Service     []string `json:"service"`
}

type SanitizedHotel struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Gallery     []string        `json:"gallery"`
	Location    string          `json:"location"`
	City        string          `json:"city"`
	Country     string          `json:"country"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Price       float64         `json:"price"`
	Rating      float64         `json:"rating"`
	Status      string          `json:"status"`
	Service     []string        `json:"service"`
	Distance    float64         `json:"distance"`
	Rooms       []SanitizedRoom `json:"rooms"`
}

// Catalog is the serialized output document.
type Catalog struct {
	Hotels []SanitizedHotel `json:"hotels"`
}

// ParsedPrice is the result of splitting a localized price string.
// AmountValue is set only when AmountText parsed as a finite number.
type ParsedPrice struct {
	Currency    *string  `json:"currency"`
	AmountText  *string  `json:"amount_text"`
	AmountValue *float64 `json:"amount_value"`
}

type Coords struct{ Lat, Lon float64 }
