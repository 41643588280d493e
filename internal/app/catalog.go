package app

import (
	"sort"

	"hotel_catalog/internal/domain"
)

// MergeCatalogs concatenates hotels in argument order.
func MergeCatalogs(cats ...domain.Catalog) domain.Catalog {
	n := 0
	for _, c := range cats {
		n += len(c.Hotels)
	}
	out := domain.Catalog{Hotels: make([]domain.SanitizedHotel, 0, n)}
	for _, c := range cats {
		out.Hotels = append(out.Hotels, c.Hotels...)
	}
	return out
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CatalogStats struct {
	TotalHotels        int         `json:"total_hotels"`
	HotelsWithCity     int         `json:"hotels_with_city"`
	HotelsWithoutCity  int         `json:"hotels_without_city"`
	Cities             []NameCount `json:"cities"`
	HotelsWithRooms    int         `json:"hotels_with_rooms"`
	HotelsWithoutRooms int         `json:"hotels_without_rooms"`
	TotalRooms         int         `json:"total_rooms"`
	RoomNames          []NameCount `json:"room_names"`
}

// Stats counts hotels per city and rooms per name. Both lists are ordered by
// count descending, then name.
func Stats(c domain.Catalog) CatalogStats {
	st := CatalogStats{TotalHotels: len(c.Hotels)}
	cities := map[string]int{}
	names := map[string]int{}

	for _, h := range c.Hotels {
		if h.City != "" {
			cities[h.City]++
			st.HotelsWithCity++
		} else {
			st.HotelsWithoutCity++
		}
		if len(h.Rooms) == 0 {
			st.HotelsWithoutRooms++
			continue
		}
		st.HotelsWithRooms++
		for _, r := range h.Rooms {
			if r.Name == "" {
				continue
			}
			names[r.Name]++
			st.TotalRooms++
		}
	}
	st.Cities = sortedCounts(cities)
	st.RoomNames = sortedCounts(names)
	return st
}

func sortedCounts(m map[string]int) []NameCount {
	out := make([]NameCount, 0, len(m))
	for k, v := range m {
		out = append(out, NameCount{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
