package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel_catalog/internal/app"
	"hotel_catalog/internal/domain"
)

func TestMergeCatalogs_KeepsArgumentOrder(t *testing.T) {
	a := domain.Catalog{Hotels: []domain.SanitizedHotel{{ID: "1"}, {ID: "2"}}}
	b := domain.Catalog{Hotels: []domain.SanitizedHotel{{ID: "3"}}}

	got := app.MergeCatalogs(a, domain.Catalog{}, b)
	ids := []string{}
	for _, h := range got.Hotels {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)

	assert.NotNil(t, app.MergeCatalogs().Hotels)
}

func TestStats(t *testing.T) {
	cat := domain.Catalog{Hotels: []domain.SanitizedHotel{
		{City: "Tbilisi", Rooms: []domain.SanitizedRoom{{Name: "Double Room"}, {Name: "Twin Room"}}},
		{City: "Batumi", Rooms: []domain.SanitizedRoom{{Name: "Double Room"}}},
		{City: "Tbilisi"},
		{City: ""},
	}}

	st := app.Stats(cat)
	assert.Equal(t, 4, st.TotalHotels)
	assert.Equal(t, 3, st.HotelsWithCity)
	assert.Equal(t, 1, st.HotelsWithoutCity)
	assert.Equal(t, []app.NameCount{{Name: "Tbilisi", Count: 2}, {Name: "Batumi", Count: 1}}, st.Cities)
	assert.Equal(t, 2, st.HotelsWithRooms)
	assert.Equal(t, 2, st.HotelsWithoutRooms)
	assert.Equal(t, 3, st.TotalRooms)
	assert.Equal(t, []app.NameCount{{Name: "Double Room", Count: 2}, {Name: "Twin Room", Count: 1}}, st.RoomNames)
}
