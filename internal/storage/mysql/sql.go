package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, title, category, description, image, gallery, location, city, country,
   latitude, longitude, price, rating, status, services, distance)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  title       = VALUES(title),
  category    = VALUES(category),
  description = VALUES(description),
  image       = VALUES(image),
  gallery     = VALUES(gallery),
  location    = VALUES(location),
  city        = VALUES(city),
  country     = VALUES(country),
  latitude    = VALUES(latitude),
  longitude   = VALUES(longitude),
  price       = VALUES(price),
  rating      = VALUES(rating),
  status      = VALUES(status),
  services    = VALUES(services),
  distance    = VALUES(distance),
  updated_at  = CURRENT_TIMESTAMP
`

// Rooms are replaced wholesale: a re-scrape may rename, drop or reorder them.
const deleteRoomsSQL = `DELETE FROM hotel_rooms WHERE hotel_id = ?`

const insertRoomsPrefix = "INSERT INTO hotel_rooms\n  (hotel_id, position, type, name, image, price, quantity, information, gallery, services)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const hotelColumns = `
  h.id, h.title, h.category, h.description, h.image, h.gallery, h.location,
  h.city, h.country, h.latitude, h.longitude, h.price, h.rating, h.status,
  h.services, h.distance`

const getHotelSQL = `SELECT` + hotelColumns + `
FROM hotels h
WHERE h.id = ?
`

const listHotelsPrefix = `SELECT` + hotelColumns + `
FROM hotels h
`

const roomColumns = `hotel_id, type, name, image, price, quantity, information, gallery, services`

const getRoomsSQL = `SELECT ` + roomColumns + `
FROM hotel_rooms
WHERE hotel_id = ?
ORDER BY position
`
