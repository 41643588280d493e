package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hotel_catalog/internal/domain"
)

// valJSON encodes a string list; nil becomes [] so columns are never NULL.
func valJSON(list []string) string {
	if list == nil {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func scanJSON(b []byte) []string {
	out := []string{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &out)
	}
	return out
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHotel(ctx context.Context, h domain.SanitizedHotel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Title,
		h.Category,
		h.Description,
		h.Image,
		valJSON(h.Gallery),
		h.Location,
		h.City,
		h.Country,
		h.Latitude,
		h.Longitude,
		h.Price,
		h.Rating,
		h.Status,
		valJSON(h.Service),
		h.Distance,
	); err != nil {
		return fmt.Errorf("upsert hotel: %w", err)
	}

	if _, err := tx.ExecContext(ctx, deleteRoomsSQL, h.ID); err != nil {
		return fmt.Errorf("delete rooms: %w", err)
	}

	if len(h.Rooms) > 0 {
		values := make([]string, 0, len(h.Rooms))
		args := make([]any, 0, len(h.Rooms)*10) // 10 params per row
		for i, rm := range h.Rooms {
			values = append(values, "(?,?,?,?,?,?,?,?,?,?)")
			args = append(args,
				h.ID,
				i,
				rm.Type,
				rm.Name,
				rm.Image,
				rm.Price,
				rm.Quantity,
				rm.Information,
				valJSON(rm.Gallery),
				valJSON(rm.Service),
			)
		}
		if _, err := tx.ExecContext(ctx, insertRoomsPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert rooms: %w", err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHotel(row rowScanner) (domain.SanitizedHotel, error) {
	var h domain.SanitizedHotel
	var gallery, services []byte
	if err := row.Scan(
		&h.ID, &h.Title, &h.Category, &h.Description, &h.Image, &gallery, &h.Location,
		&h.City, &h.Country, &h.Latitude, &h.Longitude, &h.Price, &h.Rating, &h.Status,
		&services, &h.Distance,
	); err != nil {
		return domain.SanitizedHotel{}, err
	}
	h.Gallery = scanJSON(gallery)
	h.Service = scanJSON(services)
	h.Rooms = []domain.SanitizedRoom{}
	return h, nil
}

func scanRoom(row rowScanner) (string, domain.SanitizedRoom, error) {
	var hotelID string
	var rm domain.SanitizedRoom
	var gallery, services []byte
	if err := row.Scan(
		&hotelID, &rm.Type, &rm.Name, &rm.Image, &rm.Price, &rm.Quantity, &rm.Information,
		&gallery, &services,
	); err != nil {
		return "", domain.SanitizedRoom{}, err
	}
	rm.Gallery = scanJSON(gallery)
	rm.Service = scanJSON(services)
	return hotelID, rm, nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.SanitizedHotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SanitizedHotel{}, domain.ErrNotFound
		}
		return domain.SanitizedHotel{}, err
	}

	rows, err := r.db.QueryContext(ctx, getRoomsSQL, id)
	if err != nil {
		return domain.SanitizedHotel{}, err
	}
	defer rows.Close()

	for rows.Next() {
		_, rm, err := scanRoom(rows)
		if err != nil {
			return domain.SanitizedHotel{}, err
		}
		h.Rooms = append(h.Rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return domain.SanitizedHotel{}, err
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	var where []string
	var args []any
	if q.City != nil {
		where = append(where, "h.city = ?")
		args = append(args, *q.City)
	}
	if q.Category != nil {
		where = append(where, "h.category = ?")
		args = append(args, *q.Category)
	}
	query := listHotelsPrefix
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "ORDER BY h.id\nLIMIT ?"
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	defer rows.Close()

	out := []domain.SanitizedHotel{}
	index := map[string]int{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return domain.HotelsPage{}, err
		}
		index[h.ID] = len(out)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return domain.HotelsPage{}, err
	}
	if len(out) == 0 {
		return domain.HotelsPage{Items: out}, nil
	}

	if err := r.attachRooms(ctx, out, index); err != nil {
		return domain.HotelsPage{}, err
	}
	return domain.HotelsPage{Items: out}, nil
}

// attachRooms loads rooms for a page of hotels with one IN query.
func (r *Repo) attachRooms(ctx context.Context, hotels []domain.SanitizedHotel, index map[string]int) error {
	marks := make([]string, len(hotels))
	args := make([]any, len(hotels))
	for i, h := range hotels {
		marks[i] = "?"
		args[i] = h.ID
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomColumns+"\nFROM hotel_rooms\nWHERE hotel_id IN ("+strings.Join(marks, ",")+")\nORDER BY hotel_id, position",
		args...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		hotelID, rm, err := scanRoom(rows)
		if err != nil {
			return err
		}
		if i, ok := index[hotelID]; ok {
			hotels[i].Rooms = append(hotels[i].Rooms, rm)
		}
	}
	return rows.Err()
}
