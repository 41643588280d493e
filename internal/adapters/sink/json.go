// Package sink writes sanitized catalogs to disk.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hotel_catalog/internal/domain"
)

// Encode writes c as indented JSON. Non-ASCII text and &<> stay literal.
func Encode(w io.Writer, c domain.Catalog) error {
	if c.Hotels == nil {
		c.Hotels = []domain.SanitizedHotel{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(c)
}

// WriteFile writes the catalog next to its final path and renames it into
// place, so readers never observe a half-written file.
func WriteFile(path string, c domain.Catalog) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, c); err != nil {
		tmp.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
