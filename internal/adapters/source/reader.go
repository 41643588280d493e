// Package source reads raw scraper exports (CSV or JSON) and sanitized catalog files.
package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"hotel_catalog/internal/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatOf picks the format from a file extension; anything but .csv is JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// ReadFile loads raw hotels from a CSV or JSON export on disk.
func ReadFile(path string) ([]domain.RawHotel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewSourceError(domain.SourceKindOpen, path, "open failed", err)
	}
	defer f.Close()
	return Decode(f, FormatOf(path), "", path)
}

// Decode reads raw hotels from r. contentType, when known, helps charset
// detection for CSV; name is only used in errors.
func Decode(r io.Reader, format Format, contentType, name string) ([]domain.RawHotel, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.NewSourceError(domain.SourceKindOpen, name, "read failed", err)
	}
	switch format {
	case FormatCSV:
		return decodeCSV(body, contentType, name)
	default:
		return decodeJSON(body, name)
	}
}

func decodeCSV(body []byte, contentType, name string) ([]domain.RawHotel, error) {
	body, err := toUTF8(body, contentType)
	if err != nil {
		return nil, domain.NewSourceError(domain.SourceKindDecode, name, "charset conversion failed", err)
	}

	cr := csv.NewReader(bytes.NewReader(body))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.RawHotel{}, nil
	}
	if err != nil {
		return nil, domain.NewSourceError(domain.SourceKindDecode, name, "read header", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	out := []domain.RawHotel{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewSourceError(domain.SourceKindDecode, name, fmt.Sprintf("row %d", line), err)
		}
		// a repeated header name takes the value of its last column
		row := make(domain.RawHotel, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// toUTF8 strips a BOM and converts legacy encodings (cp1251 exports are common).
func toUTF8(body []byte, contentType string) ([]byte, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if utf8.Valid(body) {
		return body, nil
	}
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") {
		return body, nil
	}
	return enc.NewDecoder().Bytes(body)
}

func decodeJSON(body []byte, name string) ([]domain.RawHotel, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []domain.RawHotel{}, nil
	}

	var out []domain.RawHotel
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, domain.NewSourceError(domain.SourceKindDecode, name, "decode hotel array", err)
		}
		return out, nil
	}

	var wrapped struct {
		Hotels []domain.RawHotel `json:"hotels"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, domain.NewSourceError(domain.SourceKindDecode, name, "decode hotels object", err)
	}
	if wrapped.Hotels == nil {
		return []domain.RawHotel{}, nil
	}
	return wrapped.Hotels, nil
}

// ReadCatalog loads a sanitized catalog, either {"hotels": [...]} or a bare array.
func ReadCatalog(path string) (domain.Catalog, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, domain.NewSourceError(domain.SourceKindOpen, path, "open failed", err)
	}
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))

	var c domain.Catalog
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &c.Hotels)
	} else {
		err = json.Unmarshal(trimmed, &c)
	}
	if err != nil {
		return domain.Catalog{}, domain.NewSourceError(domain.SourceKindDecode, path, "decode catalog", err)
	}
	if c.Hotels == nil {
		c.Hotels = []domain.SanitizedHotel{}
	}
	return c, nil
}
