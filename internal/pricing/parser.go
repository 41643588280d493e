// Package pricing splits localized price strings such as "$1,234.50" or
// "€1.234,50" into a currency token and a numeric amount.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"hotel_catalog/internal/domain"
)

const nbsp = "\u00a0"

// currency is any run of non-digit, non-space characters; the amount is the
// digits/separators run right after it.
var componentRe = regexp.MustCompile(`([^\d\s]*)\s*([\d.,]+)`)

// Parse extracts currency and amount from a display price. It never fails:
// unknown shapes keep the trimmed text in AmountText for display.
func Parse(text string) domain.ParsedPrice {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, nbsp, " "))
	if cleaned == "" {
		return domain.ParsedPrice{}
	}

	m := componentRe.FindStringSubmatch(cleaned)
	if m == nil {
		return domain.ParsedPrice{AmountText: &cleaned}
	}

	var out domain.ParsedPrice
	if cur := strings.TrimSpace(m[1]); cur != "" {
		out.Currency = &cur
	}
	if amt := strings.TrimSpace(m[2]); amt != "" {
		out.AmountText = &amt
		if v, ok := ParseAmount(amt); ok {
			out.AmountValue = &v
		}
	}
	return out
}

// ParseAmount converts a numeric token with unknown thousands/decimal
// separators into a float. The later of ',' and '.' is the decimal separator;
// a lone separator is decimal only when followed by one or two digits.
func ParseAmount(token string) (float64, bool) {
	cleaned := strings.Join(strings.Fields(strings.ReplaceAll(token, nbsp, "")), "")
	if cleaned == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	var decimalSep, thousandsSep string
	switch {
	case lastComma != -1 && lastDot != -1:
		if lastComma > lastDot {
			decimalSep, thousandsSep = ",", "."
		} else {
			decimalSep, thousandsSep = ".", ","
		}
	case lastComma != -1:
		if isShortFraction(cleaned[lastComma+1:]) {
			decimalSep = ","
		} else {
			thousandsSep = ","
		}
	case lastDot != -1:
		if isShortFraction(cleaned[lastDot+1:]) {
			decimalSep = "."
		} else {
			thousandsSep = "."
		}
	}

	if thousandsSep != "" {
		cleaned = strings.ReplaceAll(cleaned, thousandsSep, "")
	}
	switch decimalSep {
	case "":
		cleaned = strings.NewReplacer(",", "", ".", "").Replace(cleaned)
	case ".":
	default:
		cleaned = strings.ReplaceAll(cleaned, decimalSep, ".")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isShortFraction(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseOptional is Parse for values that may be missing altogether.
func ParseOptional(text *string) domain.ParsedPrice {
	if text == nil {
		return domain.ParsedPrice{}
	}
	return Parse(*text)
}
