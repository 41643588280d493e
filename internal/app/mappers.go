package app

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

/********** tiny helpers **********/

// lookupStr returns the trimmed scalar at key or "".
func lookupStr(m map[string]any, key string) string {
	s, _ := scalarString(m[key])
	return s
}

// scalarString renders strings and numbers; everything else is rejected.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// safeJSONLoads decodes CSV-embedded JSON. Doubled quotes left over from CSV
// escaping are repaired once; anything still unreadable is nil.
func safeJSONLoads(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, true
	}
	var out any
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out, true
	}
	fixed := strings.ReplaceAll(text, `""`, `"`)
	if err := json.Unmarshal([]byte(fixed), &out); err == nil {
		return out, true
	}
	return nil, false
}

// embedded returns the value at key, decoding it when it arrived as a JSON
// string. ok is false only for a non-empty string that is not valid JSON.
func embedded(m map[string]any, key string) (any, bool) {
	v := m[key]
	s, isStr := v.(string)
	if !isStr {
		return v, true
	}
	return safeJSONLoads(s)
}

// toFloat: number from float64/int/numeric string. Non-finite values are absent.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// toFloatFlexible also accepts a decimal comma ("8,6").
func toFloatFlexible(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		v = strings.ReplaceAll(s, ",", ".")
	}
	return toFloat(v)
}

// scalarList keeps non-blank scalar entries of a list, trimmed.
func scalarList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if s, ok := scalarString(it); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanServices drops UI labels such as "See all 42 facilities".
func cleanServices(v any) []string {
	in := scalarList(v)
	out := in[:0]
	for _, s := range in {
		if strings.HasPrefix(strings.ToLower(s), "see all") {
			continue
		}
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(items []string) string {
	for _, s := range items {
		if s != "" {
			return s
		}
	}
	return ""
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

var digitsRe = regexp.MustCompile(`\d+`)

// firstInt returns the first digit run in s.
func firstInt(s string) (int, bool) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
