// aviation/record.go
package aviation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawFlightRecord is one element of the provider's "data" array, decoded
// without a schema. Any key may be missing or null at any depth.
type RawFlightRecord map[string]any

// Timestamps come as e.g. 2019-12-12T04:20:00+00:00. Offsets without a
// colon ("+0000") are accepted too; fractional seconds are not.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
}

// secondsEnd is the offset just past the seconds field of a timestamp.
const secondsEnd = len("2006-01-02T15:04:05")

// lookup walks nested objects along keys and returns the value at the end
// if it has type T. A missing key, a null, or a non-object link anywhere on
// the path yields ok == false.
func lookup[T any](rec map[string]any, keys ...string) (value T, ok bool) {
	var cur any = rec
	for _, key := range keys {
		obj, isObj := cur.(map[string]any)
		if !isObj || obj == nil {
			return value, false
		}
		next, found := obj[key]
		if !found || next == nil {
			return value, false
		}
		cur = next
	}
	value, ok = cur.(T)
	return value, ok
}

// stringAt returns the trimmed string at keys, or nil when absent or blank.
func stringAt(rec map[string]any, keys ...string) *string {
	s, ok := lookup[string](rec, keys...)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// floatAt returns the number at keys, or nil when absent. Numeric strings
// are accepted since some providers quote coordinates. NaN and infinities
// are treated as absent.
func floatAt(rec map[string]any, keys ...string) *float64 {
	v, ok := lookup[any](rec, keys...)
	if !ok {
		return nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// timeAt parses the timestamp at keys. An absent or unparseable value is nil;
// the failure never affects other fields.
func timeAt(rec map[string]any, keys ...string) *time.Time {
	s := stringAt(rec, keys...)
	if s == nil {
		return nil
	}
	// time.Parse would otherwise accept them.
	if len(*s) > secondsEnd && (*s)[secondsEnd] == '.' {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}
