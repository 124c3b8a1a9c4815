package station

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// record is one loosely-typed backend object. Every read goes through an ordered
// list of candidate keys; the first non-null value wins.
type record map[string]any

// asRecords flattens a bare array or an object wrapping the array under one of containerKeys.
// Entries that are not objects are dropped.
func asRecords(payload any, containerKeys ...string) []record {
	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case []map[string]any:
		for _, m := range v {
			items = append(items, m)
		}
	case map[string]any:
		for _, key := range containerKeys {
			if list, ok := v[key].([]any); ok {
				items = list
				break
			}
		}
	}

	records := make([]record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, record(m))
		}
	}
	return records
}

// asRecord unwraps a single object, optionally nested under one of containerKeys.
func asRecord(payload any, containerKeys ...string) record {
	m, ok := payload.(map[string]any)
	if !ok {
		return record{}
	}
	for _, key := range containerKeys {
		if inner, ok := m[key].(map[string]any); ok {
			return record(inner)
		}
	}
	return record(m)
}

func (r record) first(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// str returns the first key holding a non-empty string or a number.
func (r record) str(keys ...string) string {
	for _, key := range keys {
		if s := toString(r[key]); s != "" {
			return s
		}
	}
	return ""
}

func (r record) number(keys ...string) (float64, bool) {
	v, ok := r.first(keys...)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

func (r record) nested(key string) (record, bool) {
	m, ok := r[key].(map[string]any)
	return record(m), ok
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

// toNumber accepts JSON numbers and numeric strings. NaN and infinities are rejected.
func toNumber(v any) (float64, bool) {
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
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// percent clamps to [0,100] and rounds. Anything non-numeric is nil, never zero.
func percent(v any, ok bool) *int {
	if !ok {
		return nil
	}
	f, ok := toNumber(v)
	if !ok {
		return nil
	}
	p := int(math.Round(math.Min(100, math.Max(0, f))))
	return &p
}

func count(v any, ok bool) int {
	if !ok {
		return 0
	}
	f, ok := toNumber(v)
	if !ok || f < 0 {
		return 0
	}
	return int(math.Round(f))
}
