package migrate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// pick returns the value of the first key present with a non-null value.
// Alias lists are ordered canonical name first, oldest name last.
func pick(m map[string]any, keys ...string) (any, bool) {
	if m == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// pickString is pick followed by str; absent yields "".
func pickString(m map[string]any, keys ...string) string {
	v, _ := pick(m, keys...)
	return str(v)
}

// pickID reads an identifier, accepting either a scalar or an object with an
// id field.
func pickID(m map[string]any, keys ...string) string {
	v, ok := pick(m, keys...)
	if !ok {
		return ""
	}
	if obj, isObj := v.(map[string]any); isObj {
		return strings.TrimSpace(str(obj["id"]))
	}
	return strings.TrimSpace(str(v))
}

// str stringifies any decoded JSON value. Objects and arrays are rendered as
// compact JSON.
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	default:
		return fmt.Sprint(t)
	}
}

// boolean coerces v, returning def for absent or unintelligible values.
func boolean(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "on":
			return true
		case "false", "no", "n", "0", "off":
			return false
		}
		return def
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return def
		}
		return f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return def
	}
}

// integer coerces v into an int when it holds an integral number.
func integer(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return integer(f)
		}
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

// object returns v as a JSON object, or nil.
func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// list returns v as a slice of decoded values, or nil.
func list(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// labels coerces v into a list of labels. A scalar string is treated as a
// comma-separated list.
func labels(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		return strings.Split(t, ",")
	}
	items := list(v)
	if items == nil {
		return []string{str(v)}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, str(item))
	}
	return out
}

// idAllocator hands out synthetic identifiers derived from list position,
// skipping any id already taken in the same list.
type idAllocator struct {
	prefix string
	taken  map[string]struct{}
}

func newIDAllocator(prefix string, existing []string) *idAllocator {
	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		if id != "" {
			taken[id] = struct{}{}
		}
	}
	return &idAllocator{prefix: prefix, taken: taken}
}

// assign returns id unchanged when set, otherwise a position-derived id.
func (a *idAllocator) assign(id string, position int) string {
	if id != "" {
		return id
	}
	candidate := fmt.Sprintf("%s-%d", a.prefix, position+1)
	for n := 2; ; n++ {
		if _, ok := a.taken[candidate]; !ok {
			break
		}
		candidate = fmt.Sprintf("%s-%d-%d", a.prefix, position+1, n)
	}
	a.taken[candidate] = struct{}{}
	return candidate
}
