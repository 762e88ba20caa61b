package enrich

import (
	"fmt"
	"strings"
)

// NormalizeKey canonicalizes a company name or URL into a comparable match
// key: trim, lowercase, strip a leading http(s) scheme and "www." prefix,
// and drop trailing slashes. Empty input yields the empty key, which never
// matches anything. The function is idempotent.
func NormalizeKey(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	if after, ok := strings.CutPrefix(s, "http://"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "https://"); ok {
		s = after
	}
	s = strings.TrimPrefix(s, "www.")
	for strings.HasSuffix(s, "/") {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

// NormalizeKeyValue stringifies an arbitrary record store field value before
// normalizing it. Nil yields the empty key.
func NormalizeKeyValue(v any) string {
	if v == nil {
		return ""
	}
	return NormalizeKey(Stringify(v))
}

// Stringify renders a record store field value as a plain string. Select
// values arrive as {"name": ...} maps and multi-values as lists; both
// collapse to comma-joined names.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if name, ok := t["name"]; ok {
			return Stringify(name)
		}
		return fmt.Sprint(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Stringify(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		// JSON numbers decode as float64; render integers without exponent.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprint(t)
	}
}

// LooksLikeURL reports whether a raw key field is itself a web address.
func LooksLikeURL(s string) bool {
	low := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(low, "http://") ||
		strings.HasPrefix(low, "https://") ||
		strings.HasPrefix(low, "www.")
}
