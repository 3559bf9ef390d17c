package edit

import (
	"reflect"
	"strings"
)

// ParseTags coerces a tag value into an ordered, deduplicated list. Lists are
// used as they are; anything else is split on commas. Segments are trimmed and
// empty ones dropped.
func ParseTags(v interface{}) []string {
	var parts []string
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		parts = t
	case []interface{}:
		parts = make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, Stringify(e))
		}
	case string:
		parts = strings.Split(t, ",")
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			parts = make([]string, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				parts = append(parts, Stringify(rv.Index(i).Interface()))
			}
		} else {
			parts = strings.Split(Stringify(v), ",")
		}
	}

	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return dedupe(trimmed)
}

// MergeTagOptions returns the known options followed by every assigned tag that
// is not already an option, without duplicates.
func MergeTagOptions(options, assigned []string) []string {
	merged := make([]string, 0, len(options)+len(assigned))
	merged = append(merged, options...)
	merged = append(merged, assigned...)
	return dedupe(merged)
}

// dedupe keeps the first occurrence of each exact string.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
