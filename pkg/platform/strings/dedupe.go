// Package strings normalises identifier lists and tag sets taken from
// request payloads.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim trims each value and drops blanks and repeats. Order is
// preserved, so the first occurrence wins.
//
//	DedupeAndTrim([]string{" c-1", "c-2", "c-1 ", ""}) // [c-1 c-2]
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// Tags brings free-form tags to canonical form: trimmed, lower-case, inner
// spaces as underscores, de-duplicated and sorted.
//
//	Tags([]string{"Endring ", "forsinkelse", "endring"}) // [endring forsinkelse]
func Tags(values []string) []string {
	out := dedupe(values, tag)
	slices.Sort(out)
	return out
}

func tag(v string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "_")
}

func dedupe(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := norm(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
