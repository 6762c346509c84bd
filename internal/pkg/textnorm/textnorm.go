// Package textnorm canonicalizes free text and skill lists so that two values
// compare equal only when they mean the same token.
package textnorm

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Text lowercases s, then folds it to NFC, collapses runs of whitespace and trims
// the result. Any value that is not a string yields "".
func Text(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		if t == nil {
			return ""
		}
		s = *t
	case LooseString:
		s = string(t)
	default:
		return ""
	}
	// Lowercasing can emit decomposed sequences, so composition runs last.
	s = norm.NFC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// List normalizes every string element of v and drops the empty ones. Input
// order and duplicates are kept. Values that are not lists yield nil, and
// non-string elements of a generic list are skipped.
func List(v any) []string {
	var in []any
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if n := Text(s); n != "" {
				out = append(out, n)
			}
		}
		return out
	case Loose:
		return List([]string(t))
	case []any:
		in = t
	default:
		return nil
	}

	out := make([]string, 0, len(in))
	for _, e := range in {
		if n := Text(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Set is List deduplicated and sorted. It never returns nil.
func Set(v any) []string {
	items := List(v)
	if len(items) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Split cuts a comma separated string into a normalized set.
func Split(s string) []string {
	return Set(strings.Split(s, ","))
}

var (
	titleParens  = regexp.MustCompile(`\(.*?\)`)
	titleInvalid = regexp.MustCompile(`[^a-zàâçéèêëîïôûùüÿñæœ\s]`)
)

// Title reduces a job title to lowercase letters and single spaces, dropping
// any parenthesized qualifier such as "(H/F)".
func Title(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = norm.NFC.String(strings.ToLower(s))
	s = titleParens.ReplaceAllString(s, "")
	s = titleInvalid.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
