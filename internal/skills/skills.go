// Package skills maps free-form skill and qualification strings to canonical
// tokens so that job requirements and profile entries can be compared as sets.
package skills

import (
	"regexp"
	"sort"
	"strings"
)

var versionToken = regexp.MustCompile(`^v?\d+(\.\d+)?\+?$`)

// aliases maps a canonical token to spellings that should collapse into it.
// Keys and values are compared after Normalize.
var aliases = map[string][]string{
	"next.js":      {"nextjs", "next js", "next"},
	"react":        {"reactjs", "react.js", "react js"},
	"node.js":      {"nodejs", "node js", "node"},
	"gcp":          {"google cloud platform", "google cloud"},
	"sse":          {"server sent events", "server-sent events"},
	"restful apis": {"rest api", "rest", "apis"},
	"openai":       {"openai api", "openai sdk"},
	"mongodb":      {"mongo db"},
	"tailwind css": {"tailwind"},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	index := make(map[string]string)
	for canonical, spellings := range aliases {
		index[Normalize(canonical)] = canonical
		for _, spelling := range spellings {
			index[Normalize(spelling)] = canonical
		}
	}
	return index
}

// Normalize lowercases s, turns dots into spaces, collapses whitespace and drops
// bare version tokens such as "3", "v2" or "18+".
func Normalize(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), ".", " ")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, field := range fields {
		if versionToken.MatchString(field) {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// Canonical returns the canonical token for s, or "" when nothing is left after
// normalization.
func Canonical(s string) string {
	normalized := Normalize(s)
	if normalized == "" {
		return ""
	}
	if canonical, ok := aliasIndex[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSet returns the sorted, de-duplicated canonical tokens of items.
func NormalizeSet(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		token := Canonical(item)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}
