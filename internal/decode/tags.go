package decode

import "strings"

const tagSeparator = "|"

var tagAliases = map[string]string{
	"Tiny volume":   "tiny",
	"Low volume":    "low",
	"Medium volume": "medium",
	"High volume":   "high",
	"Thin ribbon":   "ribbon",
}

// NormalizeTags splits a pipe-delimited tag string and maps known tokens to
// their short alias. Unknown tokens pass through. An absent or empty input
// yields nil, which is distinct from an empty slice.
func NormalizeTags(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}

	tokens := strings.Split(*raw, tagSeparator)
	tags := make([]string, len(tokens))
	for i, t := range tokens {
		if alias, ok := tagAliases[t]; ok {
			tags[i] = alias
		} else {
			tags[i] = t
		}
	}
	return tags
}
