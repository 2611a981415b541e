package decode

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	suckScorePrefix = "SuckScore"
	suckScoreLabel  = suckScorePrefix + ":"
)

// residual separators, tried in order
var suckScoreSeparators = []string{", ", " - "}

type SuckScore struct {
	Score    float64
	Residual string
}

// HasSuckScore reports whether a symptom note opts into suck-score parsing.
func HasSuckScore(text string) bool {
	return strings.HasPrefix(text, suckScorePrefix)
}

// ParseSuckScore parses "SuckScore:" WS TOKEN [", " | " - "] RESIDUAL.
// TOKEN ends at a space, a comma or a line break. RESIDUAL runs to the end of
// the first line and may be empty.
func ParseSuckScore(text string) (SuckScore, error) {
	if !strings.HasPrefix(text, suckScoreLabel) {
		return SuckScore{}, &PatternError{Text: text, Reason: "missing ':' after " + suckScorePrefix}
	}
	rest := text[len(suckScoreLabel):]

	r, size := utf8.DecodeRuneInString(rest)
	if size == 0 || !unicode.IsSpace(r) {
		return SuckScore{}, &PatternError{Text: text, Reason: "missing whitespace before score"}
	}
	rest = rest[size:]

	end := strings.IndexAny(rest, " ,\r\n")
	if end < 0 {
		end = len(rest)
	}
	token := rest[:end]
	if token == "" {
		return SuckScore{}, &PatternError{Text: text, Reason: "missing score"}
	}
	if !isDecimal(token) {
		return SuckScore{}, &PatternError{Text: text, Reason: "non-numeric score " + strconv.Quote(token)}
	}
	score, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(score, 0) {
		return SuckScore{}, &PatternError{Text: text, Reason: "non-numeric score " + strconv.Quote(token)}
	}
	rest = rest[end:]

	for _, sep := range suckScoreSeparators {
		if strings.HasPrefix(rest, sep) {
			rest = rest[len(sep):]
			break
		}
	}
	if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
		rest = rest[:i]
	}

	return SuckScore{Score: score, Residual: rest}, nil
}

// isDecimal reports whether s is a plain decimal number: an optional sign,
// digits with an optional fraction, and an optional exponent. Hex floats,
// underscores and the inf/nan spellings are not decimal.
func isDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}
