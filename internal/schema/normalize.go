package schema

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter of s and leaves the rest as
// submitted, so "mcdonald" becomes "Mcdonald".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// AgeAt returns the number of full years between birth and now, counting
// calendar days: the year is not complete until now reaches the birth
// month and day.
func AgeAt(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

// isFuture reports whether date falls after the calendar day of now.
func isFuture(date, now time.Time) bool {
	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return date.After(today)
}

// uniqueNonBlank keeps the first occurrence of every non-blank value.
func uniqueNonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
