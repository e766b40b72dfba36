// Package expiry drops listings that are explicitly closed or whose dates
// are already in the past.
package expiry

import (
	"regexp"
	"strings"
	"time"

	"opportunity/discovery-service/internal/dates"
	"opportunity/discovery-service/internal/model"
)

// DefaultGrace is how far before "now" a date must fall to count as expired.
const DefaultGrace = 24 * time.Hour

// closurePattern matches whole words only: "extended" or "disclosed" must not
// read as closed.
var closurePattern = regexp.MustCompile(`(?i)\b(registration closed|applications closed|closed|ended|expired)\b`)

// Filter decides whether a candidate has expired. The zero value uses
// DefaultGrace.
type Filter struct {
	Grace time.Duration
}

// NewFilter returns a Filter with the given grace period; a non-positive
// value falls back to DefaultGrace.
func NewFilter(grace time.Duration) Filter {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return Filter{Grace: grace}
}

// Cutoff is the instant before which any embedded date marks a listing as
// expired.
func (f Filter) Cutoff(now time.Time) time.Time {
	grace := f.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	return now.Add(-grace)
}

// IsExpired reports whether c mentions a closure keyword or contains any
// parseable date strictly before the cutoff. Listings with no parseable date
// are open-ended and never expire here.
func (f Filter) IsExpired(c model.Candidate, now time.Time) bool {
	text := c.Title + " " + c.Snippet
	if ClosureKeyword(text) != "" {
		return true
	}
	cutoff := f.Cutoff(now)
	for _, m := range dates.All(text) {
		if m.Time.Before(cutoff) {
			return true
		}
	}
	return false
}

// ClosureKeyword returns the first closure keyword found in text, or "".
func ClosureKeyword(text string) string {
	return strings.ToLower(closurePattern.FindString(text))
}
