// Package query turns user intent into search-provider query strings.
package query

import (
	"strings"

	"opportunity/discovery-service/internal/model"
)

// DefaultGeo is appended when a query names no geography.
const DefaultGeo = "India"

// categoryHint adds domain-context words when any keyword appears in the query.
type categoryHint struct {
	keywords []string
	hint     string
}

// categoryHints is evaluated in order; the first matching category wins.
var categoryHints = []categoryHint{
	{keywords: []string{"hackathon", "hack"}, hint: "competition coding challenge"},
	{keywords: []string{"internship"}, hint: "apply stipend summer"},
	{keywords: []string{"fellowship"}, hint: "apply deadline stipend"},
	{keywords: []string{"scholarship"}, hint: "apply deadline financial aid"},
	{keywords: []string{"competition", "contest", "challenge"}, hint: "contest prizes register"},
	{keywords: []string{"program", "bootcamp", "workshop"}, hint: "apply cohort"},
}

var audienceWords = []string{"student", "college"}

const audienceHint = "students college"

// Composer builds enhanced queries. The zero value uses DefaultGeo.
type Composer struct {
	Geo string
}

// Compose returns the enhanced query for raw. It is pure: identical inputs
// always yield an identical string. year is appended verbatim unless it
// already occurs in the query.
func (c Composer) Compose(raw string, typeFilter *model.OpportunityType, year string) string {
	q := strings.Join(strings.Fields(raw), " ")
	if typeFilter != nil {
		q = string(*typeFilter) + " " + q
	}

	lower := strings.ToLower(q)
	parts := []string{q}

	if hint, ok := matchCategory(lower); ok {
		parts = append(parts, hint)
	}
	if !containsAny(lower, audienceWords) {
		parts = append(parts, audienceHint)
	}
	if year != "" && !strings.Contains(q, year) {
		parts = append(parts, year)
	}
	if geo := c.geo(); geo != "" && !strings.Contains(lower, strings.ToLower(geo)) {
		parts = append(parts, geo)
	}

	return strings.Join(parts, " ")
}

func (c Composer) geo() string {
	if c.Geo == "" {
		return DefaultGeo
	}
	return c.Geo
}

func matchCategory(lower string) (string, bool) {
	for _, ch := range categoryHints {
		if containsAny(lower, ch.keywords) {
			return ch.hint, true
		}
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
