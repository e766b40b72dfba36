// Package dates finds calendar dates embedded in free text.
//
// Rules are evaluated in order, most specific first: keyword-anchored dates
// ("Deadline: March 15, 2026"), then standalone written dates, then numeric
// forms. Two-digit years are expanded to 20YY. Parsed times are midnight UTC.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Match is one date found in text.
type Match struct {
	Text string    // date as written, with two-digit years expanded
	Time time.Time // midnight UTC
	Rule string
}

type rule struct {
	name  string
	re    *regexp.Regexp
	parse func(g []string) (time.Time, string, bool)
}

const (
	month  = `(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:tember|t)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?`
	day    = `(\d{1,2})(?:st|nd|rd|th)?`
	year4  = `(\d{4})`
	anchor = `(?:deadline|last date(?: to apply)?|apply by|applications? clos(?:e|es|ing)(?: on)?|closing date|due(?: date)?|register by|until)`
	sep    = `\s*(?::|-|is|on|by)?\s*`
)

var rules = []rule{
	{
		name:  "anchored-month-day-year",
		re:    regexp.MustCompile(`(?i)\b` + anchor + sep + `(` + month + `\s+` + day + `,?\s+` + year4 + `)\b`),
		parse: parseMDY,
	},
	{
		name:  "anchored-day-month-year",
		re:    regexp.MustCompile(`(?i)\b` + anchor + sep + `(` + day + `[\s-]+` + month + `,?[\s-]+` + year4 + `)\b`),
		parse: parseDMY,
	},
	{
		name:  "month-day-year",
		re:    regexp.MustCompile(`(?i)\b(` + month + `\s+` + day + `,?\s+` + year4 + `)\b`),
		parse: parseMDY,
	},
	{
		name:  "day-month-year",
		re:    regexp.MustCompile(`(?i)\b(` + day + `[\s-]+` + month + `,?[\s-]+` + year4 + `)\b`),
		parse: parseDMY,
	},
	{
		name:  "month-day-short-year",
		re:    regexp.MustCompile(`(?i)\b(` + month + `\s+` + day + `,?\s+'?(\d{2}))\b`),
		parse: parseMDShortY,
	},
	{
		name:  "iso",
		re:    regexp.MustCompile(`\b((\d{4})-(\d{1,2})-(\d{1,2}))\b`),
		parse: parseISO,
	},
	{
		name:  "numeric",
		re:    regexp.MustCompile(`\b((\d{1,2})[/.-](\d{1,2})[/.-](\d{4}))\b`),
		parse: parseNumeric,
	},
	{
		name:  "numeric-short-year",
		re:    regexp.MustCompile(`\b((\d{1,2})([/-])(\d{1,2})[/-](\d{2}))\b`),
		parse: parseNumericShort,
	},
}

// First returns the date matched by the highest-priority rule, taking the
// leftmost match of that rule.
func First(text string) (Match, bool) {
	for _, r := range rules {
		for _, g := range r.re.FindAllStringSubmatch(text, -1) {
			if t, display, ok := r.parse(g); ok {
				return Match{Text: display, Time: t, Rule: r.name}, true
			}
		}
	}
	return Match{}, false
}

// All returns every date any rule can parse out of text. The same date may
// be reported by more than one rule.
func All(text string) []Match {
	var out []Match
	for _, r := range rules {
		for _, g := range r.re.FindAllStringSubmatch(text, -1) {
			if t, display, ok := r.parse(g); ok {
				out = append(out, Match{Text: display, Time: t, Rule: r.name})
			}
		}
	}
	return out
}

// Parse interprets s as a single date using the same rules.
func Parse(s string) (time.Time, bool) {
	m, ok := First(s)
	if !ok {
		return time.Time{}, false
	}
	return m.Time, true
}

// ExpandYear turns a two-digit year into 20YY; four-digit years pass through.
func ExpandYear(y int) int {
	if y < 100 {
		return 2000 + y
	}
	return y
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func lookupMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSuffix(s, "."))
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[s[:3]]
	return m, ok
}

// makeDate validates the components, rejecting e.g. February 30.
func makeDate(y int, m time.Month, d int) (time.Time, bool) {
	if m < time.January || m > time.December || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// g: full, date, month, day, year
func parseMDY(g []string) (time.Time, string, bool) {
	m, ok := lookupMonth(g[2])
	if !ok {
		return time.Time{}, "", false
	}
	t, ok := makeDate(atoi(g[4]), m, atoi(g[3]))
	return t, strings.TrimSpace(g[1]), ok
}

// g: full, date, day, month, year
func parseDMY(g []string) (time.Time, string, bool) {
	m, ok := lookupMonth(g[3])
	if !ok {
		return time.Time{}, "", false
	}
	t, ok := makeDate(atoi(g[4]), m, atoi(g[2]))
	return t, strings.TrimSpace(g[1]), ok
}

// g: full, date, month, day, yy
func parseMDShortY(g []string) (time.Time, string, bool) {
	m, ok := lookupMonth(g[2])
	if !ok {
		return time.Time{}, "", false
	}
	y := ExpandYear(atoi(g[4]))
	t, ok := makeDate(y, m, atoi(g[3]))
	if !ok {
		return time.Time{}, "", false
	}
	return t, fmt.Sprintf("%s %d, %d", m, t.Day(), y), true
}

// g: full, date, year, month, day
func parseISO(g []string) (time.Time, string, bool) {
	t, ok := makeDate(atoi(g[2]), time.Month(atoi(g[3])), atoi(g[4]))
	return t, g[1], ok
}

// dayFirst resolves a numeric a/b pair as day/month, falling back to
// month/day when a cannot be a month-day ordering otherwise.
func dayFirst(a, b int) (d int, m time.Month) {
	if b > 12 && a <= 12 {
		return b, time.Month(a)
	}
	return a, time.Month(b)
}

// g: full, date, a, b, year
func parseNumeric(g []string) (time.Time, string, bool) {
	d, m := dayFirst(atoi(g[2]), atoi(g[3]))
	t, ok := makeDate(atoi(g[4]), m, d)
	return t, g[1], ok
}

// g: full, date, a, separator, b, yy
func parseNumericShort(g []string) (time.Time, string, bool) {
	d, m := dayFirst(atoi(g[2]), atoi(g[4]))
	y := ExpandYear(atoi(g[5]))
	t, ok := makeDate(y, m, d)
	if !ok {
		return time.Time{}, "", false
	}
	return t, fmt.Sprintf("%s%s%s%s%d", g[2], g[3], g[4], g[3], y), true
}
