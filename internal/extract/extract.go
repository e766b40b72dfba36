// Package extract turns one raw search hit into a structured candidate using
// ordered, first-match-wins heuristics. Every function here is pure.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"opportunity/discovery-service/internal/dates"
	"opportunity/discovery-service/internal/model"
)

// UnknownValue is used when organizer or domain cannot be determined.
const UnknownValue = "Unknown"

// Extract builds a Candidate from hit. RelevanceScore is left zero.
func Extract(hit model.RawSearchHit) model.Candidate {
	return model.Candidate{
		RawSearchHit:    hit,
		Organizer:       Organizer(hit.Title, hit.Snippet),
		EligibilityText: Eligibility(hit.Snippet),
		Deadline:        Deadline(hit.Title + " " + hit.Snippet),
		Type:            InferType(hit.Title, hit.Snippet),
		SourceDomain:    Domain(hit.Link),
	}
}

// ─── Organizer ───────────────────────────────────────────────────────────────

const properName = `([A-Z][\w&'-]*(?:\s+(?:&\s+|of\s+|for\s+)?[A-Z][\w&'-]*){0,5})`

type organizerRule struct {
	re *regexp.Regexp
}

var organizerRules = []organizerRule{
	{re: regexp.MustCompile(`\bby\s+` + properName)},
	{re: regexp.MustCompile(`(?i:organi[sz]ed)\s+by\s+` + properName)},
	{re: regexp.MustCompile(properName + `\s+(?i:presents)\b`)},
}

var monthWords = map[string]bool{
	"jan": true, "january": true, "feb": true, "february": true, "mar": true, "march": true,
	"apr": true, "april": true, "may": true, "jun": true, "june": true, "jul": true, "july": true,
	"aug": true, "august": true, "sep": true, "sept": true, "september": true, "oct": true,
	"october": true, "nov": true, "november": true, "dec": true, "december": true,
}

// cleanOrganizer trims punctuation and rejects names that are really dates.
func cleanOrganizer(name string) (string, bool) {
	name = strings.TrimRight(strings.TrimSpace(name), ".,;:|-&")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	first := strings.ToLower(strings.Fields(name)[0])
	if monthWords[strings.TrimSuffix(first, ".")] {
		return "", false
	}
	return name, true
}

// Organizer tries "by X", "organized by X" and "X presents" over title and
// snippet, then falls back to the first two words of the title.
func Organizer(title, snippet string) string {
	text := title + " " + snippet
	for _, r := range organizerRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if name, ok := cleanOrganizer(m[1]); ok {
				return name
			}
		}
	}
	words := strings.Fields(title)
	if len(words) >= 2 {
		return words[0] + " " + words[1]
	}
	return UnknownValue
}

// ─── Eligibility ─────────────────────────────────────────────────────────────

var eligibilityKeywords = []string{
	"eligible", "eligibility", "open to", "for students",
	"requirements", "must be", "should be", "criteria",
}

var sentenceBreak = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// Eligibility keeps the snippet sentences mentioning eligibility; if none
// do, the whole snippet is returned.
func Eligibility(snippet string) string {
	var kept []string
	for _, s := range sentenceBreak.Split(snippet, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		for _, kw := range eligibilityKeywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, s+".")
				break
			}
		}
	}
	if len(kept) == 0 {
		return snippet
	}
	return strings.Join(kept, " ")
}

// ─── Deadline ────────────────────────────────────────────────────────────────

// Deadline returns the first date found in text, or nil.
func Deadline(text string) *string {
	m, ok := dates.First(text)
	if !ok {
		return nil
	}
	s := m.Text
	return &s
}

// ─── Type ────────────────────────────────────────────────────────────────────

type typeRule struct {
	typ      model.OpportunityType
	keywords []string // single words match tokens, phrases match substrings
}

var typeRules = []typeRule{
	{model.TypeHackathon, []string{"hackathon", "hackathons", "hack", "hacks", "ideathon", "buildathon"}},
	{model.TypeInternship, []string{"internship", "internships", "intern", "interns", "summer training"}},
	{model.TypeFellowship, []string{"fellowship", "fellowships", "fellow", "fellows", "scholar", "grant", "grants"}},
	{model.TypeScholarship, []string{"scholarship", "scholarships", "financial aid", "bursary"}},
	{model.TypeCompetition, []string{"competition", "competitions", "contest", "contests", "challenge", "challenges", "olympiad"}},
	{model.TypeProgram, []string{"program", "programme", "programs", "workshop", "bootcamp", "cohort", "accelerator"}},
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// InferType returns the first category whose keywords occur in title or
// snippet, defaulting to TypeOpportunity.
func InferType(title, snippet string) model.OpportunityType {
	text := strings.ToLower(title + " " + snippet)
	tokens := make(map[string]bool)
	for _, tok := range nonWord.Split(text, -1) {
		if tok != "" {
			tokens[tok] = true
		}
	}
	for _, r := range typeRules {
		for _, kw := range r.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(text, kw) {
					return r.typ
				}
			} else if tokens[kw] {
				return r.typ
			}
		}
	}
	return model.TypeOpportunity
}

// ─── Domain ──────────────────────────────────────────────────────────────────

// Domain returns the lowercased hostname of link, or UnknownValue.
func Domain(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return UnknownValue
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return UnknownValue
	}
	return host
}
