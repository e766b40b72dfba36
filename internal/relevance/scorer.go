package relevance

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"opportunity/discovery-service/internal/extract"
	"opportunity/discovery-service/internal/model"
)

// Score bounds.
const (
	MinPossibleScore = 0
	MaxScore         = 100
)

// Scorer applies Rules to candidates. It is safe for concurrent use.
type Scorer struct {
	rules   Rules
	trusted map[string]bool
}

// NewScorer prepares a Scorer for rules.
func NewScorer(rules Rules) *Scorer {
	s := &Scorer{rules: rules, trusted: make(map[string]bool, len(rules.TrustedDomains))}
	for _, d := range rules.TrustedDomains {
		d = normalizeHost(d)
		if d != "" {
			s.trusted[d] = true
		}
	}
	return s
}

// Rules returns the rules the scorer was built with.
func (s *Scorer) Rules() Rules { return s.rules }

// Score computes the candidate's relevance. year is the current-year token
// counted as an extra high-value keyword; empty skips it.
func (s *Scorer) Score(c model.Candidate, year string) int {
	score := s.rules.Base

	title := strings.ToLower(c.Title)
	snippet := strings.ToLower(c.Snippet)
	keywords := s.rules.Keywords
	if year != "" {
		keywords = append(append([]string{}, keywords...), year)
	}
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) {
			score += s.rules.TitleKeywordWeight
		}
		score += s.rules.SnippetKeywordWeight * strings.Count(snippet, kw)
	}

	host := c.SourceDomain
	if host == "" {
		host = extract.Domain(c.Link)
	}
	if s.isTrusted(host) {
		score += s.rules.TrustedDomainBonus
	}

	link := strings.ToLower(c.Link)
	for _, ind := range s.rules.SpamIndicators {
		if ind = strings.ToLower(ind); ind != "" {
			score -= s.rules.SpamPenalty * strings.Count(link, ind)
		}
	}

	return clamp(score)
}

// Keep reports whether score clears the drop threshold.
func (s *Scorer) Keep(score int) bool { return score >= s.rules.MinScore }

// isTrusted matches the host itself or its registrable domain against the
// allowlist, so "events.mlh.io" matches "mlh.io" but "gov.in" never
// matches every government site.
func (s *Scorer) isTrusted(host string) bool {
	host = normalizeHost(host)
	if host == "" || host == strings.ToLower(extract.UnknownValue) {
		return false
	}
	if s.trusted[host] {
		return true
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil && s.trusted[etld1] {
		return true
	}
	return false
}

func normalizeHost(h string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "www.")
}

func clamp(score int) int {
	if score < MinPossibleScore {
		return MinPossibleScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
