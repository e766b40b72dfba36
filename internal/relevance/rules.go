// Package relevance scores candidates 0–100 for how likely they are to be a
// genuine, actionable opportunity listing.
package relevance

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules are the scoring weights and word lists. They are untuned heuristics,
// kept as data so they can be adjusted without a code change.
type Rules struct {
	Base                 int      `yaml:"base"`
	TitleKeywordWeight   int      `yaml:"title_keyword_weight"`
	SnippetKeywordWeight int      `yaml:"snippet_keyword_weight"`
	Keywords             []string `yaml:"keywords"`
	TrustedDomains       []string `yaml:"trusted_domains"`
	TrustedDomainBonus   int      `yaml:"trusted_domain_bonus"`
	SpamIndicators       []string `yaml:"spam_indicators"`
	SpamPenalty          int      `yaml:"spam_penalty"`
	MinScore             int      `yaml:"min_score"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		Base:                 50,
		TitleKeywordWeight:   5,
		SnippetKeywordWeight: 3,
		Keywords:             []string{"apply", "deadline", "eligibility", "register", "prize", "stipend"},
		TrustedDomains: []string{
			"unstop.com", "devfolio.co", "mlh.io", "hackerearth.com", "devpost.com",
			"internshala.com", "buddy4study.com", "scholars4dev.com", "sih.gov.in",
			"imaginecup.microsoft.com", "kaggle.com", "hack2skill.com",
		},
		TrustedDomainBonus: 15,
		SpamIndicators:     []string{"login", "signin", "profile", "settings", "terms", "privacy"},
		SpamPenalty:        20,
		MinScore:           15,
	}
}

var errInvalidRules = errors.New("invalid relevance rules")

// Validate rejects negative weights and out-of-range thresholds.
func (r Rules) Validate() error {
	if r.TitleKeywordWeight < 0 || r.SnippetKeywordWeight < 0 || r.TrustedDomainBonus < 0 || r.SpamPenalty < 0 {
		return fmt.Errorf("%w: weights must be non-negative", errInvalidRules)
	}
	if r.Base < 0 || r.Base > MaxScore {
		return fmt.Errorf("%w: base %d outside [0,%d]", errInvalidRules, r.Base, MaxScore)
	}
	if r.MinScore < 0 || r.MinScore > MaxScore {
		return fmt.Errorf("%w: min_score %d outside [0,%d]", errInvalidRules, r.MinScore, MaxScore)
	}
	return nil
}

// LoadRules reads a YAML rules file over DefaultRules. Keys absent from the
// file keep their defaults. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read relevance rules %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse relevance rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}
