package query

import (
	"strings"
)

// MaxSuggestions caps the personalised suggestion list.
const MaxSuggestions = 8

// Profile is the slice of a student profile that drives suggestions. It is
// supplied by the caller; profiles are stored elsewhere.
type Profile struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Major     string   `json:"major"`
}

type theme struct {
	skillWords []string
	majorWords []string
	queries    []string // "{year}" is replaced with the run's year
}

var themes = []theme{
	{
		skillWords: []string{"machine learning", "ai", "artificial intelligence", "data science", "deep learning"},
		majorWords: []string{"ai", "data"},
		queries:    []string{"AI hackathon {year}", "Machine Learning competition", "Data Science internship {year}"},
	},
	{
		skillWords: []string{"react", "node", "javascript", "frontend", "backend", "fullstack", "web"},
		queries:    []string{"Web development hackathon {year}", "Full stack developer internship", "Frontend development competition"},
	},
	{
		skillWords: []string{"aws", "azure", "gcp", "docker", "kubernetes", "cloud"},
		queries:    []string{"Cloud computing hackathon", "DevOps internship {year}"},
	},
	{
		skillWords: []string{"blockchain", "web3", "ethereum", "solidity"},
		queries:    []string{"Blockchain hackathon {year}", "Web3 developer competition"},
	},
}

var generalQueries = []string{"Student hackathon {year}", "College internship program", "Student fellowship {year}"}

// Suggest derives search queries from a profile: themed queries for each
// matching skill area, then general student queries. Duplicates are removed
// preserving first occurrence and the list is capped at MaxSuggestions.
func Suggest(p Profile, year string) []string {
	skills := strings.ToLower(strings.Join(append(append([]string{}, p.Skills...), p.Interests...), " "))
	major := strings.ToLower(p.Major)

	var out []string
	for _, th := range themes {
		if containsAny(skills, th.skillWords) || (major != "" && containsAny(major, th.majorWords)) {
			out = append(out, th.queries...)
		}
	}
	out = append(out, generalQueries...)

	seen := make(map[string]bool, len(out))
	result := make([]string, 0, MaxSuggestions)
	for _, q := range out {
		q = strings.TrimSpace(strings.ReplaceAll(q, "{year}", year))
		if seen[q] {
			continue
		}
		seen[q] = true
		result = append(result, q)
		if len(result) == MaxSuggestions {
			break
		}
	}
	return result
}
