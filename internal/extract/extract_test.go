package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity/discovery-service/internal/extract"
	"opportunity/discovery-service/internal/model"
)

// ── Organizer ──────────────────────────────────────────────────────────────

func TestOrganizer(t *testing.T) {
	cases := []struct {
		name, title, snippet, want string
	}{
		{"by pattern", "Cloud Sprint 2026", "A weekend build sprint hosted by Google Developer Groups, open to all.", "Google Developer Groups"},
		{"organized by pattern", "Campus Ideathon", "Organized by IEEE Student Branch of VIT. Register now.", "IEEE Student Branch of VIT"},
		{"presents pattern", "Microsoft presents Imagine Cup 2026", "Build for good.", "Microsoft"},
		{"date after by is skipped", "Code Relay 2026", "Apply by March 10, 2026 to join.", "Code Relay"},
		{"fallback first two words", "Smart India Hackathon 2026", "Grand finale registrations open.", "Smart India"},
		{"unknown for one-word title", "Hackathon", "details soon", extract.UnknownValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extract.Organizer(tc.title, tc.snippet))
		})
	}
}

// ── Eligibility ────────────────────────────────────────────────────────────

func TestEligibility_KeepsMatchingSentences(t *testing.T) {
	snippet := "Build AI apps with Gemini. Open to all students and developers. Eligibility: 18+ years, any background. Prizes worth 10 Lakhs."
	assert.Equal(t,
		"Open to all students and developers. Eligibility: 18+ years, any background.",
		extract.Eligibility(snippet))
}

func TestEligibility_FallsBackToSnippet(t *testing.T) {
	snippet := "A 36-hour event in Bangalore. Mentorship included."
	assert.Equal(t, snippet, extract.Eligibility(snippet))
}

// ── Deadline ───────────────────────────────────────────────────────────────

func TestDeadline(t *testing.T) {
	got := extract.Deadline("Foo Hackathon 2026 Deadline: March 15, 2026 ... apply now")
	require.NotNil(t, got)
	assert.Contains(t, *got, "March 15, 2026")

	got = extract.Deadline("Results on 03/04/26")
	require.NotNil(t, got)
	assert.Equal(t, "03/04/2026", *got)

	assert.Nil(t, extract.Deadline("apply by 2026"))
}

// ── Type ───────────────────────────────────────────────────────────────────

func TestInferType(t *testing.T) {
	cases := []struct {
		title, snippet string
		want           model.OpportunityType
	}{
		{"Global AI Hackathon", "Build and win", model.TypeHackathon},
		{"Summer Internship at Acme", "stipend provided", model.TypeInternship},
		{"Young Leaders Fellowship", "fully funded", model.TypeFellowship},
		{"Merit Scholarship 2026", "financial support", model.TypeScholarship},
		{"Need-based aid", "apply for financial aid today", model.TypeScholarship},
		{"TCS CodeVita", "World's largest coding contest", model.TypeCompetition},
		{"Founders Bootcamp", "six weeks", model.TypeProgram},
		{"Research assistant role", "lab position", model.TypeOpportunity},
		// hackathon outranks competition when both appear
		{"Coding challenge", "a 24 hour hackathon", model.TypeHackathon},
		// substrings of other words do not count
		{"HackerEarth jobs", "international roles", model.TypeOpportunity},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extract.InferType(tc.title, tc.snippet), "%s / %s", tc.title, tc.snippet)
	}
}

// ── Domain ─────────────────────────────────────────────────────────────────

func TestDomain(t *testing.T) {
	assert.Equal(t, "unstop.com", extract.Domain("https://unstop.com/hackathons/x"))
	assert.Equal(t, "www.sih.gov.in", extract.Domain("https://WWW.SIH.gov.in:443/"))
	assert.Equal(t, extract.UnknownValue, extract.Domain("not a url"))
	assert.Equal(t, extract.UnknownValue, extract.Domain("http://[::1"))
	assert.Equal(t, extract.UnknownValue, extract.Domain(""))
}

// ── Extract ────────────────────────────────────────────────────────────────

func TestExtract_PopulatesAllFields(t *testing.T) {
	hit := model.RawSearchHit{
		Title:   "ETHIndia 2026 - Devfolio",
		Link:    "https://devfolio.co/ethindia2026",
		Snippet: "India's largest Ethereum hackathon organized by Devfolio. Eligibility: developers 18+. Apply by: February 10, 2026.",
	}
	c := extract.Extract(hit)

	assert.Equal(t, hit, c.RawSearchHit)
	assert.Equal(t, "Devfolio", c.Organizer)
	assert.Equal(t, "Eligibility: developers 18+.", c.EligibilityText)
	require.NotNil(t, c.Deadline)
	assert.Equal(t, "February 10, 2026", *c.Deadline)
	assert.Equal(t, model.TypeHackathon, c.Type)
	assert.Equal(t, "devfolio.co", c.SourceDomain)
	assert.Zero(t, c.RelevanceScore)
}
