package expiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"opportunity/discovery-service/internal/expiry"
	"opportunity/discovery-service/internal/model"
)

var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func cand(title, snippet string) model.Candidate {
	return model.Candidate{RawSearchHit: model.RawSearchHit{Title: title, Snippet: snippet}}
}

func TestIsExpired(t *testing.T) {
	f := expiry.NewFilter(0)
	cases := []struct {
		name           string
		title, snippet string
		want           bool
	}{
		{"closure keyword", "Campus Ideathon", "Registration closed. See you next year.", true},
		{"ended", "Winter Hack", "The event has ended", true},
		{"expired", "Old Offer", "This listing has expired", true},
		{"past deadline", "Foo Hackathon", "Deadline: February 15, 2026", true},
		{"day before cutoff", "Foo Hackathon", "Deadline: February 28, 2026", true},
		{"today", "Foo Hackathon", "Deadline: March 1, 2026", false},
		{"future deadline", "Foo Hackathon 2026", "Deadline: March 15, 2026 ... apply now", false},
		{"no date", "Research Programme", "Rolling admissions, apply anytime", false},
		{"any past date expires", "Spring Cohort", "Posted: Jan 5, 2026. Apply by March 30, 2026", true},
		{"extended is not ended", "Grant Call", "Deadline extended to April 2, 2026", false},
		{"disclosed is not closed", "Prize Pool", "Prizes to be disclosed soon", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.IsExpired(cand(tc.title, tc.snippet), now))
		})
	}
}

func TestIsExpired_GracePeriodIsConfigurable(t *testing.T) {
	c := cand("Foo Hackathon", "Deadline: February 27, 2026")

	assert.True(t, expiry.NewFilter(0).IsExpired(c, now))
	assert.False(t, expiry.NewFilter(72*time.Hour).IsExpired(c, now))
}

func TestCutoff_ZeroValueUsesDefault(t *testing.T) {
	var f expiry.Filter
	assert.Equal(t, now.Add(-expiry.DefaultGrace), f.Cutoff(now))
	assert.Equal(t, now.Add(-expiry.DefaultGrace), expiry.NewFilter(-time.Hour).Cutoff(now))
}

func TestClosureKeyword(t *testing.T) {
	assert.Equal(t, "registration closed", expiry.ClosureKeyword("REGISTRATION CLOSED for 2026"))
	assert.Equal(t, "closed", expiry.ClosureKeyword("Submissions closed"))
	assert.Empty(t, expiry.ClosureKeyword("Applications open now"))
}
