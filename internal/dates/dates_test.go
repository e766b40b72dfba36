package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity/discovery-service/internal/dates"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFirst_Formats(t *testing.T) {
	cases := []struct {
		text     string
		wantText string
		wantTime time.Time
		wantRule string
	}{
		{"Deadline: March 15, 2026. Apply now", "March 15, 2026", day(2026, time.March, 15), "anchored-month-day-year"},
		{"last date to apply is Feb 3rd 2027", "Feb 3rd 2027", day(2027, time.February, 3), "anchored-month-day-year"},
		{"Deadline: 15 March 2026", "15 March 2026", day(2026, time.March, 15), "anchored-day-month-year"},
		{"Event on Sept. 9, 2026 in Pune", "Sept. 9, 2026", day(2026, time.September, 9), "month-day-year"},
		{"Finale on 21st November 2026", "21st November 2026", day(2026, time.November, 21), "day-month-year"},
		{"results 15-Mar-2026", "15-Mar-2026", day(2026, time.March, 15), "day-month-year"},
		{"closes Mar 5, '27 midnight", "March 5, 2027", day(2027, time.March, 5), "month-day-short-year"},
		{"window 2026-04-30 final", "2026-04-30", day(2026, time.April, 30), "iso"},
		{"submit by 31/12/2026", "31/12/2026", day(2026, time.December, 31), "numeric"},
		{"submit 12-31-2026", "12-31-2026", day(2026, time.December, 31), "numeric"},
		{"register 05/06/26", "05/06/2026", day(2026, time.June, 5), "numeric-short-year"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			m, ok := dates.First(tc.text)
			require.True(t, ok)
			assert.Equal(t, tc.wantText, m.Text)
			assert.Equal(t, tc.wantTime, m.Time)
			assert.Equal(t, tc.wantRule, m.Rule)
		})
	}
}

// Keyword-anchored dates win over earlier standalone dates.
func TestFirst_AnchoredBeatsStandalone(t *testing.T) {
	m, ok := dates.First("Posted: January 5, 2026. Deadline: February 15, 2026.")
	require.True(t, ok)
	assert.Equal(t, "February 15, 2026", m.Text)
}

func TestFirst_NoDate(t *testing.T) {
	for _, s := range []string{
		"",
		"apply by 2026",
		"March 2026 cohort",
		"Teams of 1-4 members, 2025/2026/2027 graduates",
		"Jan 20-25, 2026",
	} {
		_, ok := dates.First(s)
		assert.False(t, ok, "First(%q) should find nothing", s)
	}
}

func TestFirst_RejectsImpossibleDates(t *testing.T) {
	_, ok := dates.First("Deadline: February 30, 2026")
	assert.False(t, ok)

	_, ok = dates.First("on 2026-13-01")
	assert.False(t, ok)
}

func TestAll_FindsEveryDate(t *testing.T) {
	got := dates.All("Opened January 5, 2026; closes 2026-02-15 and results 01/03/2026")
	var times []time.Time
	for _, m := range got {
		times = append(times, m.Time)
	}
	assert.Contains(t, times, day(2026, time.January, 5))
	assert.Contains(t, times, day(2026, time.February, 15))
	assert.Contains(t, times, day(2026, time.March, 1))
}

func TestExpandYear(t *testing.T) {
	assert.Equal(t, 2026, dates.ExpandYear(26))
	assert.Equal(t, 2000, dates.ExpandYear(0))
	assert.Equal(t, 2031, dates.ExpandYear(2031))
}

func TestParse(t *testing.T) {
	got, ok := dates.Parse("March 15, 2026")
	require.True(t, ok)
	assert.Equal(t, day(2026, time.March, 15), got)

	_, ok = dates.Parse("soon")
	assert.False(t, ok)
}
