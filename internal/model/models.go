// Package model defines shared data structures for the discovery service.
package model

import "time"

// OpportunityQuery is the immutable input to a single pipeline run.
type OpportunityQuery struct {
	RawText    string
	TypeFilter *OpportunityType
	YearHint   string // e.g. "2026"; empty means the run's current year
}

// RawSearchHit mirrors one item returned by the search provider.
type RawSearchHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Candidate is a RawSearchHit after heuristic extraction and scoring.
// Deadline is nil when no date could be extracted (open-ended listing).
type Candidate struct {
	RawSearchHit
	Organizer       string
	EligibilityText string
	Deadline        *string
	Type            OpportunityType
	SourceDomain    string
	RelevanceScore  int
}

// OpportunityRecord is a persisted, deduplicated opportunity.
// ID is derived from the canonical link only, so re-ingesting the same URL
// always lands on the same record.
type OpportunityRecord struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Link            string          `json:"link"`
	Description     string          `json:"description"`
	Organizer       string          `json:"organizer"`
	EligibilityText string          `json:"eligibility_text"`
	Deadline        *string         `json:"deadline"`
	Type            OpportunityType `json:"type"`
	SourceDomain    string          `json:"source_domain"`
	RelevanceScore  int             `json:"relevance_score"`
	DiscoveredAt    time.Time       `json:"discovered_at"`
	LastSeenAt      time.Time       `json:"last_seen_at"`
	IsCached        bool            `json:"is_cached"`
}

// RecordFromCandidate builds the record that a candidate would be persisted as.
// The id and timestamps are supplied by the caller.
func RecordFromCandidate(id string, c Candidate, seenAt time.Time) OpportunityRecord {
	return OpportunityRecord{
		ID:              id,
		Title:           c.Title,
		Link:            c.Link,
		Description:     c.Snippet,
		Organizer:       c.Organizer,
		EligibilityText: c.EligibilityText,
		Deadline:        c.Deadline,
		Type:            c.Type,
		SourceDomain:    c.SourceDomain,
		RelevanceScore:  c.RelevanceScore,
		DiscoveredAt:    seenAt,
		LastSeenAt:      seenAt,
	}
}
