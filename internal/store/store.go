// Package store persists opportunity records keyed by their link-derived id.
//
// Upsert merges: incoming non-empty fields replace stored ones, empty
// optional fields keep what is stored, DiscoveredAt is kept from the first
// write and LastSeenAt only moves forward.
package store

import (
	"context"
	"errors"

	"opportunity/discovery-service/internal/model"
)

// ErrNotFound is returned by Get when no record has the id.
var ErrNotFound = errors.New("opportunity not found")

// Store is the persistent record store.
type Store interface {
	Upsert(ctx context.Context, rec model.OpportunityRecord) (model.OpportunityRecord, error)
	Get(ctx context.Context, id string) (model.OpportunityRecord, error)
	// ListRecent returns up to limit records, most recently seen first,
	// optionally restricted to one type.
	ListRecent(ctx context.Context, limit int, typ *model.OpportunityType) ([]model.OpportunityRecord, error)
}

// merge applies incoming onto stored following the package merge rules.
func merge(stored, incoming model.OpportunityRecord) model.OpportunityRecord {
	out := stored
	out.Link = incoming.Link
	out.Type = incoming.Type
	out.RelevanceScore = incoming.RelevanceScore
	setIfNotEmpty(&out.Title, incoming.Title)
	setIfNotEmpty(&out.Description, incoming.Description)
	setIfNotEmpty(&out.Organizer, incoming.Organizer)
	setIfNotEmpty(&out.EligibilityText, incoming.EligibilityText)
	setIfNotEmpty(&out.SourceDomain, incoming.SourceDomain)
	if incoming.Deadline != nil {
		d := *incoming.Deadline
		out.Deadline = &d
	}
	if incoming.LastSeenAt.After(out.LastSeenAt) {
		out.LastSeenAt = incoming.LastSeenAt
	}
	return out
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
