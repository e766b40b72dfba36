package store

import (
	"context"
	"sort"
	"sync"

	"opportunity/discovery-service/internal/model"
)

// Memory is a process-local Store. It backs the CLI when no database is
// configured.
type Memory struct {
	mu      sync.RWMutex
	records map[string]model.OpportunityRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]model.OpportunityRecord)}
}

func (m *Memory) Upsert(_ context.Context, rec model.OpportunityRecord) (model.OpportunityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stored, ok := m.records[rec.ID]; ok {
		rec = merge(stored, rec)
	} else if rec.Deadline != nil {
		d := *rec.Deadline
		rec.Deadline = &d
	}
	rec.IsCached = true
	m.records[rec.ID] = rec
	return detach(rec), nil
}

func (m *Memory) Get(_ context.Context, id string) (model.OpportunityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return model.OpportunityRecord{}, ErrNotFound
	}
	return detach(rec), nil
}

func (m *Memory) ListRecent(_ context.Context, limit int, typ *model.OpportunityType) ([]model.OpportunityRecord, error) {
	m.mu.RLock()
	out := make([]model.OpportunityRecord, 0, len(m.records))
	for _, rec := range m.records {
		if typ == nil || rec.Type == *typ {
			out = append(out, detach(rec))
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastSeenAt.Equal(out[j].LastSeenAt) {
			return out[i].LastSeenAt.After(out[j].LastSeenAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// detach copies the deadline so callers never share the stored pointer.
func detach(rec model.OpportunityRecord) model.OpportunityRecord {
	if rec.Deadline != nil {
		d := *rec.Deadline
		rec.Deadline = &d
	}
	return rec
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
