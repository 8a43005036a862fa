// Package report stores finalize report snapshots. Reports are append-only
// audit artifacts; nothing updates or deletes one.
package report

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/sentinel"
)

// InMemoryStore holds finalize reports in memory for tests/dev.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[id.ReportID]*models.FinalizeReport
}

// New constructs an empty in-memory report store.
func New() *InMemoryStore {
	return &InMemoryStore{reports: make(map[id.ReportID]*models.FinalizeReport)}
}

func (s *InMemoryStore) Append(_ context.Context, report *models.FinalizeReport) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; exists {
		return fmt.Errorf("report already exists: %w", sentinel.ErrConflict)
	}
	copied := *report
	copied.Responses = append([]models.Response(nil), report.Responses...)
	s.reports[report.ID] = &copied
	return nil
}

func (s *InMemoryStore) ListByChecklist(_ context.Context, checklistID id.ChecklistID) ([]*models.FinalizeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.FinalizeReport
	for _, r := range s.reports {
		if r.ChecklistID == checklistID {
			copied := *r
			copied.Responses = append([]models.Response(nil), r.Responses...)
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
