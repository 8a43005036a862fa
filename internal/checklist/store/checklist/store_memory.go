// Package checklist stores checklist instances.
package checklist

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/sentinel"
)

// InMemoryStore holds checklists in memory for tests/dev.
type InMemoryStore struct {
	mu         sync.RWMutex
	checklists map[id.ChecklistID]*models.Checklist
}

// New constructs an empty in-memory checklist store.
func New() *InMemoryStore {
	return &InMemoryStore{checklists: make(map[id.ChecklistID]*models.Checklist)}
}

func (s *InMemoryStore) Get(_ context.Context, checklistID id.ChecklistID) (*models.Checklist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.checklists[checklistID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, fmt.Errorf("checklist not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Create(_ context.Context, checklist *models.Checklist) error {
	if checklist == nil {
		return fmt.Errorf("checklist is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.checklists[checklist.ID]; exists {
		return fmt.Errorf("checklist already exists: %w", sentinel.ErrConflict)
	}
	copied := *checklist
	s.checklists[checklist.ID] = &copied
	return nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, checklistID id.ChecklistID, status models.ChecklistStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checklists[checklistID]
	if !ok {
		return fmt.Errorf("checklist not found: %w", sentinel.ErrNotFound)
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) UpdateTargetLevel(_ context.Context, checklistID id.ChecklistID, levelID id.LevelID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checklists[checklistID]
	if !ok {
		return fmt.Errorf("checklist not found: %w", sentinel.ErrNotFound)
	}
	c.TargetLevelID = levelID
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) ListChildren(_ context.Context, parentID id.ChecklistID) ([]*models.Checklist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Checklist
	for _, c := range s.checklists {
		if c.ParentID != nil && *c.ParentID == parentID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
