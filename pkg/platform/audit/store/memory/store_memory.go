package memory

import (
	"context"
	"sync"

	id "fieldaudit/pkg/domain"
	audit "fieldaudit/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.ChecklistID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.ChecklistID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.ChecklistID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ChecklistID] = append(s.events[event.ChecklistID], event)
	return nil
}

func (s *InMemoryStore) ListByChecklist(_ context.Context, checklistID id.ChecklistID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[checklistID]...), nil
}
