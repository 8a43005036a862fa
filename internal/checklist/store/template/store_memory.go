// Package template stores checklist templates. Templates are written by an
// external administration surface; this module only reads them, so the store
// API is Get plus a Put used by seeding and tests.
package template

import (
	"context"
	"fmt"
	"sync"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/sentinel"
)

// InMemoryStore holds templates in memory for tests/dev.
type InMemoryStore struct {
	mu        sync.RWMutex
	templates map[id.TemplateID]*models.Template
}

// New constructs an empty in-memory template store.
func New() *InMemoryStore {
	return &InMemoryStore{templates: make(map[id.TemplateID]*models.Template)}
}

func (s *InMemoryStore) Get(_ context.Context, templateID id.TemplateID) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.templates[templateID]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("template not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Put(_ context.Context, template *models.Template) error {
	if template == nil {
		return fmt.Errorf("template is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[template.ID] = template
	return nil
}
