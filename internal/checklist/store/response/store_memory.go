// Package response stores checklist responses, keyed by the
// (checklist, item, field) triple.
package response

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

// defaultTxTimeout bounds an in-memory transaction so a stuck caller cannot
// hold the write lock forever.
const defaultTxTimeout = 5 * time.Second

// InMemoryStore holds responses in memory for tests/dev. RunInTx serializes
// writers with a coarse lock; the in-memory store does not roll back, which
// tests tolerate because validation happens before mutation in every caller.
type InMemoryStore struct {
	mu        sync.RWMutex
	responses map[models.ResponseKey]*models.Response

	txMu sync.Mutex
}

// New constructs an empty in-memory response store.
func New() *InMemoryStore {
	return &InMemoryStore{responses: make(map[models.ResponseKey]*models.Response)}
}

// Get returns nil, nil when no response exists for the key.
func (s *InMemoryStore) Get(_ context.Context, key models.ResponseKey) (*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.responses[key]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (s *InMemoryStore) ListByChecklist(_ context.Context, checklistID id.ChecklistID) ([]*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Response
	for _, r := range s.responses {
		if r.ChecklistID == checklistID {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID.String() < out[j].ItemID.String()
		}
		return out[i].FieldID < out[j].FieldID
	})
	return out, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, response *models.Response) error {
	if response == nil {
		return fmt.Errorf("response is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *response
	s.responses[response.Key()] = &copied
	return nil
}

// RunInTx serializes the callback against other transactions. Reads and
// writes inside fn go through the normal store methods.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}
