// Package answer owns the response-write path. Every producer answer passes
// through the guard here before it reaches the store.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fieldaudit/internal/checklist/metrics"
	"fieldaudit/internal/checklist/models"
	"fieldaudit/internal/checklist/ports"
	"fieldaudit/pkg/platform/audit"
	"fieldaudit/pkg/platform/sentinel"

	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

// Input is one incoming answer payload for a (item, field) key. Status is
// the raw label as sent by the client; it is normalized by the guard.
type Input struct {
	ItemID      id.ItemID
	FieldID     string
	Answer      string
	Quantity    *float64
	Observation string
	FileRef     string
	ValidUntil  *time.Time
	Status      string
}

// Service applies the save guard and writes responses.
type Service struct {
	checklists ports.ChecklistStore
	responses  ports.ResponseStore

	cache          ports.EvaluationCache
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithCache(cache ports.EvaluationCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(checklists ports.ChecklistStore, responses ports.ResponseStore, opts ...Option) (*Service, error) {
	if checklists == nil {
		return nil, fmt.Errorf("checklist store is required")
	}
	if responses == nil {
		return nil, fmt.Errorf("response store is required")
	}

	svc := &Service{
		checklists: checklists,
		responses:  responses,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Apply writes a batch of answers atomically: every upsert commits or none
// do. Inputs are validated before any write so a malformed payload has no
// partial effect.
func (s *Service) Apply(ctx context.Context, checklistID id.ChecklistID, inputs []Input) ([]*models.Response, error) {
	if len(inputs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "answers array must not be empty")
	}

	checklist, err := s.checklists.Get(ctx, checklistID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "checklist not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load checklist")
	}
	if err := checklist.EnsureOpen(); err != nil {
		return nil, err
	}

	for i, input := range inputs {
		if input.ItemID.IsNil() {
			return nil, dErrors.Newf(dErrors.CodeValidation, "answers[%d]: item_id is required", i)
		}
	}

	guardResets := 0
	saved := make([]*models.Response, 0, len(inputs))
	err = s.responses.RunInTx(ctx, func(ctx context.Context) error {
		for _, input := range inputs {
			response, reset, err := s.applyOne(ctx, checklistID, input)
			if err != nil {
				return err
			}
			if reset {
				guardResets++
			}
			saved = append(saved, response)
		}
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save answers")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, checklistID); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to invalidate evaluation cache", "checklist_id", checklistID, "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.AnswersSaved.Add(float64(len(saved)))
		s.metrics.GuardResets.Add(float64(guardResets))
	}

	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
		ChecklistID: checklistID,
		Action:      string(audit.EventAnswersSaved),
	},
		"answers", len(saved),
		"guard_resets", guardResets,
	)

	return saved, nil
}

// ApplyOne writes a single answer through the same guard as Apply.
func (s *Service) ApplyOne(ctx context.Context, checklistID id.ChecklistID, input Input) (*models.Response, error) {
	responses, err := s.Apply(ctx, checklistID, []Input{input})
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// applyOne normalizes, guards and upserts one response. Must run inside the
// batch transaction.
func (s *Service) applyOne(ctx context.Context, checklistID id.ChecklistID, input Input) (*models.Response, bool, error) {
	fieldID := input.FieldID
	if fieldID == "" {
		fieldID = models.FieldGlobal
	}

	key := models.ResponseKey{ChecklistID: checklistID, ItemID: input.ItemID, FieldID: fieldID}
	existing, err := s.responses.Get(ctx, key)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read existing response")
	}

	status := models.NormalizeResponseStatus(input.Status)

	// The guard: an edited rejected answer can never silently keep its
	// rejection or become tacitly approved. A reviewer must see it again.
	reset := false
	if existing != nil && existing.Status == models.ResponseRejected && existing.Answer != input.Answer {
		status = models.ResponsePendingVerification
		reset = true
		if s.logger != nil {
			s.logger.InfoContext(ctx, "rejected answer edited, status reset to pending verification",
				"checklist_id", checklistID,
				"item_id", input.ItemID,
				"field_id", fieldID,
			)
		}
	}

	now := time.Now().UTC()
	response := &models.Response{
		ChecklistID: checklistID,
		ItemID:      input.ItemID,
		FieldID:     fieldID,
		Answer:      input.Answer,
		Quantity:    input.Quantity,
		Observation: input.Observation,
		FileRef:     input.FileRef,
		ValidUntil:  input.ValidUntil,
		Status:      status,
		UpdatedAt:   now,
	}
	if existing != nil {
		response.CreatedAt = existing.CreatedAt
		response.RejectionReason = existing.RejectionReason
	} else {
		response.CreatedAt = now
	}

	if err := s.responses.Upsert(ctx, response); err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to upsert response")
	}
	return response, reset, nil
}

// List returns the checklist's responses for read-back.
func (s *Service) List(ctx context.Context, checklistID id.ChecklistID) ([]*models.Response, error) {
	if _, err := s.checklists.Get(ctx, checklistID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "checklist not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load checklist")
	}
	responses, err := s.responses.ListByChecklist(ctx, checklistID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list responses")
	}
	return responses, nil
}
