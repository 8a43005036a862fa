// Package ports defines shared interfaces for the checklist module.
// Interfaces live here when consumed by multiple services to avoid
// duplication.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/audit"
	"fieldaudit/pkg/requestcontext"
)

// TemplateStore reads template structure. Template CRUD is owned by an
// external layer; this service only ever reads.
type TemplateStore interface {
	// Get returns the template with levels, classifications, sections and
	// items fully loaded.
	Get(ctx context.Context, templateID id.TemplateID) (*models.Template, error)
}

// ChecklistStore persists checklist instances and their scope answers.
type ChecklistStore interface {
	Get(ctx context.Context, checklistID id.ChecklistID) (*models.Checklist, error)

	// Create inserts a checklist, including derived children.
	Create(ctx context.Context, checklist *models.Checklist) error

	UpdateStatus(ctx context.Context, checklistID id.ChecklistID, status models.ChecklistStatus) error

	// UpdateTargetLevel records a level escalation on the checklist.
	UpdateTargetLevel(ctx context.Context, checklistID id.ChecklistID, levelID id.LevelID) error

	// ListChildren returns direct children only; chains are walked one hop
	// at a time.
	ListChildren(ctx context.Context, parentID id.ChecklistID) ([]*models.Checklist, error)
}

// ResponseStore is the transactional map of one response per
// (checklist, item, field) triple.
type ResponseStore interface {
	// Get returns nil, nil when no response exists for the key.
	Get(ctx context.Context, key models.ResponseKey) (*models.Response, error)

	ListByChecklist(ctx context.Context, checklistID id.ChecklistID) ([]*models.Response, error)

	// Upsert creates on absence, overwrites all mutable fields on presence.
	Upsert(ctx context.Context, response *models.Response) error

	// RunInTx executes fn atomically: every store call made with the derived
	// context commits or rolls back as one unit.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReportStore persists immutable finalize snapshots (append-only audit
// artifacts).
type ReportStore interface {
	Append(ctx context.Context, report *models.FinalizeReport) error
	ListByChecklist(ctx context.Context, checklistID id.ChecklistID) ([]*models.FinalizeReport, error)
}

// AuditPublisher emits audit events for lifecycle-relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// EvaluationCache caches computed level evaluations per checklist. A nil or
// no-op implementation is valid; correctness never depends on the cache.
type EvaluationCache interface {
	Get(ctx context.Context, checklistID id.ChecklistID) ([]byte, bool, error)
	Set(ctx context.Context, checklistID id.ChecklistID, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, checklistID id.ChecklistID) error
}

// LogAudit is a shared helper for recording audit events across checklist
// services. It logs to the structured logger and emits to the publisher when
// one is configured.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event, attrs ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		event.RequestID = requestID
	}

	args := append(attrs,
		"event", event.Action,
		"checklist_id", event.ChecklistID,
		"log_type", "audit",
	)
	if logger != nil {
		logger.InfoContext(ctx, event.Action, args...)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
