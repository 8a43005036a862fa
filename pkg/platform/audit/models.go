// Package audit captures key lifecycle actions as append-only events. Keep
// the Event type transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"

	id "fieldaudit/pkg/domain"
)

// Event is emitted from domain logic when a checklist changes state in a way
// reviewers must be able to reconstruct later.
type Event struct {
	Timestamp   time.Time
	ChecklistID id.ChecklistID
	Action      string
	// ActorID tracks who triggered the action (reviewer or system).
	ActorID string
	// ChildIDs lists derived checklists created by the action, if any.
	ChildIDs []string
	// EscalatedToLevelID is set when the action raised the target level.
	EscalatedToLevelID string
	Reason             string
	RequestID          string
}

// Action names. Stable strings: downstream retention policies key off them.
type Action string

const (
	EventAnswersSaved       Action = "answers_saved"
	EventGuardStatusReset   Action = "guard_status_reset"
	EventPartialFinalized   Action = "checklist_partially_finalized"
	EventCorrectionCreated  Action = "correction_checklist_created"
	EventCompletionCreated  Action = "completion_checklist_created"
	EventTargetEscalated    Action = "target_level_escalated"
	EventResponsesSyncedUp  Action = "responses_synced_to_parent"
	EventEvaluationComputed Action = "evaluation_computed"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByChecklist(ctx context.Context, checklistID id.ChecklistID) ([]Event, error)
}
