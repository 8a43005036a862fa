package models

import (
	"time"

	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

// ChecklistStatus tracks a checklist through its lifecycle.
type ChecklistStatus string

const (
	StatusDraft              ChecklistStatus = "draft"
	StatusSent               ChecklistStatus = "sent"
	StatusInProgress         ChecklistStatus = "in_progress"
	StatusPendingReview      ChecklistStatus = "pending_review"
	StatusApproved           ChecklistStatus = "approved"
	StatusRejected           ChecklistStatus = "rejected"
	StatusFinalized          ChecklistStatus = "finalized"
	StatusPartiallyFinalized ChecklistStatus = "partially_finalized"
)

func (s ChecklistStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusInProgress, StatusPendingReview,
		StatusApproved, StatusRejected, StatusFinalized, StatusPartiallyFinalized:
		return true
	}
	return false
}

func (s ChecklistStatus) String() string { return string(s) }

// AcceptsAnswers reports whether producers may still write responses.
func (s ChecklistStatus) AcceptsAnswers() bool {
	return s == StatusSent || s == StatusInProgress
}

// IsTerminal reports whether no further transitions are allowed.
func (s ChecklistStatus) IsTerminal() bool {
	return s == StatusFinalized || s == StatusPartiallyFinalized
}

// ChecklistType distinguishes the original audit from derived checklists.
type ChecklistType string

const (
	TypeOriginal   ChecklistType = "original"
	TypeCorrection ChecklistType = "correction"
	TypeCompletion ChecklistType = "completion"
)

func (t ChecklistType) IsValid() bool {
	switch t {
	case TypeOriginal, TypeCorrection, TypeCompletion:
		return true
	}
	return false
}

func (t ChecklistType) String() string { return string(t) }

// ScopeAnswers map scope field ids to producer-declared values; conditions
// read them to decide item activation.
type ScopeAnswers map[string]string

// Checklist is one producer's instance of a template. Derived checklists
// reference their parent; the chain is walked one hop at a time, never
// recursively.
type Checklist struct {
	ID         id.ChecklistID  `json:"id"`
	TemplateID id.TemplateID   `json:"template_id"`
	ProducerID id.ProducerID   `json:"producer_id"`
	Status     ChecklistStatus `json:"status"`
	Type       ChecklistType   `json:"type"`
	// ParentID is set on correction and completion checklists.
	ParentID *id.ChecklistID `json:"parent_id,omitempty"`
	// TargetLevelID is the level the producer is working toward; nil UUID on
	// non-level-based templates.
	TargetLevelID id.LevelID `json:"target_level_id"`
	// Fields are the producer's dynamic sub-units (one response per field
	// for iterating sections).
	Fields []string `json:"fields"`
	// ScopeAnswers may be empty on derived checklists, which then inherit
	// the parent's at evaluation time.
	ScopeAnswers ScopeAnswers `json:"scope_answers"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// EnsureOpen returns an invalid-state error when the checklist no longer
// accepts answer writes.
func (c *Checklist) EnsureOpen() error {
	if !c.Status.AcceptsAnswers() {
		return dErrors.Newf(dErrors.CodeNotApplicable, "checklist is %s and no longer accepts answers", c.Status)
	}
	return nil
}
