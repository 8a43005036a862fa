package scoring

import (
	"time"

	id "fieldaudit/pkg/domain"
)

// ClassificationProgress reports one classification's pass state for a level.
type ClassificationProgress struct {
	ClassificationID   id.ClassificationID `json:"classification_id"`
	Code               string              `json:"code"`
	Name               string              `json:"name"`
	RequiredPercentage float64             `json:"required_percentage"`
	Percentage         float64             `json:"percentage"`
	RequiredItems      int                 `json:"required_items"`
	ApprovedItems      int                 `json:"approved_items"`
	Achieved           bool                `json:"achieved"`
}

// LevelProgress reports one level's state.
//
// Achieved is computed locally from this level's own scope, not cumulatively
// from lower levels. With accumulative sections a higher level can therefore
// be achieved while a lower one is not; this mirrors how audits have always
// been scored and callers must not assume monotonicity.
type LevelProgress struct {
	LevelID  id.LevelID `json:"level_id"`
	Name     string     `json:"name"`
	Order    int        `json:"order"`
	Achieved bool       `json:"achieved"`
	// BlockedBy lists the names of gate items whose approval is still
	// outstanding for this level.
	BlockedBy       []string                 `json:"blocked_by"`
	Classifications []ClassificationProgress `json:"classifications"`

	UncategorizedRequired int `json:"uncategorized_required"`
	UncategorizedApproved int `json:"uncategorized_approved"`

	// TotalItems / ApprovedItems are pass-through counts for UI progress
	// bars; they carry no achievement semantics.
	TotalItems    int `json:"total_items"`
	ApprovedItems int `json:"approved_items"`
}

// Evaluation is the full scoring result for a checklist.
type Evaluation struct {
	ChecklistID   id.ChecklistID `json:"checklist_id"`
	TargetLevelID id.LevelID     `json:"target_level_id"`
	// AchievedLevelID is the highest-order achieved level, or nil when no
	// level is achieved.
	AchievedLevelID *id.LevelID     `json:"achieved_level_id,omitempty"`
	Levels          []LevelProgress `json:"levels"`
	ComputedAt      time.Time       `json:"computed_at"`
}
