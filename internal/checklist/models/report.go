package models

import (
	"time"

	id "fieldaudit/pkg/domain"
)

// FinalizeReport is the immutable snapshot taken at the start of a partial
// finalize. It records exactly what reviewers saw when the decision to
// derive children was made; rows are append-only and never updated.
type FinalizeReport struct {
	ID          id.ReportID    `json:"id"`
	ChecklistID id.ChecklistID `json:"checklist_id"`
	// Responses is a deep copy of the checklist's responses at snapshot
	// time; later edits on children do not touch it.
	Responses []Response `json:"responses"`
	CreatedAt time.Time  `json:"created_at"`
}
