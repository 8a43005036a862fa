package handler

import (
	"time"

	"fieldaudit/internal/checklist/lifecycle"
	"fieldaudit/internal/checklist/models"
)

// ResponseView is the HTTP shape of one stored response.
type ResponseView struct {
	ItemID          string     `json:"item_id"`
	FieldID         string     `json:"field_id"`
	Answer          string     `json:"answer"`
	Quantity        *float64   `json:"quantity,omitempty"`
	Observation     string     `json:"observation,omitempty"`
	FileRef         string     `json:"file_ref,omitempty"`
	ValidUntil      *time.Time `json:"valid_until,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ResponsesResponse is the HTTP response for GET /checklists/{id}/responses
// and PUT /checklists/{id}/answers.
type ResponsesResponse struct {
	ChecklistID string         `json:"checklist_id"`
	Responses   []ResponseView `json:"responses"`
}

// FromResponses converts stored responses to the HTTP shape.
func FromResponses(checklistID string, responses []*models.Response) *ResponsesResponse {
	out := &ResponsesResponse{
		ChecklistID: checklistID,
		Responses:   make([]ResponseView, 0, len(responses)),
	}
	for _, r := range responses {
		out.Responses = append(out.Responses, ResponseView{
			ItemID:          r.ItemID.String(),
			FieldID:         r.FieldID,
			Answer:          r.Answer,
			Quantity:        r.Quantity,
			Observation:     r.Observation,
			FileRef:         r.FileRef,
			ValidUntil:      r.ValidUntil,
			Status:          string(r.Status),
			RejectionReason: r.RejectionReason,
			UpdatedAt:       r.UpdatedAt,
		})
	}
	return out
}

// ChildView is the HTTP shape of one derived checklist.
type ChildView struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	TargetLevelID string    `json:"target_level_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChildrenResponse is the HTTP response for GET /checklists/{id}/children.
type ChildrenResponse struct {
	ChecklistID string      `json:"checklist_id"`
	Children    []ChildView `json:"children"`
}

// FromChildren converts derived checklists to the HTTP shape.
func FromChildren(checklistID string, children []*models.Checklist) *ChildrenResponse {
	out := &ChildrenResponse{
		ChecklistID: checklistID,
		Children:    make([]ChildView, 0, len(children)),
	}
	for _, c := range children {
		view := ChildView{
			ID:        c.ID.String(),
			Type:      string(c.Type),
			Status:    string(c.Status),
			CreatedAt: c.CreatedAt,
		}
		if !c.TargetLevelID.IsNil() {
			view.TargetLevelID = c.TargetLevelID.String()
		}
		out.Children = append(out.Children, view)
	}
	return out
}

// PartialFinalizeResponse is the HTTP response for
// POST /checklists/{id}/partial-finalize.
type PartialFinalizeResponse struct {
	ChecklistID        string   `json:"checklist_id"`
	Status             string   `json:"status"`
	ReportID           string   `json:"report_id"`
	CorrectionID       string   `json:"correction_id,omitempty"`
	CompletionID       string   `json:"completion_id,omitempty"`
	EscalatedToLevelID string   `json:"escalated_to_level_id,omitempty"`
	ChildIDs           []string `json:"child_ids"`
}

// FromFinalizeResult converts a lifecycle result to the HTTP shape.
func FromFinalizeResult(result *lifecycle.Result) *PartialFinalizeResponse {
	out := &PartialFinalizeResponse{
		ChecklistID: result.ChecklistID.String(),
		Status:      string(models.StatusPartiallyFinalized),
		ReportID:    result.ReportID.String(),
		ChildIDs:    make([]string, 0, len(result.ChildIDs)),
	}
	for _, childID := range result.ChildIDs {
		out.ChildIDs = append(out.ChildIDs, childID.String())
	}
	if result.CorrectionID != nil {
		out.CorrectionID = result.CorrectionID.String()
	}
	if result.CompletionID != nil {
		out.CompletionID = result.CompletionID.String()
	}
	if result.EscalatedToLevelID != nil {
		out.EscalatedToLevelID = result.EscalatedToLevelID.String()
	}
	return out
}
