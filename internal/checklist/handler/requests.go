package handler

import (
	"time"

	"fieldaudit/internal/checklist/answer"
	"fieldaudit/internal/checklist/lifecycle"
	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

// maxBatchAnswers caps one save request. Mobile clients batch a screen at a
// time; anything larger indicates a misbehaving client.
const maxBatchAnswers = 500

// AnswerInput is one answer in a PUT /answers batch.
type AnswerInput struct {
	ItemID      string     `json:"item_id"`
	FieldID     string     `json:"field_id"`
	Answer      string     `json:"answer"`
	Quantity    *float64   `json:"quantity,omitempty"`
	Observation string     `json:"observation"`
	FileRef     string     `json:"file_ref"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	Status      string     `json:"status"`
}

// SaveAnswersRequest is the HTTP request body for PUT /checklists/{id}/answers.
type SaveAnswersRequest struct {
	Answers []AnswerInput `json:"answers"`

	parsed []answer.Input
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SaveAnswersRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Answers) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "answers must not be empty")
	}
	if len(r.Answers) > maxBatchAnswers {
		return dErrors.Newf(dErrors.CodeValidation, "answers must contain at most %d entries", maxBatchAnswers)
	}

	r.parsed = make([]answer.Input, 0, len(r.Answers))
	for i, in := range r.Answers {
		itemID, err := id.ParseItemID(in.ItemID)
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "answers[%d]: invalid item_id", i)
		}
		r.parsed = append(r.parsed, answer.Input{
			ItemID:      itemID,
			FieldID:     in.FieldID,
			Answer:      in.Answer,
			Quantity:    in.Quantity,
			Observation: in.Observation,
			FileRef:     in.FileRef,
			ValidUntil:  in.ValidUntil,
			Status:      in.Status,
		})
	}
	return nil
}

// Inputs returns the parsed answer inputs. Valid only after Validate.
func (r *SaveAnswersRequest) Inputs() []answer.Input { return r.parsed }

// PartialFinalizeRequest is the HTTP request body for
// POST /checklists/{id}/partial-finalize.
type PartialFinalizeRequest struct {
	CreateCorrection        bool   `json:"create_correction"`
	CreateCompletion        bool   `json:"create_completion"`
	CompletionTargetLevelID string `json:"completion_target_level_id,omitempty"`

	parsedTargetLevelID *id.LevelID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PartialFinalizeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.CompletionTargetLevelID != "" {
		if !r.CreateCompletion {
			return dErrors.New(dErrors.CodeValidation, "completion_target_level_id requires create_completion")
		}
		levelID, err := id.ParseLevelID(r.CompletionTargetLevelID)
		if err != nil {
			return err
		}
		r.parsedTargetLevelID = &levelID
	}
	return nil
}

// Options returns the parsed lifecycle options. Valid only after Validate.
func (r *PartialFinalizeRequest) Options() lifecycle.Options {
	return lifecycle.Options{
		CreateCorrection:        r.CreateCorrection,
		CreateCompletion:        r.CreateCompletion,
		CompletionTargetLevelID: r.parsedTargetLevelID,
	}
}
