// Package handler wires checklist endpoints to the domain services.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldaudit/internal/checklist/answer"
	"fieldaudit/internal/checklist/lifecycle"
	"fieldaudit/internal/checklist/models"
	"fieldaudit/internal/checklist/scoring"
	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
	"fieldaudit/pkg/platform/httputil"
	"fieldaudit/pkg/requestcontext"
)

// ScoringService computes level evaluations.
type ScoringService interface {
	Evaluate(ctx context.Context, checklistID id.ChecklistID) (*scoring.Evaluation, error)
}

// AnswerService saves answers and reads responses back.
type AnswerService interface {
	Apply(ctx context.Context, checklistID id.ChecklistID, inputs []answer.Input) ([]*models.Response, error)
	List(ctx context.Context, checklistID id.ChecklistID) ([]*models.Response, error)
}

// LifecycleService drives partial finalization and exposes the derivation
// tree.
type LifecycleService interface {
	PartialFinalize(ctx context.Context, checklistID id.ChecklistID, opts lifecycle.Options) (*lifecycle.Result, error)
	Children(ctx context.Context, checklistID id.ChecklistID) ([]*models.Checklist, error)
}

// Handler wires checklist endpoints to the checklist services.
type Handler struct {
	scoring   ScoringService
	answers   AnswerService
	lifecycle LifecycleService
	logger    *slog.Logger
}

// New constructs a checklist handler with its dependencies.
func New(scoringSvc ScoringService, answerSvc AnswerService, lifecycleSvc LifecycleService, logger *slog.Logger) *Handler {
	return &Handler{
		scoring:   scoringSvc,
		answers:   answerSvc,
		lifecycle: lifecycleSvc,
		logger:    logger,
	}
}

// Register mounts checklist endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/checklists/{checklistID}", func(r chi.Router) {
		r.Get("/evaluation", h.HandleEvaluate)
		r.Get("/responses", h.HandleListResponses)
		r.Get("/children", h.HandleListChildren)
		r.Put("/answers", h.HandleSaveAnswers)
		r.Post("/partial-finalize", h.HandlePartialFinalize)
	})
}

// HandleEvaluate handles GET /checklists/{checklistID}/evaluation requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checklistID, ok := h.checklistID(w, r)
	if !ok {
		return
	}
	start := time.Now()

	evaluation, err := h.scoring.Evaluate(ctx, checklistID)
	if err != nil {
		h.logger.ErrorContext(ctx, "evaluation failed",
			"request_id", requestcontext.RequestID(ctx),
			"checklist_id", checklistID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "checklist evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"checklist_id", checklistID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, evaluation)
}

// HandleListResponses handles GET /checklists/{checklistID}/responses requests.
func (h *Handler) HandleListResponses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checklistID, ok := h.checklistID(w, r)
	if !ok {
		return
	}

	responses, err := h.answers.List(ctx, checklistID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResponses(checklistID.String(), responses))
}

// HandleListChildren handles GET /checklists/{checklistID}/children requests.
func (h *Handler) HandleListChildren(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checklistID, ok := h.checklistID(w, r)
	if !ok {
		return
	}

	children, err := h.lifecycle.Children(ctx, checklistID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromChildren(checklistID.String(), children))
}

// HandleSaveAnswers handles PUT /checklists/{checklistID}/answers requests.
func (h *Handler) HandleSaveAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	checklistID, ok := h.checklistID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SaveAnswersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	responses, err := h.answers.Apply(ctx, checklistID, req.Inputs())
	if err != nil {
		h.logger.ErrorContext(ctx, "saving answers failed",
			"request_id", requestID,
			"checklist_id", checklistID,
			"answers", len(req.Answers),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromResponses(checklistID.String(), responses))
}

// HandlePartialFinalize handles POST /checklists/{checklistID}/partial-finalize
// requests.
func (h *Handler) HandlePartialFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	checklistID, ok := h.checklistID(w, r)
	if !ok {
		return
	}
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[PartialFinalizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.lifecycle.PartialFinalize(ctx, checklistID, req.Options())
	if err != nil {
		h.logger.ErrorContext(ctx, "partial finalize failed",
			"request_id", requestID,
			"checklist_id", checklistID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "checklist partially finalized",
		"request_id", requestID,
		"checklist_id", checklistID,
		"children", len(result.ChildIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromFinalizeResult(result))
}

// checklistID parses the path parameter, writing the error response itself.
func (h *Handler) checklistID(w http.ResponseWriter, r *http.Request) (id.ChecklistID, bool) {
	raw := chi.URLParam(r, "checklistID")
	checklistID, err := id.ParseChecklistID(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid checklist id"))
		return id.ChecklistID{}, false
	}
	return checklistID, true
}
