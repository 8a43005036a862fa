// Package lifecycle orchestrates checklist status transitions and the
// derivation workflow: partially finalizing an audit, spinning off
// correction and completion children, and synchronizing answers back up the
// parent chain.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fieldaudit/internal/checklist/condition"
	"fieldaudit/internal/checklist/metrics"
	"fieldaudit/internal/checklist/models"
	"fieldaudit/internal/checklist/ports"
	"fieldaudit/pkg/platform/audit"
	"fieldaudit/pkg/platform/sentinel"
	pstrings "fieldaudit/pkg/platform/strings"

	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

// Options selects which derived checklists a partial finalize creates.
type Options struct {
	CreateCorrection bool
	CreateCompletion bool
	// CompletionTargetLevelID optionally raises the completion child's
	// target; a level above the parent's current target escalates.
	CompletionTargetLevelID *id.LevelID
}

// Result reports what a partial finalize produced. Branches with no matching
// items are skipped silently, so both child ids may be nil.
type Result struct {
	ChecklistID        id.ChecklistID   `json:"checklist_id"`
	ReportID           id.ReportID      `json:"report_id"`
	CorrectionID       *id.ChecklistID  `json:"correction_id,omitempty"`
	CompletionID       *id.ChecklistID  `json:"completion_id,omitempty"`
	ChildIDs           []id.ChecklistID `json:"child_ids"`
	EscalatedToLevelID *id.LevelID      `json:"escalated_to_level_id,omitempty"`
}

// Service drives the derivation workflow.
type Service struct {
	templates  ports.TemplateStore
	checklists ports.ChecklistStore
	responses  ports.ResponseStore
	reports    ports.ReportStore

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

func New(templates ports.TemplateStore, checklists ports.ChecklistStore, responses ports.ResponseStore, reports ports.ReportStore, opts ...Option) (*Service, error) {
	if templates == nil {
		return nil, fmt.Errorf("template store is required")
	}
	if checklists == nil {
		return nil, fmt.Errorf("checklist store is required")
	}
	if responses == nil {
		return nil, fmt.Errorf("response store is required")
	}
	if reports == nil {
		return nil, fmt.Errorf("report store is required")
	}

	svc := &Service{
		templates:  templates,
		checklists: checklists,
		responses:  responses,
		reports:    reports,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// PartialFinalize closes out a checklist and derives children for whatever
// work remains. The parent becomes terminal; rejected items move to a
// correction child, missing or unverified items to a completion child,
// optionally escalated to a higher target level.
func (s *Service) PartialFinalize(ctx context.Context, checklistID id.ChecklistID, opts Options) (*Result, error) {
	checklist, err := s.checklists.Get(ctx, checklistID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "checklist not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load checklist")
	}
	if checklist.Status.IsTerminal() {
		return nil, dErrors.Newf(dErrors.CodeNotApplicable, "checklist is already %s", checklist.Status)
	}

	template, err := s.templates.Get(ctx, checklist.TemplateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "template not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load template")
	}

	newTarget, err := s.resolveEscalation(template, checklist, opts)
	if err != nil {
		return nil, err
	}

	scope, err := s.resolveScope(ctx, checklist)
	if err != nil {
		return nil, err
	}

	responses, err := s.responses.ListByChecklist(ctx, checklistID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load responses")
	}
	byKey := make(map[models.ResponseKey]*models.Response, len(responses))
	for _, r := range responses {
		byKey[r.Key()] = r
	}

	result := &Result{ChecklistID: checklistID}

	// Close out the parent: snapshot, one-hop upward sync, terminal status.
	// One transaction so a crash cannot leave a PARTIALLY_FINALIZED
	// checklist without its report.
	report := snapshotReport(checklistID, responses)
	err = s.responses.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.reports.Append(ctx, report); err != nil {
			return fmt.Errorf("append finalize report: %w", err)
		}
		if checklist.ParentID != nil {
			if err := s.syncToParent(ctx, *checklist.ParentID, responses); err != nil {
				return err
			}
		}
		return s.checklists.UpdateStatus(ctx, checklistID, models.StatusPartiallyFinalized)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to finalize checklist")
	}
	result.ReportID = report.ID

	rejected, pending := s.partition(template, checklist, scope, byKey)

	if opts.CreateCorrection && len(rejected) > 0 {
		correctionID, err := s.createCorrection(ctx, checklist, rejected, byKey)
		if err != nil {
			return nil, err
		}
		result.CorrectionID = &correctionID
		result.ChildIDs = append(result.ChildIDs, correctionID)
	}

	if opts.CreateCompletion {
		completionID, created, err := s.createCompletion(ctx, template, checklist, newTarget, pending)
		if err != nil {
			return nil, err
		}
		if created {
			result.CompletionID = &completionID
			result.ChildIDs = append(result.ChildIDs, completionID)
		}
	}

	if newTarget != nil {
		result.EscalatedToLevelID = &newTarget.ID
	}

	s.invalidate(ctx, checklistID)
	if checklist.ParentID != nil {
		s.invalidate(ctx, *checklist.ParentID)
	}

	event := audit.Event{
		ChecklistID: checklistID,
		Action:      string(audit.EventPartialFinalized),
	}
	for _, childID := range result.ChildIDs {
		event.ChildIDs = append(event.ChildIDs, childID.String())
	}
	if result.EscalatedToLevelID != nil {
		event.EscalatedToLevelID = result.EscalatedToLevelID.String()
	}
	ports.LogAudit(ctx, s.logger, s.auditPublisher, event,
		"children", len(result.ChildIDs),
		"rejected_items", len(rejected),
		"pending_items", len(pending),
	)

	return result, nil
}

// resolveEscalation validates the requested completion target and returns
// the level when it is strictly above the current target.
func (s *Service) resolveEscalation(template *models.Template, checklist *models.Checklist, opts Options) (*models.Level, error) {
	if !opts.CreateCompletion || opts.CompletionTargetLevelID == nil {
		return nil, nil
	}
	requested, err := template.LevelByID(*opts.CompletionTargetLevelID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "completion target level not found")
	}
	currentOrder := 0
	if !checklist.TargetLevelID.IsNil() {
		current, err := template.LevelByID(checklist.TargetLevelID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "checklist target level missing from template")
		}
		currentOrder = current.Order
	}
	if requested.Order <= currentOrder {
		return nil, nil
	}
	return requested, nil
}

// resolveScope mirrors the scorer's rule: a derived checklist without scope
// answers of its own inherits the immediate parent's.
func (s *Service) resolveScope(ctx context.Context, checklist *models.Checklist) (models.ScopeAnswers, error) {
	if len(checklist.ScopeAnswers) > 0 || checklist.ParentID == nil {
		return checklist.ScopeAnswers, nil
	}
	parent, err := s.checklists.Get(ctx, *checklist.ParentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "parent checklist not found")
	}
	return parent.ScopeAnswers, nil
}

// itemUnit is a concrete (item, field) pair after Cartesian expansion.
// Expanding before partitioning keeps the partition loop field-agnostic.
type itemUnit struct {
	item    *models.Item
	fieldID string
}

func (u itemUnit) key(checklistID id.ChecklistID) models.ResponseKey {
	return models.ResponseKey{ChecklistID: checklistID, ItemID: u.item.ID, FieldID: u.fieldID}
}

// partition splits the checklist's in-scope item units by response status.
// Items removed by conditions are out of scope entirely, exactly as the
// scorer sees them. Condition-optional units are owed nothing, so they only
// surface in the rejected partition when a reviewer explicitly rejected
// them.
func (s *Service) partition(template *models.Template, checklist *models.Checklist, scope models.ScopeAnswers, byKey map[models.ResponseKey]*models.Response) (rejected, pending []itemUnit) {
	fields := pstrings.DedupeAndTrim(checklist.Fields)

	for _, section := range s.inScopeSections(template, checklist) {
		for _, item := range section.Items {
			verdict := condition.Evaluate(item, scope)
			if !verdict.Active {
				continue
			}
			for _, fieldID := range expandFields(section, fields) {
				u := itemUnit{item: item, fieldID: fieldID}
				response := byKey[u.key(checklist.ID)]
				switch {
				case response != nil && response.Status == models.ResponseRejected:
					rejected = append(rejected, u)
				case verdict.Optional:
					// not owed; skip
				case response == nil || response.IsPending():
					pending = append(pending, u)
				}
			}
		}
	}
	return rejected, pending
}

// inScopeSections selects the sections a finalize considers: the target
// level's scope on level-based templates, every section otherwise.
func (s *Service) inScopeSections(template *models.Template, checklist *models.Checklist) []*models.Section {
	if template.IsLevelBased && !checklist.TargetLevelID.IsNil() {
		if target, err := template.LevelByID(checklist.TargetLevelID); err == nil {
			return template.SectionsForLevel(target)
		}
	}
	return template.Sections
}

func expandFields(section *models.Section, fields []string) []string {
	if section.IterateOverFields && len(fields) > 0 {
		return fields
	}
	return []string{models.FieldGlobal}
}

// snapshotReport deep-copies the responses into an immutable report.
func snapshotReport(checklistID id.ChecklistID, responses []*models.Response) *models.FinalizeReport {
	report := &models.FinalizeReport{
		ID:          id.NewReportID(),
		ChecklistID: checklistID,
		CreatedAt:   time.Now().UTC(),
		Responses:   make([]models.Response, 0, len(responses)),
	}
	for _, r := range responses {
		report.Responses = append(report.Responses, *r)
	}
	return report
}

// syncToParent copies this checklist's responses verbatim onto the parent's
// rows under the same (item, field) keys. One hop only; if the parent later
// finalizes it syncs its own parent in turn.
func (s *Service) syncToParent(ctx context.Context, parentID id.ChecklistID, responses []*models.Response) error {
	for _, r := range responses {
		copied := *r
		copied.ChecklistID = parentID
		if err := s.responses.Upsert(ctx, &copied); err != nil {
			return fmt.Errorf("sync response %s/%s to parent: %w", r.ItemID, r.FieldID, err)
		}
	}
	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
		ChecklistID: parentID,
		Action:      string(audit.EventResponsesSyncedUp),
	},
		"responses", len(responses),
	)
	return nil
}

// createCorrection derives the child holding every rejected item. The
// producer sees the prior answer, observation and rejection reason but must
// re-affirm: seeded rows start MISSING.
func (s *Service) createCorrection(ctx context.Context, parent *models.Checklist, rejected []itemUnit, byKey map[models.ResponseKey]*models.Response) (id.ChecklistID, error) {
	child := deriveChild(parent, models.TypeCorrection, parent.TargetLevelID)

	err := s.responses.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checklists.Create(ctx, child); err != nil {
			return fmt.Errorf("create correction checklist: %w", err)
		}
		now := time.Now().UTC()
		for _, u := range rejected {
			prior := byKey[u.key(parent.ID)]
			seed := &models.Response{
				ChecklistID: child.ID,
				ItemID:      u.item.ID,
				FieldID:     u.fieldID,
				Status:      models.ResponseMissing,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if prior != nil {
				seed.Answer = prior.Answer
				seed.Observation = prior.Observation
				seed.RejectionReason = prior.RejectionReason
			}
			if err := s.responses.Upsert(ctx, seed); err != nil {
				return fmt.Errorf("seed correction response: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return id.ChecklistID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create correction checklist")
	}

	if s.metrics != nil {
		s.metrics.DerivedChecklists.WithLabelValues(string(models.TypeCorrection)).Inc()
	}
	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
		ChecklistID: parent.ID,
		Action:      string(audit.EventCorrectionCreated),
		ChildIDs:    []string{child.ID.String()},
	},
		"rejected_items", len(rejected),
	)
	return child.ID, nil
}

// createCompletion derives the child holding pending items, plus - on
// escalation - every item of the levels between the old and new target. The
// second return value is false when the branch had nothing to seed.
func (s *Service) createCompletion(ctx context.Context, template *models.Template, parent *models.Checklist, newTarget *models.Level, pending []itemUnit) (id.ChecklistID, bool, error) {
	targetLevelID := parent.TargetLevelID
	if newTarget != nil {
		targetLevelID = newTarget.ID
	}

	seeds := make(map[models.ResponseKey]itemUnit, len(pending))
	child := deriveChild(parent, models.TypeCompletion, targetLevelID)
	for _, u := range pending {
		seeds[u.key(child.ID)] = u
	}

	if newTarget != nil {
		// Escalation widens the child's scope with the levels between the
		// old and new target. Duplicate keys from the pending set are
		// skipped so each (item, field) seeds once.
		currentOrder := 0
		if !parent.TargetLevelID.IsNil() {
			if current, err := template.LevelByID(parent.TargetLevelID); err == nil {
				currentOrder = current.Order
			}
		}
		fields := pstrings.DedupeAndTrim(parent.Fields)
		for _, section := range template.SectionsForLevels(currentOrder, newTarget.Order) {
			for _, item := range section.Items {
				for _, fieldID := range expandFields(section, fields) {
					u := itemUnit{item: item, fieldID: fieldID}
					key := u.key(child.ID)
					if _, seeded := seeds[key]; !seeded {
						seeds[key] = u
					}
				}
			}
		}
	}

	if len(seeds) == 0 {
		return id.ChecklistID{}, false, nil
	}

	err := s.responses.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checklists.Create(ctx, child); err != nil {
			return fmt.Errorf("create completion checklist: %w", err)
		}
		now := time.Now().UTC()
		for key := range seeds {
			seed := &models.Response{
				ChecklistID: child.ID,
				ItemID:      key.ItemID,
				FieldID:     key.FieldID,
				Status:      models.ResponseMissing,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.responses.Upsert(ctx, seed); err != nil {
				return fmt.Errorf("seed completion response: %w", err)
			}
		}
		if newTarget != nil {
			// The escalation is recorded on the parent even though the work
			// happens on the child.
			if err := s.checklists.UpdateTargetLevel(ctx, parent.ID, newTarget.ID); err != nil {
				return fmt.Errorf("escalate parent target level: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return id.ChecklistID{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create completion checklist")
	}

	if s.metrics != nil {
		s.metrics.DerivedChecklists.WithLabelValues(string(models.TypeCompletion)).Inc()
		if newTarget != nil {
			s.metrics.Escalations.Inc()
		}
	}
	event := audit.Event{
		ChecklistID: parent.ID,
		Action:      string(audit.EventCompletionCreated),
		ChildIDs:    []string{child.ID.String()},
	}
	if newTarget != nil {
		event.EscalatedToLevelID = newTarget.ID.String()
	}
	ports.LogAudit(ctx, s.logger, s.auditPublisher, event,
		"seeded_items", len(seeds),
	)
	if newTarget != nil {
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			ChecklistID:        parent.ID,
			Action:             string(audit.EventTargetEscalated),
			EscalatedToLevelID: newTarget.ID.String(),
		},
			"level_order", newTarget.Order,
		)
	}
	return child.ID, true, nil
}

// deriveChild builds a derived checklist shell. Scope answers stay empty on
// purpose: children inherit the parent's at evaluation time.
func deriveChild(parent *models.Checklist, childType models.ChecklistType, targetLevelID id.LevelID) *models.Checklist {
	parentID := parent.ID
	now := time.Now().UTC()
	return &models.Checklist{
		ID:            id.NewChecklistID(),
		TemplateID:    parent.TemplateID,
		ProducerID:    parent.ProducerID,
		Status:        models.StatusSent,
		Type:          childType,
		ParentID:      &parentID,
		TargetLevelID: targetLevelID,
		Fields:        parent.Fields,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Children returns the checklist's direct derived checklists, oldest first.
// Deeper descendants are reached by walking one hop at a time, matching how
// responses sync upward.
func (s *Service) Children(ctx context.Context, checklistID id.ChecklistID) ([]*models.Checklist, error) {
	if _, err := s.checklists.Get(ctx, checklistID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "checklist not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load checklist")
	}

	children, err := s.checklists.ListChildren(ctx, checklistID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list children")
	}
	return children, nil
}

func (s *Service) invalidate(ctx context.Context, checklistID id.ChecklistID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, checklistID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to invalidate evaluation cache", "checklist_id", checklistID, "error", err)
	}
}
