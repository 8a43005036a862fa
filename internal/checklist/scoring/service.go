package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fieldaudit/internal/checklist/condition"
	"fieldaudit/internal/checklist/metrics"
	"fieldaudit/internal/checklist/models"
	"fieldaudit/internal/checklist/ports"
	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
	"fieldaudit/pkg/platform/sentinel"
	pstrings "fieldaudit/pkg/platform/strings"
)

// Service computes per-level classification progress, blockers and
// achievement for a checklist.
type Service struct {
	templates  ports.TemplateStore
	checklists ports.ChecklistStore
	responses  ports.ResponseStore

	cache    ports.EvaluationCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCache enables read-through caching of evaluations.
func WithCache(cache ports.EvaluationCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(templates ports.TemplateStore, checklists ports.ChecklistStore, responses ports.ResponseStore, opts ...Option) (*Service, error) {
	if templates == nil {
		return nil, fmt.Errorf("template store is required")
	}
	if checklists == nil {
		return nil, fmt.Errorf("checklist store is required")
	}
	if responses == nil {
		return nil, fmt.Errorf("response store is required")
	}

	svc := &Service{
		templates:  templates,
		checklists: checklists,
		responses:  responses,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Evaluate scores every level of the checklist's template. Levels are scored
// independently and concurrently; their inputs are read-only snapshots taken
// up front.
func (s *Service) Evaluate(ctx context.Context, checklistID id.ChecklistID) (*Evaluation, error) {
	if cached, ok := s.fromCache(ctx, checklistID); ok {
		return cached, nil
	}

	start := time.Now()

	checklist, err := s.checklists.Get(ctx, checklistID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "checklist not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load checklist")
	}

	template, err := s.templates.Get(ctx, checklist.TemplateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "template not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load template")
	}

	if !template.IsLevelBased || len(template.Levels) == 0 {
		return nil, dErrors.New(dErrors.CodeNotApplicable, "template is not level based")
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

	fields := pstrings.DedupeAndTrim(checklist.Fields)
	progress := make([]LevelProgress, len(template.Levels))
	g, gctx := errgroup.WithContext(ctx)
	for i, level := range template.Levels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := scoreLevel(template, level, checklistID, fields, scope, byKey)
			if err != nil {
				return err
			}
			progress[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "level scoring failed")
	}

	sort.Slice(progress, func(i, j int) bool { return progress[i].Order < progress[j].Order })

	eval := &Evaluation{
		ChecklistID:   checklistID,
		TargetLevelID: checklist.TargetLevelID,
		Levels:        progress,
		ComputedAt:    time.Now().UTC(),
	}
	// Highest-order achieved level wins; scan from the top down.
	for i := len(progress) - 1; i >= 0; i-- {
		if progress[i].Achieved {
			levelID := progress[i].LevelID
			eval.AchievedLevelID = &levelID
			break
		}
	}

	s.toCache(ctx, checklistID, eval)

	if s.metrics != nil {
		s.metrics.Evaluations.Inc()
		s.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "evaluation computed",
			"checklist_id", checklistID,
			"levels", len(progress),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	return eval, nil
}

// resolveScope returns the checklist's scope answers, falling back to the
// immediate parent's when a derived checklist carries none of its own.
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

// scoringUnit is one concrete (item, field) pair after Cartesian expansion
// of iterating sections.
type scoringUnit struct {
	item     *models.Item
	fieldID  string
	optional bool
}

// scoreLevel computes a single level's progress. Pure with respect to its
// inputs; safe to run concurrently with other levels.
func scoreLevel(template *models.Template, level *models.Level, checklistID id.ChecklistID, fields []string, scope models.ScopeAnswers, byKey map[models.ResponseKey]*models.Response) (LevelProgress, error) {
	p := LevelProgress{
		LevelID: level.ID,
		Name:    level.Name,
		Order:   level.Order,
	}

	var units []scoringUnit
	for _, section := range template.SectionsForLevel(level) {
		for _, item := range section.Items {
			verdict := condition.Evaluate(item, scope)
			if !verdict.Active {
				continue
			}
			for _, fieldID := range expandFields(section, fields) {
				units = append(units, scoringUnit{item: item, fieldID: fieldID, optional: verdict.Optional})
			}
		}
	}

	approvedAt := func(u scoringUnit) bool {
		r := byKey[models.ResponseKey{ChecklistID: checklistID, ItemID: u.item.ID, FieldID: u.fieldID}]
		return r != nil && r.Status == models.ResponseApproved
	}

	// Blocking check: a gate item guards its level and every level above it.
	// Gates always read the global-field response.
	seenBlockers := map[id.ItemID]bool{}
	for _, u := range units {
		if u.item.BlocksAdvancementToLevelID.IsNil() || seenBlockers[u.item.ID] {
			continue
		}
		gated, err := template.LevelByID(u.item.BlocksAdvancementToLevelID)
		if err != nil {
			return p, fmt.Errorf("item %s gates unknown level: %w", u.item.ID, err)
		}
		if gated.Order > level.Order {
			continue
		}
		seenBlockers[u.item.ID] = true
		r := byKey[models.ResponseKey{ChecklistID: checklistID, ItemID: u.item.ID, FieldID: models.FieldGlobal}]
		if r == nil || r.Status != models.ResponseApproved {
			p.BlockedBy = append(p.BlockedBy, u.item.Name)
		}
	}

	// Per-classification progress over required, non-optional units.
	type bucket struct {
		required int
		approved int
	}
	buckets := make(map[id.ClassificationID]*bucket)
	var uncategorized bucket

	for _, u := range units {
		p.TotalItems++
		approved := approvedAt(u)
		if approved {
			p.ApprovedItems++
		}

		if !u.item.Required || u.optional {
			continue
		}

		if u.item.ClassificationID.IsNil() {
			uncategorized.required++
			if approved {
				uncategorized.approved++
			}
			continue
		}
		b := buckets[u.item.ClassificationID]
		if b == nil {
			b = &bucket{}
			buckets[u.item.ClassificationID] = b
		}
		b.required++
		if approved {
			b.approved++
		}
	}

	allClassificationsAchieved := true
	for _, c := range template.Classifications {
		b := buckets[c.ID]
		if b == nil {
			b = &bucket{}
		}
		// Empty required set passes vacuously at 100%: levels without items
		// in a classification are not penalized, and there is no division
		// by zero.
		percentage := 100.0
		if b.required > 0 {
			percentage = float64(b.approved) / float64(b.required) * 100
		}
		achieved := percentage >= c.RequiredPercentage
		if !achieved {
			allClassificationsAchieved = false
		}
		p.Classifications = append(p.Classifications, ClassificationProgress{
			ClassificationID:   c.ID,
			Code:               c.Code,
			Name:               c.Name,
			RequiredPercentage: c.RequiredPercentage,
			Percentage:         percentage,
			RequiredItems:      b.required,
			ApprovedItems:      b.approved,
			Achieved:           achieved,
		})
	}
	// Classification order is not significant; sort by code for stable output.
	sort.Slice(p.Classifications, func(i, j int) bool {
		return p.Classifications[i].Code < p.Classifications[j].Code
	})

	p.UncategorizedRequired = uncategorized.required
	p.UncategorizedApproved = uncategorized.approved

	p.Achieved = allClassificationsAchieved &&
		uncategorized.approved == uncategorized.required &&
		len(p.BlockedBy) == 0

	return p, nil
}

// expandFields produces the concrete field keys a section's items are
// answered under.
func expandFields(section *models.Section, fields []string) []string {
	if section.IterateOverFields && len(fields) > 0 {
		return fields
	}
	return []string{models.FieldGlobal}
}

func (s *Service) fromCache(ctx context.Context, checklistID id.ChecklistID) (*Evaluation, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok, err := s.cache.Get(ctx, checklistID)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "evaluation cache read failed", "error", err)
		}
		return nil, false
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		return nil, false
	}
	var eval Evaluation
	if err := json.Unmarshal(payload, &eval); err != nil {
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
	return &eval, true
}

func (s *Service) toCache(ctx context.Context, checklistID id.ChecklistID, eval *Evaluation) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(eval)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, checklistID, payload, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "evaluation cache write failed", "error", err)
	}
}
