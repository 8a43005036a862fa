package scoring

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fieldaudit/internal/checklist/models"
	checkliststore "fieldaudit/internal/checklist/store/checklist"
	responsestore "fieldaudit/internal/checklist/store/response"
	templatestore "fieldaudit/internal/checklist/store/template"
	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

// =============================================================================
// Scoring Service Test Suite
// =============================================================================
// The scorer turns a checklist's responses into per-level progress. Tests
// cover classification thresholds, vacuous passes, gate items, condition
// handling, field expansion, scope inheritance and the non-monotonic
// achievement rule.

type ScoringSuite struct {
	suite.Suite
	templates  *templatestore.InMemoryStore
	checklists *checkliststore.InMemoryStore
	responses  *responsestore.InMemoryStore
	service    *Service

	// fixture state
	bronze, silver     *models.Level
	safety, hygiene    *models.Classification
	gateItem           *models.Item
	bronzeSafetyItem   *models.Item
	bronzeHygieneItemA *models.Item
	bronzeHygieneItemB *models.Item
	silverIteratedItem *models.Item
	template           *models.Template
}

func TestScoringSuite(t *testing.T) {
	suite.Run(t, new(ScoringSuite))
}

func (s *ScoringSuite) SetupTest() {
	s.templates = templatestore.New()
	s.checklists = checkliststore.New()
	s.responses = responsestore.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(s.templates, s.checklists, s.responses, WithLogger(logger))
	s.Require().NoError(err)
	s.service = svc

	s.template = s.buildTemplate(true)
	s.Require().NoError(s.templates.Put(context.Background(), s.template))
}

// buildTemplate assembles the standard fixture: two levels, two
// classifications, a global gate item and an iterating silver section.
func (s *ScoringSuite) buildTemplate(accumulative bool) *models.Template {
	templateID := id.NewTemplateID()
	s.bronze = &models.Level{ID: id.NewLevelID(), TemplateID: templateID, Name: "Bronze", Order: 1}
	s.silver = &models.Level{ID: id.NewLevelID(), TemplateID: templateID, Name: "Silver", Order: 2}
	s.safety = &models.Classification{ID: id.NewClassificationID(), TemplateID: templateID, Code: "SAF", Name: "Safety", RequiredPercentage: 100}
	s.hygiene = &models.Classification{ID: id.NewClassificationID(), TemplateID: templateID, Code: "HYG", Name: "Hygiene", RequiredPercentage: 50}

	globalSection := &models.Section{ID: id.NewSectionID(), TemplateID: templateID, Name: "General", Position: 1}
	s.gateItem = &models.Item{
		ID:                         id.NewItemID(),
		SectionID:                  globalSection.ID,
		Name:                       "operating license on file",
		Required:                   true,
		ClassificationID:           s.safety.ID,
		BlocksAdvancementToLevelID: s.bronze.ID,
	}
	globalSection.Items = []*models.Item{s.gateItem}

	bronzeSection := &models.Section{ID: id.NewSectionID(), TemplateID: templateID, Name: "Facilities", Position: 2, LevelID: s.bronze.ID}
	s.bronzeSafetyItem = &models.Item{ID: id.NewItemID(), SectionID: bronzeSection.ID, Name: "fire exits clear", Required: true, ClassificationID: s.safety.ID}
	s.bronzeHygieneItemA = &models.Item{ID: id.NewItemID(), SectionID: bronzeSection.ID, Name: "hand wash stations", Required: true, ClassificationID: s.hygiene.ID}
	s.bronzeHygieneItemB = &models.Item{ID: id.NewItemID(), SectionID: bronzeSection.ID, Name: "pest control log", Required: true, ClassificationID: s.hygiene.ID}
	bronzeSection.Items = []*models.Item{s.bronzeSafetyItem, s.bronzeHygieneItemA, s.bronzeHygieneItemB}

	silverSection := &models.Section{ID: id.NewSectionID(), TemplateID: templateID, Name: "Storage Units", Position: 3, LevelID: s.silver.ID, IterateOverFields: true}
	s.silverIteratedItem = &models.Item{ID: id.NewItemID(), SectionID: silverSection.ID, Name: "temperature log per unit", Required: true}
	silverSection.Items = []*models.Item{s.silverIteratedItem}

	return &models.Template{
		ID:                templateID,
		Name:              "Food Safety Audit",
		IsLevelBased:      true,
		LevelAccumulative: accumulative,
		Levels:            []*models.Level{s.bronze, s.silver},
		Classifications:   []*models.Classification{s.safety, s.hygiene},
		Sections:          []*models.Section{globalSection, bronzeSection, silverSection},
	}
}

func (s *ScoringSuite) newChecklist(fields ...string) *models.Checklist {
	now := time.Now().UTC()
	checklist := &models.Checklist{
		ID:            id.NewChecklistID(),
		TemplateID:    s.template.ID,
		ProducerID:    id.NewProducerID(),
		Status:        models.StatusInProgress,
		Type:          models.TypeOriginal,
		TargetLevelID: s.silver.ID,
		Fields:        fields,
		ScopeAnswers:  models.ScopeAnswers{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.Require().NoError(s.checklists.Create(context.Background(), checklist))
	return checklist
}

func (s *ScoringSuite) approve(checklistID id.ChecklistID, itemID id.ItemID, fieldID string) {
	now := time.Now().UTC()
	s.Require().NoError(s.responses.Upsert(context.Background(), &models.Response{
		ChecklistID: checklistID,
		ItemID:      itemID,
		FieldID:     fieldID,
		Answer:      "yes",
		Status:      models.ResponseApproved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
}

func (s *ScoringSuite) levelProgress(eval *Evaluation, levelID id.LevelID) LevelProgress {
	for _, p := range eval.Levels {
		if p.LevelID == levelID {
			return p
		}
	}
	s.FailNow("level not present in evaluation")
	return LevelProgress{}
}

// =============================================================================
// Constructor and Preconditions
// =============================================================================

func (s *ScoringSuite) TestNew() {
	s.Run("nil template store returns error", func() {
		_, err := New(nil, s.checklists, s.responses)
		s.Error(err)
		s.Contains(err.Error(), "template store is required")
	})

	s.Run("nil checklist store returns error", func() {
		_, err := New(s.templates, nil, s.responses)
		s.Error(err)
	})

	s.Run("nil response store returns error", func() {
		_, err := New(s.templates, s.checklists, nil)
		s.Error(err)
	})
}

func (s *ScoringSuite) TestEvaluate_Preconditions() {
	ctx := context.Background()

	s.Run("unknown checklist returns not found", func() {
		_, err := s.service.Evaluate(ctx, id.NewChecklistID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-level-based template returns not applicable", func() {
		flat := &models.Template{ID: id.NewTemplateID(), Name: "Flat Audit"}
		s.Require().NoError(s.templates.Put(ctx, flat))

		checklist := &models.Checklist{
			ID:         id.NewChecklistID(),
			TemplateID: flat.ID,
			ProducerID: id.NewProducerID(),
			Status:     models.StatusInProgress,
			Type:       models.TypeOriginal,
		}
		s.Require().NoError(s.checklists.Create(ctx, checklist))

		_, err := s.service.Evaluate(ctx, checklist.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotApplicable))
	})
}

// =============================================================================
// Classification Scoring
// =============================================================================

func (s *ScoringSuite) TestEvaluate_EmptyChecklist() {
	ctx := context.Background()
	checklist := s.newChecklist()

	eval, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	s.Nil(eval.AchievedLevelID)
	s.Equal(s.silver.ID, eval.TargetLevelID)
	s.Len(eval.Levels, 2)

	bronze := s.levelProgress(eval, s.bronze.ID)
	s.False(bronze.Achieved)
	s.Contains(bronze.BlockedBy, s.gateItem.Name)

	// Classifications come back sorted by code.
	s.Require().Len(bronze.Classifications, 2)
	s.Equal("HYG", bronze.Classifications[0].Code)
	s.Equal("SAF", bronze.Classifications[1].Code)
	s.Equal(0.0, bronze.Classifications[1].Percentage)
}

func (s *ScoringSuite) TestEvaluate_FullApprovalAchievesTopLevel() {
	ctx := context.Background()
	checklist := s.newChecklist("unit-1", "unit-2")

	s.approve(checklist.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemB.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.silverIteratedItem.ID, "unit-1")
	s.approve(checklist.ID, s.silverIteratedItem.ID, "unit-2")

	eval, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	s.Require().NotNil(eval.AchievedLevelID)
	s.Equal(s.silver.ID, *eval.AchievedLevelID)
	s.True(s.levelProgress(eval, s.bronze.ID).Achieved)
	s.True(s.levelProgress(eval, s.silver.ID).Achieved)
}

// An iterating section owes one approval per dynamic field; approving only
// one of two units leaves the level unachieved.
func (s *ScoringSuite) TestEvaluate_IteratedFieldPartiallyApproved() {
	ctx := context.Background()
	checklist := s.newChecklist("unit-1", "unit-2")

	s.approve(checklist.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemB.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.silverIteratedItem.ID, "unit-1")

	eval, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	silver := s.levelProgress(eval, s.silver.ID)
	s.False(silver.Achieved)
	s.Equal(2, silver.UncategorizedRequired)
	s.Equal(1, silver.UncategorizedApproved)

	s.Require().NotNil(eval.AchievedLevelID)
	s.Equal(s.bronze.ID, *eval.AchievedLevelID)
}

// The hygiene threshold is 50%: one of two approved hygiene items passes the
// classification while safety at 100% still requires every item.
func (s *ScoringSuite) TestEvaluate_PercentageThreshold() {
	ctx := context.Background()
	checklist := s.newChecklist()

	s.approve(checklist.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)
	// bronzeHygieneItemB left unanswered: hygiene at 50% exactly.

	eval, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	bronze := s.levelProgress(eval, s.bronze.ID)
	s.True(bronze.Achieved)

	for _, c := range bronze.Classifications {
		switch c.Code {
		case "HYG":
			s.Equal(50.0, c.Percentage)
			s.True(c.Achieved)
		case "SAF":
			s.Equal(100.0, c.Percentage)
			s.True(c.Achieved)
		}
	}
}

// A level with no items in a classification passes that classification
// vacuously at 100%.
func (s *ScoringSuite) TestEvaluate_VacuousClassificationPass() {
	ctx := context.Background()
	checklist := s.newChecklist()

	s.approve(checklist.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemB.ID, models.FieldGlobal)

	eval, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	// Silver's own scope has no hygiene or safety items beyond the
	// accumulated bronze ones; with everything bronze approved and no silver
	// responses, hygiene and safety stay at 100% but the uncategorized
	// iterated item is absent (no fields), so silver is achieved too.
	silver := s.levelProgress(eval, s.silver.ID)
	s.Equal(0, silver.UncategorizedRequired)
	s.True(silver.Achieved)
}

// =============================================================================
// Gate Items
// =============================================================================

func (s *ScoringSuite) TestEvaluate_GateBlocksItsLevelAndAbove() {
	ctx := context.Background()
	checklist := s.newChecklist()

	// Everything approved except the gate item itself.
	s.approve(checklist.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemB.ID, models.FieldGlobal)

	eval, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	bronze := s.levelProgress(eval, s.bronze.ID)
	silver := s.levelProgress(eval, s.silver.ID)
	s.Contains(bronze.BlockedBy, s.gateItem.Name)
	s.Contains(silver.BlockedBy, s.gateItem.Name)
	s.False(bronze.Achieved)
	s.False(silver.Achieved)
	s.Nil(eval.AchievedLevelID)
}

// =============================================================================
// Conditions
// =============================================================================

func (s *ScoringSuite) TestEvaluate_RemoveConditionExcludesItem() {
	ctx := context.Background()
	s.bronzeHygieneItemB.Conditions = []models.Condition{{
		ScopeFieldID: "has_pests_contract",
		Operator:     models.OperatorEQ,
		Value:        "no",
		Action:       models.ActionRemove,
	}}

	scoped := &models.Checklist{
		ID:            id.NewChecklistID(),
		TemplateID:    s.template.ID,
		ProducerID:    id.NewProducerID(),
		Status:        models.StatusInProgress,
		Type:          models.TypeOriginal,
		TargetLevelID: s.silver.ID,
		ScopeAnswers:  models.ScopeAnswers{"has_pests_contract": "no"},
	}
	s.Require().NoError(s.checklists.Create(ctx, scoped))

	s.approve(scoped.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(scoped.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(scoped.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)

	eval, err := s.service.Evaluate(ctx, scoped.ID)
	s.Require().NoError(err)

	bronze := s.levelProgress(eval, s.bronze.ID)
	// Removed item does not count at all: hygiene is 1/1.
	for _, c := range bronze.Classifications {
		if c.Code == "HYG" {
			s.Equal(1, c.RequiredItems)
			s.Equal(100.0, c.Percentage)
		}
	}
	s.True(bronze.Achieved)
}

func (s *ScoringSuite) TestEvaluate_OptionalConditionExcludesFromRequired() {
	ctx := context.Background()
	s.bronzeHygieneItemB.Conditions = []models.Condition{{
		ScopeFieldID: "employees",
		Operator:     models.OperatorLT,
		Value:        "10",
		Action:       models.ActionOptional,
	}}

	scoped := &models.Checklist{
		ID:            id.NewChecklistID(),
		TemplateID:    s.template.ID,
		ProducerID:    id.NewProducerID(),
		Status:        models.StatusInProgress,
		Type:          models.TypeOriginal,
		TargetLevelID: s.silver.ID,
		ScopeAnswers:  models.ScopeAnswers{"employees": "4"},
	}
	s.Require().NoError(s.checklists.Create(ctx, scoped))

	s.approve(scoped.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(scoped.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(scoped.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)

	eval, err := s.service.Evaluate(ctx, scoped.ID)
	s.Require().NoError(err)

	bronze := s.levelProgress(eval, s.bronze.ID)
	for _, c := range bronze.Classifications {
		if c.Code == "HYG" {
			s.Equal(1, c.RequiredItems, "optional item must not count as required")
		}
	}
	// Optional units still appear in the pass-through totals.
	s.True(bronze.TotalItems > bronze.UncategorizedRequired)
	s.True(bronze.Achieved)
}

// =============================================================================
// Scope Inheritance and Non-Monotonicity
// =============================================================================

func (s *ScoringSuite) TestEvaluate_ChildInheritsParentScope() {
	ctx := context.Background()
	s.bronzeHygieneItemB.Conditions = []models.Condition{{
		ScopeFieldID: "has_pests_contract",
		Operator:     models.OperatorEQ,
		Value:        "no",
		Action:       models.ActionRemove,
	}}

	parent := &models.Checklist{
		ID:            id.NewChecklistID(),
		TemplateID:    s.template.ID,
		ProducerID:    id.NewProducerID(),
		Status:        models.StatusPartiallyFinalized,
		Type:          models.TypeOriginal,
		TargetLevelID: s.silver.ID,
		ScopeAnswers:  models.ScopeAnswers{"has_pests_contract": "no"},
	}
	s.Require().NoError(s.checklists.Create(ctx, parent))

	parentID := parent.ID
	child := &models.Checklist{
		ID:            id.NewChecklistID(),
		TemplateID:    s.template.ID,
		ProducerID:    parent.ProducerID,
		Status:        models.StatusSent,
		Type:          models.TypeCorrection,
		ParentID:      &parentID,
		TargetLevelID: s.silver.ID,
	}
	s.Require().NoError(s.checklists.Create(ctx, child))

	s.approve(child.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(child.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(child.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)

	eval, err := s.service.Evaluate(ctx, child.ID)
	s.Require().NoError(err)

	// The remove condition fires through the inherited scope, so bronze
	// passes without the removed item.
	s.True(s.levelProgress(eval, s.bronze.ID).Achieved)
}

// With a non-accumulative template each level scores its own sections only,
// so a higher level can be achieved while a lower one is not.
func (s *ScoringSuite) TestEvaluate_NonMonotonicAchievement() {
	ctx := context.Background()
	template := s.buildTemplate(false)
	s.Require().NoError(s.templates.Put(ctx, template))

	checklist := &models.Checklist{
		ID:            id.NewChecklistID(),
		TemplateID:    template.ID,
		ProducerID:    id.NewProducerID(),
		Status:        models.StatusInProgress,
		Type:          models.TypeOriginal,
		TargetLevelID: s.silver.ID,
		Fields:        []string{"unit-1"},
	}
	s.Require().NoError(s.checklists.Create(ctx, checklist))

	// Approve the gate and silver's iterated item, leave bronze items alone.
	s.approve(checklist.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.silverIteratedItem.ID, "unit-1")

	eval, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	s.False(s.levelProgress(eval, s.bronze.ID).Achieved)
	s.True(s.levelProgress(eval, s.silver.ID).Achieved)
	s.Require().NotNil(eval.AchievedLevelID)
	s.Equal(s.silver.ID, *eval.AchievedLevelID)
}

// Scoring is a pure function of the template, scope and responses: repeated
// runs over an unchanged response set must produce identical progress,
// including the classification ordering inside each level.
func (s *ScoringSuite) TestEvaluate_RepeatedRunsAreStable() {
	ctx := context.Background()
	checklist := s.newChecklist("unit-1", "unit-2")

	s.approve(checklist.ID, s.gateItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeSafetyItem.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.bronzeHygieneItemA.ID, models.FieldGlobal)
	s.approve(checklist.ID, s.silverIteratedItem.ID, "unit-1")

	first, err := s.service.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)

	for i := 0; i < 5; i++ {
		next, err := s.service.Evaluate(ctx, checklist.ID)
		s.Require().NoError(err)
		s.Equal(first.Levels, next.Levels)
		s.Equal(first.AchievedLevelID, next.AchievedLevelID)
	}
}

// =============================================================================
// Caching
// =============================================================================

type fakeCache struct {
	data map[id.ChecklistID][]byte
	sets int
	gets int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[id.ChecklistID][]byte{}} }

func (c *fakeCache) Get(_ context.Context, checklistID id.ChecklistID) ([]byte, bool, error) {
	c.gets++
	payload, ok := c.data[checklistID]
	return payload, ok, nil
}

func (c *fakeCache) Set(_ context.Context, checklistID id.ChecklistID, payload []byte, _ time.Duration) error {
	c.sets++
	c.data[checklistID] = payload
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, checklistID id.ChecklistID) error {
	delete(c.data, checklistID)
	return nil
}

func (s *ScoringSuite) TestEvaluate_CacheReadThrough() {
	ctx := context.Background()
	cache := newFakeCache()
	svc, err := New(s.templates, s.checklists, s.responses, WithCache(cache, time.Minute))
	s.Require().NoError(err)

	checklist := s.newChecklist()
	s.approve(checklist.ID, s.gateItem.ID, models.FieldGlobal)

	first, err := svc.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)
	s.Equal(1, cache.sets)

	second, err := svc.Evaluate(ctx, checklist.ID)
	s.Require().NoError(err)
	s.Equal(1, cache.sets, "second evaluation must come from cache")
	s.Equal(first.ChecklistID, second.ChecklistID)
	s.Equal(first.TargetLevelID, second.TargetLevelID)
	s.Equal(len(first.Levels), len(second.Levels))
}
