//go:build integration

package template

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/sentinel"
	"fieldaudit/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "templates"))
}

func (s *PostgresSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), id.NewTemplateID())
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

// TestGetAssemblesTemplate seeds all five tables and checks the store puts
// the template back together: levels by order, classifications by code,
// sections by position with their items and conditions attached.
func (s *PostgresSuite) TestGetAssemblesTemplate() {
	ctx := context.Background()
	db := s.pg.DB

	templateID := id.NewTemplateID()
	_, err := db.ExecContext(ctx, `
		INSERT INTO templates (id, name, is_level_based, level_accumulative)
		VALUES ($1, 'Food Safety Audit', TRUE, TRUE)
	`, templateID.String())
	s.Require().NoError(err)

	bronzeID, silverID := id.NewLevelID(), id.NewLevelID()
	_, err = db.ExecContext(ctx, `
		INSERT INTO template_levels (id, template_id, name, level_order) VALUES
		($1, $3, 'Silver', 2),
		($2, $3, 'Bronze', 1)
	`, silverID.String(), bronzeID.String(), templateID.String())
	s.Require().NoError(err)

	safetyID := id.NewClassificationID()
	_, err = db.ExecContext(ctx, `
		INSERT INTO template_classifications (id, template_id, code, name, required_percentage)
		VALUES ($1, $2, 'SAF', 'Safety', 100)
	`, safetyID.String(), templateID.String())
	s.Require().NoError(err)

	globalSectionID, bronzeSectionID := id.NewSectionID(), id.NewSectionID()
	_, err = db.ExecContext(ctx, `
		INSERT INTO template_sections (id, template_id, name, position, level_id, iterate_over_fields) VALUES
		($1, $3, 'General', 1, NULL, FALSE),
		($2, $3, 'Facilities', 2, $4, TRUE)
	`, globalSectionID.String(), bronzeSectionID.String(), templateID.String(), bronzeID.String())
	s.Require().NoError(err)

	gateItemID, facilityItemID := id.NewItemID(), id.NewItemID()
	_, err = db.ExecContext(ctx, `
		INSERT INTO template_items (id, section_id, name, position, required, classification_id, blocks_advancement_to_level_id) VALUES
		($1, $3, 'operating license', 1, TRUE, $5, $6),
		($2, $4, 'fire exits clear', 1, TRUE, NULL, NULL)
	`, gateItemID.String(), facilityItemID.String(), globalSectionID.String(), bronzeSectionID.String(), safetyID.String(), bronzeID.String())
	s.Require().NoError(err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO template_item_conditions (item_id, scope_field_id, operator, value, action)
		VALUES ($1, 'employees', 'lt', '10', 'optional')
	`, facilityItemID.String())
	s.Require().NoError(err)

	template, err := s.store.Get(ctx, templateID)
	s.Require().NoError(err)

	s.Equal("Food Safety Audit", template.Name)
	s.True(template.IsLevelBased)
	s.True(template.LevelAccumulative)

	s.Require().Len(template.Levels, 2)
	s.Equal("Bronze", template.Levels[0].Name, "levels ordered by level_order")
	s.Equal(1, template.Levels[0].Order)
	s.Equal("Silver", template.Levels[1].Name)

	s.Require().Len(template.Classifications, 1)
	s.Equal("SAF", template.Classifications[0].Code)
	s.Equal(100.0, template.Classifications[0].RequiredPercentage)

	s.Require().Len(template.Sections, 2)
	general := template.Sections[0]
	s.Equal("General", general.Name)
	s.True(general.IsGlobal())
	s.Require().Len(general.Items, 1)
	s.Equal(gateItemID, general.Items[0].ID)
	s.Equal(safetyID, general.Items[0].ClassificationID)
	s.Equal(bronzeID, general.Items[0].BlocksAdvancementToLevelID)

	facilities := template.Sections[1]
	s.Equal(bronzeID, facilities.LevelID)
	s.True(facilities.IterateOverFields)
	s.Require().Len(facilities.Items, 1)
	s.Require().Len(facilities.Items[0].Conditions, 1)
	cond := facilities.Items[0].Conditions[0]
	s.Equal("employees", cond.ScopeFieldID)
	s.Equal(models.OperatorLT, cond.Operator)
	s.Equal("10", cond.Value)
	s.Equal(models.ActionOptional, cond.Action)
}
