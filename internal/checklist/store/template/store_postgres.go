package template

import (
	"context"
	"database/sql"
	"fmt"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/sentinel"
	"fieldaudit/pkg/platform/tx"
)

// PostgresStore reads templates from PostgreSQL. A template is assembled from
// five tables in one pass each; this store is pure I/O.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed template store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, templateID id.TemplateID) (*models.Template, error) {
	q := tx.Resolve(ctx, s.db)

	template := &models.Template{ID: templateID}
	err := q.QueryRowContext(ctx, `
		SELECT name, is_level_based, level_accumulative
		FROM templates
		WHERE id = $1
	`, templateID.String()).Scan(&template.Name, &template.IsLevelBased, &template.LevelAccumulative)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("template not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	if err := s.loadLevels(ctx, q, template); err != nil {
		return nil, err
	}
	if err := s.loadClassifications(ctx, q, template); err != nil {
		return nil, err
	}
	if err := s.loadSections(ctx, q, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *PostgresStore) loadLevels(ctx context.Context, q tx.Querier, template *models.Template) error {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, level_order
		FROM template_levels
		WHERE template_id = $1
		ORDER BY level_order
	`, template.ID.String())
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		level := &models.Level{TemplateID: template.ID}
		var levelID string
		if err := rows.Scan(&levelID, &level.Name, &level.Order); err != nil {
			return fmt.Errorf("scan level: %w", err)
		}
		if level.ID, err = id.ParseLevelID(levelID); err != nil {
			return fmt.Errorf("scan level id: %w", err)
		}
		template.Levels = append(template.Levels, level)
	}
	return rows.Err()
}

func (s *PostgresStore) loadClassifications(ctx context.Context, q tx.Querier, template *models.Template) error {
	rows, err := q.QueryContext(ctx, `
		SELECT id, code, name, required_percentage
		FROM template_classifications
		WHERE template_id = $1
		ORDER BY code
	`, template.ID.String())
	if err != nil {
		return fmt.Errorf("load classifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c := &models.Classification{TemplateID: template.ID}
		var classificationID string
		if err := rows.Scan(&classificationID, &c.Code, &c.Name, &c.RequiredPercentage); err != nil {
			return fmt.Errorf("scan classification: %w", err)
		}
		if c.ID, err = id.ParseClassificationID(classificationID); err != nil {
			return fmt.Errorf("scan classification id: %w", err)
		}
		template.Classifications = append(template.Classifications, c)
	}
	return rows.Err()
}

func (s *PostgresStore) loadSections(ctx context.Context, q tx.Querier, template *models.Template) error {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, position, level_id, iterate_over_fields
		FROM template_sections
		WHERE template_id = $1
		ORDER BY position
	`, template.ID.String())
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	byID := make(map[id.SectionID]*models.Section)
	for rows.Next() {
		section := &models.Section{TemplateID: template.ID}
		var sectionID string
		var levelID sql.NullString
		if err := rows.Scan(&sectionID, &section.Name, &section.Position, &levelID, &section.IterateOverFields); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		if section.ID, err = id.ParseSectionID(sectionID); err != nil {
			return fmt.Errorf("scan section id: %w", err)
		}
		if levelID.Valid {
			if section.LevelID, err = id.ParseLevelID(levelID.String); err != nil {
				return fmt.Errorf("scan section level id: %w", err)
			}
		}
		template.Sections = append(template.Sections, section)
		byID[section.ID] = section
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return s.loadItems(ctx, q, template, byID)
}

func (s *PostgresStore) loadItems(ctx context.Context, q tx.Querier, template *models.Template, sections map[id.SectionID]*models.Section) error {
	rows, err := q.QueryContext(ctx, `
		SELECT i.id, i.section_id, i.name, i.required, i.classification_id, i.blocks_advancement_to_level_id
		FROM template_items i
		JOIN template_sections s ON s.id = i.section_id
		WHERE s.template_id = $1
		ORDER BY s.position, i.position
	`, template.ID.String())
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	byID := make(map[id.ItemID]*models.Item)
	for rows.Next() {
		item := &models.Item{}
		var itemID, sectionID string
		var classificationID, gatedLevelID sql.NullString
		if err := rows.Scan(&itemID, &sectionID, &item.Name, &item.Required, &classificationID, &gatedLevelID); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		if item.ID, err = id.ParseItemID(itemID); err != nil {
			return fmt.Errorf("scan item id: %w", err)
		}
		if item.SectionID, err = id.ParseSectionID(sectionID); err != nil {
			return fmt.Errorf("scan item section id: %w", err)
		}
		if classificationID.Valid {
			if item.ClassificationID, err = id.ParseClassificationID(classificationID.String); err != nil {
				return fmt.Errorf("scan item classification id: %w", err)
			}
		}
		if gatedLevelID.Valid {
			if item.BlocksAdvancementToLevelID, err = id.ParseLevelID(gatedLevelID.String); err != nil {
				return fmt.Errorf("scan item gated level id: %w", err)
			}
		}
		section, ok := sections[item.SectionID]
		if !ok {
			return fmt.Errorf("item %s references unknown section %s", item.ID, item.SectionID)
		}
		section.Items = append(section.Items, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return s.loadConditions(ctx, q, template, byID)
}

func (s *PostgresStore) loadConditions(ctx context.Context, q tx.Querier, template *models.Template, items map[id.ItemID]*models.Item) error {
	rows, err := q.QueryContext(ctx, `
		SELECT c.item_id, c.scope_field_id, c.operator, c.value, c.action
		FROM template_item_conditions c
		JOIN template_items i ON i.id = c.item_id
		JOIN template_sections s ON s.id = i.section_id
		WHERE s.template_id = $1
	`, template.ID.String())
	if err != nil {
		return fmt.Errorf("load conditions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemIDRaw string
		var cond models.Condition
		if err := rows.Scan(&itemIDRaw, &cond.ScopeFieldID, &cond.Operator, &cond.Value, &cond.Action); err != nil {
			return fmt.Errorf("scan condition: %w", err)
		}
		itemID, err := id.ParseItemID(itemIDRaw)
		if err != nil {
			return fmt.Errorf("scan condition item id: %w", err)
		}
		item, ok := items[itemID]
		if !ok {
			return fmt.Errorf("condition references unknown item %s", itemID)
		}
		item.Conditions = append(item.Conditions, cond)
	}
	return rows.Err()
}
