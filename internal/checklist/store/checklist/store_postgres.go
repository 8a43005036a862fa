package checklist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/sentinel"
	"fieldaudit/pkg/platform/tx"
)

// PostgresStore persists checklists in PostgreSQL. Dynamic fields live in a
// text[] column, scope answers in jsonb.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed checklist store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const checklistColumns = `id, template_id, producer_id, status, type, parent_id, target_level_id, fields, scope_answers, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, checklistID id.ChecklistID) (*models.Checklist, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+checklistColumns+`
		FROM checklists
		WHERE id = $1
	`, checklistID.String())
	checklist, err := scanChecklist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("checklist not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get checklist: %w", err)
	}
	return checklist, nil
}

func (s *PostgresStore) Create(ctx context.Context, checklist *models.Checklist) error {
	if checklist == nil {
		return fmt.Errorf("checklist is required")
	}
	scopeAnswers, err := json.Marshal(checklist.ScopeAnswers)
	if err != nil {
		return fmt.Errorf("marshal scope answers: %w", err)
	}
	var parentID, targetLevelID *string
	if checklist.ParentID != nil {
		v := checklist.ParentID.String()
		parentID = &v
	}
	if !checklist.TargetLevelID.IsNil() {
		v := checklist.TargetLevelID.String()
		targetLevelID = &v
	}

	q := tx.Resolve(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO checklists (`+checklistColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		checklist.ID.String(),
		checklist.TemplateID.String(),
		checklist.ProducerID.String(),
		string(checklist.Status),
		string(checklist.Type),
		parentID,
		targetLevelID,
		pq.Array(checklist.Fields),
		scopeAnswers,
		checklist.CreatedAt,
		checklist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create checklist: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, checklistID id.ChecklistID, status models.ChecklistStatus) error {
	q := tx.Resolve(ctx, s.db)
	result, err := q.ExecContext(ctx, `
		UPDATE checklists SET status = $2, updated_at = $3 WHERE id = $1
	`, checklistID.String(), string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update checklist status: %w", err)
	}
	return requireRow(result, "checklist")
}

func (s *PostgresStore) UpdateTargetLevel(ctx context.Context, checklistID id.ChecklistID, levelID id.LevelID) error {
	q := tx.Resolve(ctx, s.db)
	result, err := q.ExecContext(ctx, `
		UPDATE checklists SET target_level_id = $2, updated_at = $3 WHERE id = $1
	`, checklistID.String(), levelID.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update checklist target level: %w", err)
	}
	return requireRow(result, "checklist")
}

func (s *PostgresStore) ListChildren(ctx context.Context, parentID id.ChecklistID) ([]*models.Checklist, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+checklistColumns+`
		FROM checklists
		WHERE parent_id = $1
		ORDER BY created_at
	`, parentID.String())
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []*models.Checklist
	for rows.Next() {
		checklist, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child checklist: %w", err)
		}
		out = append(out, checklist)
	}
	return out, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChecklist(row rowScanner) (*models.Checklist, error) {
	c := &models.Checklist{}
	var checklistID, templateID, producerID string
	var parentID, targetLevelID sql.NullString
	var scopeAnswers []byte
	err := row.Scan(
		&checklistID,
		&templateID,
		&producerID,
		&c.Status,
		&c.Type,
		&parentID,
		&targetLevelID,
		pq.Array(&c.Fields),
		&scopeAnswers,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.ID, err = id.ParseChecklistID(checklistID); err != nil {
		return nil, err
	}
	if c.TemplateID, err = id.ParseTemplateID(templateID); err != nil {
		return nil, err
	}
	if c.ProducerID, err = id.ParseProducerID(producerID); err != nil {
		return nil, err
	}
	if parentID.Valid {
		parsed, err := id.ParseChecklistID(parentID.String)
		if err != nil {
			return nil, err
		}
		c.ParentID = &parsed
	}
	if targetLevelID.Valid {
		if c.TargetLevelID, err = id.ParseLevelID(targetLevelID.String); err != nil {
			return nil, err
		}
	}
	if len(scopeAnswers) > 0 {
		if err := json.Unmarshal(scopeAnswers, &c.ScopeAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal scope answers: %w", err)
		}
	}
	return c, nil
}

func requireRow(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s not found: %w", entity, sentinel.ErrNotFound)
	}
	return nil
}
