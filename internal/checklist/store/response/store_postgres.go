package response

import (
	"context"
	"database/sql"
	"fmt"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/tx"
)

// PostgresStore persists responses in PostgreSQL with an upsert on the
// (checklist_id, item_id, field_id) primary key.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed response store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const responseColumns = `checklist_id, item_id, field_id, answer, quantity, observation, file_ref, valid_until, status, rejection_reason, created_at, updated_at`

// Get returns nil, nil when no response exists for the key.
func (s *PostgresStore) Get(ctx context.Context, key models.ResponseKey) (*models.Response, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+responseColumns+`
		FROM responses
		WHERE checklist_id = $1 AND item_id = $2 AND field_id = $3
	`, key.ChecklistID.String(), key.ItemID.String(), key.FieldID)
	response, err := scanResponse(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get response: %w", err)
	}
	return response, nil
}

func (s *PostgresStore) ListByChecklist(ctx context.Context, checklistID id.ChecklistID) ([]*models.Response, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+responseColumns+`
		FROM responses
		WHERE checklist_id = $1
		ORDER BY item_id, field_id
	`, checklistID.String())
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []*models.Response
	for rows.Next() {
		response, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		out = append(out, response)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Upsert(ctx context.Context, response *models.Response) error {
	if response == nil {
		return fmt.Errorf("response is required")
	}
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO responses (`+responseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (checklist_id, item_id, field_id) DO UPDATE SET
			answer = EXCLUDED.answer,
			quantity = EXCLUDED.quantity,
			observation = EXCLUDED.observation,
			file_ref = EXCLUDED.file_ref,
			valid_until = EXCLUDED.valid_until,
			status = EXCLUDED.status,
			rejection_reason = EXCLUDED.rejection_reason,
			updated_at = EXCLUDED.updated_at
	`,
		response.ChecklistID.String(),
		response.ItemID.String(),
		response.FieldID,
		response.Answer,
		response.Quantity,
		response.Observation,
		response.FileRef,
		response.ValidUntil,
		string(response.Status),
		response.RejectionReason,
		response.CreatedAt,
		response.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

// RunInTx wraps fn in a database transaction shared through the context, so
// checklist and report writes made inside fn join the same transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.Run(ctx, s.db, fn)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResponse(row rowScanner) (*models.Response, error) {
	r := &models.Response{}
	var checklistID, itemID string
	var quantity sql.NullFloat64
	var validUntil sql.NullTime
	err := row.Scan(
		&checklistID,
		&itemID,
		&r.FieldID,
		&r.Answer,
		&quantity,
		&r.Observation,
		&r.FileRef,
		&validUntil,
		&r.Status,
		&r.RejectionReason,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.ChecklistID, err = id.ParseChecklistID(checklistID); err != nil {
		return nil, err
	}
	if r.ItemID, err = id.ParseItemID(itemID); err != nil {
		return nil, err
	}
	if quantity.Valid {
		r.Quantity = &quantity.Float64
	}
	if validUntil.Valid {
		t := validUntil.Time
		r.ValidUntil = &t
	}
	return r, nil
}
