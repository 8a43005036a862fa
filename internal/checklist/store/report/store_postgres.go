package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/tx"
)

// PostgresStore persists finalize reports in PostgreSQL. The response
// snapshot is stored as one jsonb document: reports are read back whole and
// never queried by individual response.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed report store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, report *models.FinalizeReport) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}
	snapshot, err := json.Marshal(report.Responses)
	if err != nil {
		return fmt.Errorf("marshal report snapshot: %w", err)
	}
	q := tx.Resolve(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO finalize_reports (id, checklist_id, responses, created_at)
		VALUES ($1, $2, $3, $4)
	`, report.ID.String(), report.ChecklistID.String(), snapshot, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("append finalize report: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByChecklist(ctx context.Context, checklistID id.ChecklistID) ([]*models.FinalizeReport, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, checklist_id, responses, created_at
		FROM finalize_reports
		WHERE checklist_id = $1
		ORDER BY created_at
	`, checklistID.String())
	if err != nil {
		return nil, fmt.Errorf("list finalize reports: %w", err)
	}
	defer rows.Close()

	var out []*models.FinalizeReport
	for rows.Next() {
		report := &models.FinalizeReport{}
		var reportID, rawChecklistID string
		var snapshot []byte
		if err := rows.Scan(&reportID, &rawChecklistID, &snapshot, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan finalize report: %w", err)
		}
		if report.ID, err = id.ParseReportID(reportID); err != nil {
			return nil, err
		}
		if report.ChecklistID, err = id.ParseChecklistID(rawChecklistID); err != nil {
			return nil, err
		}
		if len(snapshot) > 0 {
			if err := json.Unmarshal(snapshot, &report.Responses); err != nil {
				return nil, fmt.Errorf("unmarshal report snapshot: %w", err)
			}
		}
		out = append(out, report)
	}
	return out, rows.Err()
}
