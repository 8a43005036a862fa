package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "fieldaudit/pkg/domain"
	audit "fieldaudit/pkg/platform/audit"
	txcontext "fieldaudit/pkg/platform/tx"
)

// Store persists audit events in PostgreSQL. Rows are append-only; there is
// deliberately no update or delete path.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes an audit event. When the context carries a transaction the
// write joins it so lifecycle actions and their audit trail commit together.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
		INSERT INTO audit_events (id, checklist_id, action, actor_id, child_ids, escalated_to_level_id, reason, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := txcontext.Resolve(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		uuid.UUID(event.ChecklistID),
		event.Action,
		event.ActorID,
		pq.Array(event.ChildIDs),
		nullable(event.EscalatedToLevelID),
		event.Reason,
		event.RequestID,
		ts,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByChecklist(ctx context.Context, checklistID id.ChecklistID) ([]audit.Event, error) {
	query := `
		SELECT checklist_id, action, actor_id, child_ids, escalated_to_level_id, reason, request_id, occurred_at
		FROM audit_events
		WHERE checklist_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := txcontext.Resolve(ctx, s.db).QueryContext(ctx, query, uuid.UUID(checklistID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event       audit.Event
			checklistID uuid.UUID
			childIDs    pq.StringArray
			escalated   sql.NullString
		)
		if err := rows.Scan(&checklistID, &event.Action, &event.ActorID, &childIDs, &escalated, &event.Reason, &event.RequestID, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ChecklistID = id.ChecklistID(checklistID)
		event.ChildIDs = childIDs
		if escalated.Valid {
			event.EscalatedToLevelID = escalated.String
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
