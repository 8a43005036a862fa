//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// service schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new PostgreSQL container and applies the
// schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fieldaudit_test"),
		tcpostgres.WithUsername("fieldaudit"),
		tcpostgres.WithPassword("fieldaudit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Cleanup is owned by the singleton Manager; Ryuk reaps the container.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables truncates the named tables. Use between tests for isolation;
// pass tables in dependency order or rely on CASCADE.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := p.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// schema mirrors what the deployment migrations create. Kept inline so
// integration tests need no external files.
const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id                 UUID PRIMARY KEY,
	name               TEXT NOT NULL,
	is_level_based     BOOLEAN NOT NULL DEFAULT FALSE,
	level_accumulative BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS template_levels (
	id          UUID PRIMARY KEY,
	template_id UUID NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	level_order INTEGER NOT NULL,
	UNIQUE (template_id, level_order)
);

CREATE TABLE IF NOT EXISTS template_classifications (
	id                  UUID PRIMARY KEY,
	template_id         UUID NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
	code                TEXT NOT NULL,
	name                TEXT NOT NULL,
	required_percentage DOUBLE PRECISION NOT NULL DEFAULT 100
);

CREATE TABLE IF NOT EXISTS template_sections (
	id                  UUID PRIMARY KEY,
	template_id         UUID NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
	name                TEXT NOT NULL,
	position            INTEGER NOT NULL,
	level_id            UUID REFERENCES template_levels(id) ON DELETE SET NULL,
	iterate_over_fields BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS template_items (
	id                             UUID PRIMARY KEY,
	section_id                     UUID NOT NULL REFERENCES template_sections(id) ON DELETE CASCADE,
	name                           TEXT NOT NULL,
	position                       INTEGER NOT NULL DEFAULT 0,
	required                       BOOLEAN NOT NULL DEFAULT TRUE,
	classification_id              UUID REFERENCES template_classifications(id) ON DELETE SET NULL,
	blocks_advancement_to_level_id UUID REFERENCES template_levels(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS template_item_conditions (
	item_id        UUID NOT NULL REFERENCES template_items(id) ON DELETE CASCADE,
	scope_field_id TEXT NOT NULL,
	operator       TEXT NOT NULL,
	value          TEXT NOT NULL,
	action         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS checklists (
	id              UUID PRIMARY KEY,
	template_id     UUID NOT NULL REFERENCES templates(id),
	producer_id     UUID NOT NULL,
	status          TEXT NOT NULL,
	type            TEXT NOT NULL,
	parent_id       UUID REFERENCES checklists(id),
	target_level_id UUID,
	fields          TEXT[] NOT NULL DEFAULT '{}',
	scope_answers   JSONB NOT NULL DEFAULT '{}',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checklists_parent ON checklists(parent_id) WHERE parent_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS responses (
	checklist_id     UUID NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
	item_id          UUID NOT NULL,
	field_id         TEXT NOT NULL,
	answer           TEXT NOT NULL DEFAULT '',
	quantity         DOUBLE PRECISION,
	observation      TEXT NOT NULL DEFAULT '',
	file_ref         TEXT NOT NULL DEFAULT '',
	valid_until      TIMESTAMPTZ,
	status           TEXT NOT NULL,
	rejection_reason TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (checklist_id, item_id, field_id)
);

CREATE TABLE IF NOT EXISTS finalize_reports (
	id           UUID PRIMARY KEY,
	checklist_id UUID NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
	responses    JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
	id                    UUID PRIMARY KEY,
	checklist_id          UUID NOT NULL,
	action                TEXT NOT NULL,
	actor_id              TEXT NOT NULL DEFAULT '',
	child_ids             TEXT[] NOT NULL DEFAULT '{}',
	escalated_to_level_id TEXT,
	reason                TEXT NOT NULL DEFAULT '',
	request_id            TEXT NOT NULL DEFAULT '',
	occurred_at           TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_events_checklist ON audit_events(checklist_id);
`
