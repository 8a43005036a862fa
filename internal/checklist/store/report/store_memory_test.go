package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	"fieldaudit/pkg/platform/sentinel"
)

func newReport(checklistID id.ChecklistID, createdAt time.Time) *models.FinalizeReport {
	return &models.FinalizeReport{
		ID:          id.NewReportID(),
		ChecklistID: checklistID,
		CreatedAt:   createdAt,
		Responses: []models.Response{
			{ChecklistID: checklistID, ItemID: id.NewItemID(), FieldID: models.FieldGlobal, Answer: "yes", Status: models.ResponseApproved},
		},
	}
}

func TestInMemoryStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := New()
	checklistID := id.NewChecklistID()
	now := time.Now().UTC()

	second := newReport(checklistID, now)
	first := newReport(checklistID, now.Add(-time.Hour))
	require.NoError(t, store.Append(ctx, second))
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, newReport(id.NewChecklistID(), now)))

	listed, err := store.ListByChecklist(ctx, checklistID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID, "reports ordered oldest first")
	assert.Equal(t, second.ID, listed[1].ID)
}

func TestInMemoryStore_AppendDuplicate(t *testing.T) {
	ctx := context.Background()
	store := New()
	report := newReport(id.NewChecklistID(), time.Now().UTC())

	require.NoError(t, store.Append(ctx, report))
	err := store.Append(ctx, report)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrConflict))
}

func TestInMemoryStore_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := New()
	checklistID := id.NewChecklistID()
	report := newReport(checklistID, time.Now().UTC())
	require.NoError(t, store.Append(ctx, report))

	// Mutating the caller's slice after Append must not change the snapshot.
	report.Responses[0].Answer = "tampered"

	listed, err := store.ListByChecklist(ctx, checklistID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "yes", listed[0].Responses[0].Answer)
}
