package response

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldaudit/internal/checklist/models"
	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

func newResponse(checklistID id.ChecklistID, fieldID string) *models.Response {
	now := time.Now().UTC()
	return &models.Response{
		ChecklistID: checklistID,
		ItemID:      id.NewItemID(),
		FieldID:     fieldID,
		Answer:      "yes",
		Status:      models.ResponsePendingVerification,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestInMemoryStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := New()
	checklistID := id.NewChecklistID()
	response := newResponse(checklistID, models.FieldGlobal)

	require.NoError(t, store.Upsert(ctx, response))

	got, err := store.Get(ctx, response.Key())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "yes", got.Answer)

	// Upsert replaces in place under the same key.
	response.Answer = "no"
	response.Status = models.ResponseRejected
	require.NoError(t, store.Upsert(ctx, response))

	got, err = store.Get(ctx, response.Key())
	require.NoError(t, err)
	assert.Equal(t, "no", got.Answer)
	assert.Equal(t, models.ResponseRejected, got.Status)
}

func TestInMemoryStore_GetAbsentIsNil(t *testing.T) {
	store := New()
	got, err := store.Get(context.Background(), models.ResponseKey{
		ChecklistID: id.NewChecklistID(),
		ItemID:      id.NewItemID(),
		FieldID:     models.FieldGlobal,
	})
	require.NoError(t, err)
	assert.Nil(t, got, "absence is not an error for responses")
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := New()
	response := newResponse(id.NewChecklistID(), models.FieldGlobal)
	require.NoError(t, store.Upsert(ctx, response))

	got, err := store.Get(ctx, response.Key())
	require.NoError(t, err)
	got.Answer = "mutated"

	again, err := store.Get(ctx, response.Key())
	require.NoError(t, err)
	assert.Equal(t, "yes", again.Answer)
}

func TestInMemoryStore_ListByChecklist(t *testing.T) {
	ctx := context.Background()
	store := New()
	checklistID := id.NewChecklistID()

	require.NoError(t, store.Upsert(ctx, newResponse(checklistID, "unit-2")))
	require.NoError(t, store.Upsert(ctx, newResponse(checklistID, "unit-1")))
	require.NoError(t, store.Upsert(ctx, newResponse(id.NewChecklistID(), models.FieldGlobal)))

	listed, err := store.ListByChecklist(ctx, checklistID)
	require.NoError(t, err)
	require.Len(t, listed, 2, "other checklists' responses filtered out")

	// Deterministic order: item id, then field id.
	for i := 1; i < len(listed); i++ {
		prev, cur := listed[i-1], listed[i]
		if prev.ItemID.String() == cur.ItemID.String() {
			assert.LessOrEqual(t, prev.FieldID, cur.FieldID)
		} else {
			assert.Less(t, prev.ItemID.String(), cur.ItemID.String())
		}
	}
}

func TestInMemoryStore_RunInTx(t *testing.T) {
	ctx := context.Background()
	store := New()

	t.Run("runs the function", func(t *testing.T) {
		ran := false
		require.NoError(t, store.RunInTx(ctx, func(ctx context.Context) error {
			ran = true
			return nil
		}))
		assert.True(t, ran)
	})

	t.Run("propagates the function's error", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := store.RunInTx(ctx, func(ctx context.Context) error { return sentinel })
		assert.True(t, errors.Is(err, sentinel))
	})

	t.Run("rejects a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := store.RunInTx(cancelled, func(ctx context.Context) error { return nil })
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}
