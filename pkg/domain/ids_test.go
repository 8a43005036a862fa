package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fieldaudit/pkg/domain-errors"
)

func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseChecklistID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseItemID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseTemplateID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		checklistID, err := ParseChecklistID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, valid.String(), checklistID.String())
	})
}

func TestID_JSONRoundTrip(t *testing.T) {
	checklistID := NewChecklistID()

	encoded, err := json.Marshal(checklistID)
	require.NoError(t, err)
	assert.Equal(t, `"`+checklistID.String()+`"`, string(encoded), "IDs marshal as canonical UUID strings")

	var decoded ChecklistID
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, checklistID, decoded)
}

// LevelID and ClassificationID use the nil UUID as "unset": a global section
// has no level, an item may be uncategorized. Their decoders must accept it
// even though the Parse functions reject it.
func TestID_NilUUIDDecoding(t *testing.T) {
	nilJSON := []byte(`"` + uuid.Nil.String() + `"`)

	var levelID LevelID
	require.NoError(t, json.Unmarshal(nilJSON, &levelID))
	assert.True(t, levelID.IsNil())

	var classificationID ClassificationID
	require.NoError(t, json.Unmarshal(nilJSON, &classificationID))
	assert.True(t, classificationID.IsNil())

	var checklistID ChecklistID
	assert.Error(t, json.Unmarshal(nilJSON, &checklistID), "regular IDs still reject the nil UUID")
}

func TestID_TypedDistinctness(t *testing.T) {
	// Same underlying UUID, different types: the compiler keeps them apart,
	// this just pins the string representations to match.
	raw := uuid.New().String()
	checklistID, err := ParseChecklistID(raw)
	require.NoError(t, err)
	itemID, err := ParseItemID(raw)
	require.NoError(t, err)
	assert.Equal(t, checklistID.String(), itemID.String())
}
