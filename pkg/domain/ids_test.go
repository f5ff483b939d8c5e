package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "wardflow/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant: ids must be valid,
// non-empty, non-nil UUIDs.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePatientID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseWardID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseBedID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseTaskID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, TaskID(valid), id)
	})
}

func TestIDTextRoundTrip(t *testing.T) {
	id := PatientID(uuid.New())
	text, err := id.MarshalText()
	require.NoError(t, err)

	var back PatientID
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)
}
