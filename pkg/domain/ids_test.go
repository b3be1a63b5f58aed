package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pandora/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	t.Run("valid UUID", func(t *testing.T) {
		raw := uuid.New().String()
		id, err := ParseUserID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("nil UUID parses, IsNil reports it", func(t *testing.T) {
		id, err := ParseUserID(uuid.Nil.String())
		require.NoError(t, err)
		assert.True(t, id.IsNil())
	})
}

func TestParseShareID(t *testing.T) {
	raw := uuid.New().String()
	id, err := ParseShareID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, id.String())
	assert.False(t, id.IsNil())
}

func TestNewIDsAreDistinct(t *testing.T) {
	assert.NotEqual(t, NewShareID(), NewShareID())
	assert.NotEqual(t, NewOverrideID(), NewOverrideID())
}
