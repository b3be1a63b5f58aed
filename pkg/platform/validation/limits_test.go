package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pandora/pkg/domain-errors"
)

func TestCheckStringLength(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		assert.NoError(t, CheckStringLength("action", "read", MaxActionLength))
	})

	t.Run("at limit", func(t *testing.T) {
		assert.NoError(t, CheckStringLength("action", strings.Repeat("a", MaxActionLength), MaxActionLength))
	})

	t.Run("over limit", func(t *testing.T) {
		err := CheckStringLength("invite_secret", strings.Repeat("x", MaxInviteSecretLength+1), MaxInviteSecretLength)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "invite_secret")
	})
}

func TestCheckRequired(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		assert.NoError(t, CheckRequired("resource_id", "doc-1"))
	})

	t.Run("missing", func(t *testing.T) {
		err := CheckRequired("resource_id", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "resource_id is required")
	})
}
