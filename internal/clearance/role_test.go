package clearance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "pandora/pkg/domain"
)

func TestParseRoleUnified(t *testing.T) {
	cases := map[string]Role{
		"admin":  RoleAdmin,
		"ADMIN":  RoleAdmin,
		"member": RoleMember,
		"MEMBER": RoleMember,
		"viewer": RoleViewer,
		"VIEWER": RoleViewer,
		// Legacy provisioning spellings map into the unified set.
		"MANAGER": RoleMember,
		"USER":    RoleViewer,
	}
	for raw, want := range cases {
		got, err := ParseRole(raw)
		require.NoErrorf(t, err, "ParseRole(%q)", raw)
		assert.Equal(t, want, got)
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "root", "superuser", "Admin "} {
		_, err := ParseRole(raw)
		assert.Errorf(t, err, "ParseRole(%q) should fail", raw)
	}
}

func testContext(role Role, level Level) Context {
	return Context{
		UserID:    id.UserID(uuid.New()),
		OrgID:     id.OrgID(uuid.New()),
		Role:      role,
		Clearance: level,
	}
}

func TestHasRoleStrictEquality(t *testing.T) {
	ctx := testContext(RoleAdmin, Secret)
	assert.True(t, ctx.HasRole(RoleAdmin))
	assert.False(t, ctx.HasRole(RoleMember))
	assert.False(t, ctx.HasRole(RoleViewer))
}

func TestCanAdministerDualGate(t *testing.T) {
	t.Run("admin role with unclassified clearance is refused", func(t *testing.T) {
		assert.False(t, testContext(RoleAdmin, Unclassified).CanAdminister())
	})

	t.Run("member role with top secret clearance is refused", func(t *testing.T) {
		assert.False(t, testContext(RoleMember, TopSecret).CanAdminister())
	})

	t.Run("admin role with confidential clearance passes", func(t *testing.T) {
		assert.True(t, testContext(RoleAdmin, Confidential).CanAdminister())
	})

	t.Run("admin role with top secret clearance passes", func(t *testing.T) {
		assert.True(t, testContext(RoleAdmin, TopSecret).CanAdminister())
	})
}

func TestContextValid(t *testing.T) {
	assert.True(t, testContext(RoleViewer, Unclassified).Valid())

	missingUser := testContext(RoleViewer, Unclassified)
	missingUser.UserID = id.UserID{}
	assert.False(t, missingUser.Valid())

	badRole := testContext(RoleViewer, Unclassified)
	badRole.Role = Role("root")
	assert.False(t, badRole.Valid())

	badLevel := testContext(RoleViewer, Unclassified)
	badLevel.Clearance = Level(99)
	assert.False(t, badLevel.Valid())
}
