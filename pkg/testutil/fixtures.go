package testutil

import (
	"github.com/google/uuid"

	id "pandora/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	UserID1     id.UserID
	UserID2     id.UserID
	OrgID1      id.OrgID
	OrgID2      id.OrgID
	FileID1     id.FileID
	FileID2     id.FileID
	ResourceID1 id.ResourceID
	ResourceID2 id.ResourceID
	ShareID1    id.ShareID
	OverrideID1 id.OverrideID
}{
	UserID1:     id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:     id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	OrgID1:      id.OrgID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	OrgID2:      id.OrgID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
	FileID1:     id.FileID(uuid.MustParse("ffff0000-0000-0000-0000-000000000001")),
	FileID2:     id.FileID(uuid.MustParse("ffff0000-0000-0000-0000-000000000002")),
	ResourceID1: id.ResourceID(uuid.MustParse("dddd0000-0000-0000-0000-000000000001")),
	ResourceID2: id.ResourceID(uuid.MustParse("dddd0000-0000-0000-0000-000000000002")),
	ShareID1:    id.ShareID(uuid.MustParse("eeee0000-0000-0000-0000-000000000001")),
	OverrideID1: id.OverrideID(uuid.MustParse("bbbb0000-0000-0000-0000-000000000001")),
}
