package override

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pandora/internal/clearance"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/audit"
	"pandora/pkg/platform/middleware/requesttime"
)

type capturingAuditor struct {
	events []audit.Event
}

func (c *capturingAuditor) Emit(_ context.Context, event audit.Event) error {
	c.events = append(c.events, event)
	return nil
}

type ServiceSuite struct {
	suite.Suite
	service *Service
	store   *InMemoryStore
	auditor *capturingAuditor
	admin   clearance.Context
	member  clearance.Context
	now     time.Time
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.auditor = &capturingAuditor{}
	s.service = New(s.store, s.auditor)
	s.now = time.Now().Add(time.Minute).Truncate(time.Second)
	s.ctx = requesttime.WithTime(context.Background(), s.now)

	s.admin = clearance.Context{
		UserID:    id.UserID(uuid.New()),
		OrgID:     id.OrgID(uuid.New()),
		Role:      clearance.RoleAdmin,
		Clearance: clearance.Secret,
	}
	s.member = clearance.Context{
		UserID:    id.UserID(uuid.New()),
		OrgID:     s.admin.OrgID,
		Role:      clearance.RoleMember,
		Clearance: clearance.TopSecret,
	}
}

func (s *ServiceSuite) grantRequest() GrantRequest {
	return GrantRequest{
		UserID:       id.UserID(uuid.New()),
		ResourceID:   id.ResourceID(uuid.New()),
		ResourceType: ResourceFile,
		Permission:   PermissionRead,
		Effect:       EffectAllow,
	}
}

func (s *ServiceSuite) TestGrant() {
	req := s.grantRequest()
	o, err := s.service.Grant(s.ctx, s.admin, req)
	s.Require().NoError(err)

	s.False(o.ID.IsNil())
	s.Equal(s.admin.UserID, o.GrantedBy)
	s.Equal(s.now, o.CreatedAt)

	stored, err := s.store.FindActive(s.ctx, req.UserID, req.ResourceID, s.now)
	s.Require().NoError(err)
	s.Equal(o.ID, stored.ID)

	s.Require().Len(s.auditor.events, 1)
	s.Equal(string(audit.EventOverrideGranted), s.auditor.events[0].Action)
	s.Equal(s.admin.UserID.String(), s.auditor.events[0].Details[audit.DetailGrantedBy])
}

func (s *ServiceSuite) TestGrant_DualGate() {
	s.Run("member with high clearance refused", func() {
		_, err := s.service.Grant(s.ctx, s.member, s.grantRequest())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("admin below confidential refused", func() {
		lowAdmin := s.admin
		lowAdmin.Clearance = clearance.Unclassified
		_, err := s.service.Grant(s.ctx, lowAdmin, s.grantRequest())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Empty(s.auditor.events, "refused grants must not reach the audit trail")
}

func (s *ServiceSuite) TestGrant_ValidationFailureEmitsNothing() {
	req := s.grantRequest()
	req.Permission = "superuser"

	_, err := s.service.Grant(s.ctx, s.admin, req)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.auditor.events)
}

func (s *ServiceSuite) TestRevoke() {
	o, err := s.service.Grant(s.ctx, s.admin, s.grantRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Revoke(s.ctx, s.admin, o.ID))

	s.Require().Len(s.auditor.events, 2)
	s.Equal(string(audit.EventOverrideRevoked), s.auditor.events[1].Action)
}

func (s *ServiceSuite) TestRevoke_MemberRefused() {
	o, err := s.service.Grant(s.ctx, s.admin, s.grantRequest())
	s.Require().NoError(err)

	err = s.service.Revoke(s.ctx, s.member, o.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestListForResource_AdminGated() {
	req := s.grantRequest()
	_, err := s.service.Grant(s.ctx, s.admin, req)
	s.Require().NoError(err)

	list, err := s.service.ListForResource(s.ctx, s.admin, req.ResourceID)
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.service.ListForResource(s.ctx, s.member, req.ResourceID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}
