package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"pandora/internal/clearance"
	"pandora/internal/override"
	"pandora/pkg/platform/audit"
	"pandora/pkg/platform/middleware/auth"
	"pandora/pkg/platform/middleware/requesttime"
	"pandora/pkg/testutil"
)

type noopAuditor struct{}

func (noopAuditor) Emit(context.Context, audit.Event) error { return nil }

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	store  *override.InMemoryStore
	caller clearance.Context
}

func (s *HandlerSuite) SetupTest() {
	s.store = override.NewInMemoryStore()
	s.caller = clearance.Context{
		UserID:    testutil.TestIDs.UserID1,
		OrgID:     testutil.TestIDs.OrgID1,
		Role:      clearance.RoleAdmin,
		Clearance: clearance.Secret,
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	svc := override.New(s.store, noopAuditor{}, override.WithLogger(logger))
	h := New(svc, logger)

	r := chi.NewRouter()
	r.Use(requesttime.Middleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithClearance(req.Context(), s.caller)))
		})
	})
	h.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) grantBody(effect string) string {
	expiry := time.Now().Add(time.Hour).Format(time.RFC3339)
	return `{
		"user_id": "` + testutil.TestIDs.UserID2.String() + `",
		"resource_id": "` + testutil.TestIDs.ResourceID1.String() + `",
		"resource_type": "file",
		"permission": "read",
		"effect": "` + effect + `",
		"expires_at": "` + expiry + `"
	}`
}

func (s *HandlerSuite) TestGrant() {
	rec := s.do(http.MethodPost, "/v1/overrides", s.grantBody("allow"))

	s.Equal(http.StatusCreated, rec.Code)

	var resp OverrideResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(testutil.TestIDs.UserID2.String(), resp.UserID)
	s.Equal("allow", resp.Effect)
	s.Equal(s.caller.UserID.String(), resp.GrantedBy)
	s.NotEmpty(resp.ID)
}

func (s *HandlerSuite) TestGrant_NormalizesEnums() {
	body := strings.Replace(s.grantBody("DENY"), `"permission": "read"`, `"permission": " READ "`, 1)
	rec := s.do(http.MethodPost, "/v1/overrides", body)

	s.Equal(http.StatusCreated, rec.Code)

	var resp OverrideResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal("deny", resp.Effect)
	s.Equal("read", resp.Permission)
}

func (s *HandlerSuite) TestGrant_NonAdminForbidden() {
	s.caller.Role = clearance.RoleMember

	rec := s.do(http.MethodPost, "/v1/overrides", s.grantBody("allow"))

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestGrant_LowClearanceAdminForbidden() {
	s.caller.Clearance = clearance.Unclassified

	rec := s.do(http.MethodPost, "/v1/overrides", s.grantBody("allow"))

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestGrant_BadEnumRejected() {
	rec := s.do(http.MethodPost, "/v1/overrides", s.grantBody("maybe"))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGrant_MissingUserID() {
	rec := s.do(http.MethodPost, "/v1/overrides", `{
		"resource_id": "`+testutil.TestIDs.ResourceID1.String()+`",
		"resource_type": "file",
		"permission": "read",
		"effect": "allow"
	}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "user_id")
}

func (s *HandlerSuite) TestRevoke() {
	rec := s.do(http.MethodPost, "/v1/overrides", s.grantBody("allow"))
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created OverrideResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&created))

	rec = s.do(http.MethodDelete, "/v1/overrides/"+created.ID, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/v1/overrides/"+created.ID, "")
	s.Equal(http.StatusNotFound, rec.Code, "second revoke finds nothing")
}

func (s *HandlerSuite) TestRevoke_BadID() {
	rec := s.do(http.MethodDelete, "/v1/overrides/not-a-uuid", "")

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestListForResource() {
	rec := s.do(http.MethodPost, "/v1/overrides", s.grantBody("allow"))
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/v1/resources/"+testutil.TestIDs.ResourceID1.String()+"/overrides", "")
	s.Equal(http.StatusOK, rec.Code)

	var resp OverrideListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Len(resp.Overrides, 1)

	rec = s.do(http.MethodGet, "/v1/resources/"+testutil.TestIDs.ResourceID2.String()+"/overrides", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Empty(resp.Overrides)
}
