// Package access wires the full request path in memory: JWT auth, the
// middleware chain, the real services over in-memory stores, and the audit
// publisher. It covers the flows the package-level tests only cover in
// isolation.
package access

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
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"pandora/internal/override"
	overridehandler "pandora/internal/override/handler"
	"pandora/internal/p2pshare"
	p2psharehandler "pandora/internal/p2pshare/handler"
	"pandora/internal/policy"
	policyhandler "pandora/internal/policy/handler"
	id "pandora/pkg/domain"
	"pandora/pkg/platform/audit"
	"pandora/pkg/platform/audit/publisher"
	"pandora/pkg/platform/middleware/auth"
	"pandora/pkg/platform/middleware/request"
	"pandora/pkg/platform/middleware/requesttime"
	"pandora/pkg/testutil"
)

const signingKey = "integration-test-signing-key"

type fixture struct {
	router http.Handler
	audits *audit.InMemoryStore
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, fileID id.FileID) (p2pshare.FilePath, error) {
	return p2pshare.FilePath("/files/" + fileID.String()), nil
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	audits := audit.NewInMemoryStore()
	auditor := publisher.New(audits, publisher.WithLogger(logger))

	overrides := override.NewInMemoryStore()
	overrideSvc := override.New(overrides, auditor, override.WithLogger(logger))
	shareSvc := p2pshare.New(p2pshare.NewInMemoryStore(), stubResolver{}, auditor, p2pshare.WithLogger(logger))
	engine := policy.New(overrides, auditor, policy.WithLogger(logger))

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(auth.RequireAuth(auth.NewValidator(signingKey), logger))

	policyhandler.New(engine, logger).Register(r)
	overridehandler.New(overrideSvc, logger).Register(r)
	p2psharehandler.New(shareSvc, logger).Register(r)

	return &fixture{router: r, audits: audits}
}

func mintToken(t *testing.T, userID id.UserID, role, level string) string {
	t.Helper()
	claims := auth.Claims{
		OrgID:     testutil.TestIDs.OrgID1.String(),
		Role:      role,
		Clearance: level,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decision(t *testing.T, rec *httptest.ResponseRecorder) policyhandler.DecisionResponse {
	t.Helper()
	var resp policyhandler.DecisionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// TestOverrideChangesDecision walks the administrative flow end to end: a
// member is denied on clearance, an admin grants an allow override, and the
// same request then passes.
func TestOverrideChangesDecision(t *testing.T) {
	f := setup(t)
	member := mintToken(t, testutil.TestIDs.UserID1, "member", "CONFIDENTIAL")
	admin := mintToken(t, testutil.TestIDs.UserID2, "admin", "SECRET")

	decideBody := `{
		"resource_id": "` + testutil.TestIDs.ResourceID1.String() + `",
		"resource_type": "file",
		"resource_clearance": "SECRET",
		"action": "read"
	}`

	rec := f.do(t, member, http.MethodPost, "/v1/decisions", decideBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "DENY", decision(t, rec).Effect)

	rec = f.do(t, admin, http.MethodPost, "/v1/overrides", `{
		"user_id": "`+testutil.TestIDs.UserID1.String()+`",
		"resource_id": "`+testutil.TestIDs.ResourceID1.String()+`",
		"resource_type": "file",
		"permission": "read",
		"effect": "allow"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, member, http.MethodPost, "/v1/decisions", decideBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ALLOW", decision(t, rec).Effect)

	// Both decisions and the grant are on the trail.
	events, err := f.audits.ListByUser(context.Background(), testutil.TestIDs.UserID1.String())
	require.NoError(t, err)
	require.Len(t, events, 3)
}

// TestMemberCannotGrant verifies the dual gate holds at the HTTP boundary.
func TestMemberCannotGrant(t *testing.T) {
	f := setup(t)
	member := mintToken(t, testutil.TestIDs.UserID1, "member", "TOP_SECRET")

	rec := f.do(t, member, http.MethodPost, "/v1/overrides", `{
		"user_id": "`+testutil.TestIDs.UserID2.String()+`",
		"resource_id": "`+testutil.TestIDs.ResourceID1.String()+`",
		"resource_type": "file",
		"permission": "read",
		"effect": "allow"
	}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

// TestShareFlow covers create, view-once retrieve, and the consumed replay.
func TestShareFlow(t *testing.T) {
	f := setup(t)
	creator := mintToken(t, testutil.TestIDs.UserID1, "member", "CONFIDENTIAL")
	recipient := mintToken(t, testutil.TestIDs.UserID2, "viewer", "UNCLASSIFIED")

	rec := f.do(t, creator, http.MethodPost, "/v1/shares", `{
		"file_id": "`+testutil.TestIDs.FileID1.String()+`",
		"recipient_id": "`+testutil.TestIDs.UserID2.String()+`",
		"view_once": true
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created p2psharehandler.ShareCreateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.InviteSecret)

	rec = f.do(t, recipient, http.MethodPost, "/v1/shares/"+created.Share.ID+"/retrieve", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var retrieved p2psharehandler.RetrieveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&retrieved))
	require.Equal(t, "/files/"+testutil.TestIDs.FileID1.String(), retrieved.FilePath)

	rec = f.do(t, recipient, http.MethodPost, "/v1/shares/"+created.Share.ID+"/retrieve", `{}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// TestRequestsWithoutTokenRejected verifies the auth middleware guards every
// route.
func TestRequestsWithoutTokenRejected(t *testing.T) {
	f := setup(t)

	for _, path := range []string{"/v1/decisions", "/v1/overrides", "/v1/shares"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

// TestLegacyRoleSpelling verifies tokens minted with the legacy role names
// still resolve; MANAGER maps to member and carries no admin rights.
func TestLegacyRoleSpelling(t *testing.T) {
	f := setup(t)
	manager := mintToken(t, testutil.TestIDs.UserID1, "MANAGER", "SECRET")

	rec := f.do(t, manager, http.MethodPost, "/v1/decisions", `{
		"resource_id": "`+testutil.TestIDs.ResourceID1.String()+`",
		"resource_type": "file",
		"resource_clearance": "SECRET",
		"action": "read"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ALLOW", decision(t, rec).Effect)

	rec = f.do(t, manager, http.MethodPost, "/v1/decisions", `{
		"resource_id": "`+testutil.TestIDs.ResourceID1.String()+`",
		"resource_type": "file",
		"resource_clearance": "SECRET",
		"action": "role.update"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "DENY", decision(t, rec).Effect, "legacy MANAGER is not an admin")
}
