// Package handler exposes override administration over HTTP. Every route
// requires the dual gate; the service enforces it, the handler just
// translates.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pandora/internal/clearance"
	"pandora/internal/override"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/httputil"
	"pandora/pkg/requestcontext"
)

// Service defines the interface for override operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Grant(ctx context.Context, granter clearance.Context, req override.GrantRequest) (*override.AccessOverride, error)
	Revoke(ctx context.Context, revoker clearance.Context, overrideID id.OverrideID) error
	ListForResource(ctx context.Context, viewer clearance.Context, resourceID id.ResourceID) ([]*override.AccessOverride, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/overrides", h.HandleGrant)
	r.Delete("/v1/overrides/{id}", h.HandleRevoke)
	r.Get("/v1/resources/{id}/overrides", h.HandleListForResource)
}

// HandleGrant creates a time-bounded override.
func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	granter, err := httputil.RequireClearance(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[GrantOverrideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	grant, err := req.ToServiceRequest()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.service.Grant(ctx, granter, grant)
	if err != nil {
		h.logger.ErrorContext(ctx, "grant override failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toOverrideResponse(o))
}

// HandleRevoke revokes an override immediately.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	revoker, err := httputil.RequireClearance(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	overrideID, err := id.ParseOverrideID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid override id"))
		return
	}

	if err := h.service.Revoke(ctx, revoker, overrideID); err != nil {
		h.logger.ErrorContext(ctx, "revoke override failed", "error", err, "request_id", requestID, "override_id", overrideID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListForResource lists every override targeting a resource, active and
// lapsed alike.
func (h *Handler) HandleListForResource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	viewer, err := httputil.RequireClearance(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resourceID, err := id.ParseResourceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid resource id"))
		return
	}

	overrides, err := h.service.ListForResource(ctx, viewer, resourceID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list overrides failed", "error", err, "request_id", requestID, "resource_id", resourceID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toOverrideListResponse(overrides))
}
