// Package handler exposes the decision engine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pandora/internal/clearance"
	"pandora/internal/policy"
	"pandora/pkg/platform/httputil"
	"pandora/pkg/requestcontext"
)

// Engine defines the interface for access decisions.
// Returns domain objects, not HTTP response DTOs.
type Engine interface {
	Decide(ctx context.Context, subject clearance.Context, resource policy.Resource, action policy.Action) (policy.Decision, error)
}

type Handler struct {
	engine Engine
	logger *slog.Logger
}

func New(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/decisions", h.HandleDecide)
}

// HandleDecide evaluates one access request and returns the decision. Deny is
// a successful evaluation: the response is 200 either way and callers branch
// on effect.
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	subject, err := httputil.RequireClearance(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[DecideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resource, action, err := req.ToInputs()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.engine.Decide(ctx, subject, resource, action)
	if err != nil {
		h.logger.ErrorContext(ctx, "decide failed", "error", err, "request_id", requestID, "resource_id", resource.ID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDecisionResponse(decision))
}
