// Package handler exposes the share lifecycle over HTTP. The invite secret
// appears in exactly one response, the creation one.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pandora/internal/clearance"
	"pandora/internal/p2pshare"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/httputil"
	"pandora/pkg/requestcontext"
)

// Service defines the interface for share operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Create(ctx context.Context, creator clearance.Context, req p2pshare.CreateRequest) (*p2pshare.P2PShare, string, error)
	RetrieveViewOnce(ctx context.Context, shareID id.ShareID, grant p2pshare.RetrievalGrant) (p2pshare.FilePath, error)
	Cancel(ctx context.Context, shareID id.ShareID, caller clearance.Context) (bool, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/shares", h.HandleCreate)
	r.Post("/v1/shares/{id}/retrieve", h.HandleRetrieve)
	r.Post("/v1/shares/{id}/cancel", h.HandleCancel)
}

// HandleCreate mints a new share and returns the invite secret alongside it.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	creator, err := httputil.RequireClearance(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateShareRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	create, err := req.ToServiceRequest()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	share, secret, err := h.service.Create(ctx, creator, create)
	if err != nil {
		h.logger.ErrorContext(ctx, "create share failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &ShareCreateResponse{
		Share:        toShareResponse(share),
		InviteSecret: secret,
	})
}

// HandleRetrieve consumes a view-once share and releases the file path. The
// caller proves entitlement by identity or by the invite secret in the body.
func (h *Handler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := httputil.RequireClearance(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	shareID, err := id.ParseShareID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid share id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RetrieveShareRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	path, err := h.service.RetrieveViewOnce(ctx, shareID, p2pshare.RetrievalGrant{
		CallerID:     caller.UserID,
		InviteSecret: req.InviteSecret,
	})
	if err != nil {
		// NotFound here covers missing, spent, and lapsed shares alike, so
		// the log carries the detail and the response stays uniform.
		h.logger.WarnContext(ctx, "retrieve share refused", "error", err, "request_id", requestID, "share_id", shareID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &RetrieveResponse{FilePath: string(path)})
}

// HandleCancel cancels an Active share. Cancelling a share already in a
// terminal state answers 409: the caller's view of the lifecycle is stale.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := httputil.RequireClearance(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	shareID, err := id.ParseShareID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid share id"))
		return
	}

	won, err := h.service.Cancel(ctx, shareID, caller)
	if err != nil {
		h.logger.ErrorContext(ctx, "cancel share failed", "error", err, "request_id", requestID, "share_id", shareID)
		httputil.WriteError(w, err)
		return
	}
	if !won {
		httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "share already finalized"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"state": string(p2pshare.StateCancelled),
	})
}
