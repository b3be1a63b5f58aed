package handler

import (
	"time"

	"pandora/internal/p2pshare"
)

type ShareResponse struct {
	ID          string     `json:"id"`
	FileID      string     `json:"file_id"`
	RecipientID string     `json:"recipient_id"`
	CreatedBy   string     `json:"created_by"`
	ViewOnce    bool       `json:"view_once"`
	State       string     `json:"state"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ShareCreateResponse struct {
	Share        *ShareResponse `json:"share"`
	InviteSecret string         `json:"invite_secret"` // Only available at creation time
}

type RetrieveResponse struct {
	FilePath string `json:"file_path"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toShareResponse(share *p2pshare.P2PShare) *ShareResponse {
	return &ShareResponse{
		ID:          share.ID.String(),
		FileID:      share.FileID.String(),
		RecipientID: share.RecipientID.String(),
		CreatedBy:   share.CreatedBy.String(),
		ViewOnce:    share.ViewOnce,
		State:       string(share.State),
		ExpiresAt:   share.ExpiresAt,
		CreatedAt:   share.CreatedAt,
	}
}
