package handler

import (
	"strings"
	"time"

	"pandora/internal/p2pshare"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service requests before processing.

type CreateShareRequest struct {
	FileID      string     `json:"file_id"`
	RecipientID string     `json:"recipient_id"`
	ViewOnce    bool       `json:"view_once"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (r *CreateShareRequest) Normalize() {
	if r == nil {
		return
	}
	r.FileID = strings.TrimSpace(r.FileID)
	r.RecipientID = strings.TrimSpace(r.RecipientID)
}

func (r *CreateShareRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckRequired("file_id", r.FileID); err != nil {
		return err
	}
	if err := validation.CheckRequired("recipient_id", r.RecipientID); err != nil {
		return err
	}
	return nil
}

// ToServiceRequest converts the HTTP request to a service create request.
func (r *CreateShareRequest) ToServiceRequest() (p2pshare.CreateRequest, error) {
	fileID, err := id.ParseFileID(r.FileID)
	if err != nil {
		return p2pshare.CreateRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid file id")
	}
	recipientID, err := id.ParseUserID(r.RecipientID)
	if err != nil {
		return p2pshare.CreateRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid recipient id")
	}
	return p2pshare.CreateRequest{
		FileID:      fileID,
		RecipientID: recipientID,
		ViewOnce:    r.ViewOnce,
		ExpiresAt:   r.ExpiresAt,
	}, nil
}

type RetrieveShareRequest struct {
	InviteSecret string `json:"invite_secret,omitempty"`
}

func (r *RetrieveShareRequest) Normalize() {
	if r == nil {
		return
	}
	r.InviteSecret = strings.TrimSpace(r.InviteSecret)
}

func (r *RetrieveShareRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.CheckStringLength("invite_secret", r.InviteSecret, validation.MaxInviteSecretLength)
}
