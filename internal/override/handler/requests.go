package handler

import (
	"strings"
	"time"

	"pandora/internal/override"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service requests before processing.

type GrantOverrideRequest struct {
	UserID       string     `json:"user_id"`
	ResourceID   string     `json:"resource_id"`
	ResourceType string     `json:"resource_type"`
	Permission   string     `json:"permission"`
	Effect       string     `json:"effect"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (r *GrantOverrideRequest) Normalize() {
	if r == nil {
		return
	}
	r.UserID = strings.TrimSpace(r.UserID)
	r.ResourceID = strings.TrimSpace(r.ResourceID)
	r.ResourceType = strings.ToLower(strings.TrimSpace(r.ResourceType))
	r.Permission = strings.ToLower(strings.TrimSpace(r.Permission))
	r.Effect = strings.ToLower(strings.TrimSpace(r.Effect))
}

func (r *GrantOverrideRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckRequired("user_id", r.UserID); err != nil {
		return err
	}
	if err := validation.CheckRequired("resource_id", r.ResourceID); err != nil {
		return err
	}
	if err := validation.CheckStringLength("resource_type", r.ResourceType, validation.MaxResourceTypeLength); err != nil {
		return err
	}
	if err := validation.CheckStringLength("permission", r.Permission, validation.MaxEnumLength); err != nil {
		return err
	}
	if err := validation.CheckStringLength("effect", r.Effect, validation.MaxEnumLength); err != nil {
		return err
	}
	return nil
}

// ToServiceRequest converts the HTTP request to a service grant request.
// Enumeration values pass through; the store re-validates them on create.
func (r *GrantOverrideRequest) ToServiceRequest() (override.GrantRequest, error) {
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return override.GrantRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid user id")
	}
	resourceID, err := id.ParseResourceID(r.ResourceID)
	if err != nil {
		return override.GrantRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid resource id")
	}
	return override.GrantRequest{
		UserID:       userID,
		ResourceID:   resourceID,
		ResourceType: override.ResourceType(r.ResourceType),
		Permission:   override.Permission(r.Permission),
		Effect:       override.Effect(r.Effect),
		ExpiresAt:    r.ExpiresAt,
	}, nil
}
