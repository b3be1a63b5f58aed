package handler

import (
	"time"

	"pandora/internal/override"
)

type OverrideResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	ResourceID   string     `json:"resource_id"`
	ResourceType string     `json:"resource_type"`
	Permission   string     `json:"permission"`
	Effect       string     `json:"effect"`
	GrantedBy    string     `json:"granted_by"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type OverrideListResponse struct {
	Overrides []*OverrideResponse `json:"overrides"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toOverrideResponse(o *override.AccessOverride) *OverrideResponse {
	return &OverrideResponse{
		ID:           o.ID.String(),
		UserID:       o.UserID.String(),
		ResourceID:   o.ResourceID.String(),
		ResourceType: string(o.ResourceType),
		Permission:   string(o.Permission),
		Effect:       string(o.Effect),
		GrantedBy:    o.GrantedBy.String(),
		ExpiresAt:    o.ExpiresAt,
		CreatedAt:    o.CreatedAt,
	}
}

func toOverrideListResponse(overrides []*override.AccessOverride) *OverrideListResponse {
	out := make([]*OverrideResponse, len(overrides))
	for i, o := range overrides {
		out[i] = toOverrideResponse(o)
	}
	return &OverrideListResponse{Overrides: out}
}
