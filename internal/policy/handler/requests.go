package handler

import (
	"strings"

	"pandora/internal/clearance"
	"pandora/internal/override"
	"pandora/internal/policy"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to engine inputs before processing.

type DecideRequest struct {
	ResourceID        string `json:"resource_id"`
	ResourceType      string `json:"resource_type"`
	ResourceClearance string `json:"resource_clearance"`
	Action            string `json:"action"`
}

func (r *DecideRequest) Normalize() {
	if r == nil {
		return
	}
	r.ResourceID = strings.TrimSpace(r.ResourceID)
	r.ResourceType = strings.TrimSpace(r.ResourceType)
	r.ResourceClearance = strings.TrimSpace(strings.ToUpper(r.ResourceClearance))
	r.Action = strings.TrimSpace(r.Action)
}

func (r *DecideRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.ResourceID == "" {
		return dErrors.New(dErrors.CodeValidation, "resource_id is required")
	}
	if err := validation.CheckStringLength("resource_type", r.ResourceType, validation.MaxResourceTypeLength); err != nil {
		return err
	}
	if err := validation.CheckStringLength("action", r.Action, validation.MaxActionLength); err != nil {
		return err
	}
	if r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}
	return nil
}

// ToInputs converts the HTTP request to engine inputs. Enumeration values the
// engine itself rules on (action, clearance label) pass through so the engine
// can answer invalid-input denies uniformly.
func (r *DecideRequest) ToInputs() (policy.Resource, policy.Action, error) {
	resourceID, err := id.ParseResourceID(r.ResourceID)
	if err != nil {
		return policy.Resource{}, "", dErrors.New(dErrors.CodeBadRequest, "invalid resource id")
	}
	level, err := clearance.ParseLevel(r.ResourceClearance)
	if err != nil {
		return policy.Resource{}, "", dErrors.New(dErrors.CodeValidation, "unknown resource clearance")
	}
	return policy.Resource{
		ID:        resourceID,
		Type:      override.ResourceType(r.ResourceType),
		Clearance: level,
	}, policy.Action(r.Action), nil
}
