// Package audit defines the structured events the core emits for every
// decision and lifecycle transition. The core emits; persistence belongs to
// an external sink. The JSON field names are a wire contract other tooling
// depends on and must not change.
package audit

import "time"

// Event captures one decision or lifecycle transition.
type Event struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	Action       string            `json:"action"`
	ResourceID   string            `json:"resourceId"`
	ResourceType string            `json:"resourceType"`
	Timestamp    time.Time         `json:"timestamp"`
	Details      map[string]string `json:"details,omitempty"`
}

// Action names emitted by the core.
type Action string

const (
	EventAccessDecided   Action = "access_decided"
	EventOverrideGranted Action = "override_granted"
	EventOverrideRevoked Action = "override_revoked"
	EventShareCreated    Action = "share_created"
	EventShareConsumed   Action = "share_consumed"
	EventShareCancelled  Action = "share_cancelled"
	EventShareExpired    Action = "share_expired"
	EventSweepCompleted  Action = "sweep_completed"
)

// Detail keys with stable meaning across events.
const (
	DetailDecision  = "decision"
	DetailReason    = "reason"
	DetailRequestID = "request_id"
	DetailDevice    = "device"
	DetailGrantedBy = "granted_by"
	DetailRecipient = "recipient"
	DetailViewOnce  = "view_once"
	DetailExpiresAt = "expires_at"
)
