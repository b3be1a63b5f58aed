package handler

import "pandora/internal/policy"

type DecisionResponse struct {
	Effect  string `json:"effect"`
	Allowed bool   `json:"allowed"`
}

// toDecisionResponse converts the engine output to the HTTP DTO. The reason
// stays out of the response: it reaches the audit trail only, so a denied
// requester learns nothing about clearance levels or overrides.
func toDecisionResponse(d policy.Decision) *DecisionResponse {
	return &DecisionResponse{
		Effect:  string(d.Effect),
		Allowed: d.Allowed(),
	}
}
