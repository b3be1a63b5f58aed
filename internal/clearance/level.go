// Package clearance defines the ordered security levels, the administrative
// roles, and the per-request subject context the policy engine evaluates.
package clearance

import (
	"fmt"

	dErrors "pandora/pkg/domain-errors"
)

// Level is an ordered security classification. Higher value = higher clearance.
type Level int

const (
	Unclassified Level = iota
	Confidential
	Secret
	TopSecret
	// PeerToPeer is a sentinel, not a point on the dominance order. Resources
	// classified PeerToPeer are never reachable through the clearance path;
	// access goes through the share lifecycle exclusively.
	PeerToPeer
)

var levelNames = map[Level]string{
	Unclassified: "UNCLASSIFIED",
	Confidential: "CONFIDENTIAL",
	Secret:       "SECRET",
	TopSecret:    "TOP_SECRET",
	PeerToPeer:   "PEER_TO_PEER",
}

// String returns the canonical level name, or "UNKNOWN" for out-of-range
// values. Used for log readability; it never fails.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// ParseLevel converts a canonical level name to its Level. Use at trust
// boundaries; unknown names are invalid input, never a silent default.
func ParseLevel(s string) (Level, error) {
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return 0, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown security level %q", s))
}

// Dominates reports whether a subject at level subject may access a resource
// at level resource through the ordinary clearance path. PeerToPeer resources
// always return false: they are reachable only via a share grant, regardless
// of the subject's own level.
func Dominates(subject, resource Level) bool {
	if resource == PeerToPeer {
		return false
	}
	return subject >= resource
}
