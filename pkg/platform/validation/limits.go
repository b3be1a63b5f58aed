package validation

import (
	"fmt"

	dErrors "pandora/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Sufficient for JSON APIs while preventing memory exhaustion attacks.
	MaxBodySize = 64 * 1024
)

// String element length limits
const (
	// MaxInviteSecretLength bounds the invite secret presented on retrieval.
	// Generated secrets are 43 characters; anything much longer is abuse.
	MaxInviteSecretLength = 128

	// MaxResourceTypeLength bounds the resource type discriminator.
	MaxResourceTypeLength = 32

	// MaxActionLength bounds the requested action name.
	MaxActionLength = 64

	// MaxEnumLength bounds permission, effect, and state enumeration values.
	MaxEnumLength = 32
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckRequired validates that a string field is non-empty.
func CheckRequired(fieldName, value string) error {
	if value == "" {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}
