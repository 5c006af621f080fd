// Package verify delegates mobile number verification to an external
// provider. This service never generates or stores mobile codes itself; it
// only normalizes numbers, starts a verification, and checks the code the
// user received.
package verify

import (
	"context"
	"errors"
	"strings"

	"jobboard/pkg/utils"
)

const StatusApproved = "approved"

// Numbers must carry at least this many digits before a verification is
// started.
const MinDigits = 10

var (
	ErrInvalidNumber = errors.New("valid mobile number required")
	ErrNotConfigured = errors.New("verification service not configured")
)

type Verification struct {
	ID     string
	Status string
}

type Provider interface {
	Start(ctx context.Context, phoneNumber string) (Verification, error)
	Check(ctx context.Context, phoneNumber, code string) (Verification, error)
}

// ToE164 converts a normalized mobile number to E.164 form. Bare 10-digit
// local numbers starting with 6-9 are assumed to be Indian and get the +91
// prefix; everything else must already carry a country code.
func ToE164(mobile string) (string, error) {
	if strings.HasPrefix(mobile, "+") {
		return mobile, nil
	}
	if len(mobile) == 10 && mobile[0] >= '6' && mobile[0] <= '9' {
		return "+91" + mobile, nil
	}
	return "", ErrInvalidNumber
}

// Normalize strips formatting and validates the digit count.
func Normalize(mobile string) (string, error) {
	normalized := utils.NormalizeMobile(mobile)
	if normalized == "" || utils.DigitCount(normalized) < MinDigits {
		return "", ErrInvalidNumber
	}
	return normalized, nil
}
