package service

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials covers unknown identifier, wrong password and
	// inactive accounts at login. One error class on purpose: splitting
	// them lets callers enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrIncorrectPassword is the change-password path's old-password
	// failure. Distinct from login so the handler can answer 400, not 401.
	ErrIncorrectPassword = errors.New("incorrect_password")

	// ErrRevoked marks a structurally valid token superseded by a password
	// change. Callers surface "password changed, re-authenticate", never a
	// generic invalid-token message.
	ErrRevoked = errors.New("password_changed")

	// ErrInactive marks a live token whose subject has been deactivated.
	ErrInactive = errors.New("account_inactive")

	// ErrInvalidRefresh covers refresh tokens whose subject no longer
	// resolves or which fail structural checks beyond expiry.
	ErrInvalidRefresh = errors.New("invalid_refresh_token")

	// ErrVerificationFailed is the reset-request failure for both unknown
	// email and date-of-birth mismatch, again to avoid enumeration.
	ErrVerificationFailed = errors.New("verification_failed")
)

// PolicyError reports the password-complexity criteria a candidate password
// failed. Each entry names one missing criterion.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return "policy: " + strings.Join(e.Violations, " ")
}

// FieldErrors is the ordered list of registration field problems, reported
// all at once so the client can render every issue in one round trip.
type FieldErrors struct {
	Errors []string
}

func (e *FieldErrors) Error() string {
	return "fields: " + strings.Join(e.Errors, " ")
}
