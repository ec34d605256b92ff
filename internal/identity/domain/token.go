package domain

import "time"

// TokenPair is what the session endpoints return: a short-lived access token
// presented per request and a long-lived refresh token carried only in the
// http-only cookie. Both are self-contained JWTs bound to the same subject
// and are never persisted server-side.
type TokenPair struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn time.Duration `json:"-"`
}
