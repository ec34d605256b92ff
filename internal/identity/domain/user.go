package domain

import "time"

// User is the identity record a subject authenticates as. Owned by the store;
// the password hash and LastPasswordChange mutate only through the
// password-set operations, and deactivation only through DeactivateUser.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // argon2id encoded
	DateOfBirth  string // ISO date, YYYY-MM-DD
	AcceptTOS    bool
	Active       bool // inactive accounts cannot authenticate

	// LastPasswordChange never decreases and is stored truncated to whole
	// seconds, matching the precision of token iat claims so the revocation
	// comparison needs no skew compensation.
	LastPasswordChange time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
