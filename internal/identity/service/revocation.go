package service

import "time"

// PasswordChangedSince is the revocation rule: a token is superseded when it
// was issued strictly before the subject's last password change. This makes a
// password change an O(1), storage-free revocation of every earlier token
// with no blacklist and no shared state.
//
// Both sides are compared at whole-second precision because token iat claims
// carry no sub-second component. The boundary is inclusive: a token minted in
// the same second as the change is still valid, which is what lets
// change-password hand back a fresh pair without that pair revoking itself.
func PasswordChangedSince(issuedAt, lastPasswordChange time.Time) bool {
	return issuedAt.Truncate(time.Second).Before(lastPasswordChange.Truncate(time.Second))
}
