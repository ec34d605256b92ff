package http

import (
	"net/http"

	"github.com/astroline/identity/pkg/httpx"
)

// Wire messages. Kept as fixed strings so clients can match on them; the
// authn failure messages in particular must stay distinct from each other.
const (
	msgInvalidCredentials = "Invalid email or password."
	msgNoCredentials      = "Authentication credentials were not provided."
	msgInvalidToken       = "Invalid token submitted."
	msgAccessExpired      = "Access token has expired. Please login again."
	msgRefreshExpired     = "Refresh token has expired. Please login again."
	msgPasswordChanged    = "Password has been changed. Please login again."
	msgInactiveAccount    = "This account is inactive."
	msgIncorrectPassword  = "Entered incorrect password. Password change denied."
	msgMissingPasswords   = "old_password and new_password fields must not be empty."
	msgAlreadyLoggedOut   = "Already logged out."
	msgResetRejected      = "Unable to verify account details."
	msgResetExpired       = "Reset token has expired. Please request a new one."
	msgBadBody            = "Invalid request body."

	msgLogoutOK        = "Successfully logged out."
	msgResetDispatched = "Password reset email dispatched."
	msgResetApplied    = "Password reset successfully."
)

type errorResponse struct {
	Error string `json:"error"`
}

type errorListResponse struct {
	Errors []string `json:"errors"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// subjectResponse is the serialized subject returned by register and
// GET /user.
type subjectResponse struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, errorResponse{Error: msg})
}

func writeErrorList(w http.ResponseWriter, code int, errs []string) {
	httpx.WriteJSON(w, code, errorListResponse{Errors: errs})
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, messageResponse{Message: msg})
}
