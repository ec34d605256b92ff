package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astroline/identity/internal/identity/service"
	"github.com/astroline/identity/pkg/httpx"
	"github.com/astroline/identity/pkg/slogx"
)

// ChangePasswordHandler serves PUT /change-password behind the authn
// middleware. The 202 carries a fresh pair because the change just revoked
// every token the caller held, including the one that authorized it.
type ChangePasswordHandler struct {
	PasswordService *service.PasswordService
	Cookies         CookieConfig
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	subject, ok := SubjectFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNoCredentials)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, msgMissingPasswords)
		return
	}

	pair, err := h.PasswordService.ChangePassword(ctx, subject, req.OldPassword, req.NewPassword)
	if err != nil {
		var policyErr *service.PolicyError
		switch {
		case errors.Is(err, service.ErrIncorrectPassword):
			writeError(w, http.StatusBadRequest, msgIncorrectPassword)
		case errors.As(err, &policyErr):
			writeErrorList(w, http.StatusBadRequest, policyErr.Violations)
		default:
			log.Error("password change failed", "subject_id", subject.ID, "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	setRefreshCookie(w, h.Cookies, pair.Refresh)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusAccepted, pair)
}
