package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astroline/identity/internal/identity/service"
	"github.com/astroline/identity/pkg/jwtx"
	"github.com/astroline/identity/pkg/slogx"
)

// ResetRequestHandler serves POST /reset-password. Unknown email and
// mismatched date of birth answer the same 400, and a delivery failure still
// answers 200, so the endpoint reveals nothing about which addresses exist.
type ResetRequestHandler struct {
	PasswordService *service.PasswordService
}

type resetRequestBody struct {
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

func (h *ResetRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	if err := h.PasswordService.RequestReset(ctx, req.Email, req.DateOfBirth); err != nil {
		if errors.Is(err, service.ErrVerificationFailed) {
			writeError(w, http.StatusBadRequest, msgResetRejected)
			return
		}
		log.Error("reset request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	writeMessage(w, http.StatusOK, msgResetDispatched)
}

// ResetApplyHandler serves POST /reset-password/reset: the emailed token
// authorizes the password change in place of a session.
type ResetApplyHandler struct {
	PasswordService *service.PasswordService
}

type resetApplyBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *ResetApplyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetApplyBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	if err := h.PasswordService.ApplyReset(ctx, req.Token, req.Password); err != nil {
		var policyErr *service.PolicyError
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			writeError(w, http.StatusUnauthorized, msgResetExpired)
		case errors.As(err, &policyErr):
			writeErrorList(w, http.StatusBadRequest, policyErr.Violations)
		case errors.Is(err, service.ErrRevoked),
			errors.Is(err, jwtx.ErrMalformed),
			errors.Is(err, jwtx.ErrInvalidSig),
			errors.Is(err, jwtx.ErrIssuer),
			errors.Is(err, jwtx.ErrWrongType),
			errors.Is(err, jwtx.ErrInvalidClaim):
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
		default:
			log.Error("reset apply failed", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	writeMessage(w, http.StatusAccepted, msgResetApplied)
}
