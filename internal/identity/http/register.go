package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astroline/identity/internal/identity/service"
	"github.com/astroline/identity/pkg/httpx"
	"github.com/astroline/identity/pkg/slogx"
)

// RegisterHandler serves POST /register. Field problems come back as one
// ordered list so the client can render every issue in a single round trip.
type RegisterHandler struct {
	RegisterService *service.RegisterService
}

type registerRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth"`
	AcceptTOS   string `json:"accept_tos"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	subject, err := h.RegisterService.Register(ctx, service.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		DateOfBirth: req.DateOfBirth,
		AcceptTOS:   req.AcceptTOS,
	})
	if err != nil {
		var fieldErrs *service.FieldErrors
		var policyErr *service.PolicyError
		switch {
		case errors.As(err, &fieldErrs):
			writeErrorList(w, http.StatusBadRequest, fieldErrs.Errors)
		case errors.As(err, &policyErr):
			writeErrorList(w, http.StatusBadRequest, policyErr.Violations)
		default:
			log.Error("registration failed", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, subjectResponse{
		Username:    subject.Username,
		Email:       subject.Email,
		DateOfBirth: subject.DateOfBirth,
	})
}
