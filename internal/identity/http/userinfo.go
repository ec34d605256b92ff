package http

import (
	"net/http"

	"github.com/astroline/identity/pkg/httpx"
)

// UserInfoHandler serves GET /user behind the authn middleware.
type UserInfoHandler struct{}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNoCredentials)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, subjectResponse{
		Username:    subject.Username,
		Email:       subject.Email,
		DateOfBirth: subject.DateOfBirth,
	})
}
