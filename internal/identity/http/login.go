package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astroline/identity/internal/identity/service"
	"github.com/astroline/identity/pkg/httpx"
	"github.com/astroline/identity/pkg/slogx"
)

// LoginHandler serves POST /login. Unknown email, wrong password and
// inactive accounts all answer the same 404 so the endpoint cannot be used
// to enumerate accounts.
type LoginHandler struct {
	SessionService *service.SessionService
	Cookies        CookieConfig
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}

	_, pair, err := h.SessionService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusNotFound, msgInvalidCredentials)
			return
		}
		log.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	setRefreshCookie(w, h.Cookies, pair.Refresh)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, pair)
}
