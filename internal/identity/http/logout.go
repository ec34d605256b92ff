package http

import (
	"net/http"
)

// LogoutHandler serves POST /logout behind the authn middleware. Tokens are
// stateless, so logout is purely a client-side cookie clear; a second call
// finds no cookie and answers 401.
type LogoutHandler struct {
	Cookies CookieConfig
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if refreshCookie(r, h.Cookies) == "" {
		writeError(w, http.StatusUnauthorized, msgAlreadyLoggedOut)
		return
	}

	clearRefreshCookie(w, h.Cookies)
	writeMessage(w, http.StatusOK, msgLogoutOK)
}
