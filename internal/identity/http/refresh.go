package http

import (
	"errors"
	"net/http"

	"github.com/astroline/identity/internal/identity/service"
	"github.com/astroline/identity/pkg/httpx"
	"github.com/astroline/identity/pkg/jwtx"
	"github.com/astroline/identity/pkg/slogx"
)

// RefreshHandler serves POST /refresh. The refresh token travels only in the
// http-only cookie, never in the body, and a successful exchange re-sets the
// cookie with the rotated token.
type RefreshHandler struct {
	SessionService *service.SessionService
	Cookies        CookieConfig
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	raw := refreshCookie(r, h.Cookies)
	if raw == "" {
		writeError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	pair, err := h.SessionService.Refresh(ctx, raw)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			writeError(w, http.StatusUnauthorized, msgRefreshExpired)
		case errors.Is(err, service.ErrRevoked):
			writeError(w, http.StatusUnauthorized, msgPasswordChanged)
		case errors.Is(err, service.ErrInactive):
			writeError(w, http.StatusUnauthorized, msgInactiveAccount)
		case errors.Is(err, service.ErrInvalidRefresh),
			errors.Is(err, jwtx.ErrMalformed),
			errors.Is(err, jwtx.ErrInvalidSig),
			errors.Is(err, jwtx.ErrIssuer),
			errors.Is(err, jwtx.ErrInvalidClaim):
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
		default:
			log.Error("token refresh failed", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	setRefreshCookie(w, h.Cookies, pair.Refresh)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, pair)
}
