package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/astroline/identity/internal/identity/domain"
	"github.com/astroline/identity/internal/identity/service"
	"github.com/astroline/identity/pkg/httpx"
	"github.com/astroline/identity/pkg/jwtx"
	"github.com/astroline/identity/pkg/slogx"
)

type ctxKey int

const ctxKeySubject ctxKey = iota

// SubjectFromContext returns the authenticated subject placed by
// AuthnMiddleware. The bool is false on unauthenticated requests.
func SubjectFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeySubject).(domain.User)
	return u, ok
}

// AuthnMiddleware gates a handler behind a bearer access token. Each failure
// class gets its own message so clients can tell "log in again" apart from
// "refresh" and from "you sent nothing".
func AuthnMiddleware(gate *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := bearerToken(r)
			if raw == "" {
				writeError(w, http.StatusUnauthorized, msgNoCredentials)
				return
			}

			subject, _, err := gate.Authenticate(ctx, raw)
			if err != nil {
				switch {
				case errors.Is(err, jwtx.ErrExpired):
					writeError(w, http.StatusUnauthorized, msgAccessExpired)
				case errors.Is(err, service.ErrRevoked):
					writeError(w, http.StatusUnauthorized, msgPasswordChanged)
				case errors.Is(err, service.ErrInactive):
					writeError(w, http.StatusUnauthorized, msgInactiveAccount)
				case errors.Is(err, jwtx.ErrMalformed),
					errors.Is(err, jwtx.ErrInvalidSig),
					errors.Is(err, jwtx.ErrIssuer),
					errors.Is(err, jwtx.ErrWrongType),
					errors.Is(err, jwtx.ErrInvalidClaim):
					writeError(w, http.StatusUnauthorized, msgInvalidToken)
				default:
					slogx.FromContext(ctx).Error("authentication failed", "err", err)
					writeError(w, http.StatusInternalServerError, "Internal server error.")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKeySubject, subject)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header,
// or "" when no usable credentials were supplied.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
