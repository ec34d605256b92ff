package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/astroline/identity/internal/identity/service"
	"github.com/astroline/identity/internal/identity/store"
	"github.com/astroline/identity/pkg/httpx"
	"github.com/astroline/identity/pkg/jwtx"
	"github.com/astroline/identity/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	cookies      CookieConfig

	store           store.Store
	AuthService     *service.AuthService
	SessionService  *service.SessionService
	RegisterService *service.RegisterService
	PasswordService *service.PasswordService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	cookies CookieConfig,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		cookies:      cookies,
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerSessions()
	r.registerPasswords()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	r.Mux.Handle("POST /register", &RegisterHandler{
		RegisterService: r.RegisterService,
	})

	r.Mux.Handle("GET /user", httpx.Chain(&UserInfoHandler{},
		AuthnMiddleware(r.AuthService),
	))
}

func (r *Router) registerSessions() {
	r.Mux.Handle("POST /login", &LoginHandler{
		SessionService: r.SessionService,
		Cookies:        r.cookies,
	})

	r.Mux.Handle("POST /refresh", &RefreshHandler{
		SessionService: r.SessionService,
		Cookies:        r.cookies,
	})

	r.Mux.Handle("POST /logout", httpx.Chain(&LogoutHandler{Cookies: r.cookies},
		AuthnMiddleware(r.AuthService),
	))
}

func (r *Router) registerPasswords() {
	r.Mux.Handle("PUT /change-password", httpx.Chain(
		&ChangePasswordHandler{
			PasswordService: r.PasswordService,
			Cookies:         r.cookies,
		},
		AuthnMiddleware(r.AuthService),
	))

	r.Mux.Handle("POST /reset-password", &ResetRequestHandler{
		PasswordService: r.PasswordService,
	})

	r.Mux.Handle("POST /reset-password/reset", &ResetApplyHandler{
		PasswordService: r.PasswordService,
	})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(
		r.startTime, r.buildVersion, r.issuer,
		r.store, r.signer, r.verifier,
	))
}
