package http

import (
	"net/http"
	"time"

	"github.com/astroline/identity/internal/identity/store"
	"github.com/astroline/identity/pkg/httpx"
	"github.com/astroline/identity/pkg/jwtx"
)

type healthChecks struct {
	Database string `json:"database,omitempty"`
	Codec    string `json:"codec,omitempty"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

// LivezHandler answers 200 whenever the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler checks the store and the token codec. The codec probe mints
// and verifies a throwaway token, which exercises the configured secret end
// to end.
func ReadyzHandler(
	startTime time.Time,
	version, issuer string,
	st store.Store,
	signer jwtx.Signer,
	verifier jwtx.Verifier,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{
			Database: "ok",
			Codec:    "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if err := probeCodec(signer, verifier, issuer); err != nil {
			checks.Codec = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

func probeCodec(signer jwtx.Signer, verifier jwtx.Verifier, issuer string) error {
	raw, err := signer.Sign(jwtx.NewClaims("readyz", jwtx.TypeAccess, issuer, time.Minute, time.Now()))
	if err != nil {
		return err
	}
	_, err = verifier.Verify(raw)
	return err
}
