package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LivenessHandler answers 200 unconditionally. It only proves the
// daemon's HTTP loop is alive; backend state belongs to readiness.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jsonRequested(r) {
			respond(w, http.StatusOK, &Response{Status: StatusHealthy})
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs every registered check (Postgres, Redis, the
// job queue) on each request and reports 503 while any backend is
// down, which keeps traffic away until sends can actually be queued.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		code := http.StatusOK
		body := "OK"
		if resp.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
			body = "Service Unavailable"
		}

		if jsonRequested(r) {
			respond(w, code, resp)
			return
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

// Probes default to plain text; ?format=json or an Accept header opts
// into the structured per-check payload.
func jsonRequested(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
