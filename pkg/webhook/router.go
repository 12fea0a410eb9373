package webhook

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ErrAuthFailed indicates the webhook request failed provider
// authentication. Handlers answer it with 403 instead of 400.
var ErrAuthFailed = errors.New("webhook authentication failed")

// Parser turns a provider's webhook request into normalized events.
// Implementations live in the provider subpackages.
type Parser interface {
	// Provider is the URL slug the parser is mounted under.
	Provider() string

	// Parse authenticates the request and extracts its events.
	// Authentication failures must wrap ErrAuthFailed.
	Parse(r *http.Request) ([]Event, error)
}

// Router mounts each parser at POST /{provider} and dispatches parsed
// events. Mount it under a path prefix such as /webhooks.
func Router(d *Dispatcher, log *slog.Logger, parsers ...Parser) chi.Router {
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()
	for _, p := range parsers {
		r.Method(http.MethodPost, "/"+p.Provider(), NewHandler(p, d, log))
	}
	return r
}

// NewHandler wraps one provider parser as an http.Handler.
func NewHandler(p Parser, d *Dispatcher, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		events, err := p.Parse(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, ErrAuthFailed) {
				status = http.StatusForbidden
			}
			log.WarnContext(r.Context(), "rejected webhook request",
				slog.String("provider", p.Provider()),
				slog.Int("status", status),
				slog.Any("error", err),
			)
			http.Error(w, http.StatusText(status), status)
			return
		}

		d.Dispatch(r.Context(), events...)
		w.WriteHeader(http.StatusOK)
	})
}
