package webhook

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/postwing/postwing/pkg/cache"
)

// DefaultDedupeWindow covers the longest retry schedule observed across
// providers with room to spare.
const DefaultDedupeWindow = 24 * time.Hour

// Dedupe wraps a parser so events already seen within the window are
// dropped. Providers redeliver whole callback batches on timeouts, so a
// slow listener otherwise produces duplicate tracking events.
//
// Cache failures fail open: an event is kept rather than lost.
func Dedupe(p Parser, c cache.Cache[struct{}], window time.Duration) Parser {
	if window <= 0 {
		window = DefaultDedupeWindow
	}
	return &dedupeParser{parser: p, cache: c, window: window}
}

type dedupeParser struct {
	parser Parser
	cache  cache.Cache[struct{}]
	window time.Duration
}

func (d *dedupeParser) Provider() string { return d.parser.Provider() }

func (d *dedupeParser) Parse(r *http.Request) ([]Event, error) {
	events, err := d.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	fresh := events[:0]
	for _, e := range events {
		key := dedupeKey(d.parser.Provider(), e)

		seen, err := d.cache.Has(r.Context(), key)
		if err == nil && seen {
			continue
		}
		_ = d.cache.Set(r.Context(), key, struct{}{}, d.window)
		fresh = append(fresh, e)
	}
	return fresh, nil
}

// dedupeKey identifies one event. Providers that send an event ID get
// exact deduplication; for the rest the message, type, and timestamp
// together are unique enough.
func dedupeKey(provider string, e Event) string {
	if e.EventID != "" {
		return strings.Join([]string{provider, e.EventID}, ":")
	}
	return fmt.Sprintf("%s:%s:%s:%s:%d",
		provider, e.MessageID, e.Recipient, e.Type, e.Timestamp.Unix())
}
