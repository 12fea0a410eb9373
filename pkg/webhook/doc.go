// Package webhook normalizes email provider tracking callbacks into a
// single event model and fans them out to application listeners.
//
// Provider specifics (payload shapes, authentication, event name
// mappings) live in the subpackages; this package owns the normalized
// Event type, the Dispatcher, and the HTTP plumbing that mounts one
// handler per provider.
package webhook
