// Package email defines the provider-neutral message model shared by all
// ESP backends.
//
// A Message describes one transactional email in provider-independent
// terms: addresses in RFC 5322 name-addr form, bodies, attachments,
// tracking flags, per-recipient merge data for batch sends, and an Extra
// map for provider-specific passthrough. Backends translate a Message
// into their wire payload and report the outcome as a Result with one
// RecipientStatus per recipient, so callers can react to partial
// rejection without parsing provider responses themselves.
package email
