package email

// Status is the normalized delivery status a provider reported for one
// recipient at send time.
type Status string

const (
	// StatusQueued means the provider accepted the message for delivery.
	StatusQueued Status = "queued"
	// StatusRejected means the provider permanently refused the recipient.
	StatusRejected Status = "rejected"
	// StatusFailed means delivery failed for a temporary reason.
	StatusFailed Status = "failed"
	// StatusInvalid means the recipient address was not deliverable.
	StatusInvalid Status = "invalid"
	// StatusUnknown means the provider response did not mention the
	// recipient.
	StatusUnknown Status = "unknown"
)

// RecipientStatus is the send outcome for a single recipient.
type RecipientStatus struct {
	Status Status
	// MessageID identifies the message for this recipient in later
	// tracking events. Empty when the recipient was not accepted.
	MessageID string
}

// Result is the outcome of one provider send call.
type Result struct {
	// Recipients maps addr-spec (lowercased domain-insensitively by the
	// provider) to its status.
	Recipients map[string]RecipientStatus
	// Response is the provider's raw response body, kept for debugging.
	Response []byte
}

// AllRefused reports whether every recipient was rejected or invalid.
// Callers typically surface this as an error: the message reached no one.
func (r *Result) AllRefused() bool {
	if len(r.Recipients) == 0 {
		return false
	}
	for _, rs := range r.Recipients {
		if rs.Status != StatusRejected && rs.Status != StatusInvalid {
			return false
		}
	}
	return true
}

// Queued returns the addr-specs the provider accepted.
func (r *Result) Queued() []string {
	var queued []string
	for addr, rs := range r.Recipients {
		if rs.Status == StatusQueued {
			queued = append(queued, addr)
		}
	}
	return queued
}
