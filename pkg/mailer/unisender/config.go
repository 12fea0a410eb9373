package unisender

// DefaultAPIURL is the Unisender Go transactional API base.
const DefaultAPIURL = "https://go1.unisender.ru/ru/transactional/api/v1"

// Config holds Unisender Go provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey string `env:"UNISENDER_GO_API_KEY,required"`
	APIURL string `env:"UNISENDER_GO_API_URL" envDefault:"https://go1.unisender.ru/ru/transactional/api/v1"`

	// DisableGeneratedIDs stops the sender from assigning a generated
	// per-recipient message ID (stored in recipient metadata under
	// MessageIDKey). Without generated IDs, tracking falls back to the
	// per-call job ID shared by all recipients.
	DisableGeneratedIDs bool `env:"UNISENDER_GO_DISABLE_GENERATED_IDS"`

	// IgnoreUnsupported drops message features the API cannot express
	// (envelope sender, cc with batch send) instead of failing.
	IgnoreUnsupported bool `env:"UNISENDER_GO_IGNORE_UNSUPPORTED"`
}

// MessageIDKey is the recipient metadata key carrying the generated
// message ID. Webhook parsing reads the same key back from events.
const MessageIDKey = "postwing_id"
