package brevo

// DefaultAPIURL is the Brevo (ex Sendinblue) v3 API base.
const DefaultAPIURL = "https://api.brevo.com/v3"

// Config holds Brevo provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey string `env:"BREVO_API_KEY,required"`
	APIURL string `env:"BREVO_API_URL" envDefault:"https://api.brevo.com/v3"`

	// IgnoreUnsupported drops message features the API cannot express
	// (per-recipient merge data, inline attachments by content ID,
	// envelope sender) instead of failing.
	IgnoreUnsupported bool `env:"BREVO_IGNORE_UNSUPPORTED"`
}
