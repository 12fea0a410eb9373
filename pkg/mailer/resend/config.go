package resend

// Config holds Resend email provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME"`

	// IgnoreUnsupported drops message features the API cannot express
	// (per-recipient merge data, template references, tracking toggles)
	// instead of failing.
	IgnoreUnsupported bool `env:"RESEND_IGNORE_UNSUPPORTED"`
}
