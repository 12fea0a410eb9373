package storage

// Option configures a Put.
type Option func(*putOptions)

type putOptions struct {
	key         string // exact key, overrides generation
	prefix      string // prefix for generated keys
	contentType string // overrides sniffed content type
	acl         ACL
	rules       []ValidationRule
}

// WithKey stores the blob at exactly this key. An existing object at
// the key is overwritten.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithPrefix puts generated keys under a prefix, e.g.
// WithPrefix("attachments") yields "attachments/{ulid}{ext}".
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithContentType skips sniffing and stores the blob with this content
// type. Inbound attachments carry a declared type from their MIME part;
// pass it here.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithACL overrides the configured default ACL for this blob.
func WithACL(acl ACL) Option {
	return func(o *putOptions) {
		o.acl = acl
	}
}

// WithValidation checks the rules before uploading. The first failing
// rule aborts the Put with a *FileValidationError.
func WithValidation(rules ...ValidationRule) Option {
	return func(o *putOptions) {
		o.rules = append(o.rules, rules...)
	}
}
