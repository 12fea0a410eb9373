package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		metadata map[string]any
		body     string
	}{
		{
			name: "frontmatter and body",
			content: `---
Subject: Password reset
Preheader: Your reset link expires in one hour
---
# Reset your password

Click the link below to choose a new password.
`,
			metadata: map[string]any{
				"Subject":   "Password reset",
				"Preheader": "Your reset link expires in one hour",
			},
			body: "# Reset your password\n\nClick the link below to choose a new password.\n",
		},
		{
			name:     "no frontmatter",
			content:  "# Delivery report\n\nAll messages were delivered.",
			metadata: map[string]any{},
			body:     "# Delivery report\n\nAll messages were delivered.",
		},
		{
			name:     "empty frontmatter block",
			content:  "---\n---\nBody only.",
			metadata: map[string]any{},
			body:     "Body only.",
		},
		{
			name:     "whitespace-only frontmatter",
			content:  "---\n\n---\nBody only.",
			metadata: map[string]any{},
			body:     "Body only.",
		},
		{
			name:     "crlf line endings",
			content:  "---\r\nSubject: Invoice\r\n---\r\nAttached.",
			metadata: map[string]any{"Subject": "Invoice"},
			body:     "Attached.",
		},
		{
			name:     "empty body after frontmatter",
			content:  "---\nSubject: Ping\n---\n",
			metadata: map[string]any{"Subject": "Ping"},
			body:     "",
		},
		{
			name:     "empty content",
			content:  "",
			metadata: map[string]any{},
			body:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := ParseTemplate([]byte(tt.content))
			require.NoError(t, err)
			require.NotNil(t, tmpl)
			require.Equal(t, tt.metadata, tmpl.Metadata)
			require.Equal(t, tt.body, tmpl.Body)
		})
	}
}

func TestParseTemplate_InvalidFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no closing delimiter",
			content: "---\nSubject: Broken\nbody never starts",
		},
		{
			name:    "nothing after opening delimiter",
			content: "---",
		},
		{
			name:    "yaml syntax error",
			content: "---\nTags: [unterminated\n---\nBody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := ParseTemplate([]byte(tt.content))
			require.ErrorIs(t, err, ErrInvalidFrontmatter)
			require.Nil(t, tmpl)
		})
	}
}

func TestParseTemplate_StructuredMetadata(t *testing.T) {
	t.Parallel()

	content := []byte(`---
Subject: Weekly digest
RetryCount: 3
Categories:
  - digest
  - weekly
Headers:
  X-Campaign: digest-2026
---
Digest body.`)

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)

	require.Equal(t, "Weekly digest", tmpl.Metadata["Subject"])
	require.Equal(t, 3, tmpl.Metadata["RetryCount"])

	categories, ok := tmpl.Metadata["Categories"].([]any)
	require.True(t, ok)
	require.Equal(t, []any{"digest", "weekly"}, categories)

	headers, ok := tmpl.Metadata["Headers"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "digest-2026", headers["X-Campaign"])

	require.Equal(t, "Digest body.", tmpl.Body)
}

// The closing delimiter match is on the first occurrence, so a literal
// "---" later in the body must survive into the parsed body.
func TestParseTemplate_BodyContainsDelimiter(t *testing.T) {
	t.Parallel()

	content := []byte("---\nSubject: Changelog\n---\nBefore the rule.\n\n---\n\nAfter the rule.\n")

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)
	require.Equal(t, "Changelog", tmpl.Metadata["Subject"])
	require.Contains(t, tmpl.Body, "---")
	require.Contains(t, tmpl.Body, "After the rule.")
}
