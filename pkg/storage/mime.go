package storage

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

// MIMEOctetStream is the fallback content type when sniffing fails.
const MIMEOctetStream = "application/octet-stream"

// http.DetectContentType uses at most 512 bytes.
const sniffBytes = 512

// mimeExtensions maps content types commonly seen on email attachments
// to the extension used in generated keys.
var mimeExtensions = map[string]string{
	"application/pdf":  ".pdf",
	"application/zip":  ".zip",
	"application/gzip": ".gz",
	"application/json": ".json",
	"application/xml":  ".xml",
	"text/plain":       ".txt",
	"text/csv":         ".csv",
	"text/html":        ".html",
	"text/calendar":    ".ics",
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"image/svg+xml":    ".svg",
	"message/rfc822":   ".eml",
}

// ExtFromMIME returns the generated-key extension for a content type,
// or "" when the type is unknown.
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// sniffContent detects the content type from the first bytes of r and
// hands back a seekable reader over the full content, since the AWS
// SDK needs io.ReadSeeker to compute the payload hash. Non-seekable
// input is buffered in memory.
func sniffContent(r io.Reader) (string, io.ReadSeeker) {
	if rs, ok := r.(io.ReadSeeker); ok {
		buf := make([]byte, sniffBytes)
		n, _ := rs.Read(buf)
		_, _ = rs.Seek(0, io.SeekStart)
		if n > 0 {
			return http.DetectContentType(buf[:n]), rs
		}
		return MIMEOctetStream, rs
	}

	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return MIMEOctetStream, bytes.NewReader(nil)
	}
	return http.DetectContentType(data), bytes.NewReader(data)
}

// normalizeMIME strips parameters like charset and lowercases the type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// matchesMIME reports whether mimeType matches any allowed pattern.
// A pattern ending in "/*" matches the whole top-level type.
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)
	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))
		if mimeType == pattern {
			return true
		}
		if strings.HasSuffix(pattern, "/*") {
			if strings.HasPrefix(mimeType, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		}
	}
	return false
}
