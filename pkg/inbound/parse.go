// Package inbound parses received email into a structure convenient
// for application handling: decoded bodies, address lists, and
// attachments separated from inline parts.
//
// Parsing is tolerant the way mail handling has to be: unknown
// charsets fall back to the raw bytes, missing headers yield zero
// values, and only structurally broken MIME returns an error.
package inbound

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/postwing/postwing/pkg/email"
)

// ErrMalformedMessage indicates the input is not parseable as an email
// message.
var ErrMalformedMessage = errors.New("inbound: malformed message")

// wordDecoder handles RFC 2047 encoded words in any charset the HTML
// index knows.
var wordDecoder = &mime.WordDecoder{
	CharsetReader: charsetReader,
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("inbound: unknown charset %q: %w", charset, err)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// addressParser decodes encoded-word display names while parsing.
var addressParser = &mail.AddressParser{WordDecoder: wordDecoder}

// ParseRaw parses a complete raw MIME message.
func ParseRaw(r io.Reader) (*Message, error) {
	parsed, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	msg := &Message{
		Header: map[string][]string(parsed.Header),
		Inline: make(map[string]Attachment),
	}

	if subject := parsed.Header.Get("Subject"); subject != "" {
		msg.Subject = decodeWord(subject)
	}
	if date, err := parsed.Header.Date(); err == nil {
		msg.Date = date
	}
	msg.From = addressList(parsed.Header.Get("From"))
	msg.To = addressList(parsed.Header.Get("To"))
	msg.CC = addressList(parsed.Header.Get("Cc"))

	if err := walkEntity(msg, textproto.MIMEHeader(parsed.Header), parsed.Body); err != nil {
		return nil, err
	}
	return msg, nil
}

// ParseRawBytes is ParseRaw over a byte slice.
func ParseRawBytes(raw []byte) (*Message, error) {
	return ParseRaw(bytes.NewReader(raw))
}

// walkEntity processes one MIME entity: multiparts recurse, text parts
// become bodies, everything else becomes an attachment.
func walkEntity(msg *Message, header textproto.MIMEHeader, body io.Reader) error {
	contentType, params := mediaType(header)

	if strings.HasPrefix(contentType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return fmt.Errorf("%w: multipart without boundary", ErrMalformedMessage)
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
			}
			if err := walkEntity(msg, part.Header, part); err != nil {
				return err
			}
		}
	}

	content, err := decodeContent(header, body)
	if err != nil {
		return err
	}

	disposition, dispositionParams := contentDisposition(header)
	contentID := strings.Trim(header.Get("Content-Id"), "<>")

	switch {
	case disposition == "attachment":
		att, err := buildAttachment(header, dispositionParams, params, content, contentID)
		if err != nil {
			return err
		}
		msg.Attachments = append(msg.Attachments, att)

	case contentID != "":
		att, err := buildAttachment(header, dispositionParams, params, content, contentID)
		if err != nil {
			return err
		}
		msg.Inline[contentID] = att

	case contentType == "text/plain" && msg.Text == "":
		msg.Text = decodeText(content, params["charset"])

	case contentType == "text/html" && msg.HTML == "":
		msg.HTML = decodeText(content, params["charset"])

	case disposition == "inline" && dispositionParams["filename"] != "":
		att, err := buildAttachment(header, dispositionParams, params, content, "")
		if err != nil {
			return err
		}
		msg.Attachments = append(msg.Attachments, att)
	}
	return nil
}

func buildAttachment(header textproto.MIMEHeader, dispositionParams, typeParams map[string]string, content []byte, contentID string) (Attachment, error) {
	contentType, _ := mediaType(header)

	filename := dispositionParams["filename"]
	if filename == "" {
		filename = typeParams["name"]
	}

	att := Attachment{
		Filename:    decodeWord(filename),
		ContentType: contentType,
		ContentID:   contentID,
		Content:     content,
	}

	// Bounce reports and forwards attach the original message whole;
	// parse it so handlers can inspect it without another round trip.
	if contentType == "message/rfc822" {
		nested, err := ParseRawBytes(content)
		if err != nil {
			return Attachment{}, err
		}
		att.Message = nested
	}
	return att, nil
}

// decodeContent reads a part body, reversing its transfer encoding.
func decodeContent(header textproto.MIMEHeader, body io.Reader) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "base64":
		body = base64.NewDecoder(base64.StdEncoding, newWhitespaceStripper(body))
	case "quoted-printable":
		body = quotedprintable.NewReader(body)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return content, nil
}

// decodeText converts body bytes to UTF-8. Unknown or missing charsets
// fall back to the bytes as-is.
func decodeText(content []byte, charset string) string {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
		return string(content)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(content)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), content)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}

func mediaType(header textproto.MIMEHeader) (string, map[string]string) {
	contentType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		return "text/plain", map[string]string{}
	}
	return contentType, params
}

func contentDisposition(header textproto.MIMEHeader) (string, map[string]string) {
	disposition, params, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	if err != nil {
		return "", map[string]string{}
	}
	return disposition, params
}

func decodeWord(s string) string {
	decoded, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return decoded
}

func addressList(value string) []email.Addr {
	if value == "" {
		return nil
	}
	parsed, err := addressParser.ParseList(value)
	if err != nil {
		return nil
	}
	addrs := make([]email.Addr, len(parsed))
	for i, a := range parsed {
		addrs[i] = email.Addr{Name: a.Name, Address: a.Address}
	}
	return addrs
}

func canonicalKey(key string) string {
	return textproto.CanonicalMIMEHeaderKey(key)
}

// whitespaceStripper drops line breaks and spaces so wrapped base64
// bodies decode cleanly.
type whitespaceStripper struct {
	r io.Reader
}

func newWhitespaceStripper(r io.Reader) io.Reader {
	return &whitespaceStripper{r: r}
}

func (w *whitespaceStripper) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	kept := 0
	for _, b := range p[:n] {
		switch b {
		case '\r', '\n', ' ', '\t':
			continue
		default:
			p[kept] = b
			kept++
		}
	}
	if kept == 0 && n > 0 && err == nil {
		return w.Read(p)
	}
	return kept, err
}
