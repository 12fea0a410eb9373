package unisender

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"

	"github.com/postwing/postwing/pkg/email"
	"github.com/postwing/postwing/pkg/mailer"
)

// sendAtLayout is the UTC timestamp format the API expects.
const sendAtLayout = "2006-01-02 15:04:05"

// headerSpecials are the display-name characters the API's to/cc header
// parser mishandles unless the name is RFC 2047 encoded.
const headerSpecials = ",<>@"

// atext are the RFC 5322 atom characters; display names made of these
// (plus spaces) can be sent literally in reply_to_name.
const atext = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
	"!#$%&'*+-/=?^_`{|}~"

// buildPayload translates a neutral message to the email/send.json
// "message" object. recipientIDs maps lowercased addr-spec to the
// generated message ID (empty when generation is disabled).
func (s *Sender) buildPayload(msg *email.Message) (map[string]any, map[string]string, error) {
	if msg.EnvelopeSender != "" && !s.config.IgnoreUnsupported {
		return nil, nil, mailer.UnsupportedFeatureError("envelope_sender")
	}

	payload := map[string]any{}
	if msg.Subject != "" {
		payload["subject"] = msg.Subject
	}

	body := map[string]any{}
	if msg.Text != "" {
		body["plaintext"] = msg.Text
	}
	if msg.HTML != "" {
		body["html"] = msg.HTML
	}
	if msg.AMPHTML != "" {
		body["amp"] = msg.AMPHTML
	}
	if len(body) > 0 {
		payload["body"] = body
	}

	if msg.From != "" {
		from, err := email.ParseAddr(msg.From)
		if err != nil {
			return nil, nil, err
		}
		payload["from_email"] = from.Address
		if from.Name != "" {
			payload["from_name"] = from.Name
		}
	}

	to, err := email.ParseAddrList(msg.To)
	if err != nil {
		return nil, nil, err
	}
	cc, err := email.ParseAddrList(msg.CC)
	if err != nil {
		return nil, nil, err
	}
	bcc, err := email.ParseAddrList(msg.BCC)
	if err != nil {
		return nil, nil, err
	}

	if msg.IsBatch() && len(cc) > 0 && !s.config.IgnoreUnsupported {
		return nil, nil, mailer.UnsupportedFeatureError("cc with batch send (merge data or merge metadata)")
	}

	recipientIDs := make(map[string]string)
	recipients := make([]map[string]any, 0, len(to)+len(cc)+len(bcc))
	for _, addr := range append(append(append([]email.Addr{}, to...), cc...), bcc...) {
		recipients = append(recipients, s.buildRecipient(msg, addr, recipientIDs))
	}
	if len(recipients) > 0 {
		payload["recipients"] = recipients
	}

	headers, replyTo, err := buildHeaders(msg, to, cc)
	if err != nil {
		return nil, nil, err
	}
	if len(headers) > 0 {
		payload["headers"] = headers
	}
	if replyTo.Address != "" {
		payload["reply_to"] = replyTo.Address
		if replyTo.Name != "" {
			payload["reply_to_name"] = encodeReplyToName(replyTo.Name)
		}
	}

	if len(msg.Attachments) > 0 {
		payload["attachments"] = buildAttachments(msg.Attachments)
	}
	if len(msg.Inline) > 0 {
		payload["inline_attachments"] = buildAttachments(msg.Inline)
	}

	if len(msg.Tags) > 0 {
		payload["tags"] = msg.Tags
	}
	if msg.TemplateID != "" {
		payload["template_id"] = msg.TemplateID
	}
	if len(msg.GlobalMergeData) > 0 {
		payload["global_substitutions"] = msg.GlobalMergeData
	}
	if len(msg.Metadata) > 0 {
		payload["global_metadata"] = msg.Metadata
	}
	if msg.TrackClicks != nil {
		payload["track_links"] = boolToInt(*msg.TrackClicks)
	}
	if msg.TrackOpens != nil {
		payload["track_read"] = boolToInt(*msg.TrackOpens)
	}
	if !msg.SendAt.IsZero() {
		options := map[string]any{"send_at": msg.SendAt.UTC().Format(sendAtLayout)}
		payload["options"] = options
	}

	// Provider passthrough wins over everything above; nested maps
	// (notably "options") are merged rather than replaced.
	deepMerge(payload, msg.Extra)

	return payload, recipientIDs, nil
}

// buildRecipient produces one recipients[] entry, folding merge data,
// the to_name substitution, merge metadata, and the generated message ID.
func (s *Sender) buildRecipient(msg *email.Message, addr email.Addr, recipientIDs map[string]string) map[string]any {
	entry := map[string]any{"email": addr.Address}

	substitutions := map[string]any{}
	for k, v := range msg.MergeData[addr.Address] {
		substitutions[k] = v
	}
	if addr.Name != "" {
		substitutions["to_name"] = addr.Name
	}
	if len(substitutions) > 0 {
		entry["substitutions"] = substitutions
	}

	metadata := map[string]any{}
	for k, v := range msg.MergeMetadata[addr.Address] {
		metadata[k] = v
	}
	if !s.config.DisableGeneratedIDs {
		id := s.newID()
		key := strings.ToLower(addr.Address)
		// Duplicate recipients keep the first ID: the provider sends
		// the first instance and fails the rest.
		if _, seen := recipientIDs[key]; !seen {
			recipientIDs[key] = id
		}
		metadata[MessageIDKey] = id
	}
	if len(metadata) > 0 {
		entry["metadata"] = metadata
	}

	return entry
}

// buildHeaders assembles the headers object from extra message headers
// plus joined to/cc lists. Batch sends must not carry a common to or cc
// header: each recipient gets an individual message. Reply-To is pulled
// out into its own parameters.
func buildHeaders(msg *email.Message, to, cc []email.Addr) (map[string]any, email.Addr, error) {
	headers := make(map[string]any, len(msg.Headers)+2)
	var replyTo email.Addr

	for k, v := range msg.Headers {
		if strings.EqualFold(k, "Reply-To") {
			s, ok := v.(string)
			if !ok {
				return nil, email.Addr{}, mailer.UnsupportedFeatureError("non-string Reply-To header")
			}
			addr, err := email.ParseAddr(s)
			if err != nil {
				return nil, email.Addr{}, err
			}
			replyTo = addr
			continue
		}
		headers[k] = v
	}

	if msg.ReplyTo != "" {
		addr, err := email.ParseAddr(msg.ReplyTo)
		if err != nil {
			return nil, email.Addr{}, err
		}
		replyTo = addr
	}

	if !msg.IsBatch() {
		if len(to) > 0 {
			headers["to"] = joinAddrHeader(to)
		}
		if len(cc) > 0 {
			headers["cc"] = joinAddrHeader(cc)
		}
	}

	return headers, replyTo, nil
}

// joinAddrHeader formats an address list for the to/cc headers,
// Q-encoding display names the provider's parser chokes on.
func joinAddrHeader(addrs []email.Addr) string {
	parts := make([]string, len(addrs))
	for i, addr := range addrs {
		if addr.Name != "" && strings.ContainsAny(addr.Name, headerSpecials) {
			parts[i] = email.QEncodeWord(addr.Name) + " <" + addr.Address + ">"
		} else {
			parts[i] = addr.String()
		}
	}
	return strings.Join(parts, ", ")
}

// encodeReplyToName Q-encodes a reply-to display name unless it is made
// of plain atom characters and spaces.
func encodeReplyToName(name string) string {
	for _, r := range name {
		if r == ' ' || strings.ContainsRune(atext, r) {
			continue
		}
		return email.QEncodeWord(name)
	}
	return name
}

func buildAttachments(attachments []email.Attachment) []map[string]any {
	result := make([]map[string]any, len(attachments))
	for i, a := range attachments {
		name := a.Filename
		if a.ContentID != "" {
			name = a.ContentID
		}
		result[i] = map[string]any{
			"name":    name, // required by the API even when empty
			"content": base64.StdEncoding.EncodeToString(a.Content),
			"type":    attachmentType(a),
		}
	}
	return result
}

// attachmentType resolves the MIME type, inferring from the filename
// extension when not provided.
func attachmentType(a email.Attachment) string {
	if a.ContentType != "" {
		return a.ContentType
	}
	if ext := filepath.Ext(a.Filename); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			// Strip parameters such as "; charset=utf-8".
			if base, _, err := mime.ParseMediaType(t); err == nil {
				return base
			}
			return t
		}
	}
	return "application/octet-stream"
}

// deepMerge merges src into dst, recursing into nested maps so that
// passthrough options extend rather than replace built values.
func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
