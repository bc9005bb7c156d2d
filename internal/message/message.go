/*
Package message assembles the outgoing MIME message: body-source
loading, placeholder rendering, body-structure selection, extra header
validation, and attachment loading.

The part structure is decided purely by which body channels are
present: text only and html only produce a single part, both produce a
multipart/alternative with the plain part first, and attachments wrap
whichever base in a multipart/mixed.
*/
package message

import (
	"bytes"
	"strings"

	mail "github.com/wneessen/go-mail"

	"github.com/mailbolt/mailbolt/internal/errs"
)

// Envelope names the addressing fields of the message.
type Envelope struct {
	From string
	To   []string
	Cc   []string
	Bcc  []string
}

// Compose builds the message from already-validated pieces. Address
// strings are parsed as RFC 5322 mailboxes; a malformed address is a
// parse error naming the offending value.
func Compose(env Envelope, rendered Rendered, attachments []*Attachment) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(env.From); err != nil {
		return nil, errs.Parse("invalid email address %q: %w", env.From, err)
	}
	for _, addr := range env.To {
		if err := msg.AddTo(addr); err != nil {
			return nil, errs.Parse("invalid email address %q: %w", addr, err)
		}
	}
	for _, addr := range env.Cc {
		if err := msg.AddCc(addr); err != nil {
			return nil, errs.Parse("invalid email address %q: %w", addr, err)
		}
	}
	for _, addr := range env.Bcc {
		if err := msg.AddBcc(addr); err != nil {
			return nil, errs.Parse("invalid email address %q: %w", addr, err)
		}
	}

	if err := applyHeaders(msg, rendered.Headers); err != nil {
		return nil, err
	}
	msg.Subject(rendered.Subject)

	switch {
	case rendered.Text != nil && rendered.HTML != nil:
		msg.SetBodyString(mail.TypeTextPlain, *rendered.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, *rendered.HTML)
	case rendered.Text != nil:
		msg.SetBodyString(mail.TypeTextPlain, *rendered.Text)
	case rendered.HTML != nil:
		msg.SetBodyString(mail.TypeTextHTML, *rendered.HTML)
	default:
		return nil, errs.Config("provide --text and/or --html for message body")
	}

	for _, attachment := range attachments {
		err := msg.AttachReader(attachment.Filename, bytes.NewReader(attachment.Data),
			mail.WithFileContentType(mail.ContentType(attachment.ContentType)))
		if err != nil {
			return nil, errs.IO("failed to attach %s: %w", attachment.Filename, err)
		}
	}

	return msg, nil
}

// applyHeaders parses each raw "Name: Value" line and sets it on the
// message in input order. Lines are applied mechanically; duplicates
// of generated headers are not deduplicated.
func applyHeaders(msg *mail.Msg, headers []string) error {
	for _, raw := range headers {
		name, value, found := strings.Cut(raw, ":")
		if !found {
			return errs.Parse("invalid header %q: expected Name:Value", raw)
		}
		name = strings.TrimSpace(name)
		if !validHeaderName(name) {
			return errs.Parse("invalid header name: %q", name)
		}
		msg.SetGenHeader(mail.Header(name), strings.TrimSpace(value))
	}
	return nil
}

// validHeaderName reports whether name is a non-empty RFC 5322 header
// token: printable ASCII without colons.
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || c == ':' {
			return false
		}
	}
	return true
}
