/*
Package transport delivers a finished message over SMTP.

The message arrives as raw bytes with its envelope already extracted,
so every delivery attempt puts exactly the same bytes on the wire.
Plain connections upgrade via STARTTLS when the server offers it; the
smtps scheme wraps the connection in TLS from the start.
*/
package transport

import (
	"bytes"
	"fmt"
	"net"
	"strconv"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/mailbolt/mailbolt/internal/conn"
)

// Message is a fully composed and signed message plus its envelope.
type Message struct {
	From       string
	Recipients []string
	Raw        []byte
}

// Sender performs one delivery attempt.
type Sender interface {
	Send(msg *Message) error
}

// SMTP sends messages to the host and port of a resolved connection
// descriptor, authenticating with SASL PLAIN when credentials are set.
type SMTP struct {
	desc *conn.Descriptor
}

// NewSMTP returns a Sender for the given connection descriptor.
func NewSMTP(desc *conn.Descriptor) *SMTP {
	return &SMTP{desc: desc}
}

// Send performs a single SMTP transaction. All failures (dial, TLS,
// auth, protocol rejection) are reported uniformly; retrying is the
// caller's concern.
func (s *SMTP) Send(msg *Message) error {
	addr := net.JoinHostPort(s.desc.Host, strconv.Itoa(int(s.desc.Port)))

	var auth sasl.Client
	if s.desc.Auth != nil {
		auth = sasl.NewPlainClient("", s.desc.Auth.User, s.desc.Auth.Pass)
	}

	var err error
	if s.desc.Security == conn.SecurityTLS {
		err = smtp.SendMailTLS(addr, auth, msg.From, msg.Recipients, bytes.NewReader(msg.Raw))
	} else {
		err = smtp.SendMail(addr, auth, msg.From, msg.Recipients, bytes.NewReader(msg.Raw))
	}
	if err != nil {
		return fmt.Errorf("smtp %s: %w", addr, err)
	}
	return nil
}
