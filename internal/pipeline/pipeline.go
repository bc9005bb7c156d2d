/*
Package pipeline orchestrates one dispatch: resolve the connection,
render and compose the message, sign it once, then deliver with
bounded retry.

Every stage runs to completion before the next begins, and all file
reads happen before any network activity, so a composition failure
never leaves a half-open connection. The composed message and the
connection descriptor are immutable once built.
*/
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mailbolt/mailbolt/internal/config"
	"github.com/mailbolt/mailbolt/internal/conn"
	"github.com/mailbolt/mailbolt/internal/dkim"
	"github.com/mailbolt/mailbolt/internal/errs"
	"github.com/mailbolt/mailbolt/internal/message"
	"github.com/mailbolt/mailbolt/internal/retry"
	"github.com/mailbolt/mailbolt/internal/tmpl"
	"github.com/mailbolt/mailbolt/internal/transport"
)

// Options contains everything one dispatch needs.
type Options struct {
	Connection conn.Flags

	From string
	To   []string
	Cc   []string
	Bcc  []string

	Subject     string
	Text        message.Source
	HTML        message.Source
	Attachments []string
	Headers     []string
	Vars        []string

	// Print writes the fully formatted (and signed) message to Out
	// instead of sending it.
	Print bool

	Retry retry.Policy

	DKIMSelector  string
	DKIMDomain    string
	DKIMKey       string
	DKIMAlgorithm dkim.Algorithm

	// Env carries the MAIL_URL / MAIL_FROM fallbacks, loaded once by
	// the caller.
	Env config.Env

	// Out receives print-mode output and the confirmation line.
	// Defaults to stdout.
	Out io.Writer

	// NewSender builds the delivery collaborator for a resolved
	// descriptor. Tests substitute a fake here.
	NewSender func(*conn.Descriptor) transport.Sender
}

// Pipeline performs a single dispatch.
type Pipeline struct {
	opts Options
}

// New creates a dispatch pipeline, filling in the default output and
// transport.
func New(opts Options) *Pipeline {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.NewSender == nil {
		opts.NewSender = func(desc *conn.Descriptor) transport.Sender {
			return transport.NewSMTP(desc)
		}
	}
	return &Pipeline{opts: opts}
}

// Run executes the dispatch and returns the first stage failure, or
// the final transport failure once the attempt budget is exhausted.
func (p *Pipeline) Run() error {
	opts := p.opts

	if err := opts.Retry.Validate(); err != nil {
		return err
	}

	desc, err := conn.Resolve(opts.Connection, opts.Env.MailURL)
	if err != nil {
		return err
	}
	log.Debug("Resolved SMTP target", "host", desc.Host, "port", desc.Port)

	from, err := resolveFrom(opts.From, opts.Env.MailFrom)
	if err != nil {
		return err
	}

	signing, err := dkim.Load(opts.DKIMSelector, opts.DKIMDomain, opts.DKIMKey, opts.DKIMAlgorithm)
	if err != nil {
		return err
	}

	vars, err := tmpl.ParseVars(opts.Vars)
	if err != nil {
		return err
	}

	sources, err := message.LoadSources(opts.Text, opts.HTML)
	if err != nil {
		return err
	}
	rendered := message.Render(opts.Subject, sources, opts.Headers, vars)

	attachments, err := message.LoadAttachments(opts.Attachments)
	if err != nil {
		return err
	}

	envelope := message.Envelope{From: from, To: opts.To, Cc: opts.Cc, Bcc: opts.Bcc}
	msg, err := message.Compose(envelope, rendered, attachments)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}
	raw := buf.Bytes()

	// Signing happens once, over the final bytes; retries resend the
	// same signed message.
	if signing != nil {
		log.Debug("Applying DKIM signature", "domain", signing.Domain, "selector", signing.Selector)
		if raw, err = signing.Sign(raw); err != nil {
			return err
		}
	}

	if opts.Print {
		if _, err := opts.Out.Write(raw); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
		log.Debug("Skipping SMTP send because --print was provided")
		return nil
	}

	sender, err := msg.GetSender(false)
	if err != nil {
		return errs.Parse("failed to determine envelope sender: %w", err)
	}
	recipients, err := msg.GetRecipients()
	if err != nil {
		return errs.Parse("failed to determine envelope recipients: %w", err)
	}

	outbound := &transport.Message{From: sender, Recipients: recipients, Raw: raw}
	deliver := opts.NewSender(desc)
	if err := retry.Do(opts.Retry, func() error { return deliver.Send(outbound) }); err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, "Email sent")
	return nil
}

// resolveFrom picks the sender mailbox: the explicit flag when it is
// non-blank, otherwise the MAIL_FROM fallback.
func resolveFrom(flag, envFrom string) (string, error) {
	if strings.TrimSpace(flag) != "" {
		return flag, nil
	}
	if strings.TrimSpace(envFrom) != "" {
		return envFrom, nil
	}
	return "", errs.Config("provide --from or set MAIL_FROM")
}
