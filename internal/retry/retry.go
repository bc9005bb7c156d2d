/*
Package retry drives the bounded-attempt send loop with exponential
backoff.

Delays start at the configured initial backoff and after each failed
attempt grow by the configured factor, rounded and floored at one
millisecond. A factor below 1.0 is treated as 1.0 so the delay never
shrinks. Only the last attempt's error is surfaced, wrapped with the
attempt count.
*/
package retry

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"

	"github.com/mailbolt/mailbolt/internal/errs"
)

// minDelay is the floor for every computed delay.
const minDelay = time.Millisecond

// Policy configures the retry loop.
type Policy struct {
	// MaxAttempts is the total send budget, including the first try.
	MaxAttempts uint

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// Factor multiplies the delay after each failed attempt.
	Factor float64
}

// Validate rejects unusable policies before any send is attempted.
func (p Policy) Validate() error {
	if p.MaxAttempts == 0 {
		return errs.Config("--max-attempts must be at least 1")
	}
	return nil
}

// Do runs op up to p.MaxAttempts times, sleeping between attempts.
// Success terminates immediately; exhaustion returns the final error
// wrapped as a transport failure.
func Do(p Policy, op func() error) error {
	if err := p.Validate(); err != nil {
		return err
	}

	attempt := uint(1)
	wrapped := func() error {
		log.Debug("Sending message", "attempt", attempt)
		return op()
	}
	notify := func(err error, wait time.Duration) {
		log.Info("Send attempt failed", "attempt", attempt, "err", err, "retry_in", wait)
		attempt++
	}

	b := backoff.WithMaxRetries(newGeometric(p.InitialDelay, p.Factor), uint64(p.MaxAttempts-1))
	if err := backoff.RetryNotify(wrapped, b, notify); err != nil {
		return errs.Transport("failed to send message via SMTP after %d attempts: %w", attempt, err)
	}

	log.Debug("SMTP send succeeded", "attempt", attempt)
	return nil
}

// geometric produces the delay sequence d0, round(d0*f), round(d0*f^2),
// each floored at one millisecond.
type geometric struct {
	initial time.Duration
	next    time.Duration
	factor  float64
}

func newGeometric(initial time.Duration, factor float64) *geometric {
	if initial < minDelay {
		initial = minDelay
	}
	if factor < 1.0 {
		factor = 1.0
	}
	return &geometric{initial: initial, next: initial, factor: factor}
}

func (g *geometric) NextBackOff() time.Duration {
	delay := g.next
	// Rounding happens in milliseconds, the unit backoff is configured in.
	millis := math.Round(float64(delay.Milliseconds()) * g.factor)
	scaled := time.Duration(millis) * time.Millisecond
	if scaled < minDelay {
		scaled = minDelay
	}
	g.next = scaled
	return delay
}

func (g *geometric) Reset() {
	g.next = g.initial
}
