/*
Package errs defines the error kinds mailbolt reports.

Every failure surfaced to the user belongs to exactly one kind, so
callers and tests can classify with errors.Is while the message keeps
the full wrapped cause.
*/
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks missing or contradictory configuration.
	ErrConfig = errors.New("invalid configuration")

	// ErrParse marks malformed user-supplied syntax (DSN, address, header).
	ErrParse = errors.New("parse error")

	// ErrIO marks a failed file read (body source, attachment, DKIM key).
	ErrIO = errors.New("read error")

	// ErrCrypto marks DKIM key material unusable for the chosen algorithm.
	ErrCrypto = errors.New("crypto error")

	// ErrTransport marks an exhausted SMTP delivery.
	ErrTransport = errors.New("transport error")
)

// Config returns an ErrConfig-kinded error.
func Config(format string, args ...any) error {
	return kind(ErrConfig, format, args...)
}

// Parse returns an ErrParse-kinded error.
func Parse(format string, args ...any) error {
	return kind(ErrParse, format, args...)
}

// IO returns an ErrIO-kinded error.
func IO(format string, args ...any) error {
	return kind(ErrIO, format, args...)
}

// Crypto returns an ErrCrypto-kinded error.
func Crypto(format string, args ...any) error {
	return kind(ErrCrypto, format, args...)
}

// Transport returns an ErrTransport-kinded error.
func Transport(format string, args ...any) error {
	return kind(ErrTransport, format, args...)
}

// kind wraps both the sentinel and any %w cause inside format, keeping
// both reachable through errors.Is and errors.As.
func kind(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %w", sentinel, fmt.Errorf(format, args...))
}
