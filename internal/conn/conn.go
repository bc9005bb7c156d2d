/*
Package conn resolves SMTP connection parameters from a DSN or from
discrete host/port/user/pass flags.
*/
package conn

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mailbolt/mailbolt/internal/errs"
)

// Security selects how the TCP connection is protected.
type Security int

const (
	// SecurityPlain connects in cleartext and upgrades via STARTTLS
	// when the server offers it. Default port 587.
	SecurityPlain Security = iota

	// SecurityTLS wraps the connection in TLS from the first byte.
	// Default port 465.
	SecurityTLS
)

// Credentials carries a username/password pair. Both fields are
// non-empty whenever a Credentials value exists.
type Credentials struct {
	User string
	Pass string
}

// Descriptor is the resolved, immutable connection target.
type Descriptor struct {
	Host     string
	Port     uint16
	Auth     *Credentials
	Security Security
}

// Flags holds the discrete connection flags and an optional explicit DSN.
type Flags struct {
	DSN  string
	Host string
	Port uint16
	User string
	Pass string
}

// Resolve picks the first available source of connection parameters:
// the explicit DSN flag, then the MAIL_URL environment value, then the
// discrete flags. The discrete path requires host, user, and pass;
// port defaults to 587.
func Resolve(flags Flags, envDSN string) (*Descriptor, error) {
	if flags.DSN != "" {
		return ParseDSN(flags.DSN)
	}
	if envDSN != "" {
		return ParseDSN(envDSN)
	}

	if flags.Host == "" {
		return nil, errs.Config("--host is required when --dsn is not provided")
	}
	if flags.User == "" {
		return nil, errs.Config("--user is required when --dsn is not provided")
	}
	if flags.Pass == "" {
		return nil, errs.Config("--pass is required when --dsn is not provided")
	}

	port := flags.Port
	if port == 0 {
		port = 587
	}

	return &Descriptor{
		Host:     flags.Host,
		Port:     port,
		Auth:     &Credentials{User: flags.User, Pass: flags.Pass},
		Security: SecurityPlain,
	}, nil
}

// ParseDSN parses a smtp[s]://[user:pass@]host[:port] string. A DSN
// without a scheme separator is treated as smtp://<rest>; any explicit
// scheme other than smtp or smtps is rejected.
func ParseDSN(dsn string) (*Descriptor, error) {
	normalized := dsn
	if !strings.Contains(dsn, "://") {
		normalized = "smtp://" + dsn
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return nil, errs.Parse("invalid DSN %q: %w", dsn, err)
	}

	var security Security
	var port uint16
	switch u.Scheme {
	case "smtp":
		security = SecurityPlain
		port = 587
	case "smtps":
		security = SecurityTLS
		port = 465
	default:
		return nil, errs.Parse("unsupported DSN scheme %q (want smtp or smtps)", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, errs.Parse("DSN must include host")
	}

	if p := u.Port(); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return nil, errs.Parse("invalid DSN port %q: %w", p, err)
		}
		port = uint16(n)
	}

	var auth *Credentials
	if user := u.User.Username(); user != "" {
		pass, ok := u.User.Password()
		if !ok || pass == "" {
			return nil, errs.Parse("DSN must include password when username is provided")
		}
		auth = &Credentials{User: user, Pass: pass}
	}

	return &Descriptor{Host: host, Port: port, Auth: auth, Security: security}, nil
}
