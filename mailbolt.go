/*
Package mailbolt provides a command-line email dispatcher.

Mailbolt assembles a MIME-structured message from subject, body, and
attachment inputs, resolves SMTP connection parameters from a DSN or
discrete flags, optionally applies {{key}} template substitution and a
DKIM signing configuration, and delivers the message over SMTP with
bounded retry and exponential backoff.

# Configuration

Connection parameters are resolved in order: the --dsn flag, the
MAIL_URL environment variable, then the discrete --host/--user/--pass
flags. An optional YAML profile file (.mailbolt.yaml) supplies
persistent defaults for anything the flags leave unset, and supports
include statements and ${VAR} expansion.

# Usage

Basic usage:

	mailbolt send --to you@example.com --text "hi"   # send a message
	mailbolt send --to you@example.com --text "hi" --print
	mailbolt check                                   # validate profile
	mailbolt version                                 # version info

For the full flag surface, see mailbolt send --help.
*/
package mailbolt

// Version is the current version of mailbolt
const Version = "1.0.0"

// BuildDate is set at build time
var BuildDate string

// GitCommit is set at build time
var GitCommit string
