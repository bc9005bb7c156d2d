/*
Package tmpl provides placeholder substitution for mailbolt.

Subject, body, and header strings may contain {{key}} placeholders
that are replaced from a flat variable mapping. Identifiers may use
letters, digits, underscore, hyphen, and dot; whitespace inside the
braces is ignored. Placeholders whose identifier is not in the mapping
are left verbatim, braces included.
*/
package tmpl

import (
	"regexp"
	"strings"

	"github.com/mailbolt/mailbolt/internal/errs"
)

// Vars maps placeholder identifiers to their substitution values.
type Vars map[string]string

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-.]+)\s*\}\}`)

// ParseVars builds a variable mapping from repeated key=value entries.
// Each entry splits on the first '='; the key is trimmed and must be
// non-empty, the value is kept verbatim. Later duplicates win.
func ParseVars(entries []string) (Vars, error) {
	vars := make(Vars, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, errs.Config("invalid --var %q, expected key=value", entry)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errs.Config("template variable names cannot be empty")
		}
		vars[key] = value
	}
	return vars, nil
}

// Apply substitutes every mapped {{key}} placeholder in input. An
// empty mapping returns input unchanged without scanning.
func Apply(input string, vars Vars) string {
	if len(vars) == 0 {
		return input
	}

	return placeholderRe.ReplaceAllStringFunc(input, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}
