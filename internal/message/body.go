package message

import (
	"os"

	"github.com/mailbolt/mailbolt/internal/errs"
	"github.com/mailbolt/mailbolt/internal/tmpl"
)

// Source is one body channel (text or html) as supplied on the command
// line: an inline value or a file path, never both.
type Source struct {
	Inline    string
	InlineSet bool
	File      string
}

// BodySources holds the loaded body channels. A nil channel is absent.
type BodySources struct {
	Text *string
	HTML *string
}

// LoadSources resolves both body channels. Supplying an inline value
// and a file for the same channel is an error; supplying neither
// leaves the channel absent. Joint absence is caught at composition.
func LoadSources(text, html Source) (BodySources, error) {
	textBody, err := text.resolve("text")
	if err != nil {
		return BodySources{}, err
	}
	htmlBody, err := html.resolve("html")
	if err != nil {
		return BodySources{}, err
	}
	return BodySources{Text: textBody, HTML: htmlBody}, nil
}

func (s Source) resolve(label string) (*string, error) {
	switch {
	case s.InlineSet && s.File != "":
		return nil, errs.Config("provide either --%s or --%s-file, not both", label, label)
	case s.InlineSet:
		value := s.Inline
		return &value, nil
	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, errs.IO("failed to read %s body from %s: %w", label, s.File, err)
		}
		value := string(data)
		return &value, nil
	default:
		return nil, nil
	}
}

// Rendered is the post-substitution form of all user text fields.
type Rendered struct {
	Subject string
	Text    *string
	HTML    *string
	Headers []string
}

// Render applies the variable mapping to the subject, both body
// channels, and every raw header line. Attachment contents and paths
// are never templated.
func Render(subject string, sources BodySources, headers []string, vars tmpl.Vars) Rendered {
	rendered := Rendered{
		Subject: tmpl.Apply(subject, vars),
		Headers: make([]string, 0, len(headers)),
	}
	if sources.Text != nil {
		text := tmpl.Apply(*sources.Text, vars)
		rendered.Text = &text
	}
	if sources.HTML != nil {
		html := tmpl.Apply(*sources.HTML, vars)
		rendered.HTML = &html
	}
	for _, header := range headers {
		rendered.Headers = append(rendered.Headers, tmpl.Apply(header, vars))
	}
	return rendered
}
