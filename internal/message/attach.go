package message

import (
	"mime"
	"os"
	"path/filepath"

	"github.com/mailbolt/mailbolt/internal/errs"
)

const fallbackContentType = "application/octet-stream"

// Attachment is a fully loaded attachment part: original filename,
// inferred content type, and the raw bytes.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LoadAttachment reads the file at path into memory and infers its
// content type from the filename extension, falling back to
// application/octet-stream when the extension is unknown.
func LoadAttachment(path string) (*Attachment, error) {
	filename := filepath.Base(path)
	if filename == "." || filename == ".." || filename == string(filepath.Separator) {
		return nil, errs.Config("attachment must have a valid filename: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO("failed to read attachment %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = fallbackContentType
	} else if _, _, err := mime.ParseMediaType(contentType); err != nil {
		// An unparseable inferred type is an internal inconsistency,
		// not something to silently paper over.
		return nil, errs.Config("invalid MIME type for attachment %s: %q", path, contentType)
	}

	return &Attachment{Filename: filename, ContentType: contentType, Data: data}, nil
}

// LoadAttachments loads every path in input order.
func LoadAttachments(paths []string) ([]*Attachment, error) {
	attachments := make([]*Attachment, 0, len(paths))
	for _, path := range paths {
		attachment, err := LoadAttachment(path)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}
