package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SourceKind identifies where an event's fields were extracted from
type SourceKind string

const (
	SourceKindScreenshot SourceKind = "screenshot"
	SourceKindLink       SourceKind = "link"
	SourceKindText       SourceKind = "text"
)

// ScreenshotSource describes an event extracted from an uploaded image
type ScreenshotSource struct {
	ImageURL string `json:"image_url"`
	MimeType string `json:"mime_type,omitempty"`
}

// LinkSource describes an event extracted from a web page
type LinkSource struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// TextSource describes an event extracted from free text
type TextSource struct {
	RawText string `json:"raw_text"`
}

// EventMetadata is the tagged variant describing an event's extraction source.
// Exactly one payload is set and it must match Kind.
type EventMetadata struct {
	Kind       SourceKind        `json:"kind"`
	Screenshot *ScreenshotSource `json:"screenshot,omitempty"`
	Link       *LinkSource       `json:"link,omitempty"`
	Text       *TextSource       `json:"text,omitempty"`
}

// Validate checks that the variant is well-formed
func (m EventMetadata) Validate() error {
	set := 0
	if m.Screenshot != nil {
		set++
	}
	if m.Link != nil {
		set++
	}
	if m.Text != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: expected exactly one source payload, got %d", ErrInvalidMetadata, set)
	}

	switch m.Kind {
	case SourceKindScreenshot:
		if m.Screenshot == nil {
			return fmt.Errorf("%w: kind %s without screenshot payload", ErrInvalidMetadata, m.Kind)
		}
		if strings.TrimSpace(m.Screenshot.ImageURL) == "" {
			return fmt.Errorf("%w: screenshot image_url is required", ErrInvalidMetadata)
		}
		if m.Screenshot.MimeType != "" && !isImageMimeType(m.Screenshot.MimeType) {
			return fmt.Errorf("%w: screenshot mime_type %q is not a known image type", ErrInvalidMetadata, m.Screenshot.MimeType)
		}
	case SourceKindLink:
		if m.Link == nil {
			return fmt.Errorf("%w: kind %s without link payload", ErrInvalidMetadata, m.Kind)
		}
		u, err := url.Parse(m.Link.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: link url %q is not absolute", ErrInvalidMetadata, m.Link.URL)
		}
	case SourceKindText:
		if m.Text == nil {
			return fmt.Errorf("%w: kind %s without text payload", ErrInvalidMetadata, m.Kind)
		}
		if strings.TrimSpace(m.Text.RawText) == "" {
			return fmt.Errorf("%w: text raw_text is required", ErrInvalidMetadata)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMetadata, m.Kind)
	}

	return nil
}

// isImageMimeType reports whether mime is a registered image type, aliases included
func isImageMimeType(mime string) bool {
	known := mimetype.Lookup(strings.ToLower(strings.TrimSpace(mime)))
	return known != nil && strings.HasPrefix(known.String(), "image/")
}
