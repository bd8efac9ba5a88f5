package notification

import "context"

// Attachment is an optional file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NotificationService sends transactional email. Failures here must never
// block a paid booking; callers log and continue.
type NotificationService interface {
	// SendEmail sends a plain-text email, optionally with one attachment.
	SendEmail(ctx context.Context, to, subject, body string, attachment *Attachment) error
}
