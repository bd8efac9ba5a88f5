package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPNotificationService implements NotificationService over plain SMTP
// (Mailpit-compatible in development).
type SMTPNotificationService struct {
	addr string
	from string
}

// NewSMTPNotificationService builds an SMTP sender.
func NewSMTPNotificationService(host, port, from string) *SMTPNotificationService {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@pharmabook.local"
	}
	return &SMTPNotificationService{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

// SendEmail sends a plain-text email, optionally with one attachment.
func (s *SMTPNotificationService) SendEmail(_ context.Context, to, subject, body string, attachment *Attachment) error {
	var msg string
	if attachment == nil {
		msg = buildPlainMessage(s.from, to, subject, body)
	} else {
		msg = buildMultipartMessage(s.from, to, subject, body, attachment)
	}
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildPlainMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, mime.QEncoding.Encode("utf-8", subject), body,
	)
}

func buildMultipartMessage(from, to, subject, body string, att *Attachment) string {
	const boundary = "pharmabook-mime-boundary"

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", att.Filename)

	encoded := base64.StdEncoding.EncodeToString(att.Data)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return b.String()
}
