package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/openclaw/portfolio-server-go/internal/errors"
	"github.com/openclaw/portfolio-server-go/internal/mail"
)

var contactBodyTemplate = template.Must(template.New("contact").Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

var errMailNotConfigured = errors.New("mail delivery is not configured")

type ContactInput struct {
	Name    string
	Email   string
	Message string
}

type ContactService struct {
	sender  mail.Sender
	from    string
	to      string
	timeout time.Duration
}

// NewContactService relays contact messages through sender. A nil sender makes every
// submission fail with MailDeliveryFailed.
func NewContactService(sender mail.Sender, from, to string, timeout time.Duration) *ContactService {
	return &ContactService{
		sender:  sender,
		from:    from,
		to:      to,
		timeout: timeout,
	}
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperrors.MissingRequired("Name")
	case strings.TrimSpace(in.Email) == "":
		return apperrors.MissingRequired("Email")
	case strings.TrimSpace(in.Message) == "":
		return apperrors.MissingRequired("Message")
	}

	if s.sender == nil {
		return apperrors.MailDeliveryFailed(errMailNotConfigured)
	}

	var body bytes.Buffer
	if err := contactBodyTemplate.Execute(&body, in); err != nil {
		return apperrors.Internal("Failed to render message").WithCause(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.sender.Send(ctx, mail.Message{
		From:     s.from,
		To:       s.to,
		ReplyTo:  in.Email,
		Subject:  fmt.Sprintf("Portfolio Contact Form: Message from %s", SanitizeForDisplay(in.Name)),
		HTMLBody: body.String(),
	})
	if err != nil {
		log.Error().Err(err).Msg("contact mail delivery failed")
		return apperrors.MailDeliveryFailed(err)
	}

	log.Info().Msg("contact mail sent")
	return nil
}

var displayUnsafe = strings.NewReplacer("\r", " ", "\n", " ", "'", " ", `"`, " ")

// SanitizeForDisplay strips line breaks and quotes from text echoed back to the visitor.
func SanitizeForDisplay(s string) string {
	return displayUnsafe.Replace(s)
}

// ContactFailureText is the visitor-facing explanation of a failed submission.
func ContactFailureText(err error) string {
	reason := apperrors.UserMessage(err)
	if apperrors.GetCode(err) == apperrors.ErrCodeMailDeliveryFailed {
		if cause := errors.Unwrap(err); cause != nil {
			reason = "Failed to send message: " + cause.Error()
		}
	}
	return SanitizeForDisplay(reason)
}
