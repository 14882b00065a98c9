package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/angelmondragon/reelhouse-backend/pkg/config"
	"github.com/angelmondragon/reelhouse-backend/pkg/errors"
	"github.com/angelmondragon/reelhouse-backend/pkg/logger"
)

// Mailer delivers the transactional mail the account lifecycle depends on.
// Both messages carry a confirmation link the recipient must follow.
type Mailer interface {
	// SendActivation mails the activation link to a freshly registered,
	// still-inactive account.
	SendActivation(ctx context.Context, to, uid, token string) error

	// SendEmailChange mails the email-change confirmation link to the
	// proposed NEW address, never the current one.
	SendEmailChange(ctx context.Context, to, token, encodedEmail string) error
}

// Resend sends mail through the Resend API. In dev mode (or with no API key)
// it logs the message instead of sending, so local flows stay runnable.
type Resend struct {
	client  *resend.Client
	from    string
	baseURL string
	devMode bool
	logg    *logger.Logger
}

// NewResend wires a mailer from config. The site base URL anchors every
// confirmation link.
func NewResend(cfg *config.Config, logg *logger.Logger) (*Resend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	devMode := cfg.App.IsDev() || cfg.Resend.APIKey == ""
	var client *resend.Client
	if !devMode {
		client = resend.NewClient(cfg.Resend.APIKey)
	}

	return &Resend{
		client:  client,
		from:    cfg.Resend.DefaultFrom,
		baseURL: cfg.Site.BaseURL(),
		devMode: devMode,
		logg:    logg,
	}, nil
}

func (m *Resend) SendActivation(ctx context.Context, to, uid, token string) error {
	link := fmt.Sprintf("%s/api/v1/users/create/confirm/%s/%s", m.baseURL, uid, token)
	subject, body := activationTemplate(link)
	return m.send(ctx, "activation", to, subject, body)
}

func (m *Resend) SendEmailChange(ctx context.Context, to, token, encodedEmail string) error {
	link := fmt.Sprintf("%s/api/v1/users/email/confirm/%s/%s", m.baseURL, token, encodedEmail)
	subject, body := emailChangeTemplate(link)
	return m.send(ctx, "email_change", to, subject, body)
}

func (m *Resend) send(ctx context.Context, kind, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return errors.New(errors.CodeValidation, "recipient address is required")
	}

	if m.devMode {
		lctx := m.logg.WithFields(ctx, map[string]any{
			"mail_kind": kind,
			"mail_to":   to,
			"subject":   subject,
		})
		m.logg.Info(lctx, "mail suppressed in dev mode")
		return nil
	}

	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "sending "+kind+" email")
	}

	lctx := m.logg.WithFields(ctx, map[string]any{"mail_kind": kind, "mail_to": to})
	m.logg.Info(lctx, "mail sent")
	return nil
}

func activationTemplate(link string) (subject, body string) {
	subject = "Activate your ReelHouse account"
	body = strings.Join([]string{
		"Welcome to ReelHouse!",
		"",
		"Your account was created but is not active yet. Follow the link below to activate it:",
		"",
		link,
		"",
		"If you did not register, you can ignore this message.",
	}, "\n")
	return subject, body
}

func emailChangeTemplate(link string) (subject, body string) {
	subject = "Confirm your new ReelHouse email address"
	body = strings.Join([]string{
		"A request was made to move your ReelHouse account to this address.",
		"",
		"While signed in to your account, follow the link below to confirm the change:",
		"",
		link,
		"",
		"If you did not request this, no action is needed and your email stays as it is.",
	}, "\n")
	return subject, body
}
