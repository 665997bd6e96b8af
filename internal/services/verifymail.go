package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/platform/config"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
	"github.com/speechfun/speechfun-backend/internal/platform/sendgrid"
)

// VerificationMailer sends the account-activation email. Dispatch is
// synchronous: registration needs to know, in the same request, whether
// the email actually went out.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, user *types.User, token string) error
}

type verificationMailer struct {
	log     *logger.Logger
	mail    sendgrid.Client
	siteURL string
}

func NewVerificationMailer(log *logger.Logger, mail sendgrid.Client, cfg config.Config) VerificationMailer {
	return &verificationMailer{
		log:     log.With("service", "VerificationMailer"),
		mail:    mail,
		siteURL: strings.TrimRight(cfg.SiteURL, "/"),
	}
}

func (m *verificationMailer) SendVerificationEmail(ctx context.Context, user *types.User, token string) error {
	link := fmt.Sprintf("%s/api/verify-email?token=%s", m.siteURL, token)

	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = user.Username
	}

	text := fmt.Sprintf(
		"Hi %s!\n\nWelcome to SpeechFun! Please confirm your email address by opening this link:\n\n%s\n\nThe link works for 24 hours. If you didn't sign up, you can ignore this email.\n",
		name, link,
	)
	html := fmt.Sprintf(`
<div style="font-family: sans-serif; max-width: 520px; margin: 0 auto;">
  <h2 style="color: #5b8def;">Welcome to SpeechFun, %s!</h2>
  <p>We're so excited to help you practice speaking. Just one more step:</p>
  <p style="text-align: center; margin: 28px 0;">
    <a href="%s" style="background: #5b8def; color: #fff; padding: 12px 28px; border-radius: 24px; text-decoration: none;">Confirm my email</a>
  </p>
  <p style="color: #888; font-size: 13px;">The link works for 24 hours. If you didn't sign up, you can ignore this email.</p>
</div>`, name, link)

	res, err := m.mail.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: user.Email, Name: name}},
		Subject: "Confirm your SpeechFun account",
		Text:    text,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	m.log.Info("Verification email dispatched",
		"user_id", user.ID.String(),
		"status", res.StatusCode,
		"message_id", res.MessageID,
	)
	return nil
}
