package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"
	"villa/config"
	"villa/infras/otel"
	"villa/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

var ErrNotConfigured = errors.New("smtp is not configured")

type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type mailerImpl struct {
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Mailer {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP host not configured, emails will not be delivered")
	}

	return &mailerImpl{
		cfg:  cfg,
		otel: otel,
	}
}

func (m *mailerImpl) client() (*mail.Client, error) {
	if m.cfg.SMTP.Host == "" {
		return nil, ErrNotConfigured
	}

	options := []mail.Option{
		mail.WithPort(m.cfg.SMTP.Port),
		mail.WithTimeout(time.Duration(m.cfg.SMTP.TimeoutSecs) * time.Second),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}

	if m.cfg.SMTP.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTP.Username),
			mail.WithPassword(m.cfg.SMTP.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.SMTP.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return client, nil
}

func (m *mailerImpl) Send(ctx context.Context, msg Message) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".mailer.Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("mail.subject", msg.Subject)

	client, err := m.client()
	if err != nil {
		return err
	}

	message := mail.NewMsg()

	if err = message.FromFormat(m.cfg.SMTP.FromName, m.cfg.SMTP.FromAddress); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}

	if err = message.To(msg.To...); err != nil {
		return fmt.Errorf("failed to set recipients: %w", err)
	}

	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if msg.Text != "" {
		message.AddAlternativeString(mail.TypeTextPlain, msg.Text)
	}

	if err = client.DialAndSendWithContext(ctx, message); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("email sent")

	return nil
}
