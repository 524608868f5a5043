// Package mailer sends plain-text notification mails.
package mailer

import (
	"context"
	"fmt"

	"travel-agency/pkg/utils"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when a host is configured and a log-only
// mailer otherwise.
func New(cfg utils.EmailConfig, log *zap.Logger) (Mailer, error) {
	if cfg.Host == "" {
		return NewLogMailer(log), nil
	}
	return NewSMTP(cfg, log)
}

type SMTP struct {
	client *mail.Client
	from   string
	log    *zap.Logger
}

func NewSMTP(cfg utils.EmailConfig, log *zap.Logger) (*SMTP, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}

	return &SMTP{
		client: c,
		from:   cfg.From,
		log:    log.With(zap.String("mailer", "smtp")),
	}, nil
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	msg, err := buildMsg(s.from, m)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.log.Error("Failed to send mail",
			zap.Error(err),
			zap.Strings("to", m.To),
			zap.String("subject", m.Subject),
		)
		return fmt.Errorf("send mail %q: %w", m.Subject, err)
	}

	s.log.Info("Mail sent", zap.Strings("to", m.To), zap.String("subject", m.Subject))
	return nil
}

func buildMsg(from string, m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.To...); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return nil, fmt.Errorf("set reply-to address: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}

// LogMailer writes mails to the log instead of sending them. Used in
// development where no SMTP server is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("mailer", "log"))}
}

func (l *LogMailer) Send(_ context.Context, m Message) error {
	l.log.Info("Mail (not sent)",
		zap.Strings("to", m.To),
		zap.String("subject", m.Subject),
		zap.String("body", m.Body),
	)
	return nil
}
