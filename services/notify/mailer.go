package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/Ritu-90/c25077715-cmt120-cw2/config"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	mail "github.com/xhit/go-simple-mail/v2"
	"go.uber.org/zap"
)

// Mailer delivers a single HTML email
type Mailer interface {
	Send(ctx context.Context, toName, to, subject, htmlBody string) error
}

// NewMailer builds the mailer selected by cfg.Provider.
// An empty provider yields a NoopMailer.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "":
		return NewNoopMailer(logger), nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTP, cfg.FromName, cfg.FromAddress), nil
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromAddress), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.Provider)
	}
}

// SMTPMailer sends mail through an SMTP relay
type SMTPMailer struct {
	host       string
	port       int
	username   string
	password   string
	authType   mail.AuthType
	encryption mail.Encryption
	noTLSCheck bool
	fromName   string
	from       string
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig, fromName, from string) *SMTPMailer {
	return &SMTPMailer{
		host:       cfg.Host,
		port:       cfg.Port,
		username:   cfg.Username,
		password:   cfg.Password,
		authType:   authType(cfg.AuthType),
		encryption: encryptionType(cfg.Encryption),
		noTLSCheck: cfg.SkipTLSVerify,
		fromName:   fromName,
		from:       from,
	}
}

func authType(v string) mail.AuthType {
	switch strings.ToUpper(v) {
	case "PLAIN":
		return mail.AuthPlain
	case "LOGIN":
		return mail.AuthLogin
	default:
		return mail.AuthNone
	}
}

func encryptionType(v string) mail.Encryption {
	switch strings.ToUpper(v) {
	case "NONE":
		return mail.EncryptionNone
	case "SSL":
		return mail.EncryptionSSL
	case "SSLTLS":
		return mail.EncryptionSSLTLS
	case "TLS":
		return mail.EncryptionTLS
	default:
		return mail.EncryptionSTARTTLS
	}
}

func addressField(address, name string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// Send delivers the message. The context deadline bounds connect and send.
func (m *SMTPMailer) Send(ctx context.Context, toName, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	email := mail.NewMSG()
	email.SetFrom(addressField(m.from, m.fromName)).
		AddTo(addressField(to, toName)).
		SetSubject(subject).
		SetBody(mail.TextHTML, htmlBody)
	if email.Error != nil {
		return fmt.Errorf("failed to build message: %w", email.Error)
	}

	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	server := mail.NewSMTPClient()
	server.Host = m.host
	server.Port = m.port
	server.Authentication = m.authType
	server.Username = m.username
	server.Password = m.password
	server.Encryption = m.encryption
	server.KeepAlive = false
	server.ConnectTimeout = timeout
	server.SendTimeout = timeout
	if m.noTLSCheck {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to %s:%d: %w", m.host, m.port, err)
	}

	return email.Send(client)
}

// SendGridMailer sends mail through the SendGrid v3 API
type SendGridMailer struct {
	apiKey   string
	fromName string
	from     string
	host     string
}

// NewSendGridMailer creates a SendGrid mailer
func NewSendGridMailer(apiKey, fromName, from string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, fromName: fromName, from: from, host: "https://api.sendgrid.com"}
}

// Send delivers the message. The request is cancelled with ctx.
func (m *SendGridMailer) Send(ctx context.Context, toName, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := sgmail.NewV3Mail()
	msg.SetFrom(sgmail.NewEmail(m.fromName, m.from))
	msg.AddContent(sgmail.NewContent("text/html", htmlBody))

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(toName, to))
	p.Subject = subject
	msg.AddPersonalizations(p)

	request := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(msg)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NoopMailer logs instead of sending. Used when no provider is configured.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a mailer that only logs
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// Send logs the message subject and recipient
func (m *NoopMailer) Send(_ context.Context, _, to, subject, _ string) error {
	m.logger.Debug("mail delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
