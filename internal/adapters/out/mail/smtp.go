package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"fastship/internal/core/ports"

	"go.uber.org/zap"
)

// Options configures the SMTP relay.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// UseSSL dials TLS directly (port 465); UseTLS upgrades with STARTTLS.
	UseSSL bool
	UseTLS bool
}

// SMTPMailer sends rendered templates through an SMTP relay.
type SMTPMailer struct {
	opts     Options
	renderer *Renderer
}

func NewSMTPMailer(opts Options, renderer *Renderer) *SMTPMailer {
	return &SMTPMailer{opts: opts, renderer: renderer}
}

func (m *SMTPMailer) Send(ctx context.Context, msg ports.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := m.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	to := msg.To.String()
	raw := buildMessage(buildFromAddress(m.opts.From, m.opts.FromName), to, msg.Subject, body)

	addr := fmt.Sprintf("%s:%d", m.opts.Host, m.opts.Port)
	var auth smtp.Auth
	if m.opts.Username != "" || m.opts.Password != "" {
		auth = smtp.PlainAuth("", m.opts.Username, m.opts.Password, m.opts.Host)
	}

	client, err := m.dial(addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err = client.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}
	return sendData(client, m.opts.From, to, raw)
}

func (m *SMTPMailer) dial(addr string) (*smtp.Client, error) {
	if m.opts.UseSSL {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.opts.Host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, m.opts.Host)
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, err
	}
	if m.opts.UseTLS {
		if err = client.StartTLS(&tls.Config{ServerName: m.opts.Host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func sendData(client *smtp.Client, from, to string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	return (&mail.Address{Name: name, Address: from}).String()
}

func buildMessage(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}

// LogMailer renders mails and logs them instead of sending. It is used when no SMTP host
// is configured.
type LogMailer struct {
	renderer *Renderer
	logger   *zap.Logger
}

func NewLogMailer(renderer *Renderer, logger *zap.Logger) *LogMailer {
	return &LogMailer{renderer: renderer, logger: logger.With(zap.String("component", "mail"))}
}

func (m *LogMailer) Send(_ context.Context, msg ports.Mail) error {
	body, err := m.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}
	m.logger.Info("mail not sent, no smtp relay configured",
		zap.String("to", msg.To.String()),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
		zap.Int("body_bytes", len(body)))
	return nil
}
