package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	defaultSMTPPort = 587
	implicitTLSPort = 465
)

// SMTPSender delivers messages through gomail, resolving credentials on
// every send so persisted settings take effect without a restart.
type SMTPSender struct {
	resolve ConfigResolver
	logger  *zap.Logger
	dial    func(ctx context.Context, cfg SMTPConfig, m *gomail.Message) error
}

// NewSMTPSender creates a sender.
func NewSMTPSender(resolve ConfigResolver, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		resolve: resolve,
		logger:  logger,
		dial:    dialAndSend,
	}
}

// dialAndSend runs the whole SMTP conversation on a connection bound to ctx.
// When ctx ends the socket is closed, which unblocks any pending read or write.
func dialAndSend(ctx context.Context, cfg SMTPConfig, m *gomail.Message) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	tlsConfig := &tls.Config{ServerName: cfg.Host}
	if cfg.Port == implicitTLSPort {
		conn = tls.Client(conn, tlsConfig)
	}
	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if cfg.Port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return err
			}
		}
	}
	if ok, _ := client.Extension("AUTH"); ok && cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return err
		}
	}

	send := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		if err := client.Mail(from); err != nil {
			return err
		}
		for _, rcpt := range to {
			if err := client.Rcpt(rcpt); err != nil {
				return err
			}
		}
		w, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := msg.WriteTo(w); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	})
	if err := gomail.Send(send, m); err != nil {
		return err
	}
	return client.Quit()
}

// Send delivers msg, giving up when ctx ends or the configured timeout passes.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	cfg, err := s.resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolve smtp config: %w", err)
	}
	if !cfg.Complete() {
		return ErrNotConfigured
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}

	m := s.buildMessage(cfg, msg)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if err := s.dial(ctx, cfg, m); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("failed to send email: %w", ctxErr)
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Debug("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) buildMessage(cfg SMTPConfig, msg Message) *gomail.Message {
	from := cfg.FromAddress
	if from == "" {
		from = cfg.Username
	}

	m := gomail.NewMessage()
	if cfg.FromName != "" {
		m.SetHeader("From", m.FormatAddress(from, cfg.FromName))
	} else {
		m.SetHeader("From", from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}
	return m
}
