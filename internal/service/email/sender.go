// internal/service/email/sender.go
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Sender delivers one HTML message.
type Sender interface {
	Send(to, subject, bodyHTML string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	// Secure uses implicit TLS (port 465) instead of STARTTLS.
	Secure bool
}

// SMTPSender handles outgoing emails via SMTP.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (e *SMTPSender) Send(to, subject, bodyHTML string) error {
	from := fmt.Sprintf("%s <%s>", e.cfg.FromName, e.cfg.Username)
	msg := buildMessage(from, to, subject, bodyHTML)
	serverAddr := e.cfg.Host + ":" + e.cfg.Port
	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)

	if !e.cfg.Secure {
		if err := smtp.SendMail(serverAddr, auth, e.cfg.Username, []string{to}, msg); err != nil {
			return fmt.Errorf("send mail failed: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: e.cfg.Host})
	if err != nil {
		return fmt.Errorf("tls dial failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client failed: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth failed: %w", err)
	}
	return e.sendMail(client, to, msg)
}

func (e *SMTPSender) sendMail(client *smtp.Client, to string, msg []byte) error {
	if err := client.Mail(e.cfg.Username); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, bodyHTML string) []byte {
	return []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			bodyHTML,
	)
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(to, subject, _ string) error {
	l.logger.Info("email not sent, no SMTP configured",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
