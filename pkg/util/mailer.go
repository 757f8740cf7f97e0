package util

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/pkg/logger"
)

// Mailer 메일 발송 인터페이스 (테스트에서는 가짜 구현 사용)
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send sends a plain text mail. Without an SMTP host the message is only logged (dev mode).
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.Host == "" {
		logger.Info("[DEV MODE] SMTP not configured, mail not sent", map[string]interface{}{
			"to":      to,
			"subject": subject,
			"body":    body,
		})
		return nil
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.User
	}

	msg := buildMessage(from, to, subject, body)
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	var err error
	if m.cfg.UseTLS && m.cfg.Port == 465 {
		err = m.sendImplicitTLS(addr, auth, from, to, msg)
	} else {
		// 587 포트는 smtp.SendMail 이 STARTTLS 를 자동으로 협상
		err = smtp.SendMail(addr, auth, from, []string{to}, msg)
	}
	if err != nil {
		logger.Error("Failed to send mail", err, map[string]interface{}{
			"to":   to,
			"host": m.cfg.Host,
		})
		return fmt.Errorf("failed to send mail: %w", err)
	}

	logger.Info("Mail sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}

func (m *SMTPMailer) sendImplicitTLS(addr string, auth smtp.Auth, from, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
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
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
