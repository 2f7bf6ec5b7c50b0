package client

import (
	"fmt"
	"net/smtp"
	"strings"

	"jansan-commerce/internal/config"
)

// EmailClient sends transactional mail. Callers treat send failures as
// non-fatal; the OTP flow logs and swallows them.
type EmailClient interface {
	Send(msg EmailMessage) error
}

type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type smtpClientImpl struct {
	addr string
	from string
	auth smtp.Auth
}

func NewEmailClient(cfg *config.Email) EmailClient {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &smtpClientImpl{
		addr: cfg.Host + ":" + cfg.Port,
		from: from,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}
}

func (c *smtpClientImpl) Send(msg EmailMessage) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if msg.HTML != "" {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(msg.HTML)
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(msg.Text)
	}

	if err := smtp.SendMail(c.addr, c.auth, c.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
