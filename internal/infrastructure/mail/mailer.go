// Package mail implementa el envío de correos transaccionales vía SMTP.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/expensia/expensia-api/internal/application/ports"
	"github.com/expensia/expensia-api/pkg/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer implementación de Mailer sobre un servidor SMTP (gomail).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el mailer con la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send envía un correo HTML. Bloquea hasta entregar al servidor SMTP; el
// caso de uso registra el fallo sin abortar la operación que lo originó.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar a %s: %w", to, err)
	}
	return nil
}
