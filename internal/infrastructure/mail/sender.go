// Package mail implementa el envío de correos de notificación sobre SMTP.
package mail

import (
	"github.com/jhoicas/Solicitudes-api/pkg/config"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Sender envía correos por SMTP. Si la configuración no trae servidor, los
// envíos se registran en el log y no viajan (útil en desarrollo).
type Sender struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewSender construye el sender con la configuración SMTP.
func NewSender(cfg config.SMTPConfig, log *logger.Logger) *Sender {
	if log == nil {
		log = logger.Nop()
	}
	return &Sender{cfg: cfg, log: log}
}

// Send envía un correo de texto plano a los destinatarios.
func (s *Sender) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if !s.cfg.Enabled() {
		s.log.Info().Strs("to", to).Str("subject", subject).Msg("SMTP desactivado, correo no enviado")
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return err
	}
	s.log.Debug().Strs("to", to).Str("subject", subject).Msg("correo enviado")
	return nil
}
