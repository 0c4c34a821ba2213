package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/jordan-wright/email"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"inquiry-relay/config"
	"inquiry-relay/models"
	"inquiry-relay/utils"
)

// sendFunc dials the server, delivers e and closes the connection.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

func smtpSend(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

type Mailer struct {
	host   string
	addr   string
	send   sendFunc
	logger *zap.Logger
}

func NewMailer(cfg *config.Config, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:   cfg.SMTP.Host,
		addr:   cfg.SMTPAddr(),
		send:   smtpSend,
		logger: logger,
	}
}

// Send delivers a single plain-text message. A CC address that is not a
// valid email is dropped rather than rejected.
func (m *Mailer) Send(ctx context.Context, msg models.EmailMessage) error {
	if msg.Sender.Username == "" || msg.Sender.Password == "" {
		return ErrMissingCredentials
	}
	if !utils.IsValidEmail(msg.To) {
		return fmt.Errorf("%w: invalid address", ErrRejectedRecipient)
	}
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Channel: channelEmail, Err: err}
	}

	// Create email
	e := email.NewEmail()
	e.From = msg.Sender.FromAddress
	if e.From == "" {
		e.From = msg.Sender.Username
	}
	e.To = []string{msg.To}
	if msg.CC != "" && utils.IsValidEmail(msg.CC) {
		e.Cc = []string{msg.CC}
	}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)

	auth := smtp.PlainAuth("", msg.Sender.Username, msg.Sender.Password, m.host)

	start := time.Now()
	timer := prometheus.NewTimer(deliveryDuration.WithLabelValues(channelEmail))
	err := m.send(e, m.addr, auth)
	timer.ObserveDuration()

	err = classifySMTPError(err)
	recordDelivery(channelEmail, err)
	if err != nil {
		return err
	}

	m.logger.Info("email sent",
		zap.String("recipient", utils.MaskEmail(msg.To)),
		zap.String("from", msg.Sender.FromAddress),
		zap.Bool("cc", len(e.Cc) > 0),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// classifySMTPError maps permanent mailbox replies to ErrRejectedRecipient.
func classifySMTPError(err error) error {
	if err == nil {
		return nil
	}
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && tpErr.Code >= 550 && tpErr.Code <= 553 {
		return fmt.Errorf("%w: %v", ErrRejectedRecipient, err)
	}
	return &DeliveryError{Channel: channelEmail, Err: err}
}
