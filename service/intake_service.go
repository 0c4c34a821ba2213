package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"inquiry-relay/config"
	"inquiry-relay/logging"
	"inquiry-relay/models"
	"inquiry-relay/utils"
)

const (
	msgContactSent     = "Contact request sent successfully!"
	msgQuoteSent       = "Quote request sent successfully!"
	msgEmailSent       = "Email sent successfully!"
	msgDiscordFailed   = "Failed to send Discord message."
	msgEmailFailed     = "Failed to send email."
	msgTokenMissing    = "API key is not set. Please set the environment variable."
	msgUserIDMissing   = "User ID is not set. Please set the DISCORD_USER_ID environment variable."
	msgQuoteInvalid    = "Please fill in all required fields and provide a valid email or phone number."
	msgSendFieldsMiss  = "Missing required fields: email, subject, and message are required."
	msgInvalidEmail    = "Invalid email address format."
	quoteDOBDateLayout = "1/2/2006"
)

type DiscordSender interface {
	Notify(ctx context.Context, token, userID, text string) error
}

type EmailSender interface {
	Send(ctx context.Context, msg models.EmailMessage) error
}

type CredentialResolver interface {
	Resolve(alias string) models.SenderCredential
}

// Result is the user-facing outcome of an intake request.
type Result struct {
	Status  int
	Message string
}

type IntakeService struct {
	config   *config.Config
	discord  DiscordSender
	mailer   EmailSender
	resolver CredentialResolver
	logger   *zap.Logger
	now      func() time.Time
}

func NewIntakeService(
	cfg *config.Config,
	discord DiscordSender,
	mailer EmailSender,
	resolver CredentialResolver,
	logger *zap.Logger,
) *IntakeService {
	return &IntakeService{
		config:   cfg,
		discord:  discord,
		mailer:   mailer,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Contact relays a free-form submission. A valid "send" address selects the
// email path; anything else is forwarded to Discord without validation.
func (s *IntakeService) Contact(ctx context.Context, sub models.ContactSubmission) Result {
	log := logging.FromContext(ctx, s.logger)

	if sub.Send != "" && utils.IsValidEmail(sub.Send) {
		msg := models.EmailMessage{
			To:      sub.Send,
			Subject: ContactSubject(sub.Source, sub.Name, sub.Email),
			Body:    sub.Message,
			CC:      sub.CC,
			Sender:  s.resolver.Resolve(sub.Alias),
		}
		if err := s.mailer.Send(context.WithoutCancel(ctx), msg); err != nil {
			log.Error("failed to send email",
				zap.String("recipient", utils.MaskEmail(sub.Send)),
				zap.Error(err))
			return Result{Status: http.StatusInternalServerError, Message: msgEmailFailed}
		}
		return Result{Status: http.StatusOK, Message: msgEmailSent}
	}

	if res, ok := s.requireDiscord(log); !ok {
		return res
	}

	text := utils.FormatLines(sub.Fields)
	if err := s.discord.Notify(context.WithoutCancel(ctx), s.config.Discord.Token, s.config.Discord.UserID, text); err != nil {
		log.Error("failed to send discord message", zap.Error(err))
		return Result{Status: http.StatusInternalServerError, Message: msgDiscordFailed}
	}
	return Result{Status: http.StatusOK, Message: msgContactSent}
}

// Quote validates a quote request and relays it to Discord.
func (s *IntakeService) Quote(ctx context.Context, req models.QuoteRequest) Result {
	log := logging.FromContext(ctx, s.logger)

	if res, ok := s.requireDiscord(log); !ok {
		return res
	}
	if !utils.IsValidQuoteForm(req) {
		log.Info("rejected quote request", zap.String("reason", "validation"))
		return Result{Status: http.StatusBadRequest, Message: msgQuoteInvalid}
	}

	text, err := QuoteMessage(req, s.now())
	if err != nil {
		log.Info("rejected quote request", zap.Error(err))
		return Result{Status: http.StatusBadRequest, Message: msgQuoteInvalid}
	}

	if err := s.discord.Notify(context.WithoutCancel(ctx), s.config.Discord.Token, s.config.Discord.UserID, text); err != nil {
		log.Error("failed to send discord message", zap.Error(err))
		return Result{Status: http.StatusInternalServerError, Message: msgDiscordFailed}
	}
	return Result{Status: http.StatusOK, Message: msgQuoteSent}
}

// SendMail emails message to the given recipient, optionally from an alias.
func (s *IntakeService) SendMail(ctx context.Context, req models.SendRequest) Result {
	log := logging.FromContext(ctx, s.logger)

	if req.Email == "" || req.Subject == "" || req.Message == "" {
		return Result{Status: http.StatusBadRequest, Message: msgSendFieldsMiss}
	}
	if !utils.IsValidEmail(req.Email) {
		return Result{Status: http.StatusBadRequest, Message: msgInvalidEmail}
	}

	msg := models.EmailMessage{
		To:      req.Email,
		Subject: req.Subject,
		Body:    req.Message,
		Sender:  s.resolver.Resolve(req.Alias),
	}
	if err := s.mailer.Send(context.WithoutCancel(ctx), msg); err != nil {
		log.Error("failed to send email",
			zap.String("recipient", utils.MaskEmail(req.Email)),
			zap.Error(err))
		return Result{Status: http.StatusInternalServerError, Message: msgEmailFailed}
	}
	return Result{Status: http.StatusOK, Message: msgEmailSent}
}

func (s *IntakeService) requireDiscord(log *zap.Logger) (Result, bool) {
	err := s.config.RequireDiscord()
	if err == nil {
		return Result{}, true
	}
	log.Error("discord is not configured", zap.Error(err))
	if s.config.Discord.Token == "" {
		return Result{Status: http.StatusInternalServerError, Message: msgTokenMissing}, false
	}
	return Result{Status: http.StatusInternalServerError, Message: msgUserIDMissing}, false
}

// ContactSubject builds "{source} inquiry from {name} ({email})", leaving
// out whatever is not provided.
func ContactSubject(source, name, email string) string {
	var b strings.Builder
	if source != "" {
		b.WriteString(source + " inquiry")
	} else {
		b.WriteString("Inquiry")
	}
	if name != "" || email != "" {
		b.WriteString(" from")
		if name != "" {
			b.WriteString(" " + name)
		}
		if email != "" {
			b.WriteString(" (" + email + ")")
		}
	}
	return b.String()
}

// QuoteMessage renders the Discord body for a quote request. Age is the
// difference between calendar years only.
func QuoteMessage(req models.QuoteRequest, now time.Time) (string, error) {
	dob, ok := utils.ParseDOB(strings.TrimSpace(req.DOB))
	if !ok {
		return "", fmt.Errorf("invalid date of birth %q", req.DOB)
	}
	age := now.Year() - dob.Year()
	return fmt.Sprintf("Quote request from %s \nAge: %d (%s)\nEmail: %s\nPhone: %s\nMessage: %s",
		req.Name, age, dob.Format(quoteDOBDateLayout), req.Email, req.Phone, req.Message), nil
}
