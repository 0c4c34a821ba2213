package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inquiry-relay/config"
	"inquiry-relay/models"
)

type discordCall struct {
	token, userID, text string
}

type fakeDiscord struct {
	calls []discordCall
	err   error
}

func (f *fakeDiscord) Notify(_ context.Context, token, userID, text string) error {
	f.calls = append(f.calls, discordCall{token, userID, text})
	return f.err
}

type fakeMailer struct {
	sent []models.EmailMessage
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg models.EmailMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeResolver struct {
	aliases []string
}

func (f *fakeResolver) Resolve(alias string) models.SenderCredential {
	f.aliases = append(f.aliases, alias)
	from := "default@firm.com"
	if alias != "" {
		from = alias
	}
	return models.SenderCredential{Username: "u", Password: "p", FromAddress: from}
}

type fixture struct {
	svc      *IntakeService
	cfg      *config.Config
	discord  *fakeDiscord
	mailer   *fakeMailer
	resolver *fakeResolver
}

func newFixture() *fixture {
	cfg := &config.Config{}
	cfg.Discord.Token = "bot-token"
	cfg.Discord.UserID = "42"

	f := &fixture{
		cfg:      cfg,
		discord:  &fakeDiscord{},
		mailer:   &fakeMailer{},
		resolver: &fakeResolver{},
	}
	f.svc = NewIntakeService(cfg, f.discord, f.mailer, f.resolver, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestContactRoutesToEmailWhenSendIsValid(t *testing.T) {
	f := newFixture()

	res := f.svc.Contact(context.Background(), models.ContactSubmission{
		Send:    "x@y.com",
		Name:    "Joe",
		Email:   "x@y.com",
		Message: "hi",
		CC:      "boss@y.com",
		Alias:   "sales@firm.com",
	})

	assert.Equal(t, Result{Status: http.StatusOK, Message: "Email sent successfully!"}, res)
	assert.Empty(t, f.discord.calls)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "x@y.com", msg.To)
	assert.Equal(t, "Inquiry from Joe (x@y.com)", msg.Subject)
	assert.Equal(t, "hi", msg.Body)
	assert.Equal(t, "boss@y.com", msg.CC)
	assert.Equal(t, "sales@firm.com", msg.Sender.FromAddress)
	assert.Equal(t, []string{"sales@firm.com"}, f.resolver.aliases)
}

func TestContactEmailPathWithoutSubmitterEmail(t *testing.T) {
	f := newFixture()

	res := f.svc.Contact(context.Background(), models.ContactSubmission{Send: "x@y.com", Name: "Joe", Message: "hi"})

	assert.Equal(t, Result{Status: http.StatusOK, Message: "Email sent successfully!"}, res)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "Inquiry from Joe", f.mailer.sent[0].Subject)
	assert.Equal(t, "x@y.com", f.mailer.sent[0].To)
}

func TestContactRoutesToDiscordWithoutSend(t *testing.T) {
	f := newFixture()

	res := f.svc.Contact(context.Background(), models.ContactSubmission{
		Fields: []models.Field{{Key: "foo", Value: "bar", Text: true}, {Key: "baz", Value: "qux", Text: true}},
	})

	assert.Equal(t, Result{Status: http.StatusOK, Message: "Contact request sent successfully!"}, res)
	assert.Empty(t, f.mailer.sent)
	require.Len(t, f.discord.calls, 1)
	assert.Equal(t, discordCall{"bot-token", "42", "foo: bar\nbaz: qux"}, f.discord.calls[0])
}

func TestContactInvalidSendFallsBackToDiscord(t *testing.T) {
	f := newFixture()

	res := f.svc.Contact(context.Background(), models.ContactSubmission{
		Send:   "not-an-email",
		Fields: []models.Field{{Key: "send", Value: "not-an-email", Text: true}},
	})

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Empty(t, f.mailer.sent)
	require.Len(t, f.discord.calls, 1)
	assert.Equal(t, "send: not-an-email", f.discord.calls[0].text)
}

func TestContactFailures(t *testing.T) {
	t.Run("email delivery fails", func(t *testing.T) {
		f := newFixture()
		f.mailer.err = errors.New("smtp down")
		res := f.svc.Contact(context.Background(), models.ContactSubmission{Send: "x@y.com"})
		assert.Equal(t, Result{Status: http.StatusInternalServerError, Message: "Failed to send email."}, res)
	})

	t.Run("discord delivery fails", func(t *testing.T) {
		f := newFixture()
		f.discord.err = errors.New("gateway down")
		res := f.svc.Contact(context.Background(), models.ContactSubmission{})
		assert.Equal(t, Result{Status: http.StatusInternalServerError, Message: "Failed to send Discord message."}, res)
	})

	t.Run("token missing", func(t *testing.T) {
		f := newFixture()
		f.cfg.Discord.Token = ""
		res := f.svc.Contact(context.Background(), models.ContactSubmission{})
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, "API key is not set. Please set the environment variable.", res.Message)
		assert.Empty(t, f.discord.calls)
	})

	t.Run("user id missing", func(t *testing.T) {
		f := newFixture()
		f.cfg.Discord.UserID = ""
		res := f.svc.Contact(context.Background(), models.ContactSubmission{})
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Contains(t, res.Message, "DISCORD_USER_ID")
		assert.Empty(t, f.discord.calls)
	})
}

func TestContactSubject(t *testing.T) {
	tests := []struct {
		source, name, email string
		want                string
	}{
		{"", "Joe", "x@y.com", "Inquiry from Joe (x@y.com)"},
		{"Website", "Joe", "", "Website inquiry from Joe"},
		{"", "Joe", "", "Inquiry from Joe"},
		{"", "", "x@y.com", "Inquiry from (x@y.com)"},
		{"", "", "", "Inquiry"},
		{"Logistics", "", "", "Logistics inquiry"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ContactSubject(tt.source, tt.name, tt.email))
		})
	}
}

func TestQuote(t *testing.T) {
	f := newFixture()

	res := f.svc.Quote(context.Background(), models.QuoteRequest{
		Name:    "Ann",
		DOB:     "1990-11-05",
		Phone:   "5551234567",
		Message: "life insurance",
	})

	assert.Equal(t, Result{Status: http.StatusOK, Message: "Quote request sent successfully!"}, res)
	require.Len(t, f.discord.calls, 1)
	assert.Equal(t,
		"Quote request from Ann \nAge: 34 (11/5/1990)\nEmail: \nPhone: 5551234567\nMessage: life insurance",
		f.discord.calls[0].text)
}

func TestQuoteRejectsInvalidForm(t *testing.T) {
	f := newFixture()

	res := f.svc.Quote(context.Background(), models.QuoteRequest{DOB: "2000-01-01", Email: "a@b.com"})

	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Please fill in all required fields and provide a valid email or phone number.", res.Message)
	assert.Empty(t, f.discord.calls)
}

func TestQuoteFailures(t *testing.T) {
	valid := models.QuoteRequest{Name: "A", DOB: "2000-01-01", Email: "a@b.com"}

	t.Run("config missing", func(t *testing.T) {
		f := newFixture()
		f.cfg.Discord.Token = ""
		res := f.svc.Quote(context.Background(), valid)
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Empty(t, f.discord.calls)
	})

	t.Run("delivery fails", func(t *testing.T) {
		f := newFixture()
		f.discord.err = errors.New("boom")
		res := f.svc.Quote(context.Background(), valid)
		assert.Equal(t, Result{Status: http.StatusInternalServerError, Message: "Failed to send Discord message."}, res)
	})
}

func TestQuoteMessageAgeIgnoresMonthAndDay(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	text, err := QuoteMessage(models.QuoteRequest{Name: "B", DOB: "2000-12-31"}, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Age: 24 (12/31/2000)")

	_, err = QuoteMessage(models.QuoteRequest{Name: "B", DOB: "yesterday"}, now)
	assert.Error(t, err)
}

func TestSendMail(t *testing.T) {
	tests := []struct {
		name       string
		req        models.SendRequest
		mailErr    error
		wantStatus int
		wantMsg    string
		wantSent   int
	}{
		{
			name:       "sent",
			req:        models.SendRequest{Email: "a@b.com", Subject: "s", Message: "m", Alias: "sales@firm.com"},
			wantStatus: http.StatusOK,
			wantMsg:    "Email sent successfully!",
			wantSent:   1,
		},
		{
			name:       "missing subject",
			req:        models.SendRequest{Email: "a@b.com", Message: "m"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required fields: email, subject, and message are required.",
		},
		{
			name:       "invalid recipient",
			req:        models.SendRequest{Email: "a@b", Subject: "s", Message: "m"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid email address format.",
		},
		{
			name:       "delivery fails",
			req:        models.SendRequest{Email: "a@b.com", Subject: "s", Message: "m"},
			mailErr:    errors.New("rejected"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Failed to send email.",
			wantSent:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.mailer.err = tt.mailErr

			res := f.svc.SendMail(context.Background(), tt.req)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantMsg, res.Message)
			require.Len(t, f.mailer.sent, tt.wantSent)
			if tt.wantSent > 0 {
				assert.Equal(t, tt.req.Subject, f.mailer.sent[0].Subject)
				assert.Empty(t, f.mailer.sent[0].CC)
			}
		})
	}
}

func TestDeliveryIgnoresCallerCancellation(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	f.svc.discord = discordFunc(func(ctx context.Context) error {
		seen = ctx.Err()
		return nil
	})

	res := f.svc.Contact(ctx, models.ContactSubmission{})
	assert.Equal(t, http.StatusOK, res.Status)
	assert.NoError(t, seen)
}

type discordFunc func(ctx context.Context) error

func (fn discordFunc) Notify(ctx context.Context, _, _, _ string) error {
	return fn(ctx)
}
