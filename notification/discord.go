package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DiscordNotifier sends direct messages through a Discord bot. Every call
// opens its own session and closes it before returning.
type DiscordNotifier struct {
	httpClient   *http.Client
	closeSession func(*discordgo.Session) error
	logger       *zap.Logger
}

func NewDiscordNotifier(logger *zap.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		closeSession: (*discordgo.Session).Close,
		logger:       logger,
	}
}

// Notify authenticates with token, resolves userID and sends text as a DM.
func (d *DiscordNotifier) Notify(ctx context.Context, token, userID, text string) (err error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return &DeliveryError{Channel: channelDiscord, Err: err}
	}
	session.MaxRestRetries = 0
	session.ShouldRetryOnRateLimit = false
	if d.httpClient != nil {
		session.Client = d.httpClient
	}
	defer func() {
		if cerr := d.closeSession(session); cerr != nil {
			d.logger.Warn("failed to close discord session", zap.Error(cerr))
		}
	}()

	start := time.Now()
	timer := prometheus.NewTimer(deliveryDuration.WithLabelValues(channelDiscord))
	defer func() {
		timer.ObserveDuration()
		recordDelivery(channelDiscord, err)
	}()

	if _, err := session.User("@me", discordgo.WithContext(ctx)); err != nil {
		return &DeliveryError{Channel: channelDiscord, Err: fmt.Errorf("login: %w", err)}
	}

	user, err := session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownUser(err) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return &DeliveryError{Channel: channelDiscord, Err: err}
	}

	channel, err := session.UserChannelCreate(user.ID, discordgo.WithContext(ctx))
	if err != nil {
		return &DeliveryError{Channel: channelDiscord, Err: fmt.Errorf("open dm channel: %w", err)}
	}

	if _, err := session.ChannelMessageSend(channel.ID, text, discordgo.WithContext(ctx)); err != nil {
		return &DeliveryError{Channel: channelDiscord, Err: err}
	}

	d.logger.Info("discord message sent",
		zap.String("user_id", userID),
		zap.Int("length", len(text)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func isUnknownUser(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownUser {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
