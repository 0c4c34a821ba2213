package notification

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRejectedRecipient  = errors.New("email not sent: recipient rejected")
	ErrMissingCredentials = errors.New("sender credentials not configured")
)

// DeliveryError wraps a transport failure from a downstream channel.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
