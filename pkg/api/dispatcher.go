package api

import (
	"context"

	"github.com/sendkit/sendkit/pkg/observability"
)

// Message is an outbound email accepted for delivery.
type Message struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Dispatcher hands an accepted message to the delivery pipeline. Delivery
// itself (SMTP relay, provider APIs) lives outside this service.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *Message) error
}

// LogDispatcher accepts every message and logs it. Used in development and
// as the default until a relay is configured.
type LogDispatcher struct {
	logger *observability.Logger
}

// NewLogDispatcher creates a LogDispatcher
func NewLogDispatcher(logger *observability.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the accepted message
func (d *LogDispatcher) Dispatch(ctx context.Context, msg *Message) error {
	d.logger.WithFields(map[string]interface{}{
		"message_id": msg.ID,
		"account_id": msg.AccountID,
		"to":         msg.To,
	}).Info("message accepted for delivery")
	return nil
}
