package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/kafka"
)

// Sender delivers notification events consumed off the notifications topic.
// Email and SMS delivery are simulated; IN_APP events were already delivered
// in-process and are skipped here.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	switch event.Channel {
	case "EMAIL":
		s.log.Info("deliver email",
			zap.String("user_id", event.UserID),
			zap.String("message", event.Message))
	case "SMS":
		s.log.Info("deliver sms",
			zap.String("user_id", event.UserID),
			zap.String("message", event.Message))
	}
	return nil
}
