package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/kafka"
)

// EmailHandler simulates delivery on the EMAIL channel.
type EmailHandler struct {
	log *zap.Logger
}

func NewEmailHandler(log *zap.Logger) *EmailHandler {
	return &EmailHandler{log: log}
}

func (h *EmailHandler) Name() string { return "email" }

func (h *EmailHandler) Handle(ctx context.Context, n *domain.Notification) error {
	if n.Channel != domain.ChannelEmail {
		return nil
	}
	h.log.Info("send email notification",
		zap.String("user_id", n.UserID),
		zap.String("message", n.Message))
	return nil
}

// SMSHandler simulates delivery on the SMS channel.
type SMSHandler struct {
	log *zap.Logger
}

func NewSMSHandler(log *zap.Logger) *SMSHandler {
	return &SMSHandler{log: log}
}

func (h *SMSHandler) Name() string { return "sms" }

func (h *SMSHandler) Handle(ctx context.Context, n *domain.Notification) error {
	if n.Channel != domain.ChannelSMS {
		return nil
	}
	h.log.Info("send sms notification",
		zap.String("user_id", n.UserID),
		zap.String("message", n.Message))
	return nil
}

// InAppHandler simulates delivery on the IN_APP channel.
type InAppHandler struct {
	log *zap.Logger
}

func NewInAppHandler(log *zap.Logger) *InAppHandler {
	return &InAppHandler{log: log}
}

func (h *InAppHandler) Name() string { return "in_app" }

func (h *InAppHandler) Handle(ctx context.Context, n *domain.Notification) error {
	if n.Channel != domain.ChannelInApp {
		return nil
	}
	h.log.Info("deliver in-app notification",
		zap.String("user_id", n.UserID),
		zap.String("message", n.Message))
	return nil
}

// Producer publishes notification events for out-of-process delivery.
type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// KafkaHandler forwards every notification, regardless of channel, to the
// notifications topic. The worker consumes it and performs the real send.
type KafkaHandler struct {
	producer Producer
	topic    string
}

func NewKafkaHandler(producer Producer, topic string) *KafkaHandler {
	return &KafkaHandler{producer: producer, topic: topic}
}

func (h *KafkaHandler) Name() string { return "kafka" }

func (h *KafkaHandler) Handle(ctx context.Context, n *domain.Notification) error {
	if h.producer == nil || h.topic == "" {
		return nil
	}
	event := kafka.NotificationEvent{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		Channel:   string(n.Channel),
		CreatedAt: n.CreatedAt,
	}
	return h.producer.Publish(ctx, h.topic, n.UserID, event)
}
