package domain

import "time"

type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelInApp Channel = "IN_APP"
)

type Notification struct {
	ID        string
	UserID    string
	Message   string
	Channel   Channel
	CreatedAt time.Time
	Read      bool
}
