package entity

import "time"

// NotificationChannel identifies a delivery transport
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)

// NotificationPreference is the user's channel selection
type NotificationPreference string

const (
	NotifyEmail    NotificationPreference = "email"
	NotifyWhatsApp NotificationPreference = "whatsapp"
	NotifyBoth     NotificationPreference = "both"
)

// Channels expands the preference into the concrete channels to fan
// out to. "both" means two independent messages.
func (p NotificationPreference) Channels() []NotificationChannel {
	switch p {
	case NotifyEmail:
		return []NotificationChannel{ChannelEmail}
	case NotifyWhatsApp:
		return []NotificationChannel{ChannelWhatsApp}
	case NotifyBoth:
		return []NotificationChannel{ChannelEmail, ChannelWhatsApp}
	}
	return nil
}

// NotificationEvent identifies which lifecycle message is being sent
type NotificationEvent string

const (
	EventConfirmation NotificationEvent = "confirmation"
	EventReminder     NotificationEvent = "reminder"
	EventCompletion   NotificationEvent = "completion"
)

// NotificationLog records one delivered message for auditing
type NotificationLog struct {
	ID           uint
	SubmissionID string
	UserID       uint
	Event        NotificationEvent
	Channel      NotificationChannel
	Recipient    string
	Message      string
	SentAt       time.Time
}
