package entity

import "time"

// User is the read-only traveler record from the user directory, used
// here only to route notifications
type User struct {
	ID                    uint
	Name                  string
	Email                 string
	Phone                 string
	Nationality           string
	PassportNumber        string
	PreferredNotification NotificationPreference
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
