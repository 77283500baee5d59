// internal/domain/notification/entity.go
package notification

import (
	"time"
)

// EventType represents the kind of notification event
type EventType string

const (
	EventAssignment  EventType = "assignment"
	EventCompletion  EventType = "completion"
	EventLowStock    EventType = "low_stock"
	EventInvoice     EventType = "invoice"
	EventCredentials EventType = "credentials"
)

// Channel identifies a delivery channel
type Channel string

const (
	ChannelInApp    Channel = "in_app"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Recipient is everything a channel needs to reach a user
type Recipient struct {
	UserID   uint   `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"` // E.164, used for WhatsApp
	Language string `json:"language,omitempty"`
}

// Event is a lifecycle event handed to the dispatcher
type Event struct {
	Type      EventType              `json:"type"`
	Recipient Recipient              `json:"recipient"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ChannelResult reports the outcome of one delivery channel.
// Channels succeed or fail independently.
type ChannelResult struct {
	Channel Channel `json:"channel"`
	Err     error   `json:"-"`
}

// OK reports whether the channel delivered
func (r ChannelResult) OK() bool {
	return r.Err == nil
}

// Notification is an in-app notification row
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Type      EventType  `gorm:"not null;size:30" json:"type"`
	Title     string     `gorm:"not null;size:255" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName overrides the table name
func (Notification) TableName() string { return "notifications" }

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
