// internal/domain/notification/service.go
package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
)

// Notifier is the boundary the rest of the system dispatches events
// through. Callers treat delivery as best-effort and never fail a
// business transition on a dispatch error.
type Notifier interface {
	Dispatch(ctx context.Context, event Event) []ChannelResult
}

// EmailSender delivers a rendered notification by email
type EmailSender interface {
	SendNotificationEmail(ctx context.Context, to, name, subject, body string) error
}

// WhatsAppSender delivers a rendered notification by WhatsApp
type WhatsAppSender interface {
	SendText(ctx context.Context, phone, body string) error
}

// Service fans lifecycle events out to the in-app, email and WhatsApp
// channels and serves in-app notification queries.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	email     EmailSender
	whatsapp  WhatsAppSender
	log       *logrus.Logger
	templates *templateCache
}

// NewService creates a new notification service
func NewService(db *gorm.DB, cfg *config.Config, email EmailSender, whatsapp WhatsAppSender, log *logrus.Logger) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		email:     email,
		whatsapp:  whatsapp,
		log:       log,
		templates: newTemplateCache(32),
	}
}

// messageTemplate holds the title and body sources for one event type
// in one language.
type messageTemplate struct {
	Title string
	Body  string
}

// catalog is keyed by language, then event type. Lookup falls back to "en".
var catalog = map[string]map[EventType]messageTemplate{
	"en": {
		EventAssignment: {
			Title: "New task assigned",
			Body:  "Hi {{.Name}}, you have been assigned the task \"{{.Data.task_title}}\" at {{.Data.site_name}}, scheduled for {{.Data.scheduled_date}}.",
		},
		EventCompletion: {
			Title: "Task completed",
			Body:  "Hi {{.Name}}, the task \"{{.Data.task_title}}\" at {{.Data.site_name}} has been completed.",
		},
		EventLowStock: {
			Title: "Low stock alert",
			Body:  "Stock for {{.Data.item_name}} ({{.Data.sku}}) is low: {{.Data.current}} {{.Data.unit}} remaining, minimum is {{.Data.minimum}}.",
		},
		EventInvoice: {
			Title: "New invoice",
			Body:  "Hi {{.Name}}, invoice {{.Data.invoice_number}} for {{.Data.total}} has been issued for the task \"{{.Data.task_title}}\".",
		},
		EventCredentials: {
			Title: "Your account credentials",
			Body:  "Hi {{.Name}}, your account has been created. Sign in with {{.Data.email}} and the temporary password {{.Data.password}}.",
		},
	},
}

// Dispatch renders the event and delivers it on every configured
// channel. Channels succeed or fail independently; failures are logged
// and reported per channel, never returned as a single error.
func (s *Service) Dispatch(ctx context.Context, event Event) []ChannelResult {
	title, body, err := s.render(event)
	if err != nil {
		s.log.WithError(err).WithField("event_type", event.Type).
			Error("failed to render notification")
		return []ChannelResult{{Channel: ChannelInApp, Err: err}}
	}

	results := make([]ChannelResult, 0, 3)

	// In-app channel, only for recipients with a login account
	if event.Recipient.UserID > 0 {
		inAppErr := s.db.WithContext(ctx).Create(&Notification{
			UserID:  event.Recipient.UserID,
			Type:    event.Type,
			Title:   title,
			Message: body,
		}).Error
		if inAppErr != nil {
			s.log.WithError(inAppErr).WithField("user_id", event.Recipient.UserID).
				Warn("in-app notification delivery failed")
		}
		results = append(results, ChannelResult{Channel: ChannelInApp, Err: inAppErr})
	}

	// Email channel
	if s.email != nil && event.Recipient.Email != "" {
		emailErr := s.email.SendNotificationEmail(ctx, event.Recipient.Email, event.Recipient.Name, title, body)
		if emailErr != nil {
			s.log.WithError(emailErr).WithField("user_id", event.Recipient.UserID).
				Warn("email notification delivery failed")
		}
		results = append(results, ChannelResult{Channel: ChannelEmail, Err: emailErr})
	}

	// WhatsApp channel
	if s.whatsapp != nil && s.config.External.WhatsApp.Enabled && event.Recipient.Phone != "" {
		waErr := s.whatsapp.SendText(ctx, event.Recipient.Phone, fmt.Sprintf("%s\n%s", title, body))
		if waErr != nil {
			s.log.WithError(waErr).WithField("user_id", event.Recipient.UserID).
				Warn("whatsapp notification delivery failed")
		}
		results = append(results, ChannelResult{Channel: ChannelWhatsApp, Err: waErr})
	}

	return results
}

// render resolves the catalog entry for the event and executes the body
// template with the recipient and payload data.
func (s *Service) render(event Event) (string, string, error) {
	lang := event.Recipient.Language
	if lang == "" {
		lang = "en"
	}

	messages, ok := catalog[lang]
	if !ok {
		messages = catalog["en"]
	}
	msg, ok := messages[event.Type]
	if !ok {
		msg, ok = catalog["en"][event.Type]
		if !ok {
			return "", "", fmt.Errorf("no template for event type %q", event.Type)
		}
	}

	key := fmt.Sprintf("%s:%s", lang, event.Type)
	tmpl, err := s.templates.get(key, msg.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to compile template %s: %w", key, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Name string
		Data map[string]interface{}
	}{Name: event.Recipient.Name, Data: event.Data}); err != nil {
		return "", "", fmt.Errorf("failed to render template %s: %w", key, err)
	}

	return msg.Title, buf.String(), nil
}

// IN-APP QUERIES

// ListForUser retrieves a user's in-app notifications, newest first
func (s *Service) ListForUser(userID uint, unreadOnly bool) ([]Notification, error) {
	query := s.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var notifications []Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve notifications", err)
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for a user
func (s *Service) UnreadCount(userID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, apperrors.Internal("failed to count notifications", err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read
func (s *Service) MarkRead(id, userID uint) error {
	var n Notification
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("notification not found")
		}
		return apperrors.Internal("failed to retrieve notification", err)
	}

	if n.IsRead() {
		return nil
	}

	now := time.Now().UTC()
	if err := s.db.Model(&n).UpdateColumn("read_at", now).Error; err != nil {
		return apperrors.Internal("failed to mark notification read", err)
	}
	return nil
}

// MarkAllRead marks every unread notification for the user as read
func (s *Service) MarkAllRead(userID uint) error {
	if err := s.db.Model(&Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		UpdateColumn("read_at", time.Now().UTC()).Error; err != nil {
		return apperrors.Internal("failed to mark notifications read", err)
	}
	return nil
}
