// internal/domain/notification/service_test.go
package notification_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
	"github.com/your-org/gardenops-backend/internal/testutil"
)

type fakeEmail struct {
	sent []string // "to|subject|body"
	err  error
}

func (f *fakeEmail) SendNotificationEmail(ctx context.Context, to, name, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject+"|"+body)
	return nil
}

type fakeWhatsApp struct {
	sent []string // "phone|body"
	err  error
}

func (f *fakeWhatsApp) SendText(ctx context.Context, phone, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phone+"|"+body)
	return nil
}

func assignmentEvent(userID uint) notification.Event {
	return notification.Event{
		Type: notification.EventAssignment,
		Recipient: notification.Recipient{
			UserID: userID,
			Name:   "Wim",
			Email:  "wim@example.com",
			Phone:  "+31600000001",
		},
		Data: map[string]interface{}{
			"task_title":     "Hedge trimming",
			"site_name":      "North Garden",
			"scheduled_date": "2026-05-01",
		},
	}
}

func TestDispatchDeliversOnAllChannels(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	cfg.External.WhatsApp.Enabled = true
	email := &fakeEmail{}
	wa := &fakeWhatsApp{}
	svc := notification.NewService(db, cfg, email, wa, testutil.NewTestLogger())

	results := svc.Dispatch(context.Background(), assignmentEvent(7))
	if len(results) != 3 {
		t.Fatalf("expected 3 channel results, got %d", len(results))
	}
	for _, r := range results {
		if !r.OK() {
			t.Errorf("channel %s failed: %v", r.Channel, r.Err)
		}
	}

	rows, err := svc.ListForUser(7, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 in-app notification, got %d", len(rows))
	}
	if rows[0].Title != "New task assigned" {
		t.Errorf("unexpected title %q", rows[0].Title)
	}
	if !strings.Contains(rows[0].Message, "Hedge trimming") || !strings.Contains(rows[0].Message, "North Garden") {
		t.Errorf("rendered body missing payload data: %q", rows[0].Message)
	}

	if len(email.sent) != 1 || !strings.HasPrefix(email.sent[0], "wim@example.com|New task assigned|") {
		t.Errorf("unexpected email delivery: %v", email.sent)
	}
	if len(wa.sent) != 1 || !strings.HasPrefix(wa.sent[0], "+31600000001|") {
		t.Errorf("unexpected whatsapp delivery: %v", wa.sent)
	}
}

func TestDispatchChannelFailuresAreIsolated(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	cfg.External.WhatsApp.Enabled = true
	email := &fakeEmail{err: errors.New("smtp down")}
	wa := &fakeWhatsApp{}
	svc := notification.NewService(db, cfg, email, wa, testutil.NewTestLogger())

	results := svc.Dispatch(context.Background(), assignmentEvent(7))

	byChannel := map[notification.Channel]notification.ChannelResult{}
	for _, r := range results {
		byChannel[r.Channel] = r
	}
	if byChannel[notification.ChannelEmail].OK() {
		t.Error("expected the email channel to report failure")
	}
	if !byChannel[notification.ChannelInApp].OK() {
		t.Error("expected the in-app channel to succeed despite the email failure")
	}
	if !byChannel[notification.ChannelWhatsApp].OK() {
		t.Error("expected the whatsapp channel to succeed despite the email failure")
	}
	if len(wa.sent) != 1 {
		t.Errorf("expected whatsapp delivery, got %d", len(wa.sent))
	}
}

func TestDispatchSkipsInAppForRecipientsWithoutAccount(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := notification.NewService(db, testutil.NewTestConfig(), &fakeEmail{}, nil, testutil.NewTestLogger())

	event := assignmentEvent(0) // e.g. a client contact without a login
	results := svc.Dispatch(context.Background(), event)

	for _, r := range results {
		if r.Channel == notification.ChannelInApp {
			t.Error("expected no in-app delivery without a user account")
		}
	}

	var count int64
	db.Model(&notification.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no in-app rows, got %d", count)
	}
}

func TestDispatchSkipsDisabledWhatsApp(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	cfg.External.WhatsApp.Enabled = false
	wa := &fakeWhatsApp{}
	svc := notification.NewService(db, cfg, &fakeEmail{}, wa, testutil.NewTestLogger())

	svc.Dispatch(context.Background(), assignmentEvent(7))
	if len(wa.sent) != 0 {
		t.Errorf("expected no whatsapp delivery while disabled, got %d", len(wa.sent))
	}
}

func TestDispatchFallsBackToEnglish(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := notification.NewService(db, testutil.NewTestConfig(), nil, nil, testutil.NewTestLogger())

	event := assignmentEvent(7)
	event.Recipient.Language = "nl" // not in the catalog
	results := svc.Dispatch(context.Background(), event)

	for _, r := range results {
		if !r.OK() {
			t.Fatalf("channel %s failed: %v", r.Channel, r.Err)
		}
	}
	rows, _ := svc.ListForUser(7, false)
	if len(rows) != 1 || rows[0].Title != "New task assigned" {
		t.Fatalf("expected the English template to be used, got %+v", rows)
	}
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := notification.NewService(db, testutil.NewTestConfig(), nil, nil, testutil.NewTestLogger())
	ctx := context.Background()

	svc.Dispatch(ctx, assignmentEvent(7))
	svc.Dispatch(ctx, assignmentEvent(7))

	count, err := svc.UnreadCount(7)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	rows, _ := svc.ListForUser(7, true)
	if err := svc.MarkRead(rows[0].ID, 7); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	// Marking an already-read notification is a no-op
	if err := svc.MarkRead(rows[0].ID, 7); err != nil {
		t.Fatalf("expected idempotent mark read, got %v", err)
	}

	count, _ = svc.UnreadCount(7)
	if count != 1 {
		t.Errorf("expected 1 unread after mark read, got %d", count)
	}

	// Users cannot mark other users' notifications
	if err := svc.MarkRead(rows[1].ID, 8); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected not found for foreign notification, got %v", err)
	}

	if err := svc.MarkAllRead(7); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	count, _ = svc.UnreadCount(7)
	if count != 0 {
		t.Errorf("expected 0 unread after mark all, got %d", count)
	}
}
