// internal/domain/user/service_test.go
package user_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
	"github.com/your-org/gardenops-backend/internal/testutil"
)

type fakeNotifier struct {
	events []notification.Event
}

func (f *fakeNotifier) Dispatch(ctx context.Context, event notification.Event) []notification.ChannelResult {
	f.events = append(f.events, event)
	return nil
}

func newUserService(t *testing.T) (*user.Service, *fakeNotifier, user.Actor) {
	t.Helper()
	db := testutil.NewTestDB(t)
	notifier := &fakeNotifier{}
	svc := user.NewService(db, testutil.NewTestConfig(), notifier, testutil.NewTestLogger())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	admin := &user.User{Email: "admin@example.com", Password: string(hashed), FirstName: "Ana", Role: user.RoleAdmin, IsActive: true}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return svc, notifier, admin.AsActor()
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newUserService(t)

	u, err := svc.Authenticate("  Admin@Example.com ", "admin-pass")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if u.Email != "admin@example.com" {
		t.Errorf("unexpected email %q", u.Email)
	}
	if u.LastLoginAt == nil {
		t.Error("expected last login to be stamped")
	}

	if _, err := svc.Authenticate("admin@example.com", "wrong"); apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Errorf("expected unauthorized for bad password, got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "x"); apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Errorf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestAuthenticateRejectsDeactivated(t *testing.T) {
	svc, _, admin := newUserService(t)

	created, err := svc.CreateUser(context.Background(), &user.CreateUserRequest{
		Email:     "gone@example.com",
		FirstName: "Gone",
		Role:      user.RoleWorker,
	}, admin)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Deactivate(created.ID, admin); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := svc.Authenticate("gone@example.com", "anything"); apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Errorf("expected unauthorized for deactivated account, got %v", err)
	}
}

func TestCreateUserSendsCredentials(t *testing.T) {
	svc, notifier, admin := newUserService(t)

	created, err := svc.CreateUser(context.Background(), &user.CreateUserRequest{
		Email:     "New.Worker@Example.com",
		FirstName: "Wim",
		Phone:     "+31600000001",
		Role:      user.RoleWorker,
	}, admin)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Email != "new.worker@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if !created.IsActive {
		t.Error("expected new account to be active")
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 credentials event, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.Type != notification.EventCredentials {
		t.Errorf("unexpected event type %s", event.Type)
	}
	password, _ := event.Data["password"].(string)
	if password == "" {
		t.Fatal("expected a temporary password in the event payload")
	}

	// The generated password actually works
	if _, err := svc.Authenticate(created.Email, password); err != nil {
		t.Errorf("temporary password rejected: %v", err)
	}
}

func TestCreateUserRules(t *testing.T) {
	svc, _, admin := newUserService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, &user.CreateUserRequest{
		Email: "x@example.com", FirstName: "X", Role: user.Role("boss"),
	}, admin); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected validation error for bad role, got %v", err)
	}

	if _, err := svc.CreateUser(ctx, &user.CreateUserRequest{
		Email: "admin@example.com", FirstName: "Dup", Role: user.RoleWorker,
	}, admin); apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}

	worker := user.Actor{ID: 99, Role: user.RoleWorker}
	if _, err := svc.CreateUser(ctx, &user.CreateUserRequest{
		Email: "y@example.com", FirstName: "Y", Role: user.RoleWorker,
	}, worker); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, admin := newUserService(t)

	err := svc.ChangePassword(admin.ID, &user.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand-new-pass",
	})
	if apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Fatalf("expected unauthorized for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(admin.ID, &user.ChangePasswordRequest{
		CurrentPassword: "admin-pass",
		NewPassword:     "brand-new-pass",
	}); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := svc.Authenticate("admin@example.com", "brand-new-pass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := svc.Authenticate("admin@example.com", "admin-pass"); err == nil {
		t.Error("expected old password to stop working")
	}
}

func TestListWorkers(t *testing.T) {
	svc, _, admin := newUserService(t)
	ctx := context.Background()

	branch := uint(3)
	for _, req := range []*user.CreateUserRequest{
		{Email: "w1@example.com", FirstName: "W1", Role: user.RoleWorker, BranchID: &branch},
		{Email: "w2@example.com", FirstName: "W2", Role: user.RoleWorker},
		{Email: "c1@example.com", FirstName: "C1", Role: user.RoleClient},
	} {
		if _, err := svc.CreateUser(ctx, req, admin); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	all, err := svc.ListWorkers(0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 workers, got %d", len(all))
	}

	scoped, err := svc.ListWorkers(branch)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Email != "w1@example.com" {
		t.Errorf("expected only the branch worker, got %d", len(scoped))
	}
}
