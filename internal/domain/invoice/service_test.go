// internal/domain/invoice/service_test.go
package invoice_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/domain/client"
	"github.com/your-org/gardenops-backend/internal/domain/invoice"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/storage"
	"github.com/your-org/gardenops-backend/internal/domain/task"
	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
	"github.com/your-org/gardenops-backend/internal/pkg/pdf"
	"github.com/your-org/gardenops-backend/internal/testutil"
)

type fakeNotifier struct {
	events []notification.Event
}

func (f *fakeNotifier) Dispatch(ctx context.Context, event notification.Event) []notification.ChannelResult {
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	db       *gorm.DB
	invoices *invoice.Service
	notifier *fakeNotifier
	admin    user.Actor
	client   *client.Client
	task     *task.Task
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	cfg.External.Storage.LocalPath = t.TempDir()
	notifier := &fakeNotifier{}

	svc := invoice.NewService(db, cfg, pdf.NewService(), storage.NewService(db, cfg), notifier, testutil.NewTestLogger())

	admin := &user.User{Email: "admin@example.com", Password: "x", FirstName: "Ana", Role: user.RoleAdmin, IsActive: true}
	db.Create(admin)

	cl := &client.Client{Name: "Green Estates", Email: "billing@greenestates.example", IsActive: true}
	db.Create(cl)
	site := &client.Site{ClientID: cl.ID, Name: "North Garden"}
	db.Create(site)

	now := time.Now().UTC()
	started := now.Add(-2 * time.Hour)
	tk := &task.Task{
		Title:         "Spring cleanup",
		ClientID:      cl.ID,
		SiteID:        site.ID,
		Status:        task.StatusCompleted,
		ScheduledDate: now,
		StartedAt:     &started,
		CompletedAt:   &now,
		LaborCost:     5000,
		Materials: []task.Material{
			{Name: "Bark Mulch", Unit: "bags", Quantity: 10, UnitCost: 800},
		},
	}
	tk.RecomputeCost()
	db.Create(tk)

	return &fixture{db: db, invoices: svc, notifier: notifier, admin: admin.AsActor(), client: cl, task: tk}
}

func TestGenerateForTaskBuildsLines(t *testing.T) {
	f := newFixture(t)

	inv, err := f.invoices.GenerateForTask(context.Background(), f.task.ID, &invoice.GenerateRequest{
		Notes: "Payable within two weeks",
	}, f.admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.HasPrefix(inv.Number, "INV-") || !strings.HasSuffix(inv.Number, "-00001") {
		t.Errorf("unexpected invoice number %q", inv.Number)
	}
	if inv.Status != invoice.StatusDraft {
		t.Errorf("expected draft status, got %s", inv.Status)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("expected labor + material lines, got %d", len(inv.Items))
	}

	// 5000 labor + 10 * 800 material
	if inv.Subtotal != 13000 {
		t.Errorf("expected subtotal 13000, got %d", inv.Subtotal)
	}
	// 19%% of 13000 is 2470
	if inv.TaxAmount != 2470 {
		t.Errorf("expected tax 2470, got %d", inv.TaxAmount)
	}
	if inv.Total != 15470 {
		t.Errorf("expected total 15470, got %d", inv.Total)
	}
	if inv.DueAt.Sub(inv.IssuedAt) != 14*24*time.Hour {
		t.Errorf("expected a 14-day due window, got %v", inv.DueAt.Sub(inv.IssuedAt))
	}
}

func TestGenerateForTaskOnePerTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.invoices.GenerateForTask(ctx, f.task.ID, &invoice.GenerateRequest{}, f.admin); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	_, err := f.invoices.GenerateForTask(ctx, f.task.ID, &invoice.GenerateRequest{}, f.admin)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict for a second invoice, got %v", err)
	}
}

func TestGenerateForTaskNumbersNeverCollide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Now().UTC()
	started := now.Add(-time.Hour)
	second := &task.Task{
		Title:         "Hedge trimming",
		ClientID:      f.client.ID,
		SiteID:        f.task.SiteID,
		Status:        task.StatusCompleted,
		ScheduledDate: now,
		StartedAt:     &started,
		CompletedAt:   &now,
		LaborCost:     3000,
	}
	second.RecomputeCost()
	f.db.Create(second)

	first, err := f.invoices.GenerateForTask(ctx, f.task.ID, &invoice.GenerateRequest{}, f.admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	next, err := f.invoices.GenerateForTask(ctx, second.ID, &invoice.GenerateRequest{}, f.admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if first.Number == next.Number {
		t.Fatalf("expected distinct invoice numbers, both are %q", first.Number)
	}
	if !strings.HasSuffix(next.Number, "-00002") {
		t.Errorf("expected the second number to follow the row ID, got %q", next.Number)
	}
	if strings.Contains(next.Number, "pending") {
		t.Errorf("placeholder number leaked: %q", next.Number)
	}
}

func TestGenerateForTaskRequiresCompleted(t *testing.T) {
	f := newFixture(t)

	f.db.Model(f.task).Update("status", task.StatusInProgress)

	_, err := f.invoices.GenerateForTask(context.Background(), f.task.ID, &invoice.GenerateRequest{}, f.admin)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict for an unfinished task, got %v", err)
	}
}

func TestSendNotifiesClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.GenerateForTask(ctx, f.task.ID, &invoice.GenerateRequest{}, f.admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := f.invoices.Send(ctx, inv.ID, f.admin); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	sent, _ := f.invoices.Get(inv.ID, f.admin)
	if sent.Status != invoice.StatusSent {
		t.Errorf("expected sent status, got %s", sent.Status)
	}

	if len(f.notifier.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.events))
	}
	event := f.notifier.events[0]
	if event.Type != notification.EventInvoice {
		t.Errorf("unexpected event type %s", event.Type)
	}
	if event.Recipient.Email != f.client.Email {
		t.Errorf("expected client email recipient, got %q", event.Recipient.Email)
	}
	if event.Data["total"] != "154.70" {
		t.Errorf("expected formatted total 154.70, got %v", event.Data["total"])
	}
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.GenerateForTask(ctx, f.task.ID, &invoice.GenerateRequest{}, f.admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	paid, err := f.invoices.MarkPaid(inv.ID, f.admin)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != invoice.StatusPaid || paid.PaidAt == nil {
		t.Errorf("expected settled invoice, got status %s", paid.Status)
	}

	if _, err := f.invoices.MarkPaid(inv.ID, f.admin); apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("expected conflict for double settlement, got %v", err)
	}
	if err := f.invoices.Send(ctx, inv.ID, f.admin); apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("expected conflict sending a paid invoice, got %v", err)
	}
}

func TestClientScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.GenerateForTask(ctx, f.task.ID, &invoice.GenerateRequest{}, f.admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	owner := &user.User{Email: "owner@example.com", Password: "x", FirstName: "Olaf", Role: user.RoleClient, IsActive: true}
	f.db.Create(owner)
	f.db.Model(f.client).Update("user_id", owner.ID)

	stranger := &user.User{Email: "other@example.com", Password: "x", FirstName: "Sam", Role: user.RoleClient, IsActive: true}
	f.db.Create(stranger)

	if _, err := f.invoices.Get(inv.ID, owner.AsActor()); err != nil {
		t.Errorf("expected owner access, got %v", err)
	}
	if _, err := f.invoices.Get(inv.ID, stranger.AsActor()); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("expected forbidden for a stranger, got %v", err)
	}

	own, err := f.invoices.List(owner.AsActor(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("expected 1 invoice for the owner, got %d", len(own))
	}

	empty, err := f.invoices.List(stranger.AsActor(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no invoices for a stranger, got %d", len(empty))
	}

	worker := user.Actor{ID: 50, Role: user.RoleWorker}
	if _, err := f.invoices.List(worker, ""); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("expected forbidden for workers, got %v", err)
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1234, "-12.34"},
		{100000, "1000.00"},
	}
	for _, tc := range cases {
		if got := invoice.FormatCents(tc.cents); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
