// internal/domain/inventory/service_test.go
package inventory_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/domain/inventory"
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

func newInventoryService(t *testing.T) (*inventory.Service, *gorm.DB, *fakeNotifier) {
	t.Helper()
	db := testutil.NewTestDB(t)
	notifier := &fakeNotifier{}
	svc := inventory.NewService(db, testutil.NewTestConfig(), notifier, testutil.NewTestLogger())

	// An active admin receives low stock alerts
	admin := &user.User{
		Email:     "admin@example.com",
		Password:  "x",
		FirstName: "Admin",
		Role:      user.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	return svc, db, notifier
}

func createItem(t *testing.T, svc *inventory.Service, initial, minimum int) *inventory.Item {
	t.Helper()
	item, err := svc.CreateItem(&inventory.CreateItemRequest{
		SKU:             "FERT-001",
		Name:            "Lawn Fertilizer",
		Unit:            "kg",
		Category:        "fertilizer",
		InitialQuantity: initial,
		MinimumQuantity: minimum,
		UnitCost:        1250,
	})
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return item
}

func TestWithdrawRecordsLedgerEntry(t *testing.T) {
	svc, db, _ := newInventoryService(t)
	item := createItem(t, svc, 30, 10)

	updated, err := svc.Withdraw(context.Background(), item.ID, 25, 2, nil, "hedge job")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if updated.CurrentQuantity != 5 {
		t.Errorf("expected quantity 5, got %d", updated.CurrentQuantity)
	}
	if updated.Status() != inventory.StockStatusLowStock {
		t.Errorf("expected low_stock status, got %s", updated.Status())
	}

	var txns []inventory.Transaction
	if err := db.Where("item_id = ?", item.ID).Find(&txns).Error; err != nil {
		t.Fatalf("failed to load transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	txn := txns[0]
	if txn.Type != inventory.TransactionTypeWithdrawal {
		t.Errorf("expected withdrawal type, got %s", txn.Type)
	}
	if txn.PreviousQuantity != 30 || txn.NewQuantity != 5 {
		t.Errorf("expected snapshots 30 -> 5, got %d -> %d", txn.PreviousQuantity, txn.NewQuantity)
	}
	if txn.WorkerID != 2 {
		t.Errorf("expected worker 2, got %d", txn.WorkerID)
	}
}

func TestWithdrawInsufficientStockLeavesStateUntouched(t *testing.T) {
	svc, db, _ := newInventoryService(t)
	item := createItem(t, svc, 5, 10)

	_, err := svc.Withdraw(context.Background(), item.ID, 10, 2, nil, "")
	if apperrors.KindOf(err) != apperrors.KindInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	reloaded, err := svc.GetItem(item.ID)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if reloaded.CurrentQuantity != 5 {
		t.Errorf("expected quantity unchanged at 5, got %d", reloaded.CurrentQuantity)
	}

	var count int64
	db.Model(&inventory.Transaction{}).Where("item_id = ?", item.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no ledger entries after failed withdrawal, got %d", count)
	}
}

func TestWithdrawRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := newInventoryService(t)
	item := createItem(t, svc, 30, 10)

	for _, qty := range []int{0, -5} {
		_, err := svc.Withdraw(context.Background(), item.ID, qty, 2, nil, "")
		if apperrors.KindOf(err) != apperrors.KindValidation {
			t.Errorf("quantity %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestWithdrawMissingItem(t *testing.T) {
	svc, _, _ := newInventoryService(t)

	_, err := svc.Withdraw(context.Background(), 999, 1, 2, nil, "")
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLowStockAlertFiresOncePerWindow(t *testing.T) {
	svc, _, notifier := newInventoryService(t)
	item := createItem(t, svc, 30, 10)

	// Crosses into low stock: 30 -> 5
	if _, err := svc.Withdraw(context.Background(), item.ID, 25, 2, nil, ""); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 alert after crossing threshold, got %d", len(notifier.events))
	}
	if notifier.events[0].Type != notification.EventLowStock {
		t.Errorf("expected low stock event, got %s", notifier.events[0].Type)
	}

	// Still low: 5 -> 3, but inside the cooldown window
	if _, err := svc.Withdraw(context.Background(), item.ID, 2, 2, nil, ""); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Errorf("expected alert throttled within window, got %d events", len(notifier.events))
	}
}

func TestLowStockAlertRespectsDisableFlag(t *testing.T) {
	svc, db, notifier := newInventoryService(t)
	disabled := false
	item, err := svc.CreateItem(&inventory.CreateItemRequest{
		SKU:                  "SOIL-001",
		Name:                 "Potting Soil",
		Unit:                 "bags",
		InitialQuantity:      12,
		MinimumQuantity:      10,
		LowStockAlertEnabled: &disabled,
	})
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	// The stored row must carry the disabled flag, not a column default
	var stored inventory.Item
	if err := db.First(&stored, item.ID).Error; err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if stored.LowStockAlertEnabled {
		t.Fatal("expected low_stock_alert_enabled=false to be persisted")
	}

	if _, err := svc.Withdraw(context.Background(), item.ID, 5, 2, nil, ""); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if len(notifier.events) != 0 {
		t.Errorf("expected no alert for disabled item, got %d", len(notifier.events))
	}
}

func TestRestockAndReturnIncreaseStock(t *testing.T) {
	svc, db, _ := newInventoryService(t)
	item := createItem(t, svc, 10, 5)

	restocked, err := svc.Restock(context.Background(), item.ID, 40, 1, "spring delivery")
	if err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	if restocked.CurrentQuantity != 50 {
		t.Errorf("expected quantity 50, got %d", restocked.CurrentQuantity)
	}
	if restocked.LastRestockedAt == nil {
		t.Error("expected restock timestamp to be set")
	}

	taskID := uint(7)
	returned, err := svc.Return(context.Background(), item.ID, 3, 2, &taskID, "unused")
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if returned.CurrentQuantity != 53 {
		t.Errorf("expected quantity 53, got %d", returned.CurrentQuantity)
	}

	var txns []inventory.Transaction
	db.Where("item_id = ?", item.ID).Order("id asc").Find(&txns)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if txns[0].Type != inventory.TransactionTypeRestock || txns[1].Type != inventory.TransactionTypeReturn {
		t.Errorf("unexpected transaction types: %s, %s", txns[0].Type, txns[1].Type)
	}
	if txns[1].TaskID == nil || *txns[1].TaskID != taskID {
		t.Error("expected return transaction to reference the task")
	}
}

func TestAdjustEnforcesFloor(t *testing.T) {
	svc, _, _ := newInventoryService(t)
	item := createItem(t, svc, 10, 5)

	_, err := svc.Adjust(context.Background(), item.ID, -15, 1, "audit")
	if apperrors.KindOf(err) != apperrors.KindInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	adjusted, err := svc.Adjust(context.Background(), item.ID, -4, 1, "audit")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if adjusted.CurrentQuantity != 6 {
		t.Errorf("expected quantity 6, got %d", adjusted.CurrentQuantity)
	}

	if _, err := svc.Adjust(context.Background(), item.ID, 0, 1, ""); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected validation error for zero delta, got %v", err)
	}
}

func TestTransactionHistoryNewestFirst(t *testing.T) {
	svc, _, _ := newInventoryService(t)
	item := createItem(t, svc, 100, 5)

	ctx := context.Background()
	if _, err := svc.Withdraw(ctx, item.ID, 10, 2, nil, "first"); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if _, err := svc.Withdraw(ctx, item.ID, 20, 2, nil, "second"); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	txns, err := svc.TransactionHistory(item.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if txns[0].Notes != "second" || txns[1].Notes != "first" {
		t.Errorf("expected newest first ordering, got %q then %q", txns[0].Notes, txns[1].Notes)
	}
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	svc, _, _ := newInventoryService(t)
	createItem(t, svc, 10, 5)

	_, err := svc.CreateItem(&inventory.CreateItemRequest{
		SKU:  "FERT-001",
		Name: "Another Fertilizer",
		Unit: "kg",
	})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestStockStatus(t *testing.T) {
	item := inventory.Item{CurrentQuantity: 0, MinimumQuantity: 10, MaximumQuantity: 100}
	if item.Status() != inventory.StockStatusOutOfStock {
		t.Errorf("expected out_of_stock, got %s", item.Status())
	}

	item.CurrentQuantity = 10
	if item.Status() != inventory.StockStatusLowStock {
		t.Errorf("expected low_stock at threshold, got %s", item.Status())
	}

	item.CurrentQuantity = 50
	if item.Status() != inventory.StockStatusInStock {
		t.Errorf("expected in_stock, got %s", item.Status())
	}

	item.CurrentQuantity = 150
	if item.Status() != inventory.StockStatusOverstocked {
		t.Errorf("expected overstocked, got %s", item.Status())
	}
}
