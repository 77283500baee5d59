// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
)

// Service handles stock ledger business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	notifier notification.Notifier
	log      *logrus.Logger
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config, notifier notification.Notifier, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		notifier: notifier,
		log:      log,
	}
}

// CreateItemRequest represents item creation data
type CreateItemRequest struct {
	SKU                  string `json:"sku" binding:"required"`
	Name                 string `json:"name" binding:"required"`
	Unit                 string `json:"unit" binding:"required"`
	Category             string `json:"category"`
	InitialQuantity      int    `json:"initial_quantity"`
	MinimumQuantity      int    `json:"minimum_quantity"`
	MaximumQuantity      int    `json:"maximum_quantity"`
	UnitCost             int64  `json:"unit_cost"`
	LowStockAlertEnabled *bool  `json:"low_stock_alert_enabled"`
}

// UpdateItemRequest represents item mutation data. Quantities are not
// updatable here; stock moves only through ledger operations.
type UpdateItemRequest struct {
	Name                 *string `json:"name"`
	Unit                 *string `json:"unit"`
	Category             *string `json:"category"`
	MinimumQuantity      *int    `json:"minimum_quantity"`
	MaximumQuantity      *int    `json:"maximum_quantity"`
	UnitCost             *int64  `json:"unit_cost"`
	LowStockAlertEnabled *bool   `json:"low_stock_alert_enabled"`
}

// StockOperationRequest represents a withdraw/restock/return request body
type StockOperationRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	TaskID   *uint  `json:"task_id,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// AdjustmentRequest represents an admin stock correction
type AdjustmentRequest struct {
	Delta int    `json:"delta" binding:"required"`
	Notes string `json:"notes,omitempty"`
}

// ITEM MANAGEMENT

// CreateItem creates a new inventory item
func (s *Service) CreateItem(req *CreateItemRequest) (*Item, error) {
	if req.InitialQuantity < 0 || req.MinimumQuantity < 0 || req.MaximumQuantity < 0 {
		return nil, apperrors.Validation("quantities must not be negative", map[string]string{
			"initial_quantity": "must be >= 0",
		})
	}

	var existing Item
	if err := s.db.Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict(fmt.Sprintf("item with SKU '%s' already exists", req.SKU))
	}

	item := &Item{
		SKU:                  req.SKU,
		Name:                 req.Name,
		Unit:                 req.Unit,
		Category:             req.Category,
		CurrentQuantity:      req.InitialQuantity,
		MinimumQuantity:      req.MinimumQuantity,
		MaximumQuantity:      req.MaximumQuantity,
		UnitCost:             req.UnitCost,
		LowStockAlertEnabled: true,
	}
	if req.LowStockAlertEnabled != nil {
		item.LowStockAlertEnabled = *req.LowStockAlertEnabled
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Internal("failed to create inventory item", err)
	}

	return item, nil
}

// GetItem retrieves an item by ID
func (s *Service) GetItem(id uint) (*Item, error) {
	var item Item
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("inventory item not found")
		}
		return nil, apperrors.Internal("failed to retrieve inventory item", err)
	}
	return &item, nil
}

// ListItems retrieves items, optionally filtered by category
func (s *Service) ListItems(category string) ([]Item, error) {
	query := s.db.Order("name asc")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []Item
	if err := query.Find(&items).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve inventory items", err)
	}
	return items, nil
}

// UpdateItem patches item metadata
func (s *Service) UpdateItem(id uint, req *UpdateItemRequest) (*Item, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.MinimumQuantity != nil {
		if *req.MinimumQuantity < 0 {
			return nil, apperrors.Validation("minimum quantity must not be negative", map[string]string{
				"minimum_quantity": "must be >= 0",
			})
		}
		updates["minimum_quantity"] = *req.MinimumQuantity
	}
	if req.MaximumQuantity != nil {
		if *req.MaximumQuantity < 0 {
			return nil, apperrors.Validation("maximum quantity must not be negative", map[string]string{
				"maximum_quantity": "must be >= 0",
			})
		}
		updates["maximum_quantity"] = *req.MaximumQuantity
	}
	if req.UnitCost != nil {
		updates["unit_cost"] = *req.UnitCost
	}
	if req.LowStockAlertEnabled != nil {
		updates["low_stock_alert_enabled"] = *req.LowStockAlertEnabled
	}

	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update inventory item", err)
	}

	return s.GetItem(id)
}

// LEDGER OPERATIONS

// Withdraw removes stock for a worker, optionally against a task. The
// decrement is a single conditional UPDATE so current_quantity can never
// go negative under concurrent withdrawals, and the ledger append happens
// in the same database transaction as the balance change.
func (s *Service) Withdraw(ctx context.Context, itemID uint, quantity int, workerID uint, taskID *uint, notes string) (*Item, error) {
	var item *Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, txErr = s.WithdrawTx(tx, itemID, quantity, workerID, taskID, notes)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.maybeSendLowStockAlert(ctx, item)
	return item, nil
}

// WithdrawTx performs a withdrawal inside a caller-owned transaction.
// Task assignment uses this to bind the worker assignment and every
// material deduction into one atomic unit. The low-stock alert is the
// caller's responsibility after commit (see CheckLowStock).
func (s *Service) WithdrawTx(tx *gorm.DB, itemID uint, quantity int, workerID uint, taskID *uint, notes string) (*Item, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("withdrawal quantity must be positive", map[string]string{
			"quantity": "must be > 0",
		})
	}

	result := tx.Model(&Item{}).
		Where("id = ? AND current_quantity >= ?", itemID, quantity).
		UpdateColumn("current_quantity", gorm.Expr("current_quantity - ?", quantity))
	if result.Error != nil {
		return nil, apperrors.Internal("failed to update stock level", result.Error)
	}

	if result.RowsAffected == 0 {
		// Guard failed: either the item is missing or stock is short
		var item Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("inventory item not found")
			}
			return nil, apperrors.Internal("failed to retrieve inventory item", err)
		}
		return nil, apperrors.InsufficientStock(fmt.Sprintf(
			"insufficient stock for '%s': available %d, requested %d",
			item.Name, item.CurrentQuantity, quantity))
	}

	var item Item
	if err := tx.First(&item, itemID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload inventory item", err)
	}

	txn := &Transaction{
		ItemID:           item.ID,
		TaskID:           taskID,
		WorkerID:         workerID,
		Type:             TransactionTypeWithdrawal,
		Quantity:         quantity,
		Unit:             item.Unit,
		PreviousQuantity: item.CurrentQuantity + quantity,
		NewQuantity:      item.CurrentQuantity,
		Notes:            notes,
		ConfirmedBy:      workerID,
	}
	if err := tx.Create(txn).Error; err != nil {
		return nil, apperrors.Internal("failed to record inventory transaction", err)
	}

	return &item, nil
}

// Restock adds stock and stamps the restock time
func (s *Service) Restock(ctx context.Context, itemID uint, quantity int, workerID uint, notes string) (*Item, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("restock quantity must be positive", map[string]string{
			"quantity": "must be > 0",
		})
	}

	var item *Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, txErr = s.applyIncrease(tx, itemID, quantity, workerID, nil, TransactionTypeRestock, notes)
		if txErr != nil {
			return txErr
		}
		now := time.Now().UTC()
		if err := tx.Model(&Item{}).Where("id = ?", itemID).
			UpdateColumn("last_restocked_at", now).Error; err != nil {
			return apperrors.Internal("failed to stamp restock time", err)
		}
		item.LastRestockedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Return puts task materials back into stock
func (s *Service) Return(ctx context.Context, itemID uint, quantity int, workerID uint, taskID *uint, notes string) (*Item, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("return quantity must be positive", map[string]string{
			"quantity": "must be > 0",
		})
	}

	var item *Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, txErr = s.applyIncrease(tx, itemID, quantity, workerID, taskID, TransactionTypeReturn, notes)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Adjust corrects the balance by a signed delta. Negative deltas carry
// the same non-negative floor guard as withdrawals.
func (s *Service) Adjust(ctx context.Context, itemID uint, delta int, adminID uint, notes string) (*Item, error) {
	if delta == 0 {
		return nil, apperrors.Validation("adjustment delta must not be zero", map[string]string{
			"delta": "must be non-zero",
		})
	}

	var item *Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&Item{}).Where("id = ?", itemID)
		if delta < 0 {
			query = tx.Model(&Item{}).Where("id = ? AND current_quantity >= ?", itemID, -delta)
		}

		result := query.UpdateColumn("current_quantity", gorm.Expr("current_quantity + ?", delta))
		if result.Error != nil {
			return apperrors.Internal("failed to adjust stock level", result.Error)
		}
		if result.RowsAffected == 0 {
			var existing Item
			if err := tx.First(&existing, itemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("inventory item not found")
				}
				return apperrors.Internal("failed to retrieve inventory item", err)
			}
			return apperrors.InsufficientStock(fmt.Sprintf(
				"adjustment would take '%s' below zero: available %d, delta %d",
				existing.Name, existing.CurrentQuantity, delta))
		}

		var loaded Item
		if err := tx.First(&loaded, itemID).Error; err != nil {
			return apperrors.Internal("failed to reload inventory item", err)
		}

		quantity := delta
		if quantity < 0 {
			quantity = -quantity
		}
		txn := &Transaction{
			ItemID:           loaded.ID,
			WorkerID:         adminID,
			Type:             TransactionTypeAdjustment,
			Quantity:         quantity,
			Unit:             loaded.Unit,
			PreviousQuantity: loaded.CurrentQuantity - delta,
			NewQuantity:      loaded.CurrentQuantity,
			Notes:            notes,
			ConfirmedBy:      adminID,
		}
		if err := tx.Create(txn).Error; err != nil {
			return apperrors.Internal("failed to record inventory transaction", err)
		}

		item = &loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.maybeSendLowStockAlert(ctx, item)
	return item, nil
}

// TransactionHistory returns the ledger for an item, most recent first
func (s *Service) TransactionHistory(itemID uint) ([]Transaction, error) {
	if _, err := s.GetItem(itemID); err != nil {
		return nil, err
	}

	var txns []Transaction
	if err := s.db.Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve transaction history", err)
	}
	return txns, nil
}

// applyIncrease is the shared increment path for restock and return.
// No upper bound is enforced; overstocked is a reported status only.
func (s *Service) applyIncrease(tx *gorm.DB, itemID uint, quantity int, workerID uint, taskID *uint, txnType TransactionType, notes string) (*Item, error) {
	result := tx.Model(&Item{}).Where("id = ?", itemID).
		UpdateColumn("current_quantity", gorm.Expr("current_quantity + ?", quantity))
	if result.Error != nil {
		return nil, apperrors.Internal("failed to update stock level", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("inventory item not found")
	}

	var item Item
	if err := tx.First(&item, itemID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload inventory item", err)
	}

	txn := &Transaction{
		ItemID:           item.ID,
		TaskID:           taskID,
		WorkerID:         workerID,
		Type:             txnType,
		Quantity:         quantity,
		Unit:             item.Unit,
		PreviousQuantity: item.CurrentQuantity - quantity,
		NewQuantity:      item.CurrentQuantity,
		Notes:            notes,
		ConfirmedBy:      workerID,
	}
	if err := tx.Create(txn).Error; err != nil {
		return nil, apperrors.Internal("failed to record inventory transaction", err)
	}

	return &item, nil
}

// LOW-STOCK ALERTING

// CheckLowStock runs the throttled alert check for an item. Task
// assignment calls this after its transaction commits.
func (s *Service) CheckLowStock(ctx context.Context, itemID uint) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return
	}
	s.maybeSendLowStockAlert(ctx, item)
}

// maybeSendLowStockAlert notifies one administrator when stock has
// crossed into the low-stock band, at most once per cooldown window.
// The window claim is a conditional update so concurrent withdrawals
// cannot double-fire. Delivery failure never affects the ledger.
func (s *Service) maybeSendLowStockAlert(ctx context.Context, item *Item) {
	if item == nil || !item.LowStockAlertEnabled || !item.IsLowStock() {
		return
	}

	now := time.Now().UTC()
	cutoff := now.Add(-s.config.Inventory.AlertCooldown)

	result := s.db.Model(&Item{}).
		Where("id = ? AND low_stock_alert_enabled = ? AND (last_alert_sent_at IS NULL OR last_alert_sent_at <= ?)",
			item.ID, true, cutoff).
		UpdateColumn("last_alert_sent_at", now)
	if result.Error != nil {
		s.log.WithError(result.Error).WithField("item_id", item.ID).
			Warn("failed to claim low stock alert window")
		return
	}
	if result.RowsAffected == 0 {
		// Another withdrawal already alerted within the window
		return
	}

	if s.notifier == nil {
		return
	}

	var admin user.User
	if err := s.db.Where("role = ? AND is_active = ?", user.RoleAdmin, true).
		Order("id asc").First(&admin).Error; err != nil {
		s.log.WithError(err).Warn("no active administrator to receive low stock alert")
		return
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type: notification.EventLowStock,
		Recipient: notification.Recipient{
			UserID: admin.ID,
			Name:   admin.GetDisplayName(),
			Email:  admin.Email,
			Phone:  admin.Phone,
		},
		Data: map[string]interface{}{
			"item_name": item.Name,
			"sku":       item.SKU,
			"current":   item.CurrentQuantity,
			"minimum":   item.MinimumQuantity,
			"unit":      item.Unit,
		},
	})
}
