// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"gorm.io/gorm"
)

// StockStatus is derived from (current, minimum, maximum) and never stored
type StockStatus string

const (
	StockStatusOutOfStock  StockStatus = "out_of_stock"
	StockStatusLowStock    StockStatus = "low_stock"
	StockStatusOverstocked StockStatus = "overstocked"
	StockStatusInStock     StockStatus = "in_stock"
)

// TransactionType represents the type of ledger entry
type TransactionType string

const (
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeReturn     TransactionType = "return"
	TransactionTypeRestock    TransactionType = "restock"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// Item represents a stocked inventory item
type Item struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SKU      string `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name     string `gorm:"not null;size:255" json:"name"`
	Unit     string `gorm:"not null;size:20" json:"unit"` // kg, l, pcs, bags
	Category string `gorm:"size:100;index" json:"category"`

	CurrentQuantity int `gorm:"not null;default:0" json:"current_quantity"`
	MinimumQuantity int `gorm:"not null;default:0" json:"minimum_quantity"`
	MaximumQuantity int `gorm:"not null;default:0" json:"maximum_quantity"`

	// Unit cost in cents, used for task material costing
	UnitCost int64 `gorm:"default:0" json:"unit_cost"`

	// No column default: gorm drops zero-valued fields carrying a default
	// tag from the INSERT, which would silently turn false back into true.
	// Every creation path sets this field explicitly.
	LowStockAlertEnabled bool       `gorm:"not null" json:"low_stock_alert_enabled"`
	LastAlertSentAt      *time.Time `json:"last_alert_sent_at,omitempty"`
	LastRestockedAt      *time.Time `json:"last_restocked_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:ItemID" json:"transactions,omitempty"`
}

// Transaction is an append-only ledger entry. There is deliberately no
// update or delete path for this model anywhere in the codebase.
type Transaction struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ItemID           uint            `gorm:"not null;index" json:"item_id"`
	TaskID           *uint           `gorm:"index" json:"task_id,omitempty"`
	WorkerID         uint            `gorm:"not null;index" json:"worker_id"`
	Type             TransactionType `gorm:"not null;size:20" json:"type"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Unit             string          `gorm:"size:20" json:"unit"`
	PreviousQuantity int             `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int             `gorm:"not null" json:"new_quantity"`
	Notes            string          `gorm:"type:text" json:"notes"`
	ConfirmedBy      uint            `json:"confirmed_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TableName overrides
func (Item) TableName() string        { return "inventory_items" }
func (Transaction) TableName() string { return "inventory_transactions" }

// Status derives the stock status. Out-of-stock wins over low-stock,
// overstocked is only reported, never rejected at write time.
func (i *Item) Status() StockStatus {
	switch {
	case i.CurrentQuantity == 0:
		return StockStatusOutOfStock
	case i.CurrentQuantity <= i.MinimumQuantity:
		return StockStatusLowStock
	case i.MaximumQuantity > 0 && i.CurrentQuantity >= i.MaximumQuantity:
		return StockStatusOverstocked
	default:
		return StockStatusInStock
	}
}

// IsLowStock reports whether the item sits in the low-stock band or below
func (i *Item) IsLowStock() bool {
	return i.CurrentQuantity <= i.MinimumQuantity
}
