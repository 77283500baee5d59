// internal/domain/invoice/entity.go
package invoice

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the invoice lifecycle state
type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
	StatusPaid  Status = "paid"
)

// Invoice represents a bill issued for one completed task. All amounts
// are stored in cents.
type Invoice struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Number            string         `json:"number" gorm:"uniqueIndex;not null"`
	TaskID            uint           `json:"task_id" gorm:"uniqueIndex;not null"`
	ClientID          uint           `json:"client_id" gorm:"index;not null"`
	Status            Status         `json:"status" gorm:"default:'draft';index"`
	IssuedAt          time.Time      `json:"issued_at"`
	DueAt             time.Time      `json:"due_at"`
	Subtotal          int64          `json:"subtotal"`
	TaxRatePercent    float64        `json:"tax_rate_percent"`
	TaxAmount         int64          `json:"tax_amount"`
	Total             int64          `json:"total"`
	DocumentURL       string         `json:"document_url"`
	DocumentStorageID string         `json:"-"`
	Notes             string         `json:"notes" gorm:"type:text"`
	PaidAt            *time.Time     `json:"paid_at,omitempty"`
	CreatedBy         uint           `json:"created_by"`
	Items             []Item         `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// Item is one billed line on an invoice
type Item struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	InvoiceID   uint      `json:"invoice_id" gorm:"index;not null"`
	Description string    `json:"description" gorm:"not null"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitPrice   int64     `json:"unit_price"`
	Total       int64     `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// TableName returns the table name for Item
func (Item) TableName() string {
	return "invoice_items"
}

// IsPaid checks whether the invoice has been settled
func (i *Invoice) IsPaid() bool {
	return i.Status == StatusPaid
}
