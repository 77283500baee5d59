// internal/domain/client/entity.go
package client

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer of the business
type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null;size:255" json:"name"`
	Email   string `gorm:"size:255;index" json:"email"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"type:text" json:"address"`
	// Optional link to a login account with the client role
	UserID   *uint `gorm:"index" json:"user_id,omitempty"`
	IsActive bool  `gorm:"default:true" json:"is_active"`

	// Counters, incremented by task lifecycle transitions
	TotalTasks     int   `gorm:"default:0" json:"total_tasks"`
	CompletedTasks int   `gorm:"default:0" json:"completed_tasks"`
	TotalSpent     int64 `gorm:"default:0" json:"total_spent"` // In cents

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sites []Site `gorm:"foreignKey:ClientID" json:"sites,omitempty"`
}

// Site represents a physical location maintained for a client
type Site struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Name     string `gorm:"not null;size:255" json:"name"`
	Address  string `gorm:"type:text" json:"address"`
	AreaSqm  int    `gorm:"default:0" json:"area_sqm"`

	TotalTasks     int        `gorm:"default:0" json:"total_tasks"`
	CompletedTasks int        `gorm:"default:0" json:"completed_tasks"`
	LastVisit      *time.Time `json:"last_visit,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sections []Section `gorm:"foreignKey:SiteID" json:"sections,omitempty"`
}

// Section is a named sub-area of a site, the specific spot a task targets
type Section struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SiteID      uint      `gorm:"not null;index" json:"site_id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Branch represents a company branch that workers and tasks belong to
type Branch struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Address   string         `gorm:"type:text" json:"address"`
	Phone     string         `gorm:"size:20" json:"phone"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Client) TableName() string  { return "clients" }
func (Site) TableName() string    { return "sites" }
func (Section) TableName() string { return "sections" }
func (Branch) TableName() string  { return "branches" }
