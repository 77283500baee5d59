// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents the kind of actor a user is
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
	RoleClient Role = "client"
)

// IsValid reports whether the role is one of the known kinds
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleWorker, RoleClient:
		return true
	}
	return false
}

// Actor is the authenticated identity handed to domain operations.
// Operations check the role exhaustively instead of probing a loose map.
type Actor struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}

// IsAdmin reports whether the actor is an administrator
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsWorker reports whether the actor is a field worker
func (a Actor) IsWorker() bool {
	return a.Role == RoleWorker
}

// User represents the user entity
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Phone       string     `gorm:"size:20" json:"phone"` // E.164, also the WhatsApp number
	Role        Role       `gorm:"not null;size:20;default:'worker';index" json:"role"`
	BranchID    *uint      `gorm:"index" json:"branch_id"` // Set for workers
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Worker counters, incremented by task lifecycle transitions
	TotalTasks     int `gorm:"default:0" json:"total_tasks"`
	CompletedTasks int `gorm:"default:0" json:"completed_tasks"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = strings.ToLower(u.Email)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GetDisplayName returns display name (full name or email)
func (u *User) GetDisplayName() string {
	fullName := u.GetFullName()
	if fullName != "" {
		return fullName
	}
	return u.Email
}

// AsActor returns the typed actor identity for this user
func (u *User) AsActor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
