// internal/domain/task/entity.go
package task

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Status represents the task execution lifecycle. The primary status
// only ever moves pending -> assigned -> in_progress -> completed;
// administrative review lives in the embedded AdminReview sub-record
// and never drives the primary status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Priority represents task priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ReviewStatus represents the administrative review outcome
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ImageType separates the before and after photo collections
type ImageType string

const (
	ImageTypeBefore ImageType = "before"
	ImageTypeAfter  ImageType = "after"
)

// GeoPoint is a GPS fix recorded at a lifecycle transition
type GeoPoint struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// AdminReview is the embedded review sub-record
type AdminReview struct {
	Status     ReviewStatus `gorm:"size:20;default:'pending'" json:"status"`
	ReviewedBy *uint        `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
	Notes      string       `gorm:"type:text" json:"notes"`
}

// Task represents a unit of field work
type Task struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"not null;size:255" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Category    string   `gorm:"size:100;index" json:"category"`
	Priority    Priority `gorm:"size:20;default:'medium'" json:"priority"`
	Status      Status   `gorm:"not null;size:20;default:'pending';index" json:"status"`

	// Relationships (IDs)
	ClientID  uint  `gorm:"not null;index" json:"client_id"`
	SiteID    uint  `gorm:"not null;index" json:"site_id"`
	SectionID *uint `gorm:"index" json:"section_id,omitempty"`
	WorkerID  *uint `gorm:"index" json:"worker_id,omitempty"`
	BranchID  uint  `gorm:"index" json:"branch_id"`

	// Reservation-by-deduction guard: materials are withdrawn from stock
	// exactly once per task, at assignment time
	MaterialsReserved bool `gorm:"default:false" json:"materials_reserved"`

	// Cost in cents; total is recomputed on every save
	LaborCost     int64 `gorm:"default:0" json:"labor_cost"`
	MaterialsCost int64 `gorm:"default:0" json:"materials_cost"`
	TotalCost     int64 `gorm:"default:0" json:"total_cost"`

	// Scheduling
	ScheduledDate time.Time  `gorm:"not null;index" json:"scheduled_date"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	// In hours, two decimals; derived whenever both timestamps are set
	ActualDuration float64 `gorm:"default:0" json:"actual_duration"`

	StartLocation GeoPoint `gorm:"embedded;embeddedPrefix:start_" json:"start_location"`
	EndLocation   GeoPoint `gorm:"embedded;embeddedPrefix:end_" json:"end_location"`

	AdminReview AdminReview `gorm:"embedded;embeddedPrefix:review_" json:"admin_review"`

	CreatedBy uint           `gorm:"index" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Materials []Material `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"materials,omitempty"`
	Images    []Image    `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// Material is one line of the task's material reservation
type Material struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TaskID          uint      `gorm:"not null;index" json:"task_id"`
	InventoryItemID *uint     `gorm:"index" json:"inventory_item_id,omitempty"`
	Name            string    `gorm:"not null;size:255" json:"name"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	Unit            string    `gorm:"size:20" json:"unit"`
	UnitCost        int64     `gorm:"default:0" json:"unit_cost"` // In cents
	Confirmed       bool      `gorm:"default:false" json:"confirmed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Image is one entry of the before/after photo collections
type Image struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TaskID          uint      `gorm:"not null;index" json:"task_id"`
	Type            ImageType `gorm:"not null;size:10" json:"type"`
	URL             string    `gorm:"not null;size:500" json:"url"`
	StorageID       string    `gorm:"size:100" json:"storage_id"`
	UploadedBy      uint      `gorm:"not null" json:"uploaded_by"`
	VisibleToClient bool      `gorm:"default:false" json:"visible_to_client"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName overrides
func (Task) TableName() string     { return "tasks" }
func (Material) TableName() string { return "task_materials" }
func (Image) TableName() string    { return "task_images" }

// IsAssignedTo reports whether the given user is the assigned worker
func (t *Task) IsAssignedTo(userID uint) bool {
	return t.WorkerID != nil && *t.WorkerID == userID
}

// CanStart reports whether the task may move to in_progress
func (t *Task) CanStart() bool {
	return t.Status == StatusPending || t.Status == StatusAssigned
}

// CanComplete reports whether the task may move to completed
func (t *Task) CanComplete() bool {
	return t.Status == StatusAssigned || t.Status == StatusInProgress
}

// RecomputeCost refreshes materials and total cost from the material lines
func (t *Task) RecomputeCost() {
	var materials int64
	for _, m := range t.Materials {
		materials += m.UnitCost * int64(m.Quantity)
	}
	t.MaterialsCost = materials
	t.TotalCost = t.LaborCost + t.MaterialsCost
}

// RecomputeDuration derives actual duration in hours, rounded to two
// decimals, whenever both timestamps are present. It is zero otherwise.
func (t *Task) RecomputeDuration() {
	if t.StartedAt == nil || t.CompletedAt == nil {
		t.ActualDuration = 0
		return
	}
	hours := t.CompletedAt.Sub(*t.StartedAt).Hours()
	t.ActualDuration = math.Round(hours*100) / 100
}
