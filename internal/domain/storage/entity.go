// internal/domain/storage/entity.go
package storage

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile records one stored document or image
type UploadedFile struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	StorageID   string         `json:"storage_id" gorm:"uniqueIndex;not null"`
	FileName    string         `json:"file_name" gorm:"not null"`
	ContentType string         `json:"content_type"`
	Size        int64          `json:"size"`
	URL         string         `json:"url" gorm:"not null"`
	UploadedBy  uint           `json:"uploaded_by" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for UploadedFile
func (UploadedFile) TableName() string {
	return "uploaded_files"
}
