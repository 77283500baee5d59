// internal/domain/storage/service.go
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
)

// Service stores uploaded files on the configured backend and keeps a
// database record per file. Only the local provider is implemented;
// the provider switch mirrors how email providers are selected.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new storage service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SaveUpload validates and stores a multipart upload
func (s *Service) SaveUpload(file *multipart.FileHeader, uploadedBy uint) (*UploadedFile, error) {
	if file.Size > s.config.Upload.MaxSize {
		return nil, apperrors.Validation("file is too large", map[string]string{
			"file": fmt.Sprintf("must not exceed %d bytes", s.config.Upload.MaxSize),
		})
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !s.extensionAllowed(ext) {
		return nil, apperrors.Validation("file type is not allowed", map[string]string{
			"file": fmt.Sprintf("allowed extensions: %s", strings.Join(s.config.Upload.AllowedExtensions, ", ")),
		})
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.Internal("failed to open upload", err)
	}
	defer src.Close()

	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.Internal("failed to read upload", err)
	}

	return s.SaveBytes(buf, file.Filename, file.Header.Get("Content-Type"), uploadedBy)
}

// SaveBytes stores raw content, used for generated documents
func (s *Service) SaveBytes(content []byte, fileName, contentType string, uploadedBy uint) (*UploadedFile, error) {
	if s.config.External.Storage.Provider != "local" {
		return nil, apperrors.Dependency(fmt.Sprintf("unsupported storage provider: %s", s.config.External.Storage.Provider), nil)
	}

	storageID := uuid.New().String()
	ext := filepath.Ext(fileName)
	storedName := storageID + ext

	if err := os.MkdirAll(s.config.External.Storage.LocalPath, 0o755); err != nil {
		return nil, apperrors.Internal("failed to prepare storage directory", err)
	}

	path := filepath.Join(s.config.External.Storage.LocalPath, storedName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, apperrors.Internal("failed to write file", err)
	}

	record := &UploadedFile{
		StorageID:   storageID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(content)),
		URL:         s.config.External.Storage.PublicBase + "/" + storedName,
		UploadedBy:  uploadedBy,
	}
	if err := s.db.Create(record).Error; err != nil {
		// Keep disk and database consistent
		os.Remove(path)
		return nil, apperrors.Internal("failed to record uploaded file", err)
	}

	return record, nil
}

// Get retrieves a file record by storage ID
func (s *Service) Get(storageID string) (*UploadedFile, error) {
	var f UploadedFile
	if err := s.db.Where("storage_id = ?", storageID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("file not found")
		}
		return nil, apperrors.Internal("failed to retrieve file", err)
	}
	return &f, nil
}

// Delete removes a file from disk and soft-deletes its record
func (s *Service) Delete(storageID string) error {
	f, err := s.Get(storageID)
	if err != nil {
		return err
	}

	storedName := f.StorageID + filepath.Ext(f.FileName)
	path := filepath.Join(s.config.External.Storage.LocalPath, storedName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.Internal("failed to remove file", err)
	}

	if err := s.db.Delete(f).Error; err != nil {
		return apperrors.Internal("failed to delete file record", err)
	}
	return nil
}

func (s *Service) extensionAllowed(ext string) bool {
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}
