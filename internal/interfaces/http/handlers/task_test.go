// internal/interfaces/http/handlers/task_test.go
package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/inventory"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/storage"
	"github.com/your-org/gardenops-backend/internal/domain/task"
	"github.com/your-org/gardenops-backend/internal/interfaces/http/handlers"
	"github.com/your-org/gardenops-backend/internal/testutil"
)

type noopNotifier struct{}

func (noopNotifier) Dispatch(_ context.Context, _ notification.Event) []notification.ChannelResult {
	return nil
}

// newUploadRouter wires the task image endpoint behind a stub auth layer
// that injects an admin actor, mirroring what the JWT middleware sets.
func newUploadRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.NewTestConfig()
	cfg.External.Storage.LocalPath = t.TempDir()
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger()

	inventorySvc := inventory.NewService(db, cfg, noopNotifier{}, log)
	taskSvc := task.NewService(db, cfg, inventorySvc, noopNotifier{}, log)
	storageSvc := storage.NewService(db, cfg)
	h := handlers.NewTaskHandler(taskSvc, storageSvc)

	router := gin.New()
	router.POST("/tasks/:id/images", func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("user_role", "admin")
	}, h.UploadImages)

	return router, cfg.External.Storage.LocalPath
}

func multipartUpload(t *testing.T, imageType, fileName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("type", imageType); err != nil {
		t.Fatalf("failed to write form field: %v", err)
	}
	part, err := writer.CreateFormFile("images", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("failed to write file content: %v", err)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func storedFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("failed to read storage directory: %v", err)
	}
	return len(entries)
}

func TestUploadImagesRejectsBadTypeBeforeStoring(t *testing.T) {
	router, dir := newUploadRouter(t)

	body, contentType := multipartUpload(t, "during", "photo.jpg")
	req := httptest.NewRequest(http.MethodPost, "/tasks/1/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := storedFileCount(t, dir); n != 0 {
		t.Errorf("expected no stored files for a rejected type, found %d", n)
	}
}

func TestUploadImagesCleansUpWhenTaskRejects(t *testing.T) {
	router, dir := newUploadRouter(t)

	// The task does not exist, so the upload fails after the file was
	// already written to storage.
	body, contentType := multipartUpload(t, string(task.ImageTypeBefore), "before.jpg")
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/tasks/%d/images", 999), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := storedFileCount(t, dir); n != 0 {
		t.Errorf("expected stored files to be cleaned up, found %d", n)
	}
}
