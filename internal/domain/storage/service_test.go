// internal/domain/storage/service_test.go
package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/your-org/gardenops-backend/internal/domain/storage"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
	"github.com/your-org/gardenops-backend/internal/testutil"
)

func newStorageService(t *testing.T) (*storage.Service, string) {
	t.Helper()
	cfg := testutil.NewTestConfig()
	cfg.External.Storage.LocalPath = t.TempDir()
	return storage.NewService(testutil.NewTestDB(t), cfg), cfg.External.Storage.LocalPath
}

func TestSaveBytesWritesDiskAndRecord(t *testing.T) {
	svc, dir := newStorageService(t)

	file, err := svc.SaveBytes([]byte("%PDF-1.4 fake"), "INV-20260401-00001.pdf", "application/pdf", 1)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if file.StorageID == "" {
		t.Fatal("expected a storage ID")
	}
	if file.Size != int64(len("%PDF-1.4 fake")) {
		t.Errorf("unexpected size %d", file.Size)
	}
	if !strings.HasPrefix(file.URL, "/uploads/") || !strings.HasSuffix(file.URL, ".pdf") {
		t.Errorf("unexpected public URL %q", file.URL)
	}

	onDisk := filepath.Join(dir, file.StorageID+".pdf")
	content, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(content) != "%PDF-1.4 fake" {
		t.Error("stored content does not match")
	}

	loaded, err := svc.Get(file.StorageID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.FileName != "INV-20260401-00001.pdf" {
		t.Errorf("unexpected file name %q", loaded.FileName)
	}
}

func TestSaveBytesRejectsUnknownProvider(t *testing.T) {
	cfg := testutil.NewTestConfig()
	cfg.External.Storage.Provider = "s3"
	svc := storage.NewService(testutil.NewTestDB(t), cfg)

	_, err := svc.SaveBytes([]byte("x"), "a.pdf", "application/pdf", 1)
	if apperrors.KindOf(err) != apperrors.KindDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestDeleteRemovesDiskAndRecord(t *testing.T) {
	svc, dir := newStorageService(t)

	file, err := svc.SaveBytes([]byte("photo"), "before.jpg", "image/jpeg", 1)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := svc.Delete(file.StorageID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, file.StorageID+".jpg")); !os.IsNotExist(err) {
		t.Error("expected the file to be removed from disk")
	}
	if _, err := svc.Get(file.StorageID); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestGetUnknownFile(t *testing.T) {
	svc, _ := newStorageService(t)
	if _, err := svc.Get("does-not-exist"); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
