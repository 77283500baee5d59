// internal/domain/invoice/service.go
package invoice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/domain/client"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/storage"
	"github.com/your-org/gardenops-backend/internal/domain/task"
	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
	"github.com/your-org/gardenops-backend/internal/pkg/pdf"
)

// Service handles invoice business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	pdf      *pdf.Service
	storage  *storage.Service
	notifier notification.Notifier
	log      *logrus.Logger
}

// NewService creates a new invoice service
func NewService(db *gorm.DB, cfg *config.Config, pdfSvc *pdf.Service, storageSvc *storage.Service, notifier notification.Notifier, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		pdf:      pdfSvc,
		storage:  storageSvc,
		notifier: notifier,
		log:      log,
	}
}

// GenerateRequest represents invoice generation data
type GenerateRequest struct {
	Notes         string `json:"notes"`
	IncludePhotos bool   `json:"include_photos"`
	SendToClient  bool   `json:"send_to_client"`
}

// GenerateForTask builds an invoice from a completed task's labor and
// material lines, renders the PDF document and optionally notifies the
// client. One invoice per task.
func (s *Service) GenerateForTask(ctx context.Context, taskID uint, req *GenerateRequest, actor user.Actor) (*Invoice, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators can generate invoices")
	}

	var t task.Task
	if err := s.db.Preload("Materials").Preload("Images").First(&t, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, apperrors.Internal("failed to retrieve task", err)
	}
	if t.Status != task.StatusCompleted {
		return nil, apperrors.Conflict("only completed tasks can be invoiced")
	}

	var existing Invoice
	if err := s.db.Where("task_id = ?", taskID).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict(fmt.Sprintf("task already invoiced as %s", existing.Number))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to check existing invoice", err)
	}

	var cl client.Client
	if err := s.db.First(&cl, t.ClientID).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve client", err)
	}

	items := buildItems(&t)
	var subtotal int64
	for _, it := range items {
		subtotal += it.Total
	}
	taxRate := float64(s.config.Invoice.TaxRatePercent)
	taxAmount := int64(math.Round(float64(subtotal) * taxRate / 100))

	now := time.Now().UTC()
	inv := &Invoice{
		TaskID:         taskID,
		ClientID:       t.ClientID,
		Status:         StatusDraft,
		IssuedAt:       now,
		DueAt:          now.AddDate(0, 0, s.config.Invoice.DueDays),
		Subtotal:       subtotal,
		TaxRatePercent: taxRate,
		TaxAmount:      taxAmount,
		Total:          subtotal + taxAmount,
		Notes:          req.Notes,
		CreatedBy:      actor.ID,
		Items:          items,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The number is derived from the row ID after the insert, so two
		// invoices created at the same time can never collide. A random
		// placeholder satisfies the unique index until the row exists.
		inv.Number = "pending-" + uuid.New().String()
		if err := tx.Create(inv).Error; err != nil {
			return apperrors.Internal("failed to create invoice", err)
		}
		inv.Number = fmt.Sprintf("INV-%s-%05d", inv.IssuedAt.Format("20060102"), inv.ID)
		if err := tx.Model(inv).UpdateColumn("number", inv.Number).Error; err != nil {
			return apperrors.Internal("failed to assign invoice number", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// PDF rendering is best-effort: the invoice record stands even if
	// wkhtmltopdf is unavailable, and the document can be regenerated.
	if err := s.renderDocument(inv, &t, &cl, req.IncludePhotos, actor.ID); err != nil {
		s.log.WithError(err).WithField("invoice", inv.Number).Warn("invoice PDF generation failed")
	}

	if req.SendToClient {
		if err := s.Send(ctx, inv.ID, actor); err != nil {
			s.log.WithError(err).WithField("invoice", inv.Number).Warn("invoice delivery failed")
		}
	}

	return s.Get(inv.ID, actor)
}

// Send marks the invoice as sent and notifies the client
func (s *Service) Send(ctx context.Context, id uint, actor user.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only administrators can send invoices")
	}

	inv, err := s.get(id)
	if err != nil {
		return err
	}
	if inv.Status == StatusPaid {
		return apperrors.Conflict("invoice is already paid")
	}

	var cl client.Client
	if err := s.db.First(&cl, inv.ClientID).Error; err != nil {
		return apperrors.Internal("failed to retrieve client", err)
	}

	if err := s.db.Model(inv).UpdateColumn("status", StatusSent).Error; err != nil {
		return apperrors.Internal("failed to update invoice status", err)
	}

	if s.notifier != nil {
		recipient := notification.Recipient{
			Name:  cl.Name,
			Email: cl.Email,
			Phone: cl.Phone,
		}
		if cl.UserID != nil {
			recipient.UserID = *cl.UserID
		}
		s.notifier.Dispatch(ctx, notification.Event{
			Type:      notification.EventInvoice,
			Recipient: recipient,
			Data: map[string]interface{}{
				"invoice_number": inv.Number,
				"total":          FormatCents(inv.Total),
				"due_date":       inv.DueAt.Format("2006-01-02"),
				"document_url":   inv.DocumentURL,
			},
		})
	}

	return nil
}

// MarkPaid settles the invoice
func (s *Service) MarkPaid(id uint, actor user.Actor) (*Invoice, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators can settle invoices")
	}

	inv, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusPaid {
		return nil, apperrors.Conflict("invoice is already paid")
	}

	now := time.Now().UTC()
	if err := s.db.Model(inv).Updates(map[string]interface{}{
		"status":  StatusPaid,
		"paid_at": now,
	}).Error; err != nil {
		return nil, apperrors.Internal("failed to mark invoice paid", err)
	}

	return s.get(id)
}

// Get retrieves an invoice after an ownership check
func (s *Service) Get(id uint, actor user.Actor) (*Invoice, error) {
	inv, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		var cl client.Client
		if err := s.db.Where("id = ? AND user_id = ?", inv.ClientID, actor.ID).First(&cl).Error; err != nil {
			return nil, apperrors.Forbidden("invoice does not belong to your account")
		}
	}
	return inv, nil
}

// List retrieves invoices, scoped to the client's own for client actors
func (s *Service) List(actor user.Actor, status Status) ([]Invoice, error) {
	query := s.db.Preload("Items").Order("created_at DESC")

	switch actor.Role {
	case user.RoleAdmin:
		// all invoices
	case user.RoleClient:
		var cl client.Client
		if err := s.db.Where("user_id = ?", actor.ID).First(&cl).Error; err != nil {
			return []Invoice{}, nil
		}
		query = query.Where("client_id = ?", cl.ID)
	default:
		return nil, apperrors.Forbidden("workers cannot access invoices")
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve invoices", err)
	}
	return invoices, nil
}

// internal helpers

func (s *Service) get(id uint) (*Invoice, error) {
	var inv Invoice
	if err := s.db.Preload("Items").First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("invoice not found")
		}
		return nil, apperrors.Internal("failed to retrieve invoice", err)
	}
	return &inv, nil
}

func (s *Service) renderDocument(inv *Invoice, t *task.Task, cl *client.Client, includePhotos bool, uploadedBy uint) error {
	var site client.Site
	siteName := ""
	if err := s.db.First(&site, t.SiteID).Error; err == nil {
		siteName = site.Name
	}

	lines := make([]pdf.InvoiceLine, 0, len(inv.Items))
	for _, it := range inv.Items {
		lines = append(lines, pdf.InvoiceLine{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   FormatCents(it.UnitPrice),
			Total:       FormatCents(it.Total),
		})
	}

	var imageURLs []string
	if includePhotos {
		for _, img := range t.Images {
			if img.VisibleToClient {
				imageURLs = append(imageURLs, img.URL)
			}
		}
	}

	company := s.config.External.Company
	data := &pdf.InvoiceData{
		Number:   inv.Number,
		IssuedAt: inv.IssuedAt.Format("2006-01-02"),
		DueAt:    inv.DueAt.Format("2006-01-02"),
		Company: pdf.CompanyInfo{
			Name:    company.Name,
			Address: company.Address,
			Phone:   company.Phone,
			Email:   company.Email,
			Website: company.Website,
		},
		ClientName:  cl.Name,
		ClientEmail: cl.Email,
		ClientText:  cl.Address,
		SiteName:    siteName,
		TaskTitle:   t.Title,
		Lines:       lines,
		Subtotal:    FormatCents(inv.Subtotal),
		TaxLabel:    fmt.Sprintf("Tax (%.1f%%)", inv.TaxRatePercent),
		TaxAmount:   FormatCents(inv.TaxAmount),
		Total:       FormatCents(inv.Total),
		Notes:       inv.Notes,
		ImageURLs:   imageURLs,
	}

	content, err := s.pdf.GenerateInvoicePDF(data)
	if err != nil {
		return err
	}

	file, err := s.storage.SaveBytes(content, inv.Number+".pdf", "application/pdf", uploadedBy)
	if err != nil {
		return err
	}

	inv.DocumentURL = file.URL
	inv.DocumentStorageID = file.StorageID
	return s.db.Model(inv).Updates(map[string]interface{}{
		"document_url":        file.URL,
		"document_storage_id": file.StorageID,
	}).Error
}

// buildItems derives billed lines from the task's labor and materials
func buildItems(t *task.Task) []Item {
	items := make([]Item, 0, len(t.Materials)+1)

	if t.LaborCost > 0 {
		items = append(items, Item{
			Description: fmt.Sprintf("Labor: %s", t.Title),
			Quantity:    1,
			Unit:        "service",
			UnitPrice:   t.LaborCost,
			Total:       t.LaborCost,
		})
	}

	for _, m := range t.Materials {
		items = append(items, Item{
			Description: m.Name,
			Quantity:    m.Quantity,
			Unit:        m.Unit,
			UnitPrice:   m.UnitCost,
			Total:       m.UnitCost * int64(m.Quantity),
		})
	}
	return items
}

// FormatCents renders a cent amount as a decimal string
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
