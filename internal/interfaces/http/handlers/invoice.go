// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/invoice"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	invoices *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
	}
}

// GenerateForTask builds an invoice from a completed task
func (h *InvoiceHandler) GenerateForTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req invoice.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	inv, err := h.invoices.GenerateForTask(c.Request.Context(), id, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Invoice generated", inv)
}

// List lists invoices visible to the actor
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	invoices, err := h.invoices.List(actor, invoice.Status(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"invoices": invoices})
}

// Get retrieves one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoices.Get(id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", inv)
}

// Send marks the invoice as sent and notifies the client
func (h *InvoiceHandler) Send(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.invoices.Send(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Invoice sent", nil)
}

// MarkPaid settles the invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoices.MarkPaid(id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Invoice marked as paid", inv)
}
