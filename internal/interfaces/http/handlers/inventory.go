// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/inventory"
)

// InventoryHandler handles inventory endpoints
type InventoryHandler struct {
	inventory *inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventorySvc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventorySvc,
	}
}

// CreateItem creates a new inventory item (admin only)
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventory.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventory.CreateItem(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Item created", item)
}

// ListItems lists inventory items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventory.ListItems(c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"items": items})
}

// GetItem retrieves one item
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.inventory.GetItem(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", item)
}

// UpdateItem updates item metadata. Quantities only change through
// stock operations.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventory.UpdateItem(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Item updated", item)
}

// Withdraw removes stock on behalf of the authenticated worker
func (h *InventoryHandler) Withdraw(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventory.Withdraw(c.Request.Context(), id, req.Quantity, actor.ID, req.TaskID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock withdrawn", item)
}

// Restock adds delivered stock (admin only)
func (h *InventoryHandler) Restock(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventory.Restock(c.Request.Context(), id, req.Quantity, actor.ID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock added", item)
}

// Return puts unused material back into stock
func (h *InventoryHandler) Return(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventory.Return(c.Request.Context(), id, req.Quantity, actor.ID, req.TaskID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock returned", item)
}

// Adjust applies a signed count correction (admin only)
func (h *InventoryHandler) Adjust(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventory.Adjust(c.Request.Context(), id, req.Delta, actor.ID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock adjusted", item)
}

// Transactions returns the item's ledger, newest first
func (h *InventoryHandler) Transactions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	transactions, err := h.inventory.TransactionHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"transactions": transactions})
}
