// internal/interfaces/http/handlers/client.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/client"
)

// ClientHandler handles client, site, section and branch endpoints
type ClientHandler struct {
	clients *client.Service
}

// NewClientHandler creates a new client handler
func NewClientHandler(clients *client.Service) *ClientHandler {
	return &ClientHandler{
		clients: clients,
	}
}

// Create creates a new client
func (h *ClientHandler) Create(c *gin.Context) {
	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cl, err := h.clients.CreateClient(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Client created", cl)
}

// List lists active clients
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.ListClients()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"clients": clients})
}

// Get retrieves one client with its sites
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cl, err := h.clients.GetClient(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", cl)
}

// Update updates client details
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cl, err := h.clients.UpdateClient(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Client updated", cl)
}

// CreateSite adds a site to a client
func (h *ClientHandler) CreateSite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req client.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	site, err := h.clients.CreateSite(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Site created", site)
}

// ListSites lists a client's sites
func (h *ClientHandler) ListSites(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sites, err := h.clients.ListSites(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"sites": sites})
}

// GetSite retrieves one site with its sections
func (h *ClientHandler) GetSite(c *gin.Context) {
	id, ok := parseIDParam(c, "siteId")
	if !ok {
		return
	}

	site, err := h.clients.GetSite(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", site)
}

// CreateSection adds a section to a site
func (h *ClientHandler) CreateSection(c *gin.Context) {
	id, ok := parseIDParam(c, "siteId")
	if !ok {
		return
	}

	var req client.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	section, err := h.clients.CreateSection(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Section created", section)
}

// CreateBranch creates a company branch
func (h *ClientHandler) CreateBranch(c *gin.Context) {
	var req client.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	branch, err := h.clients.CreateBranch(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Branch created", branch)
}

// ListBranches lists company branches
func (h *ClientHandler) ListBranches(c *gin.Context) {
	branches, err := h.clients.ListBranches()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"branches": branches})
}
