// internal/domain/client/service.go
package client

import (
	"errors"

	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
)

// Service handles client, site, section and branch business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new client service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateClientRequest represents client creation data
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	UserID  *uint  `json:"user_id"`
}

// UpdateClientRequest represents a client field patch
type UpdateClientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

// CreateSiteRequest represents site creation data
type CreateSiteRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	AreaSqm int    `json:"area_sqm"`
}

// CreateSectionRequest represents section creation data
type CreateSectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateBranchRequest represents branch creation data
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CLIENTS

// CreateClient creates a new client record
func (s *Service) CreateClient(req *CreateClientRequest) (*Client, error) {
	c := &Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		UserID:   req.UserID,
		IsActive: true,
	}
	if err := s.db.Create(c).Error; err != nil {
		return nil, apperrors.Internal("failed to create client", err)
	}
	return c, nil
}

// GetClient retrieves a client with its sites
func (s *Service) GetClient(id uint) (*Client, error) {
	var c Client
	if err := s.db.Preload("Sites").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("client not found")
		}
		return nil, apperrors.Internal("failed to retrieve client", err)
	}
	return &c, nil
}

// ListClients retrieves all active clients
func (s *Service) ListClients() ([]Client, error) {
	var clients []Client
	if err := s.db.Where("is_active = ?", true).Order("name asc").Find(&clients).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve clients", err)
	}
	return clients, nil
}

// UpdateClient patches a client record
func (s *Service) UpdateClient(id uint, req *UpdateClientRequest) (*Client, error) {
	c, err := s.GetClient(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(c).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update client", err)
		}
	}
	return s.GetClient(id)
}

// SITES AND SECTIONS

// CreateSite creates a site under a client
func (s *Service) CreateSite(clientID uint, req *CreateSiteRequest) (*Site, error) {
	if _, err := s.GetClient(clientID); err != nil {
		return nil, err
	}

	site := &Site{
		ClientID: clientID,
		Name:     req.Name,
		Address:  req.Address,
		AreaSqm:  req.AreaSqm,
	}
	if err := s.db.Create(site).Error; err != nil {
		return nil, apperrors.Internal("failed to create site", err)
	}
	return site, nil
}

// GetSite retrieves a site with its sections
func (s *Service) GetSite(id uint) (*Site, error) {
	var site Site
	if err := s.db.Preload("Sections").First(&site, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("site not found")
		}
		return nil, apperrors.Internal("failed to retrieve site", err)
	}
	return &site, nil
}

// ListSites retrieves all sites for a client
func (s *Service) ListSites(clientID uint) ([]Site, error) {
	var sites []Site
	if err := s.db.Where("client_id = ?", clientID).Order("name asc").Find(&sites).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve sites", err)
	}
	return sites, nil
}

// CreateSection creates a named sub-area within a site
func (s *Service) CreateSection(siteID uint, req *CreateSectionRequest) (*Section, error) {
	if _, err := s.GetSite(siteID); err != nil {
		return nil, err
	}

	section := &Section{
		SiteID:      siteID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(section).Error; err != nil {
		return nil, apperrors.Internal("failed to create section", err)
	}
	return section, nil
}

// BRANCHES

// CreateBranch creates a company branch
func (s *Service) CreateBranch(req *CreateBranchRequest) (*Branch, error) {
	var existing Branch
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("branch with this name already exists")
	}

	branch := &Branch{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := s.db.Create(branch).Error; err != nil {
		return nil, apperrors.Internal("failed to create branch", err)
	}
	return branch, nil
}

// ListBranches retrieves all active branches
func (s *Service) ListBranches() ([]Branch, error) {
	var branches []Branch
	if err := s.db.Where("is_active = ?", true).Order("name asc").Find(&branches).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve branches", err)
	}
	return branches, nil
}
