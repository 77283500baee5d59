// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/pkg/auth"
)

// AuthHandler handles authentication and account endpoints
type AuthHandler struct {
	users      *user.Service
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *user.Service, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
	}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login authenticates a user and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	u, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := h.jwtManager.GenerateTokenPair(u.ID, u.Email, string(u.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Login successful", gin.H{
		"user":          u,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Refresh exchanges a refresh token for a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(401, gin.H{
			"success": false,
			"message": "Invalid refresh token",
		})
		return
	}

	respondOK(c, "", gin.H{"access_token": accessToken})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	u, err := h.users.GetByID(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", u)
}

// UpdateProfile updates the authenticated user's profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	u, err := h.users.UpdateProfile(actor.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Profile updated", u)
}

// ChangePassword changes the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.users.ChangePassword(actor.ID, &req); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Password changed", nil)
}

// CreateUser creates a worker or client account (admin only)
func (h *AuthHandler) CreateUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	u, err := h.users.CreateUser(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Account created, credentials sent to the user", u)
}

// ListWorkers lists active workers (admin only)
func (h *AuthHandler) ListWorkers(c *gin.Context) {
	branchID, _ := parseOptionalUintQuery(c, "branch_id")

	workers, err := h.users.ListWorkers(branchID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", gin.H{"workers": workers})
}

// DeactivateUser disables an account (admin only)
func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Deactivate(id, actor); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Account deactivated", nil)
}
