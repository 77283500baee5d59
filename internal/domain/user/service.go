// internal/domain/user/service.go
package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
)

// Service handles user business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	notifier notification.Notifier
	log      *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, notifier notification.Notifier, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		notifier: notifier,
		log:      log,
	}
}

// CreateUserRequest represents account creation data
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role" binding:"required"`
	BranchID  *uint  `json:"branch_id"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// Authenticate verifies credentials and stamps the last login time
func (s *Service) Authenticate(email, password string) (*User, error) {
	var u User
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.Internal("failed to retrieve user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	now := time.Now().UTC()
	if err := s.db.Model(&u).UpdateColumn("last_login_at", now).Error; err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("failed to stamp last login")
	}
	u.LastLoginAt = &now

	return &u, nil
}

// CreateUser creates a worker or client account with a generated
// temporary password and sends the credentials to the new user.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators can create accounts")
	}
	if !req.Role.IsValid() {
		return nil, apperrors.Validation("invalid role", map[string]string{
			"role": "must be one of: admin, worker, client",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	if err := s.db.Unscoped().Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to check existing account", err)
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, apperrors.Internal("failed to generate password", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), s.config.Security.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	u := &User{
		Email:     email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
		BranchID:  req.BranchID,
		IsActive:  true,
	}
	if err := s.db.Create(u).Error; err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}

	if s.notifier != nil {
		s.notifier.Dispatch(ctx, notification.Event{
			Type: notification.EventCredentials,
			Recipient: notification.Recipient{
				UserID: u.ID,
				Name:   u.GetDisplayName(),
				Email:  u.Email,
				Phone:  u.Phone,
			},
			Data: map[string]interface{}{
				"email":    u.Email,
				"password": tempPassword,
			},
		})
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to retrieve user", err)
	}
	return &u, nil
}

// ListWorkers retrieves active worker accounts, optionally by branch
func (s *Service) ListWorkers(branchID uint) ([]User, error) {
	query := s.db.Where("role = ? AND is_active = ?", RoleWorker, true)
	if branchID > 0 {
		query = query.Where("branch_id = ?", branchID)
	}

	var workers []User
	if err := query.Order("first_name ASC").Find(&workers).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve workers", err)
	}
	return workers, nil
}

// UpdateProfile applies a partial profile update on the actor's own account
func (s *Service) UpdateProfile(id uint, req *UpdateProfileRequest) (*User, error) {
	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) > 0 {
		if err := s.db.Model(u).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update profile", err)
		}
	}

	return s.GetByID(id)
}

// ChangePassword verifies the current password before replacing it
func (s *Service) ChangePassword(id uint, req *ChangePasswordRequest) error {
	u, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.Security.BcryptCost)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	if err := s.db.Model(u).UpdateColumn("password", string(hashed)).Error; err != nil {
		return apperrors.Internal("failed to update password", err)
	}
	return nil
}

// Deactivate disables an account without deleting its history
func (s *Service) Deactivate(id uint, actor Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only administrators can deactivate accounts")
	}
	result := s.db.Model(&User{}).Where("id = ?", id).UpdateColumn("is_active", false)
	if result.Error != nil {
		return apperrors.Internal("failed to deactivate user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
