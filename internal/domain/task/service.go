// internal/domain/task/service.go
package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/domain/client"
	"github.com/your-org/gardenops-backend/internal/domain/inventory"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
)

// Service handles task lifecycle business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	inventory *inventory.Service
	notifier  notification.Notifier
	log       *logrus.Logger
}

// NewService creates a new task service
func NewService(db *gorm.DB, cfg *config.Config, inventorySvc *inventory.Service, notifier notification.Notifier, log *logrus.Logger) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		inventory: inventorySvc,
		notifier:  notifier,
		log:       log,
	}
}

// MaterialInput declares one material line on task creation
type MaterialInput struct {
	InventoryItemID *uint  `json:"inventory_item_id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity" binding:"required"`
	Unit            string `json:"unit"`
}

// CreateTaskRequest represents task creation data
type CreateTaskRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Priority      Priority        `json:"priority"`
	ClientID      uint            `json:"client_id" binding:"required"`
	SiteID        uint            `json:"site_id" binding:"required"`
	SectionID     *uint           `json:"section_id"`
	BranchID      uint            `json:"branch_id"`
	ScheduledDate time.Time       `json:"scheduled_date" binding:"required"`
	LaborCost     int64           `json:"labor_cost"`
	Materials     []MaterialInput `json:"materials"`
}

// UpdateTaskRequest represents a generic task field patch. A worker ID
// on a previously unassigned task is treated as an assignment and goes
// through the same single entry point as the assign endpoint.
type UpdateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Category      *string    `json:"category"`
	Priority      *Priority  `json:"priority"`
	SectionID     *uint      `json:"section_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	LaborCost     *int64     `json:"labor_cost"`
	WorkerID      *uint      `json:"worker_id"`
}

// CoordinatesRequest carries the GPS fix for start/complete transitions
type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ImageInput represents one uploaded image reference
type ImageInput struct {
	URL             string `json:"url" binding:"required"`
	StorageID       string `json:"storage_id"`
	VisibleToClient bool   `json:"visible_to_client"`
}

// TaskListRequest represents task list query parameters
type TaskListRequest struct {
	Page      int      `form:"page,default=1"`
	Limit     int      `form:"limit,default=20"`
	Status    Status   `form:"status"`
	Priority  Priority `form:"priority"`
	ClientID  uint     `form:"client_id"`
	WorkerID  uint     `form:"worker_id"`
	BranchID  uint     `form:"branch_id"`
	DateFrom  string   `form:"date_from"`
	DateTo    string   `form:"date_to"`
	SortBy    string   `form:"sort_by,default=scheduled_date"`
	SortOrder string   `form:"sort_order,default=desc"`
}

// TaskListResponse represents task list response with pagination
type TaskListResponse struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateTask creates a new task in pending state and bumps the client
// and site task counters.
func (s *Service) CreateTask(req *CreateTaskRequest, actor user.Actor) (*Task, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators can create tasks")
	}

	if req.ScheduledDate.IsZero() {
		return nil, apperrors.Validation("scheduled date is required", map[string]string{
			"scheduled_date": "required",
		})
	}

	// Validate the client/site/section chain
	var cl client.Client
	if err := s.db.First(&cl, req.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("client not found")
		}
		return nil, apperrors.Internal("failed to retrieve client", err)
	}

	var site client.Site
	if err := s.db.Where("id = ? AND client_id = ?", req.SiteID, req.ClientID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("site does not belong to the client", map[string]string{
				"site_id": "must reference a site of the given client",
			})
		}
		return nil, apperrors.Internal("failed to retrieve site", err)
	}

	if req.SectionID != nil {
		var section client.Section
		if err := s.db.Where("id = ? AND site_id = ?", *req.SectionID, req.SiteID).First(&section).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("section does not belong to the site", map[string]string{
					"section_id": "must reference a section of the given site",
				})
			}
			return nil, apperrors.Internal("failed to retrieve section", err)
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	// Resolve the material lines against inventory
	materials := make([]Material, 0, len(req.Materials))
	for i, m := range req.Materials {
		if m.Quantity <= 0 {
			return nil, apperrors.Validation("material quantity must be positive", map[string]string{
				fmt.Sprintf("materials[%d].quantity", i): "must be > 0",
			})
		}

		line := Material{
			InventoryItemID: m.InventoryItemID,
			Name:            m.Name,
			Quantity:        m.Quantity,
			Unit:            m.Unit,
		}
		if m.InventoryItemID != nil {
			item, err := s.inventory.GetItem(*m.InventoryItemID)
			if err != nil {
				return nil, err
			}
			line.Name = item.Name
			line.Unit = item.Unit
			line.UnitCost = item.UnitCost
		} else if line.Name == "" {
			return nil, apperrors.Validation("material needs a name or an inventory reference", map[string]string{
				fmt.Sprintf("materials[%d].name", i): "required when inventory_item_id is unset",
			})
		}
		materials = append(materials, line)
	}

	t := &Task{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      priority,
		Status:        StatusPending,
		ClientID:      req.ClientID,
		SiteID:        req.SiteID,
		SectionID:     req.SectionID,
		BranchID:      req.BranchID,
		ScheduledDate: req.ScheduledDate,
		LaborCost:     req.LaborCost,
		Materials:     materials,
		CreatedBy:     actor.ID,
		AdminReview:   AdminReview{Status: ReviewStatusPending},
	}
	t.RecomputeCost()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return apperrors.Internal("failed to create task", err)
		}

		if err := tx.Model(&client.Client{}).Where("id = ?", req.ClientID).
			UpdateColumn("total_tasks", gorm.Expr("total_tasks + 1")).Error; err != nil {
			return apperrors.Internal("failed to update client counters", err)
		}
		if err := tx.Model(&client.Site{}).Where("id = ?", req.SiteID).
			UpdateColumn("total_tasks", gorm.Expr("total_tasks + 1")).Error; err != nil {
			return apperrors.Internal("failed to update site counters", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getTask(t.ID)
}

// GetTask retrieves a task after an ownership check
func (s *Service) GetTask(id uint, actor user.Actor) (*Task, error) {
	t, err := s.getTask(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(t, actor); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks retrieves tasks with filtering and pagination. Workers see
// only their own tasks, clients only tasks against their client record.
func (s *Service) ListTasks(req *TaskListRequest, actor user.Actor) (*TaskListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Task{}).Preload("Materials")

	switch actor.Role {
	case user.RoleAdmin:
		if req.WorkerID > 0 {
			query = query.Where("worker_id = ?", req.WorkerID)
		}
		if req.ClientID > 0 {
			query = query.Where("client_id = ?", req.ClientID)
		}
	case user.RoleWorker:
		query = query.Where("worker_id = ?", actor.ID)
	case user.RoleClient:
		var cl client.Client
		if err := s.db.Where("user_id = ?", actor.ID).First(&cl).Error; err != nil {
			return &TaskListResponse{Tasks: []Task{}, Pagination: Pagination{Page: req.Page, Limit: req.Limit}}, nil
		}
		query = query.Where("client_id = ?", cl.ID)
	default:
		return nil, apperrors.Forbidden("unknown actor role")
	}

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Priority != "" {
		query = query.Where("priority = ?", req.Priority)
	}
	if req.BranchID > 0 {
		query = query.Where("branch_id = ?", req.BranchID)
	}
	if req.DateFrom != "" {
		query = query.Where("scheduled_date >= ?", req.DateFrom)
	}
	if req.DateTo != "" {
		query = query.Where("scheduled_date <= ?", req.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Internal("failed to count tasks", err)
	}

	query = query.Order(buildOrderClause(req.SortBy, req.SortOrder))

	var tasks []Task
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&tasks).Error; err != nil {
		return nil, apperrors.Internal("failed to retrieve tasks", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &TaskListResponse{
		Tasks: tasks,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// AssignWorker moves a pending task to assigned and withdraws every
// declared material from stock exactly once. The worker claim, the
// reservation flag and all ledger writes commit in one transaction, so
// a concurrent second assign loses the claim and deducts nothing.
func (s *Service) AssignWorker(ctx context.Context, taskID, workerID uint, actor user.Actor) (*Task, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators can assign tasks")
	}

	t, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if t.WorkerID != nil {
		return nil, apperrors.Conflict("task already has an assigned worker")
	}

	var worker user.User
	if err := s.db.Where("id = ? AND role = ? AND is_active = ?", workerID, user.RoleWorker, true).
		First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("worker not found")
		}
		return nil, apperrors.Internal("failed to retrieve worker", err)
	}

	alreadyReserved := t.MaterialsReserved
	var withdrawnItems []uint

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Task{}).
			Where("id = ? AND worker_id IS NULL", taskID).
			Updates(map[string]interface{}{
				"worker_id":          workerID,
				"status":             StatusAssigned,
				"materials_reserved": true,
			})
		if result.Error != nil {
			return apperrors.Internal("failed to assign worker", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("task already has an assigned worker")
		}

		if !alreadyReserved {
			for _, m := range t.Materials {
				if m.InventoryItemID == nil {
					continue
				}
				if _, err := s.inventory.WithdrawTx(tx, *m.InventoryItemID, m.Quantity, workerID, &t.ID,
					fmt.Sprintf("reserved for task #%d", t.ID)); err != nil {
					return err
				}
				withdrawnItems = append(withdrawnItems, *m.InventoryItemID)
			}
		}

		if err := tx.Model(&user.User{}).Where("id = ?", workerID).
			UpdateColumn("total_tasks", gorm.Expr("total_tasks + 1")).Error; err != nil {
			return apperrors.Internal("failed to update worker counters", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects are best-effort
	for _, itemID := range withdrawnItems {
		s.inventory.CheckLowStock(ctx, itemID)
	}
	s.notifyAssignment(ctx, t, &worker)

	return s.getTask(taskID)
}

// StartTask moves the task to in_progress and records the start GPS fix
func (s *Service) StartTask(ctx context.Context, taskID uint, coords CoordinatesRequest, actor user.Actor) (*Task, error) {
	t, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if !t.IsAssignedTo(actor.ID) {
		return nil, apperrors.Forbidden("only the assigned worker can start this task")
	}
	if !t.CanStart() {
		return nil, apperrors.Conflict(fmt.Sprintf("task cannot be started from status %s", t.Status))
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":            StatusInProgress,
		"started_at":        now,
		"start_latitude":    coords.Latitude,
		"start_longitude":   coords.Longitude,
		"start_recorded_at": now,
	}
	if err := s.db.Model(t).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to start task", err)
	}

	return s.getTask(taskID)
}

// CompleteTask moves the task to completed, derives the actual duration
// and bumps client, worker and site counters. The client is notified
// best-effort after commit.
func (s *Service) CompleteTask(ctx context.Context, taskID uint, coords CoordinatesRequest, actor user.Actor) (*Task, error) {
	t, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if !t.IsAssignedTo(actor.ID) {
		return nil, apperrors.Forbidden("only the assigned worker can complete this task")
	}
	if !t.CanComplete() {
		return nil, apperrors.Conflict(fmt.Sprintf("task cannot be completed from status %s", t.Status))
	}

	now := time.Now().UTC()
	completed := *t
	completed.CompletedAt = &now
	completed.RecomputeDuration()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":          StatusCompleted,
			"completed_at":    now,
			"end_latitude":    coords.Latitude,
			"end_longitude":   coords.Longitude,
			"end_recorded_at": now,
			"actual_duration": completed.ActualDuration,
		}
		if err := tx.Model(&Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
			return apperrors.Internal("failed to complete task", err)
		}

		if err := tx.Model(&client.Client{}).Where("id = ?", t.ClientID).
			UpdateColumns(map[string]interface{}{
				"completed_tasks": gorm.Expr("completed_tasks + 1"),
				"total_spent":     gorm.Expr("total_spent + ?", t.TotalCost),
			}).Error; err != nil {
			return apperrors.Internal("failed to update client counters", err)
		}

		if err := tx.Model(&user.User{}).Where("id = ?", actor.ID).
			UpdateColumn("completed_tasks", gorm.Expr("completed_tasks + 1")).Error; err != nil {
			return apperrors.Internal("failed to update worker counters", err)
		}

		if err := tx.Model(&client.Site{}).Where("id = ?", t.SiteID).
			UpdateColumns(map[string]interface{}{
				"completed_tasks": gorm.Expr("completed_tasks + 1"),
				"last_visit":      now,
			}).Error; err != nil {
			return apperrors.Internal("failed to update site counters", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCompletion(ctx, t)

	return s.getTask(taskID)
}

// UploadImages appends entries to the before or after collection
func (s *Service) UploadImages(taskID uint, imageType ImageType, images []ImageInput, actor user.Actor) (*Task, error) {
	if imageType != ImageTypeBefore && imageType != ImageTypeAfter {
		return nil, apperrors.Validation("image type must be 'before' or 'after'", map[string]string{
			"type": "must be one of: before, after",
		})
	}
	if len(images) == 0 {
		return nil, apperrors.Validation("no images provided", map[string]string{
			"images": "must not be empty",
		})
	}

	t, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(t, actor); err != nil {
		return nil, err
	}

	rows := make([]Image, 0, len(images))
	for _, img := range images {
		rows = append(rows, Image{
			TaskID:          taskID,
			Type:            imageType,
			URL:             img.URL,
			StorageID:       img.StorageID,
			UploadedBy:      actor.ID,
			VisibleToClient: img.VisibleToClient,
		})
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return nil, apperrors.Internal("failed to store task images", err)
	}

	return s.getTask(taskID)
}

// UpdateTask applies a generic field patch. Introducing a worker on an
// unassigned task is routed through AssignWorker so the reservation
// side effect cannot run twice.
func (s *Service) UpdateTask(ctx context.Context, taskID uint, req *UpdateTaskRequest, actor user.Actor) (*Task, error) {
	t, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(t, actor); err != nil {
		return nil, err
	}

	if req.WorkerID != nil {
		if t.WorkerID == nil {
			if _, err := s.AssignWorker(ctx, taskID, *req.WorkerID, actor); err != nil {
				return nil, err
			}
		} else if *t.WorkerID != *req.WorkerID {
			return nil, apperrors.Conflict("task already has an assigned worker")
		}
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.ScheduledDate != nil {
		updates["scheduled_date"] = *req.ScheduledDate
	}
	if req.SectionID != nil {
		var section client.Section
		if err := s.db.Where("id = ? AND site_id = ?", *req.SectionID, t.SiteID).First(&section).Error; err != nil {
			return nil, apperrors.Validation("section does not belong to the site", map[string]string{
				"section_id": "must reference a section of the task's site",
			})
		}
		updates["section_id"] = *req.SectionID
	}
	if req.LaborCost != nil {
		updates["labor_cost"] = *req.LaborCost
		updates["total_cost"] = *req.LaborCost + t.MaterialsCost
	}

	if len(updates) > 0 {
		if err := s.db.Model(&Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal("failed to update task", err)
		}
	}

	return s.getTask(taskID)
}

// ReviewTask records the administrative review outcome on a completed
// task. The primary status is untouched: the sub-record is the
// authoritative review state.
func (s *Service) ReviewTask(taskID uint, status ReviewStatus, notes string, actor user.Actor) (*Task, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators can review tasks")
	}
	if status != ReviewStatusApproved && status != ReviewStatusRejected {
		return nil, apperrors.Validation("review status must be 'approved' or 'rejected'", map[string]string{
			"status": "must be one of: approved, rejected",
		})
	}

	t, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusCompleted {
		return nil, apperrors.Conflict("only completed tasks can be reviewed")
	}

	now := time.Now().UTC()
	if err := s.db.Model(&Task{}).Where("id = ?", taskID).Updates(map[string]interface{}{
		"review_status":      status,
		"review_reviewed_by": actor.ID,
		"review_reviewed_at": now,
		"review_notes":       notes,
	}).Error; err != nil {
		return nil, apperrors.Internal("failed to record review", err)
	}

	return s.getTask(taskID)
}

// ConfirmMaterial marks one material line as consumed on site
func (s *Service) ConfirmMaterial(taskID, materialID uint, actor user.Actor) (*Task, error) {
	t, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(t, actor); err != nil {
		return nil, err
	}

	result := s.db.Model(&Material{}).
		Where("id = ? AND task_id = ?", materialID, taskID).
		UpdateColumn("confirmed", true)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to confirm material", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("material not found on this task")
	}

	return s.getTask(taskID)
}

// internal helpers

func (s *Service) getTask(id uint) (*Task, error) {
	var t Task
	if err := s.db.Preload("Materials").Preload("Images").First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, apperrors.Internal("failed to retrieve task", err)
	}
	return &t, nil
}

// authorize checks read access for the actor
func (s *Service) authorize(t *Task, actor user.Actor) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleWorker:
		if t.IsAssignedTo(actor.ID) {
			return nil
		}
		return apperrors.Forbidden("task is not assigned to you")
	case user.RoleClient:
		var cl client.Client
		if err := s.db.Where("id = ? AND user_id = ?", t.ClientID, actor.ID).First(&cl).Error; err == nil {
			return nil
		}
		return apperrors.Forbidden("task does not belong to your account")
	}
	return apperrors.Forbidden("unknown actor role")
}

// authorizeMutation checks write access: admins always, workers only on
// their own tasks. Re-checked before every side-effecting operation.
func (s *Service) authorizeMutation(t *Task, actor user.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsWorker() && t.IsAssignedTo(actor.ID) {
		return nil
	}
	return apperrors.Forbidden("task is not assigned to you")
}

func (s *Service) notifyAssignment(ctx context.Context, t *Task, worker *user.User) {
	if s.notifier == nil {
		return
	}

	var site client.Site
	siteName := ""
	if err := s.db.First(&site, t.SiteID).Error; err == nil {
		siteName = site.Name
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type: notification.EventAssignment,
		Recipient: notification.Recipient{
			UserID: worker.ID,
			Name:   worker.GetDisplayName(),
			Email:  worker.Email,
			Phone:  worker.Phone,
		},
		Data: map[string]interface{}{
			"task_title":     t.Title,
			"site_name":      siteName,
			"scheduled_date": t.ScheduledDate.Format("2006-01-02"),
		},
	})
}

func (s *Service) notifyCompletion(ctx context.Context, t *Task) {
	if s.notifier == nil {
		return
	}

	var cl client.Client
	if err := s.db.First(&cl, t.ClientID).Error; err != nil {
		s.log.WithError(err).WithField("task_id", t.ID).Warn("completion notification skipped, client missing")
		return
	}
	var site client.Site
	siteName := ""
	if err := s.db.First(&site, t.SiteID).Error; err == nil {
		siteName = site.Name
	}

	recipient := notification.Recipient{
		Name:  cl.Name,
		Email: cl.Email,
		Phone: cl.Phone,
	}
	if cl.UserID != nil {
		recipient.UserID = *cl.UserID
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:      notification.EventCompletion,
		Recipient: recipient,
		Data: map[string]interface{}{
			"task_title": t.Title,
			"site_name":  siteName,
		},
	})
}

func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"scheduled_date": true,
		"created_at":     true,
		"updated_at":     true,
		"priority":       true,
		"status":         true,
		"total_cost":     true,
	}

	if !validSortFields[sortBy] {
		sortBy = "scheduled_date"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
