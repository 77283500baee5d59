// internal/interfaces/http/handlers/task.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/storage"
	"github.com/your-org/gardenops-backend/internal/domain/task"
)

// TaskHandler handles task lifecycle endpoints
type TaskHandler struct {
	tasks   *task.Service
	storage *storage.Service
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *task.Service, storageSvc *storage.Service) *TaskHandler {
	return &TaskHandler{
		tasks:   tasks,
		storage: storageSvc,
	}
}

// AssignRequest selects the worker for a task
type AssignRequest struct {
	WorkerID uint `json:"worker_id" binding:"required"`
}

// ReviewRequest carries the admin review outcome
type ReviewRequest struct {
	Status task.ReviewStatus `json:"status" binding:"required"`
	Notes  string            `json:"notes"`
}

// Create creates a new task
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req task.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.tasks.CreateTask(&req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Task created", t)
}

// List lists tasks visible to the actor
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req task.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.tasks.ListTasks(&req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", resp)
}

// Get retrieves one task
func (h *TaskHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.tasks.GetTask(id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "", t)
}

// Update applies a field patch to a task
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.tasks.UpdateTask(c.Request.Context(), id, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Task updated", t)
}

// Assign assigns a worker and reserves the declared materials
func (h *TaskHandler) Assign(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.tasks.AssignWorker(c.Request.Context(), id, req.WorkerID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Worker assigned", t)
}

// Start moves a task to in_progress with the worker's GPS fix
func (h *TaskHandler) Start(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var coords task.CoordinatesRequest
	if err := c.ShouldBindJSON(&coords); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.tasks.StartTask(c.Request.Context(), id, coords, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Task started", t)
}

// Complete moves a task to completed
func (h *TaskHandler) Complete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var coords task.CoordinatesRequest
	if err := c.ShouldBindJSON(&coords); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.tasks.CompleteTask(c.Request.Context(), id, coords, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Task completed", t)
}

// UploadImages stores uploaded photos and attaches them to the task.
// Accepts multipart form data with a "type" field and "images" files.
func (h *TaskHandler) UploadImages(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondBindError(c, err)
		return
	}

	imageType := task.ImageType(c.PostForm("type"))
	if imageType != task.ImageTypeBefore && imageType != task.ImageTypeAfter {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Image type must be 'before' or 'after'",
		})
		return
	}
	visibleToClient := c.PostForm("visible_to_client") == "true"

	files := form.File["images"]
	inputs := make([]task.ImageInput, 0, len(files))
	for _, file := range files {
		stored, err := h.storage.SaveUpload(file, actor.ID)
		if err != nil {
			h.discardStored(inputs)
			respondError(c, err)
			return
		}
		inputs = append(inputs, task.ImageInput{
			URL:             stored.URL,
			StorageID:       stored.StorageID,
			VisibleToClient: visibleToClient,
		})
	}

	t, err := h.tasks.UploadImages(id, imageType, inputs, actor)
	if err != nil {
		// The task rejected the upload; don't orphan the stored files
		h.discardStored(inputs)
		respondError(c, err)
		return
	}

	respondOK(c, "Images uploaded", t)
}

// discardStored removes files that were stored before the request failed.
// Cleanup is best effort; a leftover file is better than masking the error.
func (h *TaskHandler) discardStored(inputs []task.ImageInput) {
	for _, in := range inputs {
		_ = h.storage.Delete(in.StorageID)
	}
}

// Review records the admin review outcome
func (h *TaskHandler) Review(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := h.tasks.ReviewTask(id, req.Status, req.Notes, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Review recorded", t)
}

// ConfirmMaterial marks one material line as consumed on site
func (h *TaskHandler) ConfirmMaterial(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	materialID, ok := parseIDParam(c, "materialId")
	if !ok {
		return
	}

	t, err := h.tasks.ConfirmMaterial(id, materialID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Material confirmed", t)
}
