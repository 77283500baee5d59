// internal/interfaces/http/routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/domain/client"
	"github.com/your-org/gardenops-backend/internal/domain/inventory"
	"github.com/your-org/gardenops-backend/internal/domain/invoice"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/storage"
	"github.com/your-org/gardenops-backend/internal/domain/task"
	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/interfaces/http/handlers"
	"github.com/your-org/gardenops-backend/internal/interfaces/http/middleware"
	"github.com/your-org/gardenops-backend/internal/pkg/auth"
	"github.com/your-org/gardenops-backend/internal/pkg/email"
	"github.com/your-org/gardenops-backend/internal/pkg/pdf"
	"github.com/your-org/gardenops-backend/internal/pkg/whatsapp"
)

// SetupRoutes wires services, handlers and route groups under /api/v1
func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	log := newLogger(cfg)

	jwtManager := auth.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Delivery channels
	emailSvc := email.NewService(cfg)
	var whatsappClient notification.WhatsAppSender
	if cfg.External.WhatsApp.Enabled {
		whatsappClient = whatsapp.NewClient(cfg)
	}

	// Domain services
	notificationSvc := notification.NewService(db, cfg, emailSvc, whatsappClient, log)
	userSvc := user.NewService(db, cfg, notificationSvc, log)
	clientSvc := client.NewService(db, cfg)
	inventorySvc := inventory.NewService(db, cfg, notificationSvc, log)
	taskSvc := task.NewService(db, cfg, inventorySvc, notificationSvc, log)
	storageSvc := storage.NewService(db, cfg)
	invoiceSvc := invoice.NewService(db, cfg, pdf.NewService(), storageSvc, notificationSvc, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userSvc, jwtManager)
	taskHandler := handlers.NewTaskHandler(taskSvc, storageSvc)
	inventoryHandler := handlers.NewInventoryHandler(inventorySvc)
	clientHandler := handlers.NewClientHandler(clientSvc)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceSvc)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc)

	authRequired := middleware.AuthMiddleware(jwtManager)
	adminOnly := middleware.AdminMiddleware()
	staffOnly := middleware.RequireRoles(user.RoleAdmin, user.RoleWorker)

	// Authentication
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", authRequired, authHandler.Me)
		authGroup.PUT("/me", authRequired, authHandler.UpdateProfile)
		authGroup.POST("/change-password", authRequired, authHandler.ChangePassword)
	}

	// Account management (admin only)
	users := api.Group("/users", authRequired, adminOnly)
	{
		users.POST("", authHandler.CreateUser)
		users.GET("/workers", authHandler.ListWorkers)
		users.DELETE("/:id", authHandler.DeactivateUser)
	}

	// Tasks
	tasks := api.Group("/tasks", authRequired)
	{
		tasks.POST("", adminOnly, taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PUT("/:id", staffOnly, taskHandler.Update)
		tasks.POST("/:id/assign", adminOnly, taskHandler.Assign)
		tasks.POST("/:id/start", middleware.RequireRoles(user.RoleWorker), taskHandler.Start)
		tasks.POST("/:id/complete", middleware.RequireRoles(user.RoleWorker), taskHandler.Complete)
		tasks.POST("/:id/images", staffOnly, taskHandler.UploadImages)
		tasks.POST("/:id/review", adminOnly, taskHandler.Review)
		tasks.POST("/:id/materials/:materialId/confirm", staffOnly, taskHandler.ConfirmMaterial)
		tasks.POST("/:id/invoice", adminOnly, invoiceHandler.GenerateForTask)
	}

	// Inventory
	inventoryGroup := api.Group("/inventory", authRequired, staffOnly)
	{
		inventoryGroup.POST("", adminOnly, inventoryHandler.CreateItem)
		inventoryGroup.GET("", inventoryHandler.ListItems)
		inventoryGroup.GET("/:id", inventoryHandler.GetItem)
		inventoryGroup.PUT("/:id", adminOnly, inventoryHandler.UpdateItem)
		inventoryGroup.POST("/:id/withdraw", inventoryHandler.Withdraw)
		inventoryGroup.POST("/:id/restock", adminOnly, inventoryHandler.Restock)
		inventoryGroup.POST("/:id/return", inventoryHandler.Return)
		inventoryGroup.POST("/:id/adjust", adminOnly, inventoryHandler.Adjust)
		inventoryGroup.GET("/:id/transactions", inventoryHandler.Transactions)
	}

	// Clients, sites and sections (admin only)
	clients := api.Group("/clients", authRequired, adminOnly)
	{
		clients.POST("", clientHandler.Create)
		clients.GET("", clientHandler.List)
		clients.GET("/:id", clientHandler.Get)
		clients.PUT("/:id", clientHandler.Update)
		clients.POST("/:id/sites", clientHandler.CreateSite)
		clients.GET("/:id/sites", clientHandler.ListSites)
	}

	sites := api.Group("/sites", authRequired, adminOnly)
	{
		sites.GET("/:siteId", clientHandler.GetSite)
		sites.POST("/:siteId/sections", clientHandler.CreateSection)
	}

	// Branches (admin only)
	branches := api.Group("/branches", authRequired, adminOnly)
	{
		branches.POST("", clientHandler.CreateBranch)
		branches.GET("", clientHandler.ListBranches)
	}

	// Invoices
	invoices := api.Group("/invoices", authRequired)
	{
		invoices.GET("", invoiceHandler.List)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.POST("/:id/send", adminOnly, invoiceHandler.Send)
		invoices.POST("/:id/pay", adminOnly, invoiceHandler.MarkPaid)
	}

	// In-app notifications
	notifications := api.Group("/notifications", authRequired)
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
	}
}

// newLogger builds the shared service logger from config
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
