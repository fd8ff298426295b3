package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	activityapp "github.com/furniflow/backend/internal/application/activity"
	dealapp "github.com/furniflow/backend/internal/application/deal"
	identityapp "github.com/furniflow/backend/internal/application/identity"
	montageapp "github.com/furniflow/backend/internal/application/montage"
	partnerapp "github.com/furniflow/backend/internal/application/partner"
	pipelineapp "github.com/furniflow/backend/internal/application/pipeline"
	procurementapp "github.com/furniflow/backend/internal/application/procurement"
	taskapp "github.com/furniflow/backend/internal/application/task"
	warehouseapp "github.com/furniflow/backend/internal/application/warehouse"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/infrastructure/ai"
	"github.com/furniflow/backend/internal/infrastructure/cache"
	"github.com/furniflow/backend/internal/infrastructure/config"
	"github.com/furniflow/backend/internal/infrastructure/event"
	"github.com/furniflow/backend/internal/infrastructure/logger"
	"github.com/furniflow/backend/internal/infrastructure/persistence"
	"github.com/furniflow/backend/internal/infrastructure/printing"
	"github.com/furniflow/backend/internal/infrastructure/storage"
	"github.com/furniflow/backend/internal/infrastructure/telemetry"
	"github.com/furniflow/backend/internal/interfaces/http/handler"
	"github.com/furniflow/backend/internal/interfaces/http/middleware"
	"github.com/furniflow/backend/internal/interfaces/http/router"
)

const appVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FurniFlow Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	pipelineRepo := persistence.NewGormPipelineRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	dealMessageRepo := persistence.NewGormDealMessageRepository(db.DB)
	dealAttachmentRepo := persistence.NewGormDealAttachmentRepository(db.DB)
	dealDocumentRepo := persistence.NewGormDealDocumentRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	taskCommentRepo := persistence.NewGormTaskCommentRepository(db.DB)
	taskChecklistRepo := persistence.NewGormTaskChecklistRepository(db.DB)
	taskAttachmentRepo := persistence.NewGormTaskAttachmentRepository(db.DB)
	itemRepo := persistence.NewGormWarehouseItemRepository(db.DB)
	stockTxRepo := persistence.NewGormWarehouseTransactionRepository(db.DB)
	reservationRepo := persistence.NewGormWarehouseReservationRepository(db.DB)
	comparisonRepo := persistence.NewGormProcurementRepository(db.DB)
	montageRepo := persistence.NewGormMontageRepository(db.DB)
	montageItemRepo := persistence.NewGormMontageItemRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	allocator := persistence.NewNumberAllocator(db.DB)

	// Caches: Redis when configured, in-memory otherwise
	var permCache cache.PermissionCache
	var dedupStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		permCache = cache.NewRedisPermissionCache(redisClient, cfg.Redis.CacheTTL)
		dedupStore = cache.NewRedisIdempotencyStore(redisClient, "furniflow")
		log.Info("Redis cache enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		permCache = cache.NewInMemoryPermissionCache(cfg.Redis.CacheTTL)
		dedupStore = cache.NewInMemoryIdempotencyStore()
	}

	// Object storage
	var store storage.ObjectStorage
	switch cfg.Storage.Provider {
	case "s3":
		s3Store, err := storage.NewS3Storage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		store = s3Store
	default:
		localStore, err := storage.NewLocalStorage(cfg.Storage.LocalPath,
			fmt.Sprintf("http://localhost:%s/files", cfg.App.Port))
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		store = localStore
	}
	log.Info("Object storage ready", zap.String("provider", cfg.Storage.Provider))

	// Document rendering
	templates, err := printing.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to parse document templates", zap.Error(err))
	}
	var renderer printing.PDFRenderer
	if cfg.Documents.RendererEnabled {
		renderer = printing.NewChromedpRenderer(cfg.Documents.RenderTimeout, log)
	} else {
		renderer = printing.NoopRenderer{}
		log.Info("PDF rendering disabled, documents keep HTML form only")
	}
	defer func() {
		_ = renderer.Close()
	}()

	// Application services
	userService := identityapp.NewUserService(userRepo, roleRepo)
	roleService := identityapp.NewRoleService(roleRepo)
	roleService.SetPermissionCache(permCache)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	pipelineService := pipelineapp.NewPipelineService(pipelineRepo, dealRepo)
	dealService := dealapp.NewDealService(dealRepo, pipelineRepo, dealMessageRepo, dealAttachmentRepo, allocator)
	documentService := dealapp.NewDocumentService(dealRepo, dealDocumentRepo, allocator, templates, renderer, store, dealapp.CompanyInfo{
		Name:    cfg.Documents.CompanyName,
		Details: cfg.Documents.CompanyDetails,
	})
	taskService := taskapp.NewTaskService(taskRepo, taskCommentRepo, taskChecklistRepo, taskAttachmentRepo, userRepo)
	warehouseService := warehouseapp.NewWarehouseService(itemRepo, stockTxRepo)
	reservationService := warehouseapp.NewReservationService(itemRepo, reservationRepo)
	aiClient := ai.NewClient(cfg.AI, log)
	matcher := procurementapp.NewMatcher(aiClient, log)
	procurementService := procurementapp.NewProcurementService(comparisonRepo, itemRepo, supplierRepo, allocator, matcher, store, log)
	montageService := montageapp.NewMontageService(montageRepo, montageItemRepo, userRepo, allocator)
	activityService := activityapp.NewActivityService(activityRepo)

	// Event bus with the audit trail recorder subscribed to everything
	eventBus := event.NewInMemoryEventBus(log)
	recorder := activityapp.NewRecorder(activityRepo, log)
	recorder.SetIdempotencyStore(dedupStore)
	eventBus.Subscribe(recorder)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	dealService.SetEventPublisher(eventBus)
	taskService.SetEventPublisher(eventBus)
	warehouseService.SetEventPublisher(eventBus)
	reservationService.SetEventPublisher(eventBus)
	montageService.SetEventPublisher(eventBus)

	// Background sweep for expired reservations
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	expiryWorker := warehouseapp.NewReservationExpiryWorker(reservationService, reservationRepo, time.Minute, log)
	go expiryWorker.Run(workerCtx)

	// HTTP handlers
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	pipelineHandler := handler.NewPipelineHandler(pipelineService)
	dealHandler := handler.NewDealHandler(dealService, documentService)
	taskHandler := handler.NewTaskHandler(taskService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService, reservationService)
	procurementHandler := handler.NewProcurementHandler(procurementService)
	montageHandler := handler.NewMontageHandler(montageService)
	activityHandler := handler.NewActivityHandler(activityService)
	uploadHandler := handler.NewUploadHandler(store)
	systemHandler := handler.NewSystemHandler(appVersion)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", readyHandler(db, log))
	if cfg.Storage.Provider != "s3" {
		engine.Static("/files", cfg.Storage.LocalPath)
	}

	resolver := middleware.NewPermissionResolver(roleRepo, permCache, log)
	perm := func(permission string) gin.HandlerFunc {
		return middleware.RequirePermission(resolver, permission)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.Identity())

	// Supplier directory
	supplierRoutes := router.NewDomainGroup("suppliers", "/suppliers")
	supplierRoutes.GET("", perm("suppliers:read"), supplierHandler.List)
	supplierRoutes.GET("/active", perm("suppliers:read"), supplierHandler.ListActive)
	supplierRoutes.GET("/:id", perm("suppliers:read"), supplierHandler.GetByID)
	supplierRoutes.POST("", perm("suppliers:write"), supplierHandler.Create)
	supplierRoutes.PUT("/:id", perm("suppliers:write"), supplierHandler.Update)
	supplierRoutes.POST("/:id/activate", perm("suppliers:write"), supplierHandler.Activate)
	supplierRoutes.POST("/:id/deactivate", perm("suppliers:write"), supplierHandler.Deactivate)

	// Pipeline configuration
	pipelineRoutes := router.NewDomainGroup("pipelines", "/pipelines")
	pipelineRoutes.GET("", perm("pipelines:read"), pipelineHandler.List)
	pipelineRoutes.GET("/default", perm("pipelines:read"), pipelineHandler.GetDefault)
	pipelineRoutes.GET("/:id", perm("pipelines:read"), pipelineHandler.GetByID)
	pipelineRoutes.POST("", perm("pipelines:write"), pipelineHandler.Create)
	pipelineRoutes.PUT("/:id", perm("pipelines:write"), pipelineHandler.Update)
	pipelineRoutes.POST("/:id/stages", perm("pipelines:write"), pipelineHandler.AddStage)
	pipelineRoutes.PUT("/:id/stages/:stageId", perm("pipelines:write"), pipelineHandler.RenameStage)
	pipelineRoutes.DELETE("/:id/stages/:stageId", perm("pipelines:write"), pipelineHandler.RemoveStage)
	pipelineRoutes.POST("/:id/stages/reorder", perm("pipelines:write"), pipelineHandler.ReorderStages)
	pipelineRoutes.POST("/:id/set-default", perm("pipelines:write"), pipelineHandler.SetDefault)
	pipelineRoutes.POST("/:id/archive", perm("pipelines:write"), pipelineHandler.Archive)
	pipelineRoutes.DELETE("/:id", perm("pipelines:write"), pipelineHandler.Delete)

	// Deals, conversations, attachments and documents
	dealRoutes := router.NewDomainGroup("deals", "/deals")
	dealRoutes.GET("", perm("deals:read"), dealHandler.List)
	dealRoutes.GET("/board/:pipelineId", perm("deals:read"), dealHandler.Board)
	dealRoutes.GET("/number/:number", perm("deals:read"), dealHandler.GetByNumber)
	dealRoutes.GET("/:id", perm("deals:read"), dealHandler.GetByID)
	dealRoutes.POST("", perm("deals:write"), dealHandler.Create)
	dealRoutes.PUT("/:id", perm("deals:write"), dealHandler.Update)
	dealRoutes.POST("/:id/move-stage", perm("deals:write"), dealHandler.MoveStage)
	dealRoutes.POST("/:id/assign-manager", perm("deals:write"), dealHandler.AssignManager)
	dealRoutes.POST("/:id/win", perm("deals:write"), dealHandler.Win)
	dealRoutes.POST("/:id/lose", perm("deals:write"), dealHandler.Lose)
	dealRoutes.POST("/:id/reopen", perm("deals:write"), dealHandler.Reopen)
	dealRoutes.DELETE("/:id", perm("deals:write"), dealHandler.Delete)
	dealRoutes.GET("/:id/messages", perm("deals:read"), dealHandler.ListMessages)
	dealRoutes.POST("/:id/messages", perm("deals:write"), dealHandler.PostMessage)
	dealRoutes.DELETE("/messages/:messageId", perm("deals:write"), dealHandler.DeleteMessage)
	dealRoutes.GET("/:id/attachments", perm("deals:read"), dealHandler.ListAttachments)
	dealRoutes.POST("/:id/attachments", perm("deals:write"), dealHandler.RegisterAttachment)
	dealRoutes.DELETE("/attachments/:attachmentId", perm("deals:write"), dealHandler.DeleteAttachment)
	dealRoutes.GET("/:id/documents", perm("deals:read"), dealHandler.ListDocuments)
	dealRoutes.POST("/:id/documents", perm("deals:write"), dealHandler.GenerateDocument)
	dealRoutes.GET("/documents/:documentId", perm("deals:read"), dealHandler.GetDocument)
	dealRoutes.POST("/documents/:documentId/issue", perm("deals:write"), dealHandler.IssueDocument)
	dealRoutes.POST("/documents/:documentId/cancel", perm("deals:write"), dealHandler.CancelDocument)
	dealRoutes.GET("/documents/:documentId/download-url", perm("deals:read"), dealHandler.DocumentDownloadURL)

	// Tasks with role pools, comments, checklists and attachments
	taskRoutes := router.NewDomainGroup("tasks", "/tasks")
	taskRoutes.GET("", perm("tasks:read"), taskHandler.List)
	taskRoutes.GET("/pool", perm("tasks:read"), taskHandler.ListPool)
	taskRoutes.GET("/:id", perm("tasks:read"), taskHandler.GetByID)
	taskRoutes.POST("", perm("tasks:write"), taskHandler.Create)
	taskRoutes.PUT("/:id", perm("tasks:write"), taskHandler.Update)
	taskRoutes.POST("/:id/claim", perm("tasks:write"), taskHandler.Claim)
	taskRoutes.POST("/:id/reassign", perm("tasks:write"), taskHandler.Reassign)
	taskRoutes.POST("/:id/return-to-pool", perm("tasks:write"), taskHandler.ReturnToPool)
	taskRoutes.POST("/:id/transition", perm("tasks:write"), taskHandler.Transition)
	taskRoutes.DELETE("/:id", perm("tasks:write"), taskHandler.Delete)
	taskRoutes.GET("/:id/comments", perm("tasks:read"), taskHandler.ListComments)
	taskRoutes.POST("/:id/comments", perm("tasks:write"), taskHandler.PostComment)
	taskRoutes.DELETE("/comments/:commentId", perm("tasks:write"), taskHandler.DeleteComment)
	taskRoutes.GET("/:id/checklist", perm("tasks:read"), taskHandler.ListChecklist)
	taskRoutes.POST("/:id/checklist", perm("tasks:write"), taskHandler.AddChecklistItem)
	taskRoutes.PUT("/:id/checklist/reorder", perm("tasks:write"), taskHandler.ReorderChecklist)
	taskRoutes.POST("/checklist/:itemId/toggle", perm("tasks:write"), taskHandler.ToggleChecklistItem)
	taskRoutes.DELETE("/checklist/:itemId", perm("tasks:write"), taskHandler.DeleteChecklistItem)
	taskRoutes.GET("/:id/attachments", perm("tasks:read"), taskHandler.ListAttachments)
	taskRoutes.POST("/:id/attachments", perm("tasks:write"), taskHandler.RegisterAttachment)

	// Warehouse stock, ledger and reservations
	warehouseRoutes := router.NewDomainGroup("warehouse", "/warehouse")
	warehouseRoutes.GET("/items", perm("warehouse:read"), warehouseHandler.ListItems)
	warehouseRoutes.GET("/items/alerts/below-minimum", perm("warehouse:read"), warehouseHandler.ListBelowMinimum)
	warehouseRoutes.GET("/items/sku/:sku", perm("warehouse:read"), warehouseHandler.GetItemBySKU)
	warehouseRoutes.GET("/items/:id", perm("warehouse:read"), warehouseHandler.GetItem)
	warehouseRoutes.GET("/items/:id/transactions", perm("warehouse:read"), warehouseHandler.ListItemTransactions)
	warehouseRoutes.POST("/items", perm("warehouse:write"), warehouseHandler.CreateItem)
	warehouseRoutes.PUT("/items/:id", perm("warehouse:write"), warehouseHandler.UpdateItem)
	warehouseRoutes.DELETE("/items/:id", perm("warehouse:write"), warehouseHandler.DeleteItem)
	warehouseRoutes.POST("/items/:id/receive", perm("warehouse:write"), warehouseHandler.Receive)
	warehouseRoutes.POST("/items/:id/issue", perm("warehouse:write"), warehouseHandler.Issue)
	warehouseRoutes.POST("/items/:id/adjust", perm("warehouse:write"), warehouseHandler.Adjust)
	warehouseRoutes.GET("/transactions", perm("warehouse:read"), warehouseHandler.ListTransactions)
	warehouseRoutes.GET("/reservations", perm("warehouse:read"), warehouseHandler.ListReservations)
	warehouseRoutes.GET("/reservations/deal/:dealId", perm("warehouse:read"), warehouseHandler.ListDealReservations)
	warehouseRoutes.GET("/reservations/:id", perm("warehouse:read"), warehouseHandler.GetReservation)
	warehouseRoutes.POST("/reservations", perm("warehouse:write"), warehouseHandler.CreateReservation)
	warehouseRoutes.POST("/reservations/:id/confirm", perm("warehouse:write"), warehouseHandler.ConfirmReservation)
	warehouseRoutes.POST("/reservations/:id/release", perm("warehouse:write"), warehouseHandler.ReleaseReservation)
	warehouseRoutes.POST("/reservations/:id/cancel", perm("warehouse:write"), warehouseHandler.CancelReservation)

	// Procurement stock comparisons
	procurementRoutes := router.NewDomainGroup("procurement", "/procurement")
	procurementRoutes.GET("/comparisons", perm("procurement:read"), procurementHandler.List)
	procurementRoutes.GET("/comparisons/:id", perm("procurement:read"), procurementHandler.GetByID)
	procurementRoutes.GET("/comparisons/:id/results", perm("procurement:read"), procurementHandler.Results)
	procurementRoutes.POST("/comparisons", perm("procurement:write"), procurementHandler.Create)
	procurementRoutes.POST("/comparisons/:id/match", perm("procurement:write"), procurementHandler.RunMatching)
	procurementRoutes.PUT("/comparisons/:id/rows/:rowId/match", perm("procurement:write"), procurementHandler.SetManualMatch)
	procurementRoutes.DELETE("/comparisons/:id", perm("procurement:write"), procurementHandler.Delete)

	// Montage scheduling
	montageRoutes := router.NewDomainGroup("montage", "/montage")
	montageRoutes.GET("/orders", perm("montage:read"), montageHandler.List)
	montageRoutes.GET("/calendar", perm("montage:read"), montageHandler.Calendar)
	montageRoutes.GET("/orders/deal/:dealId", perm("montage:read"), montageHandler.ListByDeal)
	montageRoutes.GET("/orders/:id", perm("montage:read"), montageHandler.GetByID)
	montageRoutes.POST("/orders", perm("montage:write"), montageHandler.Create)
	montageRoutes.PUT("/orders/:id", perm("montage:write"), montageHandler.Update)
	montageRoutes.POST("/orders/:id/schedule", perm("montage:write"), montageHandler.Schedule)
	montageRoutes.POST("/orders/:id/unschedule", perm("montage:write"), montageHandler.Unschedule)
	montageRoutes.POST("/orders/:id/start", perm("montage:write"), montageHandler.Start)
	montageRoutes.POST("/orders/:id/complete", perm("montage:write"), montageHandler.Complete)
	montageRoutes.POST("/orders/:id/cancel", perm("montage:write"), montageHandler.Cancel)
	montageRoutes.DELETE("/orders/:id", perm("montage:write"), montageHandler.Delete)
	montageRoutes.GET("/orders/:id/items", perm("montage:read"), montageHandler.ListItems)
	montageRoutes.POST("/orders/:id/items", perm("montage:write"), montageHandler.AddItem)
	montageRoutes.PUT("/orders/items/:itemId", perm("montage:write"), montageHandler.UpdateItem)
	montageRoutes.DELETE("/orders/items/:itemId", perm("montage:write"), montageHandler.DeleteItem)

	// Audit trail
	activityRoutes := router.NewDomainGroup("activity", "/activity")
	activityRoutes.GET("", perm("activity:read"), activityHandler.List)
	activityRoutes.GET("/:type/:id", perm("activity:read"), activityHandler.ListByAggregate)

	// Identity management
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.GET("/users", perm("identity:manage"), userHandler.List)
	identityRoutes.GET("/users/:id", perm("identity:manage"), userHandler.GetByID)
	identityRoutes.POST("/users", perm("identity:manage"), userHandler.Create)
	identityRoutes.PUT("/users/:id", perm("identity:manage"), userHandler.Update)
	identityRoutes.PUT("/users/:id/role", perm("identity:manage"), userHandler.AssignRole)
	identityRoutes.POST("/users/:id/activate", perm("identity:manage"), userHandler.Activate)
	identityRoutes.POST("/users/:id/deactivate", perm("identity:manage"), userHandler.Deactivate)
	identityRoutes.GET("/roles", perm("identity:manage"), roleHandler.List)
	identityRoutes.GET("/roles/:id", perm("identity:manage"), roleHandler.GetByID)
	identityRoutes.POST("/roles", perm("identity:manage"), roleHandler.Create)
	identityRoutes.PUT("/roles/:id", perm("identity:manage"), roleHandler.Update)
	identityRoutes.DELETE("/roles/:id", perm("identity:manage"), roleHandler.Delete)
	identityRoutes.GET("/permissions", perm("identity:manage"), roleHandler.ListPermissions)

	uploadRoutes := router.NewDomainGroup("uploads", "/uploads")
	uploadRoutes.POST("/presign", middleware.RequireUser(), uploadHandler.PresignUpload)
	uploadRoutes.GET("/download-url", middleware.RequireUser(), uploadHandler.DownloadURL)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(supplierRoutes).
		Register(pipelineRoutes).
		Register(dealRoutes).
		Register(taskRoutes).
		Register(warehouseRoutes).
		Register(procurementRoutes).
		Register(montageRoutes).
		Register(activityRoutes).
		Register(identityRoutes).
		Register(uploadRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// readyHandler reports readiness, including database connectivity
func readyHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
