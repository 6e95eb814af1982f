package main

import (
	"fmt"
	"log"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/metrics"
	"backend/internal/middleware"
	"backend/internal/notify"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Shop Management API
// @version         1.0
// @description     Back-office API where updates and deletes on protected records go through an approval workflow.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	zapLogger, err := logger.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	db, err := database.NewConnection(cfg.Database.DSN())
	if err != nil {
		zapLogger.Fatal("database connection failed", zap.Error(err))
	}
	zapLogger.Info("connected to postgres", zap.String("host", cfg.Database.Host))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	access := policy.New(cfg.Access)
	collectors := metrics.New()

	// WebSocket hub pushing workflow events to connected admin panels
	wsHub := websocket.NewHub(zapLogger)
	go wsHub.Run()

	notifier := notify.Multi{
		notify.NewLogNotifier(zapLogger),
		notify.NewHubNotifier(wsHub),
		notify.NewMetricsNotifier(collectors),
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	recordStore := repository.NewRecordStore(db)
	txManager := repository.NewTransactionManager(db)

	// Services. The dashboard comes first: mutation paths invalidate its cache.
	authService := service.NewAuthService(userRepo, access, cfg.JWT)
	dashboardService := service.NewDashboardService(recordStore, access, redisClient, cfg.Dashboard.CacheTTL, zapLogger)
	approvalService := service.NewApprovalService(approvalRepo, recordStore, auditRepo, txManager, access, notifier, dashboardService)
	recordService := service.NewRecordService(recordStore, approvalService, auditRepo, access, dashboardService)
	customerService := service.NewCustomerService(recordStore, auditRepo, access)
	reportService := service.NewReportService(recordStore, access)
	auditService := service.NewAuditService(auditRepo, access)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, access, cfg.JWT, cfg.Env)
	recordHandler := handler.NewRecordHandler(recordService, access, cfg.JWT.Secret)
	approvalHandler := handler.NewApprovalHandler(approvalService, access, cfg.JWT.Secret)
	customerHandler := handler.NewCustomerHandler(customerService, access, cfg.JWT.Secret)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, access, cfg.JWT.Secret)
	reportHandler := handler.NewReportHandler(reportService, access, cfg.JWT.Secret)
	auditHandler := handler.NewAuditHandler(auditService, access, cfg.JWT.Secret)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(zapLogger))
	router.Use(middleware.Metrics(collectors))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(collectors.Handler()))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, []byte(cfg.JWT.Secret), access)
	})

	api := router.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))
	recordHandler.RegisterRoutes(api)
	approvalHandler.RegisterRoutes(api)
	customerHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	zapLogger.Info("server listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
}
