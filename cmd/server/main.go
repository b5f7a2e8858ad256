package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sfa/backend/internal/application/fulfillment"
	identityapp "github.com/sfa/backend/internal/application/identity"
	inventoryapp "github.com/sfa/backend/internal/application/inventory"
	salesapp "github.com/sfa/backend/internal/application/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/cache"
	"github.com/sfa/backend/internal/infrastructure/config"
	"github.com/sfa/backend/internal/infrastructure/event"
	"github.com/sfa/backend/internal/infrastructure/logger"
	"github.com/sfa/backend/internal/infrastructure/persistence"
	"github.com/sfa/backend/internal/interfaces/http/handler"
	"github.com/sfa/backend/internal/interfaces/http/middleware"
	"github.com/sfa/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting SFA Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logging
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
	log.Info("Database connected successfully")

	// Idempotency store for duplicate load sheet submissions
	idempotencyStore, err := cache.NewIdempotencyStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	log.Info("Idempotency store initialized", zap.String("backend", cfg.Fulfillment.IdempotencyBackend))

	// Domain event bus with an audit subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditHandler(log))

	// Repositories
	skuRepo := persistence.NewGormSKURepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	outletRepo := persistence.NewGormOutletRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	inventoryService := inventoryapp.NewInventoryService(skuRepo, activityRepo, log)
	orderService := salesapp.NewOrderService(orderRepo, outletRepo, userRepo, activityRepo, log)
	invoicingService := salesapp.NewInvoicingService(orderRepo, activityRepo, log)
	identityService := identityapp.NewIdentityService(userRepo, outletRepo, log)
	fulfillmentService := fulfillment.NewFulfillmentService(txScope, userRepo, idempotencyStore, activityRepo, log)
	fulfillmentService.SetIdempotencyConfig(shared.IdempotencyConfig{
		TTL:     cfg.Fulfillment.IdempotencyTTL,
		Enabled: true,
	})
	returnPolicy := fulfillment.ReturnPolicy{FlipOrderOnAnyReturn: cfg.Fulfillment.FlipOrderOnAnyReturn}
	reconciliationService := fulfillment.NewReconciliationService(txScope, returnPolicy, activityRepo, log)

	inventoryService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	invoicingService.SetEventPublisher(eventBus)
	fulfillmentService.SetEventPublisher(eventBus)
	reconciliationService.SetEventPublisher(eventBus)

	// HTTP handlers
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	orderHandler := handler.NewOrderHandler(orderService, invoicingService)
	loadSheetHandler := handler.NewLoadSheetHandler(fulfillmentService, reconciliationService)
	identityHandler := handler.NewIdentityHandler(identityService)
	activityHandler := handler.NewActivityHandler(activityRepo)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(inventoryHandler).
		Register(orderHandler).
		Register(loadSheetHandler).
		Register(identityHandler).
		Register(activityHandler)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
