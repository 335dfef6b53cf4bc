package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "antecipa/api/swagger" // swagger docs
	"antecipa/internal/auth"
	"antecipa/internal/config"
	"antecipa/internal/database"
	"antecipa/internal/handler"
	"antecipa/internal/logger"
	"antecipa/internal/metrics"
	"antecipa/internal/middleware"
	"antecipa/internal/repository"
	"antecipa/internal/service"
	"antecipa/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Antecipa API
// @version         1.0
// @description     Installment advance requests: clients request early settlement of installments, approvers decide.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load("configs/.env")
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.NewConnection(cfg.DSN(), log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	log.Info("connected to PostgreSQL")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories
	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	contractRepo := repository.NewContractRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	requestRepo := repository.NewAdvanceRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	if cfg.SeedDemo {
		seeder := database.NewSeeder(txm, userRepo, clientRepo, contractRepo, log)
		if err := seeder.Seed(ctx, time.Now().UTC()); err != nil {
			log.WithError(err).Fatal("demo seed failed")
		}
	}

	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	recorder := metrics.New(prometheus.DefaultRegisterer)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	// Services
	userService := service.NewUserService(userRepo, clientRepo, tokens)
	contractService := service.NewContractService(contractRepo, nil)
	clientService := service.NewClientService(clientRepo)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statisticsRepo)
	advanceService := service.NewAdvanceRequestService(service.AdvanceRequestDeps{
		TxManager:    txm,
		Contracts:    contractRepo,
		Installments: installmentRepo,
		Requests:     requestRepo,
		Audit:        auditRepo,
		Publisher:    wsHub,
		Metrics:      recorder,
		Logger:       log,
		AutoSelect:   cfg.AutoSelectEligible,
	})

	// Handlers
	userHandler := handler.NewUserHandler(userService, log)
	contractHandler := handler.NewContractHandler(contractService, clientService, log)
	advanceHandler := handler.NewAdvanceRequestHandler(advanceService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, log)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.HTTPMetrics(recorder))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "ws_clients": wsHub.ClientCount()})
	})
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, tokens)
	})

	authn := middleware.Authenticate(tokens)
	api := router.Group("")
	userHandler.RegisterRoutes(api, authn)
	contractHandler.RegisterRoutes(api, authn)
	advanceHandler.RegisterRoutes(api, authn)
	auditHandler.RegisterRoutes(api, authn)
	statisticsHandler.RegisterRoutes(api, authn)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
