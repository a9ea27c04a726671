package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/phtrivia/phtrivia-backend/internal/ai"
	"github.com/phtrivia/phtrivia-backend/internal/config"
	"github.com/phtrivia/phtrivia-backend/internal/db"
	httpHandlers "github.com/phtrivia/phtrivia-backend/internal/http/handlers"
	httpRouter "github.com/phtrivia/phtrivia-backend/internal/http/router"
	"github.com/phtrivia/phtrivia-backend/internal/logger"
	"github.com/phtrivia/phtrivia-backend/internal/metrics"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/service"
	"github.com/phtrivia/phtrivia-backend/internal/storage"
	"github.com/phtrivia/phtrivia-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: failed to connect to database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: failed to prepare media storage: %v", err)
	}

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	questionRepo := repository.NewQuestionRepository(dbConn)
	attemptRepo := repository.NewAttemptRepository(dbConn)
	withdrawalRepo := repository.NewWithdrawalRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Services.
	authService := service.NewAuthService(userRepo, tokenManager, cfg.ReferralBonusPoints)
	ledgerService := service.NewLedgerService(attemptRepo, withdrawalRepo, userRepo)
	gameService := service.NewGameService(questionRepo, attemptRepo)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, ledgerService, cfg.MinWithdrawalPoints, cfg.PointsPerCurrency, cfg.WithdrawalCooldown)
	notificationService := service.NewNotificationService(notificationRepo)
	cacheService := service.NewCacheService()

	var drafter service.QuestionDrafter
	if cfg.AIBaseURL != "" && cfg.AIModel != "" {
		drafter = ai.NewClient(cfg.AIBaseURL, cfg.AIModel)
	}
	questionService := service.NewQuestionService(questionRepo, drafter)

	// Websockets. Status changes fan out to connected clients and land
	// in the persisted notification feed.
	hub := ws.NewHub(ctx)
	hub.SetEventSaver(ws.NewNotificationServiceAdapter(notificationService))
	go hub.Run()
	withdrawalService.SetNotifier(ws.NewWithdrawalNotifier(hub))

	// HTTP handlers.
	m := metrics.New()
	authHandler := httpHandlers.NewAuthHandler(authService)
	gameHandler := httpHandlers.NewGameHandler(gameService, ledgerService, cacheService)
	profileHandler := httpHandlers.NewProfileHandler(userRepo, ledgerService, gameService, withdrawalService)
	withdrawalHandler := httpHandlers.NewWithdrawalHandler(withdrawalService)
	questionHandler := httpHandlers.NewQuestionHandler(questionService)
	mediaHandler := httpHandlers.NewMediaHandler(photoStorage, questionService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		m,
		authHandler,
		gameHandler,
		profileHandler,
		withdrawalHandler,
		questionHandler,
		mediaHandler,
		notificationHandler,
		wsHandler,
		healthHandler,
		tokenManager,
		userRepo,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: failed to close database: %v", err)
	}
}
