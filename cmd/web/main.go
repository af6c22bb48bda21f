package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"trocagames/internal/adapter/api"
	"trocagames/internal/adapter/api/handler"
	apimiddleware "trocagames/internal/adapter/api/middleware"
	"trocagames/internal/adapter/api/router"
	"trocagames/internal/adapter/gateway"
	"trocagames/internal/adapter/repository"
	"trocagames/internal/domain/entity"
	domainrepo "trocagames/internal/domain/repository"
	"trocagames/internal/infrastructure/ratelimit"
	"trocagames/internal/infrastructure/websocket"
	"trocagames/internal/usecase"
	"trocagames/pkg/config"
	"trocagames/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionRepo, closeRepo, err := openSessionRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer closeRepo()

	client := gateway.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	listingGateway := gateway.NewListingGateway(client)

	sessions := usecase.NewSessionStore(sessionRepo)
	notifications := usecase.NewNotificationUseCase(cfg.NotificationURL)
	defer notifications.Shutdown()
	sessions.OnClose(func(s *entity.Session) {
		notifications.Stop(s.ID)
	})
	sessions.OnLoad(notifications.Start)

	authUseCase := usecase.NewAuthUseCase(gateway.NewAuthGateway(client), sessions, notifications)
	userUseCase := usecase.NewUserUseCase(gateway.NewUserGateway(client), sessions)
	listingUseCase := usecase.NewListingUseCase(listingGateway, sessions)
	proposalUseCase := usecase.NewProposalUseCase(gateway.NewProposalGateway(client), listingGateway, sessions)
	ratingUseCase := usecase.NewRatingUseCase(gateway.NewRatingGateway(client), proposalUseCase, sessions)

	wsManager := websocket.NewManager(notifications)
	wsManager.Start(ctx)
	notifications.SetRelay(wsManager)

	restored, err := sessions.Hydrate(ctx)
	if err != nil {
		logger.Warn("Could not restore sessions: %v", err)
	}
	notifications.Resume(restored)
	logger.Info("Restored %d session(s)", len(restored))

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionLogin:    ratelimit.PerMinute(cfg.LoginRateLimit),
		ratelimit.ActionRegister: ratelimit.PerMinute(cfg.LoginRateLimit),
	}, ratelimit.PerMinute(60))
	limiter.StartCleanupRoutine(5*time.Minute, ctx.Done())

	sessionMiddleware := apimiddleware.NewSessionMiddleware(sessions, cfg.CookieSecure)
	handler.Setup(sessionMiddleware, authUseCase, userUseCase, listingUseCase, proposalUseCase, ratingUseCase, notifications)
	handler.SetupHealthHandler(func() int { return len(sessions.All()) })

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	e.Validator = api.NewValidator()

	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.AllowedOrigins)
	router.Setup(e, sessionMiddleware, limiter, wsHandler)

	go func() {
		logger.Info("Starting server on port %s (API %s)", cfg.ServerPort, cfg.APIBaseURL)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed: %v", err)
	}
}

// openSessionRepository picks the session backend. Firestore keeps sessions across
// instances; the file store is enough for a single process.
func openSessionRepository(ctx context.Context, cfg *config.Config) (domainrepo.SessionRepository, func(), error) {
	if cfg.SessionStore != "firestore" {
		repo, err := repository.NewFileSessionRepository(cfg.SessionDir)
		return repo, func() {}, err
	}

	var opts []option.ClientOption
	if cfg.FirebaseServiceAccountPath != "" {
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseServiceAccountPath))
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewFirestoreSessionRepository(firestoreClient), func() { firestoreClient.Close() }, nil
}
