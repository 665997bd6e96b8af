package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/speechfun/speechfun-backend/internal/data/db"
	aihelprepo "github.com/speechfun/speechfun-backend/internal/data/repos/aihelp"
	authrepo "github.com/speechfun/speechfun-backend/internal/data/repos/auth"
	catalogrepo "github.com/speechfun/speechfun-backend/internal/data/repos/catalog"
	progressrepo "github.com/speechfun/speechfun-backend/internal/data/repos/progress"
	userrepo "github.com/speechfun/speechfun-backend/internal/data/repos/user"
	appHTTP "github.com/speechfun/speechfun-backend/internal/http"
	"github.com/speechfun/speechfun-backend/internal/http/handlers"
	"github.com/speechfun/speechfun-backend/internal/http/middleware"
	"github.com/speechfun/speechfun-backend/internal/observability"
	"github.com/speechfun/speechfun-backend/internal/platform/config"
	"github.com/speechfun/speechfun-backend/internal/platform/envutil"
	"github.com/speechfun/speechfun-backend/internal/platform/gcp"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
	"github.com/speechfun/speechfun-backend/internal/platform/openai"
	"github.com/speechfun/speechfun-backend/internal/platform/rediscache"
	"github.com/speechfun/speechfun-backend/internal/platform/sendgrid"
	"github.com/speechfun/speechfun-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// Tracing
	ctx := context.Background()
	shutdownTracing := observability.InitTracing(ctx, log, "speechfun-backend", logMode)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := userrepo.NewUserRepo(thePG, log)
	profileRepo := userrepo.NewProfileRepo(thePG, log)
	accessTokenRepo := authrepo.NewAccessTokenRepo(thePG, log)
	verificationTokenRepo := authrepo.NewVerificationTokenRepo(thePG, log)
	catalogRepo := catalogrepo.NewCatalogRepo(thePG, log)
	commentRepo := catalogrepo.NewCommentRepo(thePG, log)
	progressRepo := progressrepo.NewProgressRepo(thePG, log)
	wordHelpLogRepo := aihelprepo.NewWordHelpLogRepo(thePG, log)

	// Platform clients. Mail is required: registration cannot work
	// without it. Everything else degrades to a 503 on its endpoint.
	log.Info("Setting up platform clients...")
	mailClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init SendGrid client", "error", err)
		os.Exit(1)
	}
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService", "error", err)
		bucketService = nil
	}
	speechClient, err := gcp.NewSpeech(log)
	if err != nil {
		log.Warn("Could not init Speech client", "error", err)
		speechClient = nil
	}
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Warn("Could not init OpenAI client", "error", err)
		openaiClient = nil
	}
	cache, err := rediscache.New(log)
	if err != nil {
		log.Warn("Could not init Redis cache", "error", err)
		cache = nil
	}

	// Services
	log.Info("Setting up services...")
	var avatarService services.AvatarService
	if bucketService != nil {
		avatarService, err = services.NewAvatarService(thePG, log, userRepo, bucketService)
		if err != nil {
			log.Warn("Could not init AvatarService", "error", err)
			avatarService = nil
		}
	}
	mailer := services.NewVerificationMailer(log, mailClient, cfg)
	authService := services.NewAuthService(thePG, log, cfg, userRepo, accessTokenRepo, verificationTokenRepo, mailer, avatarService)
	catalogService := services.NewCatalogService(thePG, log, catalogRepo, bucketService)
	commentService := services.NewCommentService(thePG, log, commentRepo, catalogRepo)
	progressService := services.NewProgressService(thePG, log, progressRepo, catalogRepo)
	profileService := services.NewProfileService(thePG, log, userRepo, profileRepo, avatarService)
	wordHelpService := services.NewWordHelpService(thePG, log, cfg, openaiClient, cache, wordHelpLogRepo)
	speechCheckService := services.NewSpeechCheckService(thePG, log, speechClient)

	// HTTP
	log.Info("Setting up router...")
	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Log:             log,
		AuthHandler:     handlers.NewAuthHandler(authService),
		AuthMiddleware:  middleware.NewAuthMiddleware(log, authService),
		CatalogHandler:  handlers.NewCatalogHandler(catalogService),
		CommentHandler:  handlers.NewCommentHandler(commentService),
		ProgressHandler: handlers.NewProgressHandler(progressService),
		ProfileHandler:  handlers.NewProfileHandler(profileService),
		WordHelpHandler: handlers.NewWordHelpHandler(wordHelpService),
		SpeechHandler:   handlers.NewSpeechHandler(speechCheckService),
		HealthHandler:   handlers.NewHealthHandler(thePG),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info("Server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Server shutdown error", "error", err)
		}
		if speechClient != nil {
			_ = speechClient.Close()
		}
		if cache != nil {
			_ = cache.Close()
		}
		if shutdownTracing != nil {
			_ = shutdownTracing(shutdownCtx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
