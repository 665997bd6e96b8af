package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/speechfun/speechfun-backend/internal/http/handlers"
	httpMW "github.com/speechfun/speechfun-backend/internal/http/middleware"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	CatalogHandler  *httpH.CatalogHandler
	CommentHandler  *httpH.CommentHandler
	ProgressHandler *httpH.ProgressHandler
	ProfileHandler  *httpH.ProfileHandler
	WordHelpHandler *httpH.WordHelpHandler
	SpeechHandler   *httpH.SpeechHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("speechfun-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.GET("/verify-email", cfg.AuthHandler.VerifyEmail)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Catalogue (public, read-only)
		if cfg.CatalogHandler != nil {
			api.GET("/letters", cfg.CatalogHandler.ListLetters)
			api.GET("/letters/:id/words", cfg.CatalogHandler.ListLetterWords)
			api.GET("/letters/:id/challenges", cfg.CatalogHandler.ListLetterChallenges)
			api.GET("/challenges/:id", cfg.CatalogHandler.GetChallenge)
			api.GET("/yes-no-questions", cfg.CatalogHandler.ListYesNoQuestions)
			api.GET("/functional-phrases", cfg.CatalogHandler.ListFunctionalPhrases)
		}

		// Comment threads are readable without an account
		if cfg.CommentHandler != nil {
			api.GET("/challenges/:id/comments", cfg.CommentHandler.ListChallengeComments)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Progress ledger
		if cfg.ProgressHandler != nil {
			protected.POST("/progress/update", cfg.ProgressHandler.Update)
			protected.GET("/progress", cfg.ProgressHandler.List)
		}

		// Comments (write)
		if cfg.CommentHandler != nil {
			protected.POST("/challenges/:id/comments", cfg.CommentHandler.Create)
			protected.PUT("/comments/:id", cfg.CommentHandler.Update)
			protected.DELETE("/comments/:id", cfg.CommentHandler.Delete)
		}

		// Profile
		if cfg.ProfileHandler != nil {
			protected.GET("/profile", cfg.ProfileHandler.Get)
			protected.PUT("/profile", cfg.ProfileHandler.Update)
			protected.POST("/profile/avatar", cfg.ProfileHandler.UpdateAvatar)
		}

		// AI word help
		if cfg.WordHelpHandler != nil {
			protected.POST("/ai-help", cfg.WordHelpHandler.GetHelp)
		}

		// Pronunciation check
		if cfg.SpeechHandler != nil {
			protected.POST("/speech-check", cfg.SpeechHandler.CheckPronunciation)
		}

		// Word audio upload (content management)
		if cfg.CatalogHandler != nil {
			protected.POST("/words/:id/audio", cfg.CatalogHandler.UploadWordAudio)
		}
	}

	return r
}
