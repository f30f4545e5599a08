package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/config"
	"github.com/lshigami/bizcoach/database"
	_ "github.com/lshigami/bizcoach/docs" // Swagger docs
	"github.com/lshigami/bizcoach/internal/auth"
	adminctrl "github.com/lshigami/bizcoach/internal/controller/admin"
	userctrl "github.com/lshigami/bizcoach/internal/controller/user"
	"github.com/lshigami/bizcoach/internal/llm"
	"github.com/lshigami/bizcoach/internal/logger"
	"github.com/lshigami/bizcoach/internal/metrics"
	"github.com/lshigami/bizcoach/internal/middleware"
	"github.com/lshigami/bizcoach/internal/model"
	"github.com/lshigami/bizcoach/internal/repository"
	"github.com/lshigami/bizcoach/internal/scene"
	"github.com/lshigami/bizcoach/internal/service"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Business Communication Practice API
// @version 1.0
// @description Practice business conversations in Japanese: a fixed opening question, AI follow-up questions and feedback, with offline fallbacks.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewMetrics,
			NewTokenManager,
			scene.Default,
			llm.NewGenerator,
		),

		fx.Provide(repository.NewSessionRepository),

		// Services Layer
		fx.Provide(
			func(gen llm.Generator, catalog *scene.Catalog, m *metrics.Metrics, cfg *config.Config) service.GenerationGateway {
				return service.NewGenerationGateway(gen, catalog, m, service.GatewayOptions{
					AICount:              cfg.Practice.AICount,
					QuestionTimeout:      cfg.Practice.QuestionTimeout,
					FeedbackTimeout:      cfg.Practice.FeedbackTimeout,
					TranscriptionTimeout: cfg.Practice.TranscriptionTimeout,
					MaxAudioBytes:        cfg.Practice.MaxAudioBytes,
				})
			},
			func(gw service.GenerationGateway, m *metrics.Metrics, cfg *config.Config) service.FlowController {
				return service.NewFlowController(gw, session.AnswerLimits{
					Min:     cfg.Practice.MinAnswerLength,
					Max:     cfg.Practice.MaxAnswerLength,
					Warning: cfg.Practice.WarningAnswerLength,
				}, m)
			},
			func(m *metrics.Metrics, cfg *config.Config) *service.SessionRegistry {
				return service.NewSessionRegistry(cfg.Practice.SessionIdleTTL, m)
			},
			func(repo repository.SessionRepository, cfg *config.Config) service.HistoryService {
				return service.NewHistoryService(repo, cfg.Practice.HistoryLimit)
			},
			func(
				catalog *scene.Catalog,
				registry *service.SessionRegistry,
				flow service.FlowController,
				gw service.GenerationGateway,
				history service.HistoryService,
				m *metrics.Metrics,
				cfg *config.Config,
			) service.PracticeService {
				return service.NewPracticeService(catalog, registry, flow, gw, history, m, service.PracticeOptions{
					AICount:  cfg.Practice.AICount,
					AutoSave: cfg.Practice.AutoSave,
				})
			},
		),

		// API Controllers Layer
		fx.Provide(
			func(ps service.PracticeService, cfg *config.Config) *userctrl.PracticeController {
				return userctrl.NewPracticeController(ps, cfg.Practice.MaxAudioBytes)
			},
			userctrl.NewHistoryController,
			func(gw service.GenerationGateway, catalog *scene.Catalog, cfg *config.Config) *adminctrl.AdminController {
				return adminctrl.NewAdminController(gw, catalog, cfg.Practice.AICount)
			},
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(ValidateScenes),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartSessionJanitor),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

// NewTokenManager returns nil when no secret is configured; only anonymous
// requests are accepted then.
func NewTokenManager(cfg *config.Config) (*auth.TokenManager, error) {
	if cfg.Auth.JWTSecret == "" {
		if !cfg.Auth.AllowAnonymous {
			return nil, auth.ErrMissingSecret
		}
		log.Warn().Msg("AUTH_JWT_SECRET is not set, accepting anonymous requests only")
		return nil, nil
	}
	return auth.NewTokenManager(cfg.Auth.JWTSecret, 0)
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// ValidateScenes refuses to start with a catalog that cannot serve offline content.
func ValidateScenes(catalog *scene.Catalog, cfg *config.Config) error {
	if err := catalog.Validate(cfg.Practice.AICount); err != nil {
		log.Error().Err(err).Msg("Scene catalog validation failed")
		return err
	}
	log.Info().Int("scenes", len(catalog.All())).Msg("Scene catalog validated")
	return nil
}

func StartSessionJanitor(lc fx.Lifecycle, registry *service.SessionRegistry, cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	interval := cfg.Practice.SessionIdleTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				registry.RunJanitor(ctx, interval)
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens *auth.TokenManager,
	practiceCtrl *userctrl.PracticeController,
	historyCtrl *userctrl.HistoryController,
	adminCtrl *adminctrl.AdminController,
) {
	api := router.Group("/api/v1", middleware.Authenticate(tokens, cfg.Auth.AllowAnonymous))
	practiceCtrl.RegisterRoutes(api)
	historyCtrl.RegisterRoutes(api)
	adminCtrl.RegisterRoutes(api)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Practice API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&model.PracticeSession{}, &model.SessionAnswer{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
