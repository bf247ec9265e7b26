package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/config"
	"github.com/lshigami/placementai/database"
	"github.com/lshigami/placementai/internal/controller"
	adminctrl "github.com/lshigami/placementai/internal/controller/admin"
	userctrl "github.com/lshigami/placementai/internal/controller/user"
	"github.com/lshigami/placementai/internal/logger"
	"github.com/lshigami/placementai/internal/repository"
	"github.com/lshigami/placementai/internal/router"
	"github.com/lshigami/placementai/internal/service"
	"github.com/lshigami/placementai/internal/session"
	"github.com/lshigami/placementai/internal/storage"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // nil *gorm.DB for the csv store
			router.NewGinEngine,
			storage.NewResumeStore,
			NewSessionStore,
			NewSessionManager,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewAccountRepository,
			repository.NewSubmissionRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewGeminiLLMService,
			service.NewAssessmentService,
			service.NewResumeTextExtractor,
			func(
				subs repository.SubmissionRepository,
				store storage.ResumeStore,
				extractor service.ResumeTextExtractor,
				assessor service.AssessmentService,
				cfg *config.Config,
			) service.ResumeService {
				return service.NewResumeService(subs, store, extractor, assessor, cfg.Resume.MaxUploadBytes)
			},
			service.NewQuizService,
			service.NewAuthService,
			service.NewAdminService,
			service.NewAdvisorService,
		),

		// Controllers Layer
		fx.Provide(
			controller.NewAuthController,
			func(rs service.ResumeService, as service.AdvisorService, cfg *config.Config) *userctrl.CandidateController {
				return userctrl.NewCandidateController(rs, as, cfg.Resume.MaxUploadBytes)
			},
			userctrl.NewQuizController,
			adminctrl.NewAdminSubmissionController,
		),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(SeedAdmin),
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

func ConfigureLogger(cfg *config.Config) {
	logger.Configure(cfg.Log.Level, cfg.Log.Pretty)
}

// NewSessionStore opens the bbolt session file, sweeps expired sessions on
// start and closes the file on stop.
func NewSessionStore(lc fx.Lifecycle, cfg *config.Config) (*session.BoltStore, error) {
	store, err := session.NewBoltStore(cfg.Session.DBPath)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Session.TTL <= 0 {
				return nil
			}
			n, err := store.DeleteExpired(time.Now().Add(-cfg.Session.TTL))
			if err != nil {
				log.Warn().Err(err).Msg("Failed to sweep expired sessions")
				return nil
			}
			log.Info().Int("removed", n).Msg("Expired sessions swept")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func NewSessionManager(store *session.BoltStore, cfg *config.Config) *session.Manager {
	return session.NewManager(store, cfg.Session)
}

func SeedAdmin(authService service.AuthService, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Error().Err(err).Msg("Admin seeding failed")
		return err
	}
	return nil
}

// RegisterRoutesAndStartServer configures routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Config,
	sessions *session.Manager,
	authCtrl *controller.AuthController,
	candidateCtrl *userctrl.CandidateController,
	quizCtrl *userctrl.QuizController,
	adminCtrl *adminctrl.AdminSubmissionController,
) {
	router.RegisterRoutes(r, sessions, authCtrl, candidateCtrl, quizCtrl, adminCtrl)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Placement AI server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
