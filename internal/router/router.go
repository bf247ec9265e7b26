package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/config"
	"github.com/lshigami/placementai/internal/controller"
	adminctrl "github.com/lshigami/placementai/internal/controller/admin"
	userctrl "github.com/lshigami/placementai/internal/controller/user"
	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/metrics"
	"github.com/lshigami/placementai/internal/middleware"
	"github.com/lshigami/placementai/internal/session"
	"github.com/lshigami/placementai/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func NewGinEngine(cfg *config.Config) (*gin.Engine, error) {
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
	r.Use(metrics.GinMiddleware())

	origins := cfg.Server.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = cfg.Resume.MaxUploadBytes + 1<<20

	return r, nil
}

// RegisterRoutes mounts the operational endpoints and the session-backed pages.
func RegisterRoutes(
	r *gin.Engine,
	sessions *session.Manager,
	authCtrl *controller.AuthController,
	candidateCtrl *userctrl.CandidateController,
	quizCtrl *userctrl.QuizController,
	adminCtrl *adminctrl.AdminSubmissionController,
) {
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("/", sessions.Middleware())
	{
		app.GET("/", authCtrl.Home)
		app.GET("/signup", authCtrl.SignupPage)
		app.POST("/signup", authCtrl.Signup)
		app.GET("/login", authCtrl.LoginPage)
		app.POST("/login", authCtrl.Login)
		app.GET("/logout", authCtrl.Logout)

		app.GET("/upload", middleware.RequireLogin("Please login to upload resume"), candidateCtrl.UploadPage)
		app.POST("/upload", middleware.RequireLogin("Please login to upload resume"), candidateCtrl.Upload)
		app.POST("/ask", middleware.RequireLogin("Please login to continue."), candidateCtrl.Ask)

		app.GET("/quiz", middleware.RequireLogin("Please login to take the quiz"), quizCtrl.StartQuiz)
		app.POST("/quiz", middleware.RequireLogin("Please login to take the quiz"), quizCtrl.SubmitQuiz)

		app.GET("/admin", middleware.RequireAdmin(), adminCtrl.ListSubmissions)

		app.GET("/resumes/:filename", candidateCtrl.ServeResume)
	}
}
