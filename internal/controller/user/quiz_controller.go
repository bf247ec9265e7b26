package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/internal/controller"
	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/service"
	"github.com/lshigami/placementai/internal/session"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService   service.QuizService
	resumeService service.ResumeService
}

func NewQuizController(qs service.QuizService, rs service.ResumeService) *QuizController {
	return &QuizController{quizService: qs, resumeService: rs}
}

// StartQuiz handles GET /quiz. The new question set replaces any earlier one
// in the session.
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	var q dto.QuizQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		log.Warn().Err(err).Msg("StartQuiz: failed to bind query")
	}

	st := session.FromContext(ctx)
	skills := q.Skills
	if skills == "" {
		latest, err := c.resumeService.LatestForEmail(ctx.Request.Context(), st.UserEmail)
		if err == nil {
			skills = latest.Skills
		} else if !errors.Is(err, service.ErrNoSubmission) {
			log.Warn().Err(err).Msg("StartQuiz: could not load latest submission")
		}
	}

	questions := c.quizService.Generate(ctx.Request.Context(), skills)
	st.Quiz = questions
	controller.Render(ctx, http.StatusOK, "quiz.html", gin.H{
		"Title":     "Quiz",
		"Questions": service.QuizViews(questions),
	})
}

// SubmitQuiz handles POST /quiz and clears the quiz once graded.
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	st := session.FromContext(ctx)
	if err := ctx.Request.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("SubmitQuiz: failed to parse form")
	}

	answers := make(map[string]string, len(st.Quiz))
	for i := range st.Quiz {
		field := service.QuestionField(i)
		answers[field] = ctx.PostForm(field)
	}

	result, err := c.quizService.Grade(st.Quiz, answers)
	if errors.Is(err, service.ErrNoActiveQuiz) {
		controller.RedirectWithFlash(ctx, session.FlashWarning, "Quiz session expired. Please try again.", "/quiz")
		return
	}
	if err != nil {
		controller.RenderError(ctx, err, "SubmitQuiz: grading failed")
		return
	}

	st.Quiz = nil
	log.Info().Str("email", st.UserEmail).Int("score", result.Score).Msg("Quiz graded")
	controller.Render(ctx, http.StatusOK, "quiz_result.html", gin.H{"Title": "Quiz results", "Quiz": result})
}
