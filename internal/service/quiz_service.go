package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/metrics"
	"github.com/lshigami/placementai/internal/model"
	"github.com/rs/zerolog/log"
)

const maxGeneratedQuestions = 10

var builtinQuiz = []model.QuizQuestion{
	{
		Question: "Which HTML element defines the title shown in the browser tab?",
		Options:  []string{"<title> (correct)", "<head>", "<meta>", "<header>"},
	},
	{
		Question: "What does CSS stand for?",
		Options:  []string{"Cascading Style Sheets (correct)", "Colorful Style Sheets", "Computer Style Sheets", "Creative Style Sheets"},
	},
	{
		Question: "Which CSS property sets the background color of an element?",
		Options:  []string{"background-color (correct)", "color", "bgcolor", "background-image"},
	},
	{
		Question: "Which JavaScript keyword declares a block-scoped variable that can be reassigned?",
		Options:  []string{"let (correct)", "var", "const", "int"},
	},
}

// BuiltinQuiz returns a fresh copy of the fixed question set.
func BuiltinQuiz() []model.QuizQuestion {
	out := make([]model.QuizQuestion, len(builtinQuiz))
	for i, q := range builtinQuiz {
		out[i] = model.QuizQuestion{Question: q.Question, Options: append([]string(nil), q.Options...)}
	}
	return out
}

type QuizService interface {
	Generate(ctx context.Context, skills string) []model.QuizQuestion
	Grade(questions []model.QuizQuestion, answers map[string]string) (*dto.QuizResult, error)
}

type quizService struct {
	llm GeminiLLMService
}

func NewQuizService(llm GeminiLLMService) QuizService {
	return &quizService{llm: llm}
}

// Generate asks the model for questions about skills and falls back to the
// built-in set when skills is empty or the response is unusable.
func (s *quizService) Generate(ctx context.Context, skills string) []model.QuizQuestion {
	skills = strings.TrimSpace(skills)
	if skills == "" {
		return BuiltinQuiz()
	}

	start := time.Now()
	raw, err := s.llm.GenerateText(ctx, buildQuizPrompt(skills))
	if err != nil {
		log.Error().Err(err).Msg("Quiz model call failed, using built-in quiz")
		metrics.ObserveAI("quiz", metrics.OutcomeFallback, time.Since(start))
		return BuiltinQuiz()
	}
	questions, err := ParseQuiz(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Quiz response unusable, using built-in quiz")
		metrics.ObserveAI("quiz", metrics.OutcomeFallback, time.Since(start))
		return BuiltinQuiz()
	}
	metrics.ObserveAI("quiz", metrics.OutcomeSuccess, time.Since(start))
	return questions
}

// Grade compares answers keyed q0..qN against questions. Score is the
// truncated percentage of correct answers.
func (s *quizService) Grade(questions []model.QuizQuestion, answers map[string]string) (*dto.QuizResult, error) {
	if len(questions) == 0 {
		return nil, ErrNoActiveQuiz
	}

	result := &dto.QuizResult{Total: len(questions)}
	for i, q := range questions {
		answer := strings.TrimSpace(answers[QuestionField(i)])
		correct, _ := q.CorrectOption()
		ok := answer != "" && answer == correct
		if ok {
			result.Correct++
		}
		result.Results = append(result.Results, dto.QuestionResult{
			Question:      q.Question,
			UserAnswer:    answer,
			CorrectAnswer: correct,
			IsCorrect:     ok,
		})
	}
	result.Score = result.Correct * 100 / result.Total
	return result, nil
}

// QuestionField is the form field name for question i.
func QuestionField(i int) string {
	return fmt.Sprintf("q%d", i)
}

// QuizViews prepares questions for display, hiding the correct marker.
func QuizViews(questions []model.QuizQuestion) []dto.QuizQuestionView {
	views := make([]dto.QuizQuestionView, len(questions))
	for i, q := range questions {
		views[i] = dto.QuizQuestionView{
			Index:    i + 1,
			Field:    QuestionField(i),
			Question: q.Question,
			Options:  q.DisplayOptions(),
		}
	}
	return views
}

// ParseQuiz extracts a JSON array of questions from model output.
func ParseQuiz(raw string) ([]model.QuizQuestion, error) {
	t := stripFences(raw)
	start, end := strings.Index(t, "["), strings.LastIndex(t, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON array in quiz response")
	}

	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(t[start:end+1]), &questions); err != nil {
		return nil, fmt.Errorf("invalid quiz JSON: %w", err)
	}
	if len(questions) == 0 || len(questions) > maxGeneratedQuestions {
		return nil, fmt.Errorf("quiz has %d questions", len(questions))
	}
	for i, q := range questions {
		if !q.Valid() {
			return nil, fmt.Errorf("quiz question %d is malformed", i)
		}
	}
	return questions, nil
}

func buildQuizPrompt(skills string) string {
	return fmt.Sprintf(`You are creating a short skills assessment for a job candidate.
Candidate skills: %s

Write 4 to 5 multiple-choice questions that test these skills.
Each question must have exactly 4 options. Append the text "%s" to the one correct option.
Respond with only a JSON array, for example:
[{"question": "...", "options": ["A %s", "B", "C", "D"]}]
`, skills, model.CorrectMarker, model.CorrectMarker)
}
