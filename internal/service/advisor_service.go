package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/placementai/internal/metrics"
	"github.com/lshigami/placementai/internal/model"
	"github.com/rs/zerolog/log"
)

const AdvisorFallbackAnswer = "Sorry, I couldn't get an AI answer right now. Please try again later."

type AdvisorService interface {
	Ask(ctx context.Context, question string, profile *model.Submission) string
}

type advisorService struct {
	llm GeminiLLMService
}

func NewAdvisorService(llm GeminiLLMService) AdvisorService {
	return &advisorService{llm: llm}
}

// Ask returns the model's answer, or a fixed apology when the call fails.
func (s *advisorService) Ask(ctx context.Context, question string, profile *model.Submission) string {
	start := time.Now()
	answer, err := s.llm.GenerateText(ctx, buildAdvisorPrompt(question, profile))
	if err != nil {
		log.Error().Err(err).Msg("Advisor model call failed")
		metrics.ObserveAI("advisor", metrics.OutcomeFallback, time.Since(start))
		return AdvisorFallbackAnswer
	}
	metrics.ObserveAI("advisor", metrics.OutcomeSuccess, time.Since(start))
	return answer
}

func buildAdvisorPrompt(question string, profile *model.Submission) string {
	var b strings.Builder
	b.WriteString("You are a friendly, practical career advisor for early-career tech candidates.\n")
	if profile != nil {
		fmt.Fprintf(&b, "Candidate skills: %s\n", profile.Skills)
		fmt.Fprintf(&b, "Suggested role: %s\n", profile.BestRole)
		if profile.MissingSkills != "" {
			fmt.Fprintf(&b, "Skills to improve: %s\n", profile.MissingSkills)
		}
	}
	fmt.Fprintf(&b, "\nUser question: %s\n\nAnswer concisely in a few short paragraphs or bullet points.", question)
	return b.String()
}
