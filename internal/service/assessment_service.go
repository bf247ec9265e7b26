package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lshigami/placementai/internal/metrics"
	"github.com/rs/zerolog/log"
)

// maxResumeContext caps how much extracted resume text goes into the prompt.
const maxResumeContext = 6000

type AssessmentService interface {
	Assess(ctx context.Context, skills, resumeText string) AssessmentOutcome
}

type assessmentService struct {
	llm GeminiLLMService
}

func NewAssessmentService(llm GeminiLLMService) AssessmentService {
	return &assessmentService{llm: llm}
}

func (s *assessmentService) Assess(ctx context.Context, skills, resumeText string) AssessmentOutcome {
	start := time.Now()
	raw, err := s.llm.GenerateText(ctx, buildAssessmentPrompt(skills, resumeText))
	if err != nil {
		log.Error().Err(err).Msg("Assessment model call failed")
		metrics.ObserveAI("assessment", metrics.OutcomeFallback, time.Since(start))
		return FallbackAssessment(err)
	}

	outcome := ParseAssessment(raw)
	if outcome.Fallback {
		log.Warn().Str("reason", outcome.Reason).Msg("Assessment response could not be parsed")
		metrics.ObserveAI("assessment", metrics.OutcomeFallback, time.Since(start))
		return outcome
	}
	metrics.ObserveAI("assessment", metrics.OutcomeSuccess, time.Since(start))
	return outcome
}

func buildAssessmentPrompt(skills, resumeText string) string {
	var b strings.Builder
	b.WriteString("You are an expert technical recruiter and career coach.\n")
	b.WriteString("Evaluate the candidate's employability from the skills they listed")
	if strings.TrimSpace(resumeText) != "" {
		b.WriteString(" and the resume excerpt below")
	}
	b.WriteString(".\n\n")
	fmt.Fprintf(&b, "Skills: %s\n", skills)
	if resumeText = strings.TrimSpace(resumeText); resumeText != "" {
		resumeText = truncateUTF8(resumeText, maxResumeContext)
		b.WriteString("\nResume excerpt:\n---\n")
		b.WriteString(resumeText)
		b.WriteString("\n---\n")
	}
	b.WriteString(`
Respond with only a JSON object with these keys:
  "score": integer from 0 to 100,
  "best_role": the job role that fits best,
  "missing_skills": list of 3 to 8 skills the candidate should learn next,
  "suggestions": short paragraph of concrete advice.
`)
	return b.String()
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
