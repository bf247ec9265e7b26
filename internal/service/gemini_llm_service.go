package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/placementai/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var ErrEmptyModelResponse = errors.New("model returned no text")

// GeminiLLMService sends a single text prompt and returns the model's text.
type GeminiLLMService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiLLMService struct {
	client  *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Gemini.Model)
	log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini client initialized")
	return &geminiLLMService{client: model, timeout: cfg.Gemini.Timeout}, nil
}

func (s *geminiLLMService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", ErrEmptyModelResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyModelResponse
	}
	return text, nil
}
