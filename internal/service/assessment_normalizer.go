package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lshigami/placementai/internal/model"
)

const (
	DefaultScore       = 50
	DefaultBestRole    = "Generalist"
	DefaultSuggestions = "Strengthen fundamentals and build portfolio projects."
	FallbackBestRole   = "AI Processing Failed"
	aiErrorPrefix      = "AI Error: "
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*?\}`)

// AssessmentOutcome is the result of normalising a model response. When
// Fallback is set, Reason says why the response could not be used.
type AssessmentOutcome struct {
	Assessment model.Assessment
	Fallback   bool
	Reason     string
}

// CleanToJSON strips code fences and returns the first brace-delimited
// object in text, or the stripped text when there is none.
func CleanToJSON(text string) string {
	t := stripFences(text)
	if m := jsonObjectPattern.FindString(t); m != "" {
		return m
	}
	return t
}

func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimSpace(strings.Trim(t, "`"))
		if strings.HasPrefix(strings.ToLower(t), "json") {
			t = strings.TrimSpace(t[len("json"):])
		}
	}
	return t
}

// ParseAssessment maps free-form model output onto the assessment schema.
// It never fails: unusable input yields a fallback outcome.
func ParseAssessment(raw string) AssessmentOutcome {
	data, err := decodeObject(raw)
	if err != nil {
		return FallbackAssessment(err)
	}
	return AssessmentOutcome{
		Assessment: model.Assessment{
			Score:         scoreField(data["score"]),
			BestRole:      stringField(data["best_role"], DefaultBestRole),
			MissingSkills: skillsField(data["missing_skills"]),
			Suggestions:   stringField(data["suggestions"], DefaultSuggestions),
			RawFeedback:   raw,
		},
	}
}

// FallbackAssessment is the outcome used when the model call or parsing fails.
func FallbackAssessment(cause error) AssessmentOutcome {
	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
	}
	msg := aiErrorPrefix + reason
	return AssessmentOutcome{
		Assessment: model.Assessment{
			Score:       DefaultScore,
			BestRole:    FallbackBestRole,
			Suggestions: msg,
			RawFeedback: msg,
		},
		Fallback: true,
		Reason:   reason,
	}
}

func decodeObject(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty model response")
	}
	var data map[string]any
	firstErr := json.Unmarshal([]byte(CleanToJSON(raw)), &data)
	if firstErr == nil {
		return data, nil
	}

	// Nested objects defeat the non-greedy match; retry with the widest span.
	t := stripFences(raw)
	start, end := strings.Index(t, "{"), strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(t[start:end+1]), &data); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("invalid JSON in model response: %w", firstErr)
}

func scoreField(v any) int {
	var score int
	switch s := v.(type) {
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return DefaultScore
		}
		score = int(s)
	case string:
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			score = n
		} else if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			score = int(f)
		} else {
			return DefaultScore
		}
	default:
		return DefaultScore
	}
	return min(max(score, 0), 100)
}

func stringField(v any, def string) string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return def
}

func skillsField(v any) []string {
	var out []string
	switch s := v.(type) {
	case []any:
		for _, item := range s {
			var skill string
			switch it := item.(type) {
			case string:
				skill = strings.TrimSpace(it)
			case float64, bool:
				skill = fmt.Sprint(it)
			}
			if skill != "" {
				out = append(out, skill)
			}
		}
	case string:
		for _, skill := range strings.Split(s, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				out = append(out, skill)
			}
		}
	}
	return out
}
