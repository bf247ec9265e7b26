package model

import "strings"

// CorrectMarker tags the right option inside a question's option list.
const CorrectMarker = "(correct)"

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// StripMarker removes the correct marker from an option.
func StripMarker(option string) string {
	return strings.TrimSpace(strings.ReplaceAll(option, CorrectMarker, ""))
}

// CorrectOption returns the marked option with the marker stripped.
func (q QuizQuestion) CorrectOption() (string, bool) {
	for _, opt := range q.Options {
		if strings.Contains(opt, CorrectMarker) {
			return StripMarker(opt), true
		}
	}
	return "", false
}

// DisplayOptions returns the options as they should be shown to a candidate.
func (q QuizQuestion) DisplayOptions() []string {
	out := make([]string, len(q.Options))
	for i, opt := range q.Options {
		out[i] = StripMarker(opt)
	}
	return out
}

// Valid reports whether the question has text, at least two options and
// exactly one marked option.
func (q QuizQuestion) Valid() bool {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 {
		return false
	}
	marked := 0
	for _, opt := range q.Options {
		if strings.Contains(opt, CorrectMarker) {
			marked++
		}
		if StripMarker(opt) == "" {
			return false
		}
	}
	return marked == 1
}
