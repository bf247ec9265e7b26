package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAssessmentPromptKeepsValidUTF8AtCut(t *testing.T) {
	for _, r := range []string{"é", "•", "😀"} {
		resume := strings.Repeat("a", maxResumeContext-1) + r + " and more"
		prompt := buildAssessmentPrompt("Go", resume)
		if !utf8.ValidString(prompt) {
			t.Fatalf("prompt with %q at the cut is not valid UTF-8", r)
		}
		if strings.Contains(prompt, "and more") {
			t.Fatalf("resume text past the limit should be dropped")
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	cases := map[string]struct {
		in   string
		n    int
		want string
	}{
		"short":         {in: "abc", n: 5, want: "abc"},
		"ascii cut":     {in: "abcdef", n: 3, want: "abc"},
		"inside rune":   {in: "ab•cd", n: 3, want: "ab"},
		"rune boundary": {in: "ab•cd", n: 5, want: "ab•"},
	}
	for name, tc := range cases {
		if got := truncateUTF8(tc.in, tc.n); got != tc.want {
			t.Errorf("%s: truncateUTF8(%q, %d) = %q, want %q", name, tc.in, tc.n, got, tc.want)
		}
	}
}

func TestAssessSendsTruncatedResume(t *testing.T) {
	llm := &fakeLLM{reply: `{"score": 70, "best_role": "Backend Engineer"}`}
	resume := strings.Repeat("x", maxResumeContext-1) + "é"

	outcome := NewAssessmentService(llm).Assess(context.Background(), "Go", resume)
	if outcome.Fallback {
		t.Fatalf("unexpected fallback: %s", outcome.Reason)
	}
	if !utf8.ValidString(llm.prompts[0]) {
		t.Fatal("prompt sent to the model is not valid UTF-8")
	}
}
