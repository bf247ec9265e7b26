package service

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAssessmentFencedJSON(t *testing.T) {
	raw := "```json\n{\"score\": 77, \"best_role\": \"Backend Engineer\", \"missing_skills\": \"SQL, Docker\", \"suggestions\": \"Learn SQL\"}\n```"
	out := ParseAssessment(raw)
	if out.Fallback {
		t.Fatalf("unexpected fallback: %s", out.Reason)
	}
	a := out.Assessment
	if a.Score != 77 || a.BestRole != "Backend Engineer" || a.Suggestions != "Learn SQL" {
		t.Fatalf("assessment = %+v", a)
	}
	if got := a.JoinedMissingSkills(); got != "SQL, Docker" {
		t.Fatalf("missing skills = %q", got)
	}
	if a.RawFeedback != raw {
		t.Fatal("raw feedback must be the unmodified model text")
	}
}

func TestParseAssessmentDefaults(t *testing.T) {
	out := ParseAssessment(`{}`)
	if out.Fallback {
		t.Fatalf("unexpected fallback: %s", out.Reason)
	}
	a := out.Assessment
	if a.Score != DefaultScore || a.BestRole != DefaultBestRole || a.Suggestions != DefaultSuggestions || len(a.MissingSkills) != 0 {
		t.Fatalf("defaults not applied: %+v", a)
	}
}

func TestParseAssessmentSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the evaluation:\n{\"score\": \"64.8\", \"missing_skills\": [\"Go\", \" \", \"gRPC\"]}\nGood luck."
	a := ParseAssessment(raw).Assessment
	if a.Score != 64 {
		t.Fatalf("score = %d, want 64", a.Score)
	}
	if len(a.MissingSkills) != 2 || a.MissingSkills[1] != "gRPC" {
		t.Fatalf("missing skills = %v", a.MissingSkills)
	}
}

func TestParseAssessmentNestedObject(t *testing.T) {
	raw := `{"score": 88, "best_role": "SRE", "meta": {"confidence": "high"}, "suggestions": "Automate"}`
	out := ParseAssessment(raw)
	if out.Fallback {
		t.Fatalf("nested object should parse: %s", out.Reason)
	}
	if out.Assessment.Score != 88 || out.Assessment.BestRole != "SRE" {
		t.Fatalf("assessment = %+v", out.Assessment)
	}
}

func TestParseAssessmentClampsAndHandlesBadScore(t *testing.T) {
	cases := map[string]int{
		`{"score": 150}`:    100,
		`{"score": -3}`:     0,
		`{"score": "high"}`: DefaultScore,
		`{"score": null}`:   DefaultScore,
	}
	for raw, want := range cases {
		if got := ParseAssessment(raw).Assessment.Score; got != want {
			t.Errorf("ParseAssessment(%s).Score = %d, want %d", raw, got, want)
		}
	}
}

func TestParseAssessmentFallback(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", "{not json}"} {
		out := ParseAssessment(raw)
		if !out.Fallback {
			t.Fatalf("ParseAssessment(%q) should fall back", raw)
		}
		a := out.Assessment
		if a.Score != 50 || a.BestRole != FallbackBestRole || len(a.MissingSkills) != 0 {
			t.Fatalf("fallback assessment = %+v", a)
		}
		if !strings.HasPrefix(a.Suggestions, "AI Error: ") || a.RawFeedback != a.Suggestions {
			t.Fatalf("fallback text = %q / %q", a.Suggestions, a.RawFeedback)
		}
	}
}

func TestFallbackAssessmentCarriesReason(t *testing.T) {
	out := FallbackAssessment(errors.New("quota exceeded"))
	if out.Reason != "quota exceeded" || out.Assessment.Suggestions != "AI Error: quota exceeded" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestCleanToJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"no braces here":          "no braces here",
		`x {"a":1} {"b":2}`:       `{"a":1}`,
	}
	for in, want := range cases {
		if got := CleanToJSON(in); got != want {
			t.Errorf("CleanToJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
