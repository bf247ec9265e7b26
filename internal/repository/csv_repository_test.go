package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/lshigami/placementai/internal/model"
)

func TestCSVAccountRepositoryCreatesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "users.csv")
	if _, err := NewCSVAccountRepository(path); err != nil {
		t.Fatalf("new repo: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.TrimSpace(string(b)); got != "Email,Password,IsAdmin" {
		t.Fatalf("header = %q", got)
	}
}

func TestCSVAccountRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCSVAccountRepository(filepath.Join(t.TempDir(), "users.csv"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	if err := repo.Create(ctx, &model.Account{Email: "a@x.com", PasswordHash: "h1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err = repo.Create(ctx, &model.Account{Email: "a@x.com", PasswordHash: "h2"})
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("second create err = %v, want ErrAccountExists", err)
	}

	accounts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 1 || accounts[0].PasswordHash != "h1" {
		t.Fatalf("accounts = %+v", accounts)
	}
}

func TestCSVAccountRepositoryFindByEmail(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCSVAccountRepository(filepath.Join(t.TempDir(), "users.csv"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.Create(ctx, &model.Account{Email: "root@x.com", PasswordHash: "h", IsAdmin: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByEmail(ctx, "root@x.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.IsAdmin {
		t.Fatal("expected admin flag to round-trip")
	}
	if _, err := repo.FindByEmail(ctx, "ROOT@x.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("case-different lookup err = %v", err)
	}
}

func TestCSVAccountRepositoryConcurrentCreateKeepsEmailsUnique(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCSVAccountRepository(filepath.Join(t.TempDir(), "users.csv"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Create(ctx, &model.Account{Email: fmt.Sprintf("u%d@x.com", i%5), PasswordHash: "h"})
		}(i)
	}
	wg.Wait()

	accounts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 5 {
		t.Fatalf("got %d accounts, want 5", len(accounts))
	}
}

func TestCSVSubmissionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCSVSubmissionRepository(filepath.Join(t.TempDir(), "submissions.csv"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	sub := &model.Submission{
		Name: "Ann", Email: "ann@x.com", Skills: "Go, SQL", Filename: "cv.pdf", Score: 77,
		BestRole: "Backend Engineer", MissingSkills: "Docker, Kubernetes",
		Suggestions: "Ship, then \"measure\"", AIFeedback: "line one\nline two",
	}
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("create: %v", err)
	}

	subs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions", len(subs))
	}
	got := subs[0]
	if got.Score != 77 || got.Skills != "Go, SQL" || got.AIFeedback != "line one\nline two" || got.Suggestions != sub.Suggestions {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if skills := got.MissingSkillList(); len(skills) != 2 || skills[1] != "Kubernetes" {
		t.Fatalf("missing skills = %v", skills)
	}
}

func TestCSVSubmissionRepositoryCoercesBadScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	content := "Name,Email,Skills,Filename,Score,BestRole,MissingSkills,Suggestions,AIFeedback\n" +
		"A,a@x.com,go,a.pdf,abc,R,,,\n" +
		"B,b@x.com,go,b.pdf,81.9,R,,,\n" +
		"C,c@x.com,go,c.pdf,,R,,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo, err := NewCSVSubmissionRepository(path)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	subs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int{0, 81, 0}
	for i, s := range subs {
		if s.Score != want[i] {
			t.Fatalf("row %d score = %d, want %d", i, s.Score, want[i])
		}
	}
}

func TestParseScore(t *testing.T) {
	cases := map[string]int{"90": 90, " 42 ": 42, "12.7": 12, "NaN": 0, "x": 0, "": 0}
	for in, want := range cases {
		if got := ParseScore(in); got != want {
			t.Errorf("ParseScore(%q) = %d, want %d", in, got, want)
		}
	}
}
