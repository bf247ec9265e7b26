package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/model"
	"github.com/lshigami/placementai/internal/repository"
	"github.com/lshigami/placementai/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	allowedResumeExt  = ".pdf"
	defaultResumeName = "resume.pdf"
)

type ResumeSubmission struct {
	Name     string
	Email    string
	Skills   string
	Filename string
	Data     []byte
}

type ResumeService interface {
	Submit(ctx context.Context, in ResumeSubmission) (*dto.AssessmentView, error)
	LatestForEmail(ctx context.Context, email string) (*model.Submission, error)
	OpenResume(ctx context.Context, filename string) (io.ReadCloser, int64, error)
}

type resumeService struct {
	submissions repository.SubmissionRepository
	store       storage.ResumeStore
	extractor   ResumeTextExtractor
	assessor    AssessmentService
	maxBytes    int64
}

func NewResumeService(
	submissions repository.SubmissionRepository,
	store storage.ResumeStore,
	extractor ResumeTextExtractor,
	assessor AssessmentService,
	maxBytes int64,
) ResumeService {
	return &resumeService{
		submissions: submissions,
		store:       store,
		extractor:   extractor,
		assessor:    assessor,
		maxBytes:    maxBytes,
	}
}

// ValidateResumeFilename reports whether filename has an allowed extension.
func ValidateResumeFilename(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == allowedResumeExt
}

func (s *resumeService) Submit(ctx context.Context, in ResumeSubmission) (*dto.AssessmentView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Skills = strings.TrimSpace(in.Skills)
	if in.Name == "" || in.Email == "" || in.Skills == "" || in.Filename == "" || len(in.Data) == 0 {
		return nil, ErrMissingFields
	}
	if !ValidateResumeFilename(in.Filename) {
		return nil, ErrInvalidFileType
	}
	if s.maxBytes > 0 && int64(len(in.Data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	resumeText, err := s.extractor.ExtractText(in.Data)
	if err != nil {
		log.Warn().Err(err).Str("filename", in.Filename).Msg("Could not extract resume text, assessing on skills only")
	}

	stored, err := s.store.Save(ctx, safeResumeName(in.Filename), in.Data)
	if err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}

	outcome := s.assessor.Assess(ctx, in.Skills, resumeText)
	a := outcome.Assessment

	sub := &model.Submission{
		Name:          in.Name,
		Email:         in.Email,
		Skills:        in.Skills,
		Filename:      stored,
		Score:         a.Score,
		BestRole:      a.BestRole,
		MissingSkills: a.JoinedMissingSkills(),
		Suggestions:   a.Suggestions,
		AIFeedback:    a.RawFeedback,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		log.Error().Err(err).Str("filename", stored).Msg("Failed to record submission; resume file kept")
		return nil, fmt.Errorf("record submission: %w", err)
	}
	log.Info().Str("email", sub.Email).Str("filename", stored).Int("score", sub.Score).
		Bool("fallback", outcome.Fallback).Msg("Resume assessed")

	view, err := NewAssessmentView(sub)
	if err != nil {
		return nil, err
	}
	view.Fallback = outcome.Fallback
	return view, nil
}

// LatestForEmail returns the last stored submission for email.
func (s *resumeService) LatestForEmail(ctx context.Context, email string) (*model.Submission, error) {
	subs, err := s.submissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	for i := len(subs) - 1; i >= 0; i-- {
		if subs[i].Email == email {
			return &subs[i], nil
		}
	}
	return nil, ErrNoSubmission
}

func (s *resumeService) OpenResume(ctx context.Context, filename string) (io.ReadCloser, int64, error) {
	return s.store.Open(ctx, filename)
}

// NewAssessmentView maps a stored submission onto the upload page view.
func NewAssessmentView(sub *model.Submission) (*dto.AssessmentView, error) {
	var view dto.AssessmentView
	if err := copier.Copy(&view, sub); err != nil {
		log.Error().Err(err).Msg("Failed to copy Submission to AssessmentView")
		return nil, fmt.Errorf("error preparing assessment view: %w", err)
	}
	view.MissingSkillList = sub.MissingSkillList()
	return &view, nil
}

func safeResumeName(filename string) string {
	name := storage.SanitizeFilename(filename)
	if !ValidateResumeFilename(name) || strings.TrimSuffix(strings.ToLower(name), allowedResumeExt) == "" {
		return defaultResumeName
	}
	return name
}
