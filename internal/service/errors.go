package service

import "errors"

var (
	ErrMissingFields      = errors.New("all fields required")
	ErrInvalidFileType    = errors.New("only PDF resumes are allowed")
	ErrFileTooLarge       = errors.New("resume file too large")
	ErrMissingCredentials = errors.New("email and password required")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveQuiz       = errors.New("no active quiz")
	ErrNoSubmission       = errors.New("no previous submission")
	ErrEmptyQuestion      = errors.New("question is empty")
)
