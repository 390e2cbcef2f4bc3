package domain

import "errors"

var (
	// ErrInvalidUsername is returned when a blank or empty username is submitted.
	ErrInvalidUsername = errors.New("username cannot be empty")
	// ErrUserNotFound is returned when no session exists for a username.
	ErrUserNotFound = errors.New("user session not found")
	// ErrQuestionNotFound indicates a question ID is not in the dataset.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidAnswerLabel indicates a submitted answer is not one of A-D.
	ErrInvalidAnswerLabel = errors.New("invalid answer format, must be A, B, C, or D")
	// ErrNoQuestions indicates the dataset is empty or was never loaded.
	ErrNoQuestions = errors.New("no questions available")
)
