package util

import "errors"

var (
	ErrUserNotFound               = errors.New("user not found")
	ErrEmailRegistered            = errors.New("email already registered")
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrAccountDisabled            = errors.New("account disabled")
	ErrPermissionDenied           = errors.New("permission denied")
	ErrInvalidAnswers             = errors.New("answers must be a JSON object of strings, numbers, booleans or string lists")
	ErrSubmissionNotFound         = errors.New("submission not found")
	ErrSubmissionAlreadySubmitted = errors.New("submission already submitted")
	ErrSubmissionNotSubmitted     = errors.New("submission not submitted")
	ErrFollowupNotFound           = errors.New("follow-up assessment not found")
	ErrFollowupAlreadyCompleted   = errors.New("follow-up assessment already completed")
	ErrWorksheetNotFound          = errors.New("worksheet not found")
	ErrNotAFollowup               = errors.New("worksheet is not a follow-up worksheet")
	// ErrDiagnosisGenerationFailed hides the cause of a failed model call.
	ErrDiagnosisGenerationFailed = errors.New("diagnosis generation failed")
	ErrGenerationInProgress      = errors.New("diagnosis generation already in progress")
)
