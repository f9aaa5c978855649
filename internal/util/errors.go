package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("record not found")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrInvalidTimeRange   = errors.New("event end time precedes start time")

	ErrSessionClosed   = errors.New("attendance session is closed")
	ErrNoRecords       = errors.New("no attendance records supplied")
	ErrInvalidStatus   = errors.New("invalid attendance status")
	ErrChallengeHidden = errors.New("challenge not published")
	ErrAttemptsUsedUp  = errors.New("maximum attempts reached")
	ErrInvalidSetting  = errors.New("setting value must be valid JSON")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEmptyCode       = errors.New("code is required")
	ErrArenaDisabled   = errors.New("challenge arena is disabled")
	ErrUnknownTeacher  = errors.New("teacher does not exist")
	ErrAccountDisabled = errors.New("account disabled")
	ErrInvalidRole     = errors.New("invalid role")
	ErrSelfLockout     = errors.New("cannot lock out your own admin account")
)
