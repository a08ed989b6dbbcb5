package documents

import "errors"

var (
	ErrNotFound            = errors.New("document not found")
	ErrVersionNotFound     = errors.New("version not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidStatus       = errors.New("invalid status value")
	ErrAlreadyCollaborator = errors.New("user is already a collaborator")
	ErrEmptyFile           = errors.New("uploaded file is empty")
	ErrFileTooLarge        = errors.New("uploaded file is too large")
)
